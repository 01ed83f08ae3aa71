// Package sketch рисует боковой вид детали по точкам, рассчитанным ядром
// развертки: PNG-эскиз с толщиной и подписями и DXF-контур для CAM.
package sketch

import (
	"fmt"
	"io"
	"math"

	"sheet-unfold-go/internal/unfold"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Title заголовок эскиза
const Title = "Vista lateral con espesor"

const (
	margin     = 48.0
	titleSize  = 16.0
	labelSize  = 11.0
	gridColor  = "#e6e6e6"
	bandColor  = "#d3d3d3"
	labelPadPx = 3.0
)

// Geometry точки, необходимые для эскиза
type Geometry struct {
	Centerline []unfold.Point
	Outer      []unfold.Point
	Inner      []unfold.Point
	Labels     []unfold.Label
}

// Renderer рисует PNG-эскиз детали
type Renderer struct {
	width  int
	height int
	font   *text.FontSource
}

// NewRenderer создает рендерер с холстом width x height пикселей
func NewRenderer(width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}

	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load label font: %w", err)
	}

	return &Renderer{
		width:  width,
		height: height,
		font:   source,
	}, nil
}

// PNG рисует эскиз и записывает его в w в формате PNG
func (r *Renderer) PNG(w io.Writer, g Geometry) error {
	dc := gg.NewContext(r.width, r.height)
	defer dc.Close()

	dc.ClearWithColor(gg.White)

	v := fitView(g, float64(r.width), float64(r.height))

	if err := r.drawGrid(dc, v); err != nil {
		return err
	}
	if err := drawBand(dc, v, g); err != nil {
		return err
	}

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1.5)
	for _, contour := range [][]unfold.Point{g.Outer, g.Inner} {
		if err := strokePolyline(dc, v, contour); err != nil {
			return err
		}
	}

	dc.SetRGB(1, 0, 0)
	dc.SetLineWidth(1)
	dc.SetDash(6, 4)
	if err := strokePolyline(dc, v, g.Centerline); err != nil {
		return err
	}
	dc.ClearDash()

	if err := r.drawLabels(dc, v, g.Labels); err != nil {
		return err
	}

	dc.SetFont(r.font.Face(titleSize))
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(Title, float64(r.width)/2, margin/2, 0.5, 0.5)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode sketch: %w", err)
	}
	return nil
}

// drawGrid рисует сетку с шагом 1-2-5 в миллиметрах
func (r *Renderer) drawGrid(dc *gg.Context, v view) error {
	step := niceStep(math.Max(v.maxX-v.minX, v.maxY-v.minY) / 10)

	left, top := margin/2, margin/2
	right, bottom := float64(r.width)-margin/2, float64(r.height)-margin/2

	dc.SetHexColor(gridColor)
	dc.SetLineWidth(1)
	for x := math.Floor(v.minX/step) * step; x <= v.maxX; x += step {
		if px, _ := v.toPixel(unfold.Point{X: x}); px >= left && px <= right {
			dc.DrawLine(px, top, px, bottom)
		}
	}
	for y := math.Floor(v.minY/step) * step; y <= v.maxY; y += step {
		if _, py := v.toPixel(unfold.Point{Y: y}); py >= top && py <= bottom {
			dc.DrawLine(left, py, right, py)
		}
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("failed to draw grid: %w", err)
	}
	return nil
}

// drawBand заливает полосу толщины между наружным и внутренним контуром
func drawBand(dc *gg.Context, v view, g Geometry) error {
	if len(g.Outer) < 2 || len(g.Outer) != len(g.Inner) {
		return nil
	}

	dc.MoveTo(v.toPixel(g.Outer[0]))
	for _, p := range g.Outer[1:] {
		dc.LineTo(v.toPixel(p))
	}
	for i := len(g.Inner) - 1; i >= 0; i-- {
		dc.LineTo(v.toPixel(g.Inner[i]))
	}
	dc.ClosePath()

	dc.SetHexColor(bandColor)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("failed to fill thickness band: %w", err)
	}
	return nil
}

// strokePolyline обводит ломаную текущим цветом
func strokePolyline(dc *gg.Context, v view, points []unfold.Point) error {
	if len(points) < 2 {
		return nil
	}

	dc.MoveTo(v.toPixel(points[0]))
	for _, p := range points[1:] {
		dc.LineTo(v.toPixel(p))
	}
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("failed to stroke polyline: %w", err)
	}
	return nil
}

// drawLabels подписывает длины участков на белой подложке
func (r *Renderer) drawLabels(dc *gg.Context, v view, labels []unfold.Label) error {
	dc.SetFont(r.font.Face(labelSize))

	for _, l := range labels {
		x, y := v.toPixel(l.Mid)
		w, h := dc.MeasureString(l.Text)

		dc.SetRGB(1, 1, 1)
		dc.DrawRectangle(x-w/2-labelPadPx, y-h/2-labelPadPx, w+2*labelPadPx, h+2*labelPadPx)
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("failed to draw label background: %w", err)
		}

		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(l.Text, x, y, 0.5, 0.5)
	}
	return nil
}
