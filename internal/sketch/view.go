package sketch

import (
	"math"

	"sheet-unfold-go/internal/unfold"
)

// view отображение миллиметров детали в пиксели холста с равным
// масштабом по осям и осью Y вверх
type view struct {
	minX, minY float64
	maxX, maxY float64
	scale      float64
	offsetX    float64
	offsetY    float64
	height     float64
}

// fitView подбирает масштаб так, чтобы вся деталь поместилась в холст
func fitView(g Geometry, width, height float64) view {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, points := range [][]unfold.Point{g.Centerline, g.Outer, g.Inner} {
		for _, p := range points {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		minX, minY, maxX, maxY = 0, 0, 1, 1
	}

	spanX := math.Max(maxX-minX, 1e-9)
	spanY := math.Max(maxY-minY, 1e-9)
	availW := math.Max(width-2*margin, 1)
	availH := math.Max(height-2*margin, 1)
	scale := math.Min(availW/spanX, availH/spanY)

	return view{
		minX:    minX,
		minY:    minY,
		maxX:    maxX,
		maxY:    maxY,
		scale:   scale,
		offsetX: margin + (availW-spanX*scale)/2,
		offsetY: margin + (availH-spanY*scale)/2,
		height:  height,
	}
}

// toPixel переводит точку детали в координаты холста
func (v view) toPixel(p unfold.Point) (float64, float64) {
	x := v.offsetX + (p.X-v.minX)*v.scale
	y := v.height - (v.offsetY + (p.Y-v.minY)*v.scale)
	return x, y
}

// niceStep округляет шаг сетки до ряда 1-2-5
func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(raw)))
	switch f := raw / exp; {
	case f < 1.5:
		return exp
	case f < 3.5:
		return 2 * exp
	case f < 7.5:
		return 5 * exp
	default:
		return 10 * exp
	}
}
