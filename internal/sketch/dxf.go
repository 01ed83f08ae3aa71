package sketch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sheet-unfold-go/internal/unfold"

	"github.com/deadsy/sdfx/render"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// DXF записывает наружный и внутренний контуры, торцы и нейтральную линию
// детали в формате DXF. sdfx сохраняет чертеж только в файл, поэтому он
// собирается во временном каталоге.
func DXF(w io.Writer, g Geometry) error {
	dir, err := os.MkdirTemp("", "unfold-dxf-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "sketch.dxf")
	d := render.NewDXF(path)

	addPolyline(d, g.Outer)
	addPolyline(d, g.Inner)
	addPolyline(d, g.Centerline)

	// Торцы детали замыкают контур
	if n := len(g.Outer); n > 0 && n == len(g.Inner) {
		d.Line(toVec(g.Outer[0]), toVec(g.Inner[0]))
		d.Line(toVec(g.Outer[n-1]), toVec(g.Inner[n-1]))
	}

	if err := d.Save(); err != nil {
		return fmt.Errorf("failed to save dxf: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dxf: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write dxf: %w", err)
	}
	return nil
}

// addPolyline добавляет ломаную отрезками
func addPolyline(d *render.DXF, points []unfold.Point) {
	for i := 1; i < len(points); i++ {
		d.Line(toVec(points[i-1]), toVec(points[i]))
	}
}

func toVec(p unfold.Point) v2.Vec {
	return v2.Vec{X: p.X, Y: p.Y}
}
