package unfold

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutline_StraightLine(t *testing.T) {
	calc := NewCalculator()
	path := []Point{{0, 0}, {10, 0}, {20, 0}}

	outer, inner := calc.Outline(path, 2)

	require.Len(t, outer, 3)
	require.Len(t, inner, 3)
	for i := range path {
		assert.InDelta(t, path[i].X, outer[i].X, tolerance)
		assert.InDelta(t, 1.0, outer[i].Y, tolerance)
		assert.InDelta(t, -1.0, inner[i].Y, tolerance)
	}
}

func TestOutline_WidthEqualsThickness(t *testing.T) {
	calc := NewCalculator()
	part := NewPart(1.5, []Segment{
		Straight(40),
		Bend(90, Mountain, 2, 0.4),
		Straight(25),
		Bend(135, Valley, 3, 0.45),
		Straight(60),
	})

	result, err := calc.Unfold(part)
	require.NoError(t, err)

	for i := range result.Centerline {
		gap := math.Hypot(result.Outer[i].X-result.Inner[i].X, result.Outer[i].Y-result.Inner[i].Y)
		assert.InDelta(t, 1.5, gap, 1e-9, "index %d", i)

		// Оба контура симметричны относительно нейтральной линии
		midX := (result.Outer[i].X + result.Inner[i].X) / 2
		midY := (result.Outer[i].Y + result.Inner[i].Y) / 2
		assert.InDelta(t, result.Centerline[i].X, midX, 1e-9)
		assert.InDelta(t, result.Centerline[i].Y, midY, 1e-9)
	}
}

func TestOutline_CenteredTangent(t *testing.T) {
	calc := NewCalculator()
	// Угол 90°: в средней точке касательная направлена по диагонали
	path := []Point{{0, 0}, {10, 0}, {10, 10}}

	outer, _ := calc.Outline(path, 2)

	d := 1 / math.Sqrt2
	assert.InDelta(t, 10-d, outer[1].X, tolerance)
	assert.InDelta(t, d, outer[1].Y, tolerance)
	// Концы используют одностороннюю разность
	assert.InDelta(t, 1.0, outer[0].Y, tolerance)
	assert.InDelta(t, 9.0, outer[2].X, tolerance)
}

func TestOutline_DegeneratePoints(t *testing.T) {
	calc := NewCalculator()

	t.Run("falls back to previous tangent", func(t *testing.T) {
		path := []Point{{0, 0}, {0, 10}, {0, 10}}
		outer, inner := calc.Outline(path, 2)

		// Касательная (0,1), нормаль (-1,0)
		assert.InDelta(t, -1.0, outer[2].X, tolerance)
		assert.InDelta(t, 10.0, outer[2].Y, tolerance)
		assert.InDelta(t, 1.0, inner[2].X, tolerance)
	})

	t.Run("falls back to x axis", func(t *testing.T) {
		path := []Point{{5, 5}, {5, 5}, {5, 5}}
		outer, inner := calc.Outline(path, 4)

		for i := range path {
			assert.Equal(t, Point{X: 5, Y: 7}, outer[i])
			assert.Equal(t, Point{X: 5, Y: 3}, inner[i])
		}
	})

	t.Run("empty path", func(t *testing.T) {
		outer, inner := calc.Outline(nil, 2)
		assert.Empty(t, outer)
		assert.Empty(t, inner)
	})
}

func TestLabels(t *testing.T) {
	calc := NewCalculator()

	labels := calc.Labels([]Point{{0, 0}, {3, 4}, {3, 4.3}})

	require.Len(t, labels, 2)
	assert.Equal(t, Point{X: 1.5, Y: 2}, labels[0].Mid)
	assert.Equal(t, 5.0, labels[0].Length)
	assert.Equal(t, "5.0 mm", labels[0].Text)
	assert.Equal(t, "0.3 mm", labels[1].Text)

	assert.Empty(t, calc.Labels([]Point{{0, 0}}))
}
