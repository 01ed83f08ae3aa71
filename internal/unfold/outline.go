package unfold

import "math"

// tangentEpsilon длина касательной, ниже которой она считается нулевой
const tangentEpsilon = 1e-12

// Outline строит наружный и внутренний контуры детали, смещая каждую точку
// ломаной на половину толщины по единичной нормали.
// Оба результата имеют ту же длину, что и path.
func (c *Calculator) Outline(path []Point, thickness float64) (outer, inner []Point) {
	outer = make([]Point, len(path))
	inner = make([]Point, len(path))
	half := thickness / 2

	fallback := Point{X: 1, Y: 0}
	for i, p := range path {
		t := tangentAt(path, i)
		norm := math.Hypot(t.X, t.Y)
		if norm < tangentEpsilon {
			// Совпадающие точки: берем предыдущую корректную касательную
			t = fallback
		} else {
			t = Point{X: t.X / norm, Y: t.Y / norm}
			fallback = t
		}

		n := Point{X: -t.Y, Y: t.X}
		outer[i] = Point{X: p.X + half*n.X, Y: p.Y + half*n.Y}
		inner[i] = Point{X: p.X - half*n.X, Y: p.Y - half*n.Y}
	}

	return outer, inner
}

// tangentAt касательная в точке i: центральная разность внутри ломаной,
// односторонняя на концах
func tangentAt(path []Point, i int) Point {
	n := len(path)
	switch {
	case n < 2:
		return Point{}
	case i == 0:
		return Point{X: path[1].X - path[0].X, Y: path[1].Y - path[0].Y}
	case i == n-1:
		return Point{X: path[n-1].X - path[n-2].X, Y: path[n-1].Y - path[n-2].Y}
	default:
		return Point{
			X: (path[i+1].X - path[i-1].X) / 2,
			Y: (path[i+1].Y - path[i-1].Y) / 2,
		}
	}
}
