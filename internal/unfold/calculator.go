package unfold

import (
	"fmt"
	"math"
)

// Calculator вычисляет развертку листовой детали.
// Не хранит состояния, безопасен для одновременного использования.
type Calculator struct{}

// NewCalculator создает новый калькулятор развертки
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Label подпись участка эскиза: середина участка и его длина
type Label struct {
	Index  int     `json:"index"`
	Mid    Point   `json:"mid"`
	Length float64 `json:"length"`
	Text   string  `json:"text"`
}

// Warning признак сомнительных входных данных, не прерывающий расчет
type Warning struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// Result полный результат расчета детали
type Result struct {
	Thickness      float64
	NeutralLengths []float64
	Total          float64
	Headings       []float64 // угол направления после каждого участка, градусы
	Centerline     []Point
	Outer          []Point
	Inner          []Point
	Labels         []Label
	Warnings       []Warning
}

// BendRadius возвращает радиус нейтрального слоя гиба Rn = Ri + K*t
func BendRadius(seg Segment, thickness float64) float64 {
	return seg.InnerRadius + seg.KFactor*thickness
}

// neutralLength длина участка по нейтральному слою
func neutralLength(seg Segment, thickness float64) float64 {
	if seg.Kind == KindBend {
		return seg.AngleDeg * BendRadius(seg, thickness) * math.Pi / 180
	}
	return seg.ExteriorLength - thickness/2
}

// NeutralLengths вычисляет длины всех участков по нейтральному слою
func (c *Calculator) NeutralLengths(part Part) ([]float64, error) {
	if err := part.Validate(); err != nil {
		return nil, err
	}

	lengths := make([]float64, len(part.Segments))
	for i, seg := range part.Segments {
		lengths[i] = neutralLength(seg, part.Thickness)
	}
	return lengths, nil
}

// TotalDevelopedLength вычисляет полную длину развертки (сумма в порядке таблицы)
func (c *Calculator) TotalDevelopedLength(part Part) (float64, error) {
	lengths, err := c.NeutralLengths(part)
	if err != nil {
		return 0, err
	}
	return sum(lengths), nil
}

// Centerline строит ломаную нейтральной линии детали.
// Возвращает len(part.Segments)+1 точек, первая точка (0,0).
func (c *Calculator) Centerline(part Part) ([]Point, error) {
	lengths, err := c.NeutralLengths(part)
	if err != nil {
		return nil, err
	}
	path, _ := walk(part, lengths)
	return path, nil
}

// walk проходит участки, накапливая положение и угол направления.
// Гиб сначала смещает точку на длину дуги по текущему направлению
// и только затем поворачивает направление.
func walk(part Part, lengths []float64) ([]Point, []float64) {
	path := make([]Point, 0, len(part.Segments)+1)
	headings := make([]float64, 0, len(part.Segments))

	pos := Point{}
	heading := 0.0
	path = append(path, pos)

	for i, seg := range part.Segments {
		rad := heading * math.Pi / 180
		pos = Point{
			X: pos.X + lengths[i]*math.Cos(rad),
			Y: pos.Y + lengths[i]*math.Sin(rad),
		}
		path = append(path, pos)

		if seg.Kind == KindBend {
			heading += seg.Direction.sign() * seg.AngleDeg
		}
		headings = append(headings, heading)
	}

	return path, headings
}

// Labels вычисляет подписи участков ломаной: середина и длина хорды
func (c *Calculator) Labels(path []Point) []Label {
	if len(path) < 2 {
		return []Label{}
	}

	labels := make([]Label, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		a, b := path[i], path[i+1]
		length := math.Hypot(b.X-a.X, b.Y-a.Y)
		labels[i] = Label{
			Index:  i,
			Mid:    Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2},
			Length: length,
			Text:   fmt.Sprintf("%.1f mm", length),
		}
	}
	return labels
}

// Unfold выполняет полный расчет детали за один проход.
// При любой ошибке входных данных результат не возвращается.
func (c *Calculator) Unfold(part Part) (*Result, error) {
	lengths, err := c.NeutralLengths(part)
	if err != nil {
		return nil, err
	}

	path, headings := walk(part, lengths)
	outer, inner := c.Outline(path, part.Thickness)

	return &Result{
		Thickness:      part.Thickness,
		NeutralLengths: lengths,
		Total:          sum(lengths),
		Headings:       headings,
		Centerline:     path,
		Outer:          outer,
		Inner:          inner,
		Labels:         c.Labels(path),
		Warnings:       inspect(part, lengths),
	}, nil
}

// inspect собирает предупреждения о физически сомнительных данных
func inspect(part Part, lengths []float64) []Warning {
	warnings := []Warning{}

	if part.Thickness <= 0 {
		warnings = append(warnings, Warning{
			Index:   -1,
			Message: fmt.Sprintf("thickness %.3f mm is not positive", part.Thickness),
		})
	}

	for i, seg := range part.Segments {
		if lengths[i] < 0 {
			warnings = append(warnings, Warning{
				Index:   i,
				Message: fmt.Sprintf("negative developed length %.3f mm", lengths[i]),
			})
		}
		if seg.Kind != KindBend {
			continue
		}
		if seg.AngleDeg < 0 || seg.AngleDeg > 360 {
			warnings = append(warnings, Warning{
				Index:   i,
				Message: fmt.Sprintf("bend angle %.3f° is outside [0, 360]", seg.AngleDeg),
			})
		}
		if seg.KFactor < 0 || seg.KFactor > 1 {
			warnings = append(warnings, Warning{
				Index:   i,
				Message: fmt.Sprintf("K-factor %.3f is outside [0, 1]", seg.KFactor),
			})
		}
	}

	return warnings
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
