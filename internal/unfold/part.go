package unfold

import "math"

// DefaultThickness толщина листа по умолчанию (мм), если в таблице нет столбца толщины
const DefaultThickness = 1.5

// SegmentKind тип участка детали
type SegmentKind int

const (
	// KindUnknown нулевое значение, участок не распознан
	KindUnknown SegmentKind = iota
	// KindStraight прямой участок
	KindStraight
	// KindBend гиб
	KindBend
)

// String возвращает название типа участка
func (k SegmentKind) String() string {
	switch k {
	case KindStraight:
		return "straight"
	case KindBend:
		return "bend"
	default:
		return "unknown"
	}
}

// Direction направление гиба
type Direction int

const (
	// DirectionUnknown нулевое значение, направление не задано
	DirectionUnknown Direction = iota
	// Mountain гиб "горой": угол направления увеличивается
	Mountain
	// Valley гиб "долиной": угол направления уменьшается
	Valley
)

// String возвращает название направления
func (d Direction) String() string {
	switch d {
	case Mountain:
		return "mountain"
	case Valley:
		return "valley"
	default:
		return "unknown"
	}
}

// sign знак поворота для направления гиба
func (d Direction) sign() float64 {
	if d == Valley {
		return -1
	}
	return 1
}

// Segment один участок детали (одна строка входной таблицы).
// Числовое поле со значением NaN считается незаполненным.
type Segment struct {
	Kind           SegmentKind
	ExteriorLength float64 // мм, только для прямого участка
	AngleDeg       float64 // градусы, только для гиба
	Direction      Direction
	InnerRadius    float64 // Ri, мм
	KFactor        float64
}

// Straight создает прямой участок с наружной длиной length
func Straight(length float64) Segment {
	return Segment{
		Kind:           KindStraight,
		ExteriorLength: length,
		AngleDeg:       math.NaN(),
		InnerRadius:    math.NaN(),
		KFactor:        math.NaN(),
	}
}

// Bend создает гиб
func Bend(angleDeg float64, dir Direction, innerRadius, kFactor float64) Segment {
	return Segment{
		Kind:           KindBend,
		ExteriorLength: math.NaN(),
		AngleDeg:       angleDeg,
		Direction:      dir,
		InnerRadius:    innerRadius,
		KFactor:        kFactor,
	}
}

// validate проверяет, что у участка заполнены поля, нужные для его типа
func (s Segment) validate(index int) error {
	switch s.Kind {
	case KindStraight:
		if math.IsNaN(s.ExteriorLength) {
			return &MissingFieldError{Index: index, Field: FieldExteriorLength}
		}
	case KindBend:
		if math.IsNaN(s.AngleDeg) {
			return &MissingFieldError{Index: index, Field: FieldAngle}
		}
		if s.Direction != Mountain && s.Direction != Valley {
			return &InvalidDirectionError{Index: index, Field: FieldDirection, Value: s.Direction.String()}
		}
		if math.IsNaN(s.InnerRadius) {
			return &MissingFieldError{Index: index, Field: FieldInnerRadius}
		}
		if math.IsNaN(s.KFactor) {
			return &MissingFieldError{Index: index, Field: FieldKFactor}
		}
	default:
		return &UnknownSegmentKindError{Index: index, Field: FieldKind, Value: s.Kind.String()}
	}
	return nil
}

// Part деталь целиком: толщина и упорядоченный список участков
type Part struct {
	Thickness float64
	Segments  []Segment
}

// NewPart создает деталь. Срез участков копируется, входные данные не изменяются.
func NewPart(thickness float64, segments []Segment) Part {
	copied := make([]Segment, len(segments))
	copy(copied, segments)
	return Part{
		Thickness: thickness,
		Segments:  copied,
	}
}

// Validate проверяет все участки детали и возвращает первую ошибку
func (p Part) Validate() error {
	for i, seg := range p.Segments {
		if err := seg.validate(i); err != nil {
			return err
		}
	}
	return nil
}

// Point точка на плоскости, мм
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
