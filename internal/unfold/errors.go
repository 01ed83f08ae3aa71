package unfold

import "fmt"

// Имена полей участка, используемые в ошибках ядра
const (
	FieldKind           = "kind"
	FieldExteriorLength = "exteriorLength"
	FieldAngle          = "angleDeg"
	FieldDirection      = "direction"
	FieldThickness      = "thickness"
	FieldInnerRadius    = "innerRadius"
	FieldKFactor        = "kFactor"
)

// RowError общий интерфейс ошибок входных данных: номер строки и поле
type RowError interface {
	error
	Row() int
	FieldName() string
	Kind() string
}

// MissingFieldError обязательное для типа участка поле отсутствует или пустое
type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("row %d: missing required field %q", e.Index, e.Field)
}

func (e *MissingFieldError) Row() int          { return e.Index }
func (e *MissingFieldError) FieldName() string { return e.Field }
func (e *MissingFieldError) Kind() string      { return "missing_field" }

// UnknownSegmentKindError тип участка не "Recto" и не "Pliegue"
type UnknownSegmentKindError struct {
	Index int
	Field string
	Value string
}

func (e *UnknownSegmentKindError) Error() string {
	return fmt.Sprintf("row %d: unknown segment kind %q in field %q", e.Index, e.Value, e.Field)
}

func (e *UnknownSegmentKindError) Row() int          { return e.Index }
func (e *UnknownSegmentKindError) FieldName() string { return e.Field }
func (e *UnknownSegmentKindError) Kind() string      { return "unknown_segment_kind" }

// InvalidDirectionError направление гиба не "Montana" и не "Valle"
type InvalidDirectionError struct {
	Index int
	Field string
	Value string
}

func (e *InvalidDirectionError) Error() string {
	return fmt.Sprintf("row %d: invalid bend direction %q in field %q", e.Index, e.Value, e.Field)
}

func (e *InvalidDirectionError) Row() int          { return e.Index }
func (e *InvalidDirectionError) FieldName() string { return e.Field }
func (e *InvalidDirectionError) Kind() string      { return "invalid_direction" }

// NumericParseError значение поля не удалось разобрать как число
type NumericParseError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("row %d: field %q: cannot parse %q as a number", e.Index, e.Field, e.Value)
}

func (e *NumericParseError) Unwrap() error     { return e.Err }
func (e *NumericParseError) Row() int          { return e.Index }
func (e *NumericParseError) FieldName() string { return e.Field }
func (e *NumericParseError) Kind() string      { return "numeric_parse" }
