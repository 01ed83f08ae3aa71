package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"sheet-unfold-go/internal/unfold"
)

// ParsePart преобразует строки таблицы в деталь.
// Толщина берется из первой строки; если столбца нет или ячейка пуста,
// используется defaultThickness. Первая же ошибочная строка прерывает разбор.
func ParsePart(t *Table, defaultThickness float64) (unfold.Part, error) {
	thickness, err := parseThickness(t, defaultThickness)
	if err != nil {
		return unfold.Part{}, err
	}

	segments := make([]unfold.Segment, 0, len(t.Rows))
	for i, row := range t.Rows {
		seg, err := parseSegment(row, i)
		if err != nil {
			return unfold.Part{}, err
		}
		segments = append(segments, seg)
	}

	return unfold.NewPart(thickness, segments), nil
}

// parseThickness читает толщину из первой строки таблицы
func parseThickness(t *Table, defaultThickness float64) (float64, error) {
	if len(t.Rows) == 0 || !t.HasColumn(ColumnThickness) {
		return defaultThickness, nil
	}
	if isEmpty(t.Rows[0][ColumnThickness]) {
		return defaultThickness, nil
	}
	return numberAt(t.Rows[0], 0, ColumnThickness)
}

// parseSegment разбирает одну строку таблицы
func parseSegment(row Record, index int) (unfold.Segment, error) {
	kind, err := stringAt(row, index, ColumnKind)
	if err != nil {
		return unfold.Segment{}, err
	}

	switch kind {
	case KindStraight:
		length, err := numberAt(row, index, ColumnExteriorLength)
		if err != nil {
			return unfold.Segment{}, err
		}
		return unfold.Straight(length), nil

	case KindBend:
		angle, err := numberAt(row, index, ColumnAngle)
		if err != nil {
			return unfold.Segment{}, err
		}
		dir, err := directionAt(row, index)
		if err != nil {
			return unfold.Segment{}, err
		}
		ri, err := numberAt(row, index, ColumnInnerRadius)
		if err != nil {
			return unfold.Segment{}, err
		}
		k, err := numberAt(row, index, ColumnKFactor)
		if err != nil {
			return unfold.Segment{}, err
		}
		return unfold.Bend(angle, dir, ri, k), nil

	default:
		return unfold.Segment{}, &unfold.UnknownSegmentKindError{Index: index, Field: ColumnKind, Value: kind}
	}
}

// directionAt читает направление гиба без учета регистра
func directionAt(row Record, index int) (unfold.Direction, error) {
	value, err := stringAt(row, index, ColumnDirection)
	if err != nil {
		return unfold.DirectionUnknown, err
	}

	switch {
	case strings.EqualFold(value, DirectionMount):
		return unfold.Mountain, nil
	case strings.EqualFold(value, DirectionValley):
		return unfold.Valley, nil
	default:
		return unfold.DirectionUnknown, &unfold.InvalidDirectionError{Index: index, Field: ColumnDirection, Value: value}
	}
}

// stringAt возвращает непустое строковое значение ячейки
func stringAt(row Record, index int, column string) (string, error) {
	value, ok := row[column]
	if !ok || isEmpty(value) {
		return "", &unfold.MissingFieldError{Index: index, Field: column}
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s), nil
	}
	return fmt.Sprint(value), nil
}

// numberAt возвращает числовое значение ячейки. Строки допускают
// десятичную запятую.
func numberAt(row Record, index int, column string) (float64, error) {
	value, ok := row[column]
	if !ok || isEmpty(value) {
		return 0, &unfold.MissingFieldError{Index: index, Field: column}
	}

	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, &unfold.NumericParseError{Index: index, Field: column, Value: v.String(), Err: err}
		}
		return f, nil
	case string:
		raw := strings.TrimSpace(v)
		f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return 0, &unfold.NumericParseError{Index: index, Field: column, Value: raw, Err: err}
		}
		return f, nil
	default:
		return 0, &unfold.NumericParseError{
			Index: index,
			Field: column,
			Value: fmt.Sprint(value),
			Err:   fmt.Errorf("unsupported cell type %T", value),
		}
	}
}

// isEmpty пустая ячейка: nil, пустая строка или NaN
func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case float64:
		return math.IsNaN(v)
	default:
		return false
	}
}
