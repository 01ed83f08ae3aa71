package table

import "sort"

// Названия столбцов входной таблицы
const (
	ColumnKind           = "Tipo de tramo"
	ColumnExteriorLength = "Long. exterior (mm)"
	ColumnAngle          = "Ángulo (°)"
	ColumnDirection      = "Dirección"
	ColumnThickness      = "Espesor e (mm)"
	ColumnInnerRadius    = "Ri (mm)"
	ColumnKFactor        = "K-Factor"

	// ColumnDeveloped добавляемый столбец с длиной развертки участка
	ColumnDeveloped = "Desarrollo (mm)"
)

// Значения столбцов "Tipo de tramo" и "Dirección"
const (
	KindStraight    = "Recto"
	KindBend        = "Pliegue"
	DirectionMount  = "Montana"
	DirectionValley = "Valle"
)

// ExportFilename имя файла выгрузки таблицы с разверткой
const ExportFilename = "Desarrollo_Pieza_Resultante.xlsx"

// InputColumns столбцы входной таблицы в каноническом порядке
var InputColumns = []string{
	ColumnKind,
	ColumnExteriorLength,
	ColumnAngle,
	ColumnDirection,
	ColumnThickness,
	ColumnInnerRadius,
	ColumnKFactor,
}

// Record одна строка таблицы: имя столбца -> значение
type Record map[string]any

// Table упорядоченная таблица записей
type Table struct {
	Columns []string
	Rows    []Record
}

// New создает таблицу. Если columns пусты, порядок столбцов выводится из строк.
func New(columns []string, rows []Record) *Table {
	if len(columns) == 0 {
		columns = inferColumns(rows)
	}
	return &Table{
		Columns: append([]string(nil), columns...),
		Rows:    rows,
	}
}

// HasColumn проверяет наличие столбца в таблице
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Augment возвращает копию таблицы с добавленным столбцом "Desarrollo (mm)".
// Исходная таблица не изменяется.
func Augment(t *Table, lengths []float64) *Table {
	columns := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		if c != ColumnDeveloped {
			columns = append(columns, c)
		}
	}
	columns = append(columns, ColumnDeveloped)

	rows := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		copied := make(Record, len(row)+1)
		for k, v := range row {
			copied[k] = v
		}
		if i < len(lengths) {
			copied[ColumnDeveloped] = lengths[i]
		}
		rows[i] = copied
	}

	return &Table{Columns: columns, Rows: rows}
}

// inferColumns выводит порядок столбцов: сначала известные, затем остальные
// в порядке первого появления
func inferColumns(rows []Record) []string {
	seen := map[string]bool{}
	columns := []string{}

	for _, c := range InputColumns {
		for _, row := range rows {
			if _, ok := row[c]; ok {
				columns = append(columns, c)
				seen[c] = true
				break
			}
		}
	}

	for _, row := range rows {
		extra := []string{}
		for k := range row {
			if !seen[k] {
				extra = append(extra, k)
				seen[k] = true
			}
		}
		sort.Strings(extra)
		columns = append(columns, extra...)
	}

	return columns
}
