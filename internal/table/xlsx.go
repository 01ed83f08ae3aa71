package table

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName имя листа выгружаемой книги
const SheetName = "Sheet1"

// ReadXLSX читает первый лист книги Excel. Первая строка листа содержит
// названия столбцов, полностью пустые строки пропускаются. Ячейки читаются
// по хранимому значению, без числового формата.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := rows[0]
	columns := make([]string, 0, len(header))
	for _, name := range header {
		name = strings.TrimSpace(name)
		if name != "" {
			columns = append(columns, name)
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		record := Record{}
		for i, cell := range cells {
			if i >= len(header) {
				break
			}
			name := strings.TrimSpace(header[i])
			if name == "" || strings.TrimSpace(cell) == "" {
				continue
			}
			record[name] = cell
		}
		if len(record) == 0 {
			continue
		}
		records = append(records, record)
	}

	return &Table{Columns: columns, Rows: records}, nil
}

// WriteXLSX записывает таблицу в книгу Excel с одним листом.
// Числовые значения и строки, похожие на числа, записываются как числа.
func WriteXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for col, name := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header %q: %w", name, err)
		}
	}

	for i, row := range t.Rows {
		for col, name := range t.Columns {
			value, ok := row[name]
			if !ok || isEmpty(value) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(SheetName, cell, cellValue(value)); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// cellValue приводит значение к типу, который excelize запишет числом
func cellValue(value any) any {
	switch v := value.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		return v
	}
	return value
}
