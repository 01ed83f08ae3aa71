package service

import (
	"sheet-unfold-go/internal/table"
	"sheet-unfold-go/internal/unfold"
	"sheet-unfold-go/pkg/models"
)

// Calculation результат одного расчета детали
type Calculation struct {
	ID     string
	Part   unfold.Part
	Result *unfold.Result
	Table  *table.Table // Входная таблица со столбцом "Desarrollo (mm)"
}

// TableFromRequest преобразует JSON-запрос в таблицу
func TableFromRequest(req models.UnfoldRequest) *table.Table {
	rows := make([]table.Record, len(req.Rows))
	for i, row := range req.Rows {
		rows[i] = table.Record(row)
	}
	return table.New(req.Columns, rows)
}

// Response преобразует расчет в ответ API
func Response(calc *Calculation) *models.UnfoldResponse {
	res := calc.Result

	rows := make([]map[string]any, len(calc.Table.Rows))
	for i, row := range calc.Table.Rows {
		rows[i] = map[string]any(row)
	}

	segments := make([]models.SegmentResult, len(calc.Part.Segments))
	for i, seg := range calc.Part.Segments {
		segments[i] = models.SegmentResult{
			Index:     i,
			Kind:      seg.Kind.String(),
			Developed: res.NeutralLengths[i],
			Heading:   res.Headings[i],
			Label:     res.Labels[i].Text,
		}
		if seg.Kind == unfold.KindBend {
			segments[i].Direction = seg.Direction.String()
		}
	}

	labels := make([]models.Label, len(res.Labels))
	for i, l := range res.Labels {
		labels[i] = models.Label{
			Index:  l.Index,
			Mid:    toPoint(l.Mid),
			Length: l.Length,
			Text:   l.Text,
		}
	}

	warnings := make([]models.Warning, len(res.Warnings))
	for i, w := range res.Warnings {
		warnings[i] = models.Warning{Index: w.Index, Message: w.Message}
	}

	return &models.UnfoldResponse{
		ID:             calc.ID,
		Status:         "success",
		Thickness:      res.Thickness,
		TotalDeveloped: res.Total,
		TotalDisplay:   FormatTotal(res.Total),
		Columns:        calc.Table.Columns,
		Rows:           rows,
		Segments:       segments,
		Geometry: models.Geometry{
			Centerline: toPoints(res.Centerline),
			Outer:      toPoints(res.Outer),
			Inner:      toPoints(res.Inner),
			Labels:     labels,
		},
		Warnings: warnings,
	}
}

func toPoint(p unfold.Point) models.Point {
	return models.Point{X: p.X, Y: p.Y}
}

func toPoints(points []unfold.Point) []models.Point {
	out := make([]models.Point, len(points))
	for i, p := range points {
		out[i] = toPoint(p)
	}
	return out
}
