package service

import (
	"fmt"
	"io"
	"time"

	"sheet-unfold-go/internal/sketch"
	"sheet-unfold-go/internal/table"
	"sheet-unfold-go/internal/unfold"
	"sheet-unfold-go/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UnfoldService сервис расчета развертки листовых деталей.
// Каждый вызов независим и не разделяет состояние с другими.
type UnfoldService struct {
	calc             *unfold.Calculator
	renderer         *sketch.Renderer
	defaultThickness float64
	logger           *logrus.Logger
}

// NewUnfoldService создает новый сервис развертки
func NewUnfoldService(calc *unfold.Calculator, renderer *sketch.Renderer, defaultThickness float64, logger *logrus.Logger) *UnfoldService {
	return &UnfoldService{
		calc:             calc,
		renderer:         renderer,
		defaultThickness: defaultThickness,
		logger:           logger,
	}
}

// FormatTotal форматирует длину развертки для отображения
func FormatTotal(total float64) string {
	return fmt.Sprintf("%.2f mm", total)
}

// Calculate разбирает таблицу и рассчитывает деталь.
// Ошибка в любой строке прерывает расчет целиком.
func (s *UnfoldService) Calculate(t *table.Table) (*Calculation, error) {
	id := uuid.New().String()
	log := s.logger.WithField("calculation_id", id)
	startTime := time.Now()

	log.Infof("Начинаем расчет развертки: %d строк", len(t.Rows))

	part, err := table.ParsePart(t, s.defaultThickness)
	if err != nil {
		log.Warnf("Ошибка во входной таблице: %v", err)
		return nil, fmt.Errorf("failed to parse part table: %w", err)
	}

	result, err := s.calc.Unfold(part)
	if err != nil {
		log.Errorf("Ошибка расчета развертки: %v", err)
		return nil, fmt.Errorf("failed to unfold part: %w", err)
	}

	for _, w := range result.Warnings {
		log.WithField("row", w.Index).Warn(w.Message)
	}

	log.Infof("Расчет завершен за %v. Толщина %.2f мм, развертка %s",
		time.Since(startTime), part.Thickness, FormatTotal(result.Total))

	return &Calculation{
		ID:     id,
		Part:   part,
		Result: result,
		Table:  table.Augment(t, result.NeutralLengths),
	}, nil
}

// Compute рассчитывает деталь и возвращает ответ API
func (s *UnfoldService) Compute(t *table.Table) (*models.UnfoldResponse, error) {
	calc, err := s.Calculate(t)
	if err != nil {
		return nil, err
	}
	return Response(calc), nil
}

// ExportXLSX рассчитывает деталь и записывает дополненную таблицу в книгу Excel
func (s *UnfoldService) ExportXLSX(w io.Writer, t *table.Table) error {
	calc, err := s.Calculate(t)
	if err != nil {
		return err
	}
	return s.WriteXLSX(w, calc)
}

// WriteXLSX записывает дополненную таблицу готового расчета в книгу Excel
func (s *UnfoldService) WriteXLSX(w io.Writer, calc *Calculation) error {
	if err := table.WriteXLSX(w, calc.Table); err != nil {
		s.logger.Errorf("Ошибка выгрузки таблицы %s: %v", calc.ID, err)
		return fmt.Errorf("failed to export table: %w", err)
	}

	s.logger.Infof("Таблица расчета %s выгружена", calc.ID)
	return nil
}

// RenderPNG рассчитывает деталь и рисует эскиз в формате PNG
func (s *UnfoldService) RenderPNG(w io.Writer, t *table.Table) error {
	calc, err := s.Calculate(t)
	if err != nil {
		return err
	}
	return s.WritePNG(w, calc)
}

// WritePNG рисует эскиз готового расчета
func (s *UnfoldService) WritePNG(w io.Writer, calc *Calculation) error {
	if err := s.renderer.PNG(w, geometryOf(calc.Result)); err != nil {
		s.logger.Errorf("Ошибка отрисовки эскиза %s: %v", calc.ID, err)
		return fmt.Errorf("failed to render sketch: %w", err)
	}
	return nil
}

// RenderDXF рассчитывает деталь и записывает контур в формате DXF
func (s *UnfoldService) RenderDXF(w io.Writer, t *table.Table) error {
	calc, err := s.Calculate(t)
	if err != nil {
		return err
	}
	return s.WriteDXF(w, calc)
}

// WriteDXF записывает контур готового расчета в формате DXF
func (s *UnfoldService) WriteDXF(w io.Writer, calc *Calculation) error {
	if err := sketch.DXF(w, geometryOf(calc.Result)); err != nil {
		s.logger.Errorf("Ошибка выгрузки DXF %s: %v", calc.ID, err)
		return fmt.Errorf("failed to export dxf: %w", err)
	}
	return nil
}

// CheckHealth проверяет состояние сервиса пробным расчетом
func (s *UnfoldService) CheckHealth() *models.HealthResponse {
	s.logger.Debug("Проверяем состояние сервиса развертки")

	status := "healthy"
	probe := unfold.NewPart(1, []unfold.Segment{unfold.Straight(10)})
	if _, err := s.calc.Unfold(probe); err != nil {
		s.logger.Errorf("Пробный расчет не выполнен: %v", err)
		status = "unhealthy"
	}

	return &models.HealthResponse{
		Status:  status,
		Version: Version,
	}
}

// Version версия сервиса
const Version = "1.0.0"

func geometryOf(res *unfold.Result) sketch.Geometry {
	return sketch.Geometry{
		Centerline: res.Centerline,
		Outer:      res.Outer,
		Inner:      res.Inner,
		Labels:     res.Labels,
	}
}
