package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"sheet-unfold-go/internal/service"
	"sheet-unfold-go/internal/table"
	"sheet-unfold-go/internal/unfold"
	"sheet-unfold-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	dxfContentType  = "application/dxf"
	dxfFilename     = "Croquis_Pieza.dxf"
)

// UnfoldHandler обрабатывает HTTP запросы расчета развертки
type UnfoldHandler struct {
	unfoldService  *service.UnfoldService
	maxUploadBytes int64
	logger         *logrus.Logger
}

// NewUnfoldHandler создает новый экземпляр UnfoldHandler
func NewUnfoldHandler(unfoldService *service.UnfoldService, maxUploadBytes int64, logger *logrus.Logger) *UnfoldHandler {
	return &UnfoldHandler{
		unfoldService:  unfoldService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *UnfoldHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/unfold", h.Unfold)
		api.POST("/unfold/upload", h.UploadUnfold)
		api.POST("/unfold/export", h.Export)
		api.POST("/unfold/sketch.png", h.SketchPNG)
		api.POST("/unfold/sketch.dxf", h.SketchDXF)
		api.GET("/health", h.CheckHealth)
	}
}

// Unfold рассчитывает развертку по таблице в формате JSON
func (h *UnfoldHandler) Unfold(c *gin.Context) {
	h.logger.Info("Получен запрос на расчет развертки")

	t, err := h.readJSON(c)
	if err != nil {
		h.logger.Errorf("Ошибка разбора JSON: %v", err)
		status := inputStatus(err)
		if status == http.StatusBadRequest {
			c.JSON(status, gin.H{"error": "Неверный формат JSON"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.compute(c, t)
}

// UploadUnfold рассчитывает развертку по загруженному файлу Excel
func (h *UnfoldHandler) UploadUnfold(c *gin.Context) {
	h.logger.Info("Получен запрос на расчет развертки по файлу Excel")

	t, err := h.readUpload(c)
	if err != nil {
		h.logger.Errorf("Ошибка чтения файла: %v", err)
		c.JSON(inputStatus(err), gin.H{"error": err.Error()})
		return
	}

	h.compute(c, t)
}

// compute выполняет расчет и отвечает JSON
func (h *UnfoldHandler) compute(c *gin.Context, t *table.Table) {
	result, err := h.unfoldService.Compute(t)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Infof("Расчет %s завершен: %s", result.ID, result.TotalDisplay)
	c.JSON(http.StatusOK, result)
}

// Export возвращает дополненную таблицу в виде файла Excel
func (h *UnfoldHandler) Export(c *gin.Context) {
	h.logger.Info("Получен запрос на выгрузку таблицы")

	t, ok := h.readAny(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.unfoldService.ExportXLSX(&buf, t); err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table.ExportFilename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// SketchPNG возвращает эскиз детали в формате PNG
func (h *UnfoldHandler) SketchPNG(c *gin.Context) {
	h.logger.Info("Получен запрос на эскиз PNG")

	t, ok := h.readAny(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.unfoldService.RenderPNG(&buf, t); err != nil {
		h.respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// SketchDXF возвращает контур детали в формате DXF
func (h *UnfoldHandler) SketchDXF(c *gin.Context) {
	h.logger.Info("Получен запрос на контур DXF")

	t, ok := h.readAny(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.unfoldService.RenderDXF(&buf, t); err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dxfFilename))
	c.Data(http.StatusOK, dxfContentType, buf.Bytes())
}

// CheckHealth проверяет состояние сервиса
func (h *UnfoldHandler) CheckHealth(c *gin.Context) {
	h.logger.Debug("Получен запрос проверки здоровья сервиса")

	health := h.unfoldService.CheckHealth()

	statusCode := http.StatusOK
	if health.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, health)
}

// readAny читает таблицу из multipart-файла или JSON, в зависимости от Content-Type.
// При ошибке сам отвечает 400 или 413.
func (h *UnfoldHandler) readAny(c *gin.Context) (*table.Table, bool) {
	var (
		t   *table.Table
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		t, err = h.readUpload(c)
	} else {
		t, err = h.readJSON(c)
	}
	if err != nil {
		h.logger.Errorf("Ошибка чтения входной таблицы: %v", err)
		c.JSON(inputStatus(err), gin.H{"error": err.Error()})
		return nil, false
	}
	return t, true
}

// readJSON читает таблицу из тела запроса. Числа сохраняются как json.Number.
func (h *UnfoldHandler) readJSON(c *gin.Context) (*table.Table, error) {
	var req models.UnfoldRequest

	dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		if tooLarge(err) {
			return nil, fmt.Errorf("Тело запроса превышает %d байт: %w", h.maxUploadBytes, err)
		}
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	return service.TableFromRequest(req), nil
}

// readUpload читает таблицу из файла Excel в поле формы "file"
func (h *UnfoldHandler) readUpload(c *gin.Context) (*table.Table, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			return nil, fmt.Errorf("Файл превышает допустимый размер %d байт: %w", h.maxUploadBytes, err)
		}
		return nil, errors.New("Файл Excel обязателен (поле file)")
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		return nil, fmt.Errorf("Ожидается файл .xlsx, получен %q", header.Filename)
	}

	h.logger.Infof("Получен файл %s (%d байт)", header.Filename, header.Size)

	t, err := table.ReadXLSX(file)
	if err != nil {
		return nil, fmt.Errorf("Ошибка чтения файла Excel: %w", err)
	}
	return t, nil
}

// inputStatus выбирает код ответа для ошибки чтения входных данных
func inputStatus(err error) int {
	if tooLarge(err) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// respondError отвечает 422 на ошибки входных данных и 500 на остальные
func (h *UnfoldHandler) respondError(c *gin.Context, err error) {
	var rowErr unfold.RowError
	if errors.As(err, &rowErr) {
		row := rowErr.Row()
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: rowErr.Error(),
			Kind:  rowErr.Kind(),
			Row:   &row,
			Field: rowErr.FieldName(),
		})
		return
	}

	h.logger.Errorf("Ошибка расчета: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Внутренняя ошибка сервера"})
}
