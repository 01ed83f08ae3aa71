package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"sheet-unfold-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// APIError ошибка, возвращенная сервисом развертки
type APIError struct {
	StatusCode int
	Response   models.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.Row != nil {
		return fmt.Sprintf("unfold API returned %d: %s (row %d, field %q)",
			e.StatusCode, e.Response.Error, *e.Response.Row, e.Response.Field)
	}
	return fmt.Sprintf("unfold API returned %d: %s", e.StatusCode, e.Response.Error)
}

// UnfoldClient клиент для взаимодействия с сервисом развертки
type UnfoldClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewUnfoldClient создает новый клиент сервиса развертки
func NewUnfoldClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *UnfoldClient {
	return &UnfoldClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Unfold отправляет таблицу в формате JSON на расчет
func (c *UnfoldClient) Unfold(request models.UnfoldRequest) (*models.UnfoldResponse, error) {
	c.logger.Info("Отправка таблицы на расчет развертки")

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	respBody, err := c.post("/api/v1/unfold", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return decodeResponse(respBody)
}

// Upload отправляет файл Excel на расчет развертки
func (c *UnfoldClient) Upload(filename string, data []byte) (*models.UnfoldResponse, error) {
	c.logger.Infof("Отправка файла %s на расчет развертки", filename)

	body, contentType, err := multipartFile(filename, data)
	if err != nil {
		return nil, err
	}

	respBody, err := c.post("/api/v1/unfold/upload", contentType, body)
	if err != nil {
		return nil, err
	}
	return decodeResponse(respBody)
}

// Download отправляет файл Excel на один из эндпоинтов выгрузки
// (export, sketch.png, sketch.dxf) и возвращает полученный файл
func (c *UnfoldClient) Download(endpoint, filename string, data []byte) ([]byte, error) {
	c.logger.Infof("Запрос выгрузки %s для файла %s", endpoint, filename)

	body, contentType, err := multipartFile(filename, data)
	if err != nil {
		return nil, err
	}
	return c.post("/api/v1/unfold/"+endpoint, contentType, body)
}

// CheckHealth проверяет состояние сервиса развертки
func (c *UnfoldClient) CheckHealth() (*models.HealthResponse, error) {
	c.logger.Debug("Проверка здоровья сервиса развертки")

	url := fmt.Sprintf("%s/api/v1/health", c.baseURL)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var healthResponse models.HealthResponse
	if err := json.Unmarshal(respBody, &healthResponse); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON ответа: %w", err)
	}
	return &healthResponse, nil
}

// post отправляет POST запрос на путь сервиса
func (c *UnfoldClient) post(path, contentType string, body io.Reader) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequest("POST", url, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	c.logger.Debugf("Отправка POST запроса на %s", url)
	return c.do(req)
}

// do выполняет запрос и возвращает тело успешного ответа
func (c *UnfoldClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка отправки HTTP запроса: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, &apiErr.Response); err != nil || apiErr.Response.Error == "" {
			apiErr.Response.Error = string(respBody)
		}
		return nil, apiErr
	}

	return respBody, nil
}

// multipartFile упаковывает файл в multipart form-data с полем "file"
func multipartFile(filename string, data []byte) (io.Reader, string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fileWriter, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, "", fmt.Errorf("ошибка создания form field для файла: %w", err)
	}
	if _, err := fileWriter.Write(data); err != nil {
		return nil, "", fmt.Errorf("ошибка записи данных файла: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("ошибка закрытия multipart writer: %w", err)
	}

	return &body, writer.FormDataContentType(), nil
}

func decodeResponse(body []byte) (*models.UnfoldResponse, error) {
	var resp models.UnfoldResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ошибка парсинга JSON ответа: %w", err)
	}
	return &resp, nil
}
