package handler

import (
	"bytes"
	"encoding/json"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"sheet-unfold-go/internal/service"
	"sheet-unfold-go/internal/sketch"
	"sheet-unfold-go/internal/table"
	"sheet-unfold-go/internal/unfold"
	"sheet-unfold-go/pkg/models"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newLimitedRouter(t, 10<<20)
}

func newLimitedRouter(t *testing.T, maxUploadBytes int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	renderer, err := sketch.NewRenderer(320, 240)
	require.NoError(t, err)

	logger, _ := logtest.NewNullLogger()
	svc := service.NewUnfoldService(unfold.NewCalculator(), renderer, unfold.DefaultThickness, logger)

	router := gin.New()
	NewUnfoldHandler(svc, maxUploadBytes, logger).RegisterRoutes(router)
	return router
}

func scenarioRows() []map[string]any {
	return []map[string]any{
		{table.ColumnKind: "Recto", table.ColumnExteriorLength: 100, table.ColumnThickness: 2},
		{table.ColumnKind: "Pliegue", table.ColumnAngle: 90, table.ColumnDirection: "Montana", table.ColumnInnerRadius: 5, table.ColumnKFactor: 0.4},
		{table.ColumnKind: "Recto", table.ColumnExteriorLength: 50},
	}
}

func jsonRequest(t *testing.T, path string, rows []map[string]any) *http.Request {
	t.Helper()

	body, err := json.Marshal(models.UnfoldRequest{Rows: rows})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func uploadRequest(t *testing.T, path, filename string, rows []map[string]any) *http.Request {
	t.Helper()

	records := make([]table.Record, len(rows))
	for i, r := range rows {
		records[i] = table.Record(r)
	}
	var xlsx bytes.Buffer
	require.NoError(t, table.WriteXLSX(&xlsx, table.New(nil, records)))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUnfold_JSON(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, jsonRequest(t, "/api/v1/unfold", scenarioRows()))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.UnfoldResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "157.11 mm", resp.TotalDisplay)
	assert.Len(t, resp.Segments, 3)
	assert.Len(t, resp.Geometry.Centerline, 4)
	assert.Equal(t, 0.0, resp.Geometry.Centerline[0].X)
	assert.Equal(t, 99.0, resp.Rows[0][table.ColumnDeveloped])
}

func TestUnfold_Upload(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, uploadRequest(t, "/api/v1/unfold/upload", "pieza.xlsx", scenarioRows()))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.UnfoldResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 157.11, resp.TotalDeveloped, 0.005)
	assert.Equal(t, 2.0, resp.Thickness)
}

func TestUnfold_UploadRejectsWrongExtension(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, uploadRequest(t, "/api/v1/unfold/upload", "pieza.csv", scenarioRows()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnfold_UploadTooLarge(t *testing.T) {
	router := newLimitedRouter(t, 512)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, uploadRequest(t, "/api/v1/unfold/upload", "pieza.xlsx", scenarioRows()))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.NotContains(t, w.Body.String(), "обязателен")
}

func TestUnfold_MissingFile(t *testing.T) {
	router := newTestRouter(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("note", "sin archivo"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/unfold/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "обязателен")
}

func TestExport_JSONTooLarge(t *testing.T) {
	router := newLimitedRouter(t, 64)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, jsonRequest(t, "/api/v1/unfold/export", scenarioRows()))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUnfold_UnknownKind(t *testing.T) {
	router := newTestRouter(t)
	rows := scenarioRows()
	rows[1][table.ColumnKind] = "Curva"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(t, "/api/v1/unfold", rows))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unknown_segment_kind", resp.Kind)
	require.NotNil(t, resp.Row)
	assert.Equal(t, 1, *resp.Row)
	assert.Equal(t, table.ColumnKind, resp.Field)
}

func TestUnfold_NumericParseError(t *testing.T) {
	router := newTestRouter(t)
	rows := scenarioRows()
	rows[2][table.ColumnExteriorLength] = "cincuenta"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(t, "/api/v1/unfold", rows))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "numeric_parse")
}

func TestUnfold_BadJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/unfold", bytes.NewBufferString("{rows:"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, uploadRequest(t, "/api/v1/unfold/export", "pieza.xlsx", scenarioRows()))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), table.ExportFilename)

	exported, err := table.ReadXLSX(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.True(t, exported.HasColumn(table.ColumnDeveloped))
	assert.Len(t, exported.Rows, 3)
}

func TestSketchPNG(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, jsonRequest(t, "/api/v1/unfold/sketch.png", scenarioRows()))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestSketchDXF(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, jsonRequest(t, "/api/v1/unfold/sketch.dxf", scenarioRows()))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "LINE")
}

func TestSketch_ErrorProducesNoImage(t *testing.T) {
	router := newTestRouter(t)
	rows := scenarioRows()
	rows[1][table.ColumnDirection] = "Arriba"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest(t, "/api/v1/unfold/sketch.png", rows))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestCheckHealth(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
