package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sheet-unfold-go/internal/handler"
	"sheet-unfold-go/internal/service"
	"sheet-unfold-go/internal/sketch"
	"sheet-unfold-go/internal/table"
	"sheet-unfold-go/internal/unfold"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, dir string) string {
	t.Helper()

	tbl := table.New(nil, []table.Record{
		{table.ColumnKind: "Recto", table.ColumnExteriorLength: 100.0, table.ColumnThickness: 2.0},
		{table.ColumnKind: "Pliegue", table.ColumnAngle: 90.0, table.ColumnDirection: "Montana", table.ColumnInnerRadius: 5.0, table.ColumnKFactor: 0.4},
		{table.ColumnKind: "Recto", table.ColumnExteriorLength: 50.0},
	})

	var buf bytes.Buffer
	require.NoError(t, table.WriteXLSX(&buf, tbl))

	path := filepath.Join(dir, "pieza.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out, _, err := runLogged(t, args...)
	return out, err
}

func runLogged(t *testing.T, args ...string) (string, *logtest.Hook, error) {
	t.Helper()

	logger, hook := logtest.NewNullLogger()
	var out bytes.Buffer
	err := newApp(logger, &out).Run(context.Background(), append([]string{"unfold"}, args...))
	return out.String(), hook, err
}

func TestCompute_Local(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	xlsxPath := filepath.Join(dir, "out.xlsx")
	pngPath := filepath.Join(dir, "out.png")
	dxfPath := filepath.Join(dir, "out.dxf")

	out, hook, err := runLogged(t, "compute", "--input", input,
		"--xlsx", xlsxPath, "--png", pngPath, "--dxf", dxfPath,
		"--width", "300", "--height", "200")
	require.NoError(t, err)

	// Все выгрузки строятся из одного расчета
	started := 0
	for _, entry := range hook.AllEntries() {
		if strings.HasPrefix(entry.Message, "Начинаем расчет развертки") {
			started++
		}
	}
	assert.Equal(t, 1, started)

	assert.Contains(t, out, table.ColumnDeveloped)
	assert.Contains(t, out, "99.00")
	assert.Contains(t, out, "157.11 mm")

	for _, path := range []string{xlsxPath, pngPath, dxfPath} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Positive(t, info.Size(), path)
	}
}

func TestCompute_LocalError(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, table.WriteXLSX(&buf, table.New(nil, []table.Record{
		{table.ColumnKind: "Curva", table.ColumnExteriorLength: 10.0},
	})))
	input := filepath.Join(dir, "mala.xlsx")
	require.NoError(t, os.WriteFile(input, buf.Bytes(), 0o600))

	_, err := run(t, "compute", "--input", input)
	require.Error(t, err)

	var kindErr *unfold.UnknownSegmentKindError
	assert.ErrorAs(t, err, &kindErr)
}

func TestCompute_Remote(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, _ := logtest.NewNullLogger()
	renderer, err := sketch.NewRenderer(200, 150)
	require.NoError(t, err)

	router := gin.New()
	svc := service.NewUnfoldService(unfold.NewCalculator(), renderer, unfold.DefaultThickness, logger)
	handler.NewUnfoldHandler(svc, 1<<20, logger).RegisterRoutes(router)
	server := httptest.NewServer(router)
	defer server.Close()

	dir := t.TempDir()
	input := writeInput(t, dir)
	xlsxPath := filepath.Join(dir, "remote.xlsx")

	out, err := run(t, "compute", "--input", input, "--server", server.URL, "--xlsx", xlsxPath)
	require.NoError(t, err)
	assert.Contains(t, out, "157.11 mm")

	f, err := os.Open(xlsxPath)
	require.NoError(t, err)
	defer f.Close()
	exported, err := table.ReadXLSX(f)
	require.NoError(t, err)
	assert.True(t, exported.HasColumn(table.ColumnDeveloped))

	out, err = run(t, "health", "--server", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "healthy")
}

func TestCompute_RemoteRejectsLocalFlags(t *testing.T) {
	input := writeInput(t, t.TempDir())

	for _, flag := range []string{"--thickness-default=2", "--width=300", "--height=200"} {
		_, err := run(t, "compute", "--input", input, "--server", "http://127.0.0.1:1", flag)
		require.Error(t, err, flag)
		assert.Contains(t, err.Error(), "--server", flag)
	}
}

func TestCompute_RequiresInput(t *testing.T) {
	_, err := run(t, "compute")
	assert.Error(t, err)
}
