package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"column3d/internal/scene/export"
	"column3d/internal/scene/models"
	"column3d/internal/scene/repository"
	"column3d/internal/scene/service"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return newTestAppWithExports(t, "")
}

func newTestAppWithExports(t *testing.T, exportDir string) *fiber.App {
	t.Helper()

	db, err := repository.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background()))

	log := zerolog.New(io.Discard)
	sessions := service.NewSessionManager(repo, log)

	app := fiber.New()
	health := NewHealthHandler(repo)
	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)
	html := export.HTMLOptions{PlotlyURL: "/static/plotly.js"}
	NewSceneHandler(sessions, service.NewExportStorage(exportDir, html), html, log).Register(app.Group("/api/v1"))
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) && len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, &out))
	}
	return resp, out
}

func createSession(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp, body := do(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func datasetLen(body map[string]any) int {
	ds, _ := body["dataset"].([]any)
	return len(ds)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])
}

func TestOptions(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/options", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Len(t, body["layouts"], 6)
	assert.Len(t, body["schemes"], 8)
	assert.Len(t, body["markers"], 8)
	assert.Len(t, body["swatches"], 10)
	assert.Len(t, body["renderStyles"], 2)
}

func TestCreateAndGetSession(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, datasetLen(body))

	style, _ := body["style"].(map[string]any)
	assert.Equal(t, "circular", style["layout"])
	assert.Equal(t, "galaxy", style["colorScheme"])
}

func TestGetSession_NotFound(t *testing.T) {
	app := newTestApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "session not found", body["error"])
}

func TestUploadDataset_Multipart(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("North,12\nSouth,7\nEast,3\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/dataset", &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())

	resp, body := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sales.csv loaded! 3 points", body["message"])
	assert.EqualValues(t, 3, body["points"])
}

func TestUploadDataset_JSONDataURL(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	payload, _ := json.Marshal(map[string]string{
		"filename": "xy.csv",
		"contents": "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte("X,1\nY,2\n")),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/dataset", bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, body := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["points"])
}

func TestUploadDataset_RawText(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/dataset?filename=raw.txt", strings.NewReader("A\t1\nB\t2\n"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMETextPlain)

	resp, body := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "raw.txt loaded! 2 points", body["message"])
}

func TestUploadDataset_RejectedKeepsDataset(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/dataset", strings.NewReader("only one line"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMETextPlain)

	resp, body := do(t, app, req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "at least 2 lines")
	assert.Equal(t, 5, datasetLen(body))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/dataset", strings.NewReader("a,b\nc,d\n"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMETextPlain)

	resp, body = do(t, app, req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "name,value")
	assert.Equal(t, 5, datasetLen(body))
}

func TestResetDataset(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/dataset", strings.NewReader("A,1\nB,2\n"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMETextPlain)
	resp, _ := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/dataset/reset", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, service.MsgDatasetRestored, body["message"])
	assert.Equal(t, 5, datasetLen(body))
}

func TestStyle_PutAndReset(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+id+"/style", strings.NewReader(`{"layout":"spiral","title":"Spiral"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, body := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	style, _ := body["style"].(map[string]any)
	assert.Equal(t, "spiral", style["layout"])
	assert.Equal(t, "galaxy", style["colorScheme"])

	resp, body = do(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/style/reset", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	style, _ = body["style"].(map[string]any)
	assert.Equal(t, "circular", style["layout"])
}

func TestStyle_InvalidJSON(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+id+"/style", strings.NewReader(`{"layout":`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, _ := do(t, app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBuildScene(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/scene", strings.NewReader(`{"renderStyle":"bars"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, body := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	scene, _ := body["scene"].(map[string]any)
	assert.Equal(t, "bars", scene["renderStyle"])
	assert.Len(t, scene["faces"], 25)

	figure, _ := body["figure"].(map[string]any)
	data, _ := figure["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "mesh3d", data[0].(map[string]any)["type"])

	// стиль из тела сохранен в сессии
	resp, body = do(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/scene", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	scene, _ = body["scene"].(map[string]any)
	assert.Equal(t, "bars", scene["renderStyle"])
}

func TestExport(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/export", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), export.DefaultFilename)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), models.DefaultTitle)
	assert.Contains(t, string(body), `src="/static/plotly.js"`)
	assert.Contains(t, string(body), "scatter3d")
}

func TestExport_NotFound(t *testing.T) {
	app := newTestApp(t)

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/nope/export", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteSession(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	resp, _ := do(t, app, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+id, nil))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRenderStateless(t *testing.T) {
	app := newTestApp(t)

	payload := `{"dataset":[{"label":"A","value":10},{"label":"B","value":20}],"style":{"layout":"linear"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/render", strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, body := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	scene, _ := body["scene"].(map[string]any)
	assert.Len(t, scene["points"], 90)
	assert.Nil(t, body["message"])
}

func TestRenderStateless_EmptyDatasetFallsBack(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/render", strings.NewReader(`{"dataset":[]}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, body := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["message"])
	scene, _ := body["scene"].(map[string]any)
	assert.Equal(t, "Basic 3D Chart", scene["title"])
	assert.Len(t, scene["points"], 3)
}

func TestSaveExport_Disabled(t *testing.T) {
	app := newTestApp(t)
	id := createSession(t, app)

	resp, body := do(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/export/save", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, service.ErrStorageDisabled.Error(), body["error"])
}

func TestSaveExport_AndFetch(t *testing.T) {
	dir := t.TempDir()
	app := newTestAppWithExports(t, dir)
	id := createSession(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+id+"/export/save", strings.NewReader(`{"name":"weekly"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, body := do(t, app, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Chart saved as 'weekly.html'", body["message"])
	assert.FileExists(t, filepath.Join(dir, id, "weekly.html"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/exports/weekly.html", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Plotly.newPlot")

	resp2, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/exports/missing.html", nil))
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)

	resp3, _ := do(t, app, httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/"+id, nil))
	require.Equal(t, http.StatusNoContent, resp3.StatusCode)
	assert.NoDirExists(t, filepath.Join(dir, id))
}

func TestGetSavedExport_UnknownSession(t *testing.T) {
	dir := t.TempDir()
	app := newTestAppWithExports(t, dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "stray"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stray", "report.html"), []byte("<html></html>"), 0o644))

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/stray/exports/report.html", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "session not found", body["error"])
}

func TestRenderStateless_ClampsStyle(t *testing.T) {
	app := newTestApp(t)

	payload := `{"dataset":[{"label":"A","value":10}],"style":{"density":1e6,"verticalScale":1e6,"chartHeight":5000}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/render", strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, body := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	scene, _ := body["scene"].(map[string]any)
	// высота 10*3, плотность 15
	assert.Len(t, scene["points"], 225)
	assert.EqualValues(t, models.MaxChartHeight, scene["height"])
}
