package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSwaggerSpec_ListsRoutes(t *testing.T) {
	app := fiber.New()
	app.Get("/docs/openapi.yaml", SwaggerSpec)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var doc struct {
		OpenAPI string         `yaml:"openapi"`
		Paths   map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(body, &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)

	for _, path := range []string{
		"/api/v1/options",
		"/api/v1/render",
		"/api/v1/sessions",
		"/api/v1/sessions/{id}/dataset",
		"/api/v1/sessions/{id}/scene",
		"/api/v1/sessions/{id}/export",
	} {
		assert.Contains(t, doc.Paths, path)
	}
}

func TestSwaggerUI(t *testing.T) {
	app := fiber.New()
	app.Get("/docs", SwaggerUI)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
}
