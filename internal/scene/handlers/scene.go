package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"column3d/internal/scene/export"
	"column3d/internal/scene/models"
	"column3d/internal/scene/service"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

// ============================================================
// Scene Handler
// ============================================================

type SceneHandler struct {
	sessions *service.SessionManager
	storage  *service.ExportStorage
	html     export.HTMLOptions
	log      zerolog.Logger
}

func NewSceneHandler(sessions *service.SessionManager, storage *service.ExportStorage, html export.HTMLOptions, log zerolog.Logger) *SceneHandler {
	return &SceneHandler{
		sessions: sessions,
		storage:  storage,
		html:     html,
		log:      log,
	}
}

// Register вешает маршруты API на router (обычно /api/v1).
func (h *SceneHandler) Register(r fiber.Router) {
	r.Get("/options", h.Options)
	r.Post("/render", h.RenderStateless)

	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions/:id", h.GetSession)
	r.Delete("/sessions/:id", h.DeleteSession)
	r.Post("/sessions/:id/dataset", h.UploadDataset)
	r.Post("/sessions/:id/dataset/reset", h.ResetDataset)
	r.Put("/sessions/:id/style", h.SetStyle)
	r.Post("/sessions/:id/style/reset", h.ResetStyle)
	r.Post("/sessions/:id/scene", h.BuildScene)
	r.Get("/sessions/:id/export", h.Export)
	r.Post("/sessions/:id/export/save", h.SaveExport)
	r.Get("/sessions/:id/exports/:name", h.GetSavedExport)
}

type uploadRequest struct {
	Filename string `json:"filename"`
	Contents string `json:"contents"`
}

type saveRequest struct {
	Name string `json:"name"`
}

type renderRequest struct {
	Dataset models.Dataset  `json:"dataset"`
	Style   json.RawMessage `json:"style"`
}

type sceneResponse struct {
	Scene   *models.Scene  `json:"scene"`
	Figure  map[string]any `json:"figure"`
	Message string         `json:"message,omitempty"`
}

// Options отдает значения для выпадающих списков.
func (h *SceneHandler) Options(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"layouts":      models.Layouts(),
		"schemes":      models.Schemes(),
		"swatches":     models.Swatches(),
		"markers":      models.Markers(),
		"fonts":        models.Fonts(),
		"renderStyles": models.RenderStyles(),
		"defaults":     models.DefaultStyle(),
	})
}

func (h *SceneHandler) CreateSession(c fiber.Ctx) error {
	s, err := h.sessions.Create(c.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("create session")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create session"})
	}
	return c.Status(http.StatusCreated).JSON(s)
}

func (h *SceneHandler) GetSession(c fiber.Ctx) error {
	s, err := h.sessions.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(s)
}

func (h *SceneHandler) DeleteSession(c fiber.Ctx) error {
	id := c.Params("id")
	if err := h.sessions.Delete(c.Context(), id); err != nil {
		return h.fail(c, err)
	}
	if err := h.storage.Remove(id); err != nil {
		h.log.Warn().Err(err).Str("session", id).Msg("remove exports")
	}
	return c.SendStatus(http.StatusNoContent)
}

// UploadDataset принимает multipart-поле file, JSON {filename, contents}
// с data URL или сырой текст в теле.
func (h *SceneHandler) UploadDataset(c fiber.Ctx) error {
	id := c.Params("id")
	ctx := c.Context()
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))

	var (
		ds  models.Dataset
		msg string
		err error
	)

	switch {
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		fileHeader, ferr := c.FormFile("file")
		if ferr != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file required"})
		}
		file, ferr := fileHeader.Open()
		if ferr != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
		}
		defer file.Close()
		ds, msg, err = h.sessions.Upload(ctx, id, fileHeader.Filename, file)

	case strings.HasPrefix(contentType, fiber.MIMEApplicationJSON):
		var req uploadRequest
		if jerr := json.Unmarshal(c.Body(), &req); jerr != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
		ds, msg, err = h.sessions.UploadDataURL(ctx, id, req.Filename, req.Contents)

	default:
		if len(c.Body()) == 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
		}
		ds, msg, err = h.sessions.Upload(ctx, id, c.Query("filename"), bytes.NewReader(c.Body()))
	}

	if err != nil {
		if service.IsRejected(err) {
			return h.rejectUpload(c, id, err)
		}
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": msg,
		"points":  len(ds),
		"dataset": ds,
	})
}

func (h *SceneHandler) ResetDataset(c fiber.Ctx) error {
	ds, msg, err := h.sessions.ResetDataset(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": msg,
		"points":  len(ds),
		"dataset": ds,
	})
}

// SetStyle заменяет стиль сессии. Отсутствующие в теле поля берутся по умолчанию.
func (h *SceneHandler) SetStyle(c fiber.Ctx) error {
	style, err := decodeStyle(c.Body())
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if style == nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	if err := h.sessions.SetStyle(c.Context(), c.Params("id"), *style); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"style": style})
}

func (h *SceneHandler) ResetStyle(c fiber.Ctx) error {
	style, err := h.sessions.ResetStyle(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": service.MsgStyleRestored,
		"style":   style,
	})
}

// BuildScene собирает сцену; стиль в теле необязателен и сохраняется в сессии.
func (h *SceneHandler) BuildScene(c fiber.Ctx) error {
	style, err := decodeStyle(c.Body())
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	res, err := h.sessions.BuildScene(c.Context(), c.Params("id"), style)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sceneResponse{
		Scene:   res.Scene,
		Figure:  export.Figure(res.Scene),
		Message: res.Message,
	})
}

// Export отдает автономную HTML-страницу со сценой как вложение.
func (h *SceneHandler) Export(c fiber.Ctx) error {
	res, err := h.sessions.BuildScene(c.Context(), c.Params("id"), nil)
	if err != nil {
		return h.fail(c, err)
	}

	var buf bytes.Buffer
	if err := export.WriteHTML(&buf, res.Scene, h.html); err != nil {
		h.log.Error().Err(err).Msg("export html")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to export chart"})
	}

	c.Attachment(export.DefaultFilename)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// SaveExport сохраняет HTML-экспорт на сервере.
func (h *SceneHandler) SaveExport(c fiber.Ctx) error {
	if !h.storage.Enabled() {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": service.ErrStorageDisabled.Error()})
	}

	var req saveRequest
	if len(bytes.TrimSpace(c.Body())) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
		}
	}

	id := c.Params("id")
	res, err := h.sessions.BuildScene(c.Context(), id, nil)
	if err != nil {
		return h.fail(c, err)
	}

	path, err := h.storage.Save(id, req.Name, res.Scene)
	if err != nil {
		h.log.Error().Err(err).Str("session", id).Msg("save export")
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Error saving: " + err.Error()})
	}

	name := filepath.Base(path)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Chart saved as '%s'", name),
		"name":    name,
		"path":    path,
	})
}

// GetSavedExport отдает сохраненный ранее экспорт существующей сессии.
func (h *SceneHandler) GetSavedExport(c fiber.Ctx) error {
	if !h.storage.Enabled() {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": service.ErrStorageDisabled.Error()})
	}

	id := c.Params("id")
	if _, err := h.sessions.Get(c.Context(), id); err != nil {
		return h.fail(c, err)
	}

	rc, err := h.storage.Open(id, c.Params("name"))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(data)
}

// RenderStateless собирает сцену без сессии: {dataset, style} -> сцена.
func (h *SceneHandler) RenderStateless(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "empty body"})
	}

	var req renderRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	ds := req.Dataset
	if ds == nil {
		ds = models.DefaultDataset()
	}
	style, err := decodeStyle(req.Style)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid style"})
	}
	if style == nil {
		def := models.DefaultStyle()
		style = &def
	}

	res := h.sessions.Render(ds, *style)
	return c.JSON(sceneResponse{
		Scene:   res.Scene,
		Figure:  export.Figure(res.Scene),
		Message: res.Message,
	})
}

// ============================================================
// Helpers
// ============================================================

// decodeStyle накладывает тело поверх стиля по умолчанию. Пустое тело -> nil.
func decodeStyle(body []byte) (*models.StyleConfig, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	style := models.DefaultStyle()
	if err := json.Unmarshal(body, &style); err != nil {
		return nil, err
	}
	return &style, nil
}

// rejectUpload отвечает 400 и возвращает набор данных, оставшийся в сессии.
func (h *SceneHandler) rejectUpload(c fiber.Ctx, id string, cause error) error {
	body := fiber.Map{"error": uploadMessage(cause)}
	if s, err := h.sessions.Get(c.Context(), id); err == nil {
		body["dataset"] = s.Dataset
	} else if service.IsNotFound(err) {
		return h.fail(c, err)
	}
	return c.Status(http.StatusBadRequest).JSON(body)
}

func (h *SceneHandler) fail(c fiber.Ctx, err error) error {
	if service.IsNotFound(err) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	h.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

func uploadMessage(err error) string {
	return fmt.Sprintf("Upload rejected: %v", err)
}
