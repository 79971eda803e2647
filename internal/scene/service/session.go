package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"column3d/internal/scene/assembler"
	"column3d/internal/scene/models"
	"column3d/internal/scene/parser"
	"column3d/internal/scene/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ============================================================
// Session Manager
// ============================================================

const (
	MsgDatasetRestored = "Original data restored"
	MsgStyleRestored   = "Style reset to defaults"
)

// Session: снимок состояния одной сессии дашборда.
type Session struct {
	ID      string             `json:"id"`
	Dataset models.Dataset     `json:"dataset"`
	Style   models.StyleConfig `json:"style"`
}

// RenderResult: сцена и сообщение для пользователя. Message непустой,
// если сработала заглушка.
type RenderResult struct {
	Scene   *models.Scene
	Message string
}

// SessionManager сериализует операции над одной сессией, разные сессии
// обрабатываются параллельно.
type SessionManager struct {
	repo *repository.Repository
	log  zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex // sessionID -> lock
}

func NewSessionManager(repo *repository.Repository, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		repo:  repo,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
}

// Create заводит сессию с набором данных и стилем по умолчанию.
func (m *SessionManager) Create(ctx context.Context) (*Session, error) {
	id := uuid.NewString()

	if err := m.repo.CreateSession(ctx, id); err != nil {
		return nil, err
	}

	s := &Session{ID: id, Dataset: models.DefaultDataset(), Style: models.DefaultStyle()}
	if err := m.repo.SaveDataset(ctx, id, s.Dataset); err != nil {
		return nil, err
	}
	if err := m.repo.SaveStyle(ctx, id, s.Style); err != nil {
		return nil, err
	}

	m.log.Info().Str("session", id).Msg("session created")
	return s, nil
}

func (m *SessionManager) Get(ctx context.Context, id string) (_ *Session, err error) {
	release := m.lock(id)
	defer release(&err)

	return m.load(ctx, id)
}

// Delete удаляет сессию и ее блокировку.
func (m *SessionManager) Delete(ctx context.Context, id string) error {
	release := m.lock(id)
	err := m.repo.DeleteSession(ctx, id)
	release(nil)

	m.forget(id)
	return err
}

// Upload разбирает загруженный файл и заменяет им набор данных.
// При ошибке разбора прежний набор остается нетронутым.
func (m *SessionManager) Upload(ctx context.Context, id, filename string, r io.Reader) (models.Dataset, string, error) {
	ds, err := parser.Parse(r)
	if err != nil {
		m.log.Warn().Err(err).Str("session", id).Str("file", filename).Msg("upload rejected")
		return nil, "", err
	}
	return m.replaceDataset(ctx, id, filename, ds)
}

// UploadDataURL: Upload для загрузок вида data:<mime>;base64,<payload>.
func (m *SessionManager) UploadDataURL(ctx context.Context, id, filename, contents string) (models.Dataset, string, error) {
	ds, err := parser.ParseDataURL(contents)
	if err != nil {
		m.log.Warn().Err(err).Str("session", id).Str("file", filename).Msg("upload rejected")
		return nil, "", err
	}
	return m.replaceDataset(ctx, id, filename, ds)
}

func (m *SessionManager) ResetDataset(ctx context.Context, id string) (_ models.Dataset, _ string, err error) {
	release := m.lock(id)
	defer release(&err)

	ds := models.DefaultDataset()
	if err := m.repo.SaveDataset(ctx, id, ds); err != nil {
		return nil, "", err
	}
	return ds, MsgDatasetRestored, nil
}

// SetStyle сохраняет стиль как есть; нормализация происходит при сборке сцены.
func (m *SessionManager) SetStyle(ctx context.Context, id string, style models.StyleConfig) (err error) {
	release := m.lock(id)
	defer release(&err)

	return m.repo.SaveStyle(ctx, id, style)
}

func (m *SessionManager) ResetStyle(ctx context.Context, id string) (_ models.StyleConfig, err error) {
	release := m.lock(id)
	defer release(&err)

	style := models.DefaultStyle()
	if err := m.repo.SaveStyle(ctx, id, style); err != nil {
		return models.StyleConfig{}, err
	}
	return style, nil
}

// BuildScene собирает сцену по текущему набору данных. Если style не nil,
// он сначала сохраняется в сессии.
func (m *SessionManager) BuildScene(ctx context.Context, id string, style *models.StyleConfig) (_ *RenderResult, err error) {
	release := m.lock(id)
	defer release(&err)

	if style != nil {
		if err := m.repo.SaveStyle(ctx, id, *style); err != nil {
			return nil, err
		}
	}

	s, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}

	return m.render(id, s.Dataset, s.Style), nil
}

// Render: сборка без сессии.
func (m *SessionManager) Render(ds models.Dataset, style models.StyleConfig) *RenderResult {
	return m.render("", ds, style)
}

// ============================================================
// Helpers
// ============================================================

func (m *SessionManager) replaceDataset(ctx context.Context, id, filename string, ds models.Dataset) (_ models.Dataset, _ string, err error) {
	release := m.lock(id)
	defer release(&err)

	if err := m.repo.SaveDataset(ctx, id, ds); err != nil {
		return nil, "", err
	}

	if filename == "" {
		filename = "data"
	}
	m.log.Info().Str("session", id).Str("file", filename).Int("points", len(ds)).Msg("dataset replaced")
	return ds, fmt.Sprintf("%s loaded! %d points", filename, len(ds)), nil
}

func (m *SessionManager) render(id string, ds models.Dataset, style models.StyleConfig) *RenderResult {
	scene, err := assembler.Render(ds, style)
	if err != nil {
		m.log.Error().Err(err).Str("session", id).Msg("scene fallback")
		return &RenderResult{Scene: scene, Message: "Chart error: " + err.Error()}
	}
	return &RenderResult{Scene: scene}
}

func (m *SessionManager) load(ctx context.Context, id string) (*Session, error) {
	ds, err := m.repo.LoadDataset(ctx, id)
	if err != nil {
		return nil, err
	}
	style, err := m.repo.LoadStyle(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, Dataset: ds, Style: style}, nil
}

// lock захватывает блокировку сессии. Возвращаемая release снимает ее и
// забывает блокировку, если операция завершилась ErrNotFound.
func (m *SessionManager) lock(id string) func(errp *error) {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.mu.Unlock()

	l.Lock()
	return func(errp *error) {
		l.Unlock()
		if errp != nil && IsNotFound(*errp) {
			m.forget(id)
		}
	}
}

// lockCount возвращает число удерживаемых в памяти блокировок.
func (m *SessionManager) lockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func (m *SessionManager) forget(id string) {
	m.mu.Lock()
	delete(m.locks, id)
	m.mu.Unlock()
}

// IsNotFound сообщает, что сессии нет.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// IsRejected сообщает, что загрузка отклонена из-за содержимого файла.
func IsRejected(err error) bool {
	return errors.Is(err, parser.ErrTooFewLines) ||
		errors.Is(err, parser.ErrInvalidFormat) ||
		errors.Is(err, parser.ErrInvalidUpload)
}
