package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"column3d/internal/scene/export"
	"column3d/internal/scene/models"
)

// ============================================================
// Export Storage
// ============================================================

var ErrStorageDisabled = errors.New("export storage disabled")

// ExportStorage сохраняет HTML-экспорты на диск: <root>/<sessionID>/<name>.html.
// Пустой root отключает сохранение.
type ExportStorage struct {
	root string
	html export.HTMLOptions
}

func NewExportStorage(root string, html export.HTMLOptions) *ExportStorage {
	return &ExportStorage{root: root, html: html}
}

func (s *ExportStorage) Enabled() bool {
	return s.root != ""
}

func (s *ExportStorage) SessionDir(sessionID string) string {
	return filepath.Join(s.root, sessionID)
}

// ExportPath возвращает путь файла; имя очищается от каталогов, .html дописывается.
func (s *ExportStorage) ExportPath(sessionID, name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = export.DefaultFilename
	}
	if filepath.Ext(name) != ".html" {
		name += ".html"
	}
	return filepath.Join(s.SessionDir(sessionID), name)
}

func (s *ExportStorage) EnsureDir(sessionID string) error {
	path := s.SessionDir(sessionID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir export dir: %w", err)
	}
	return nil
}

// Save пишет сцену в файл и возвращает его путь. При ошибке записи
// недописанный файл удаляется.
func (s *ExportStorage) Save(sessionID, name string, scene *models.Scene) (string, error) {
	if !s.Enabled() {
		return "", ErrStorageDisabled
	}
	if err := s.EnsureDir(sessionID); err != nil {
		return "", err
	}

	path := s.ExportPath(sessionID, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}

	if err := export.WriteHTML(f, scene, s.html); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close export: %w", err)
	}
	return path, nil
}

// Open открывает ранее сохраненный экспорт.
func (s *ExportStorage) Open(sessionID, name string) (io.ReadCloser, error) {
	if !s.Enabled() {
		return nil, ErrStorageDisabled
	}
	return os.Open(s.ExportPath(sessionID, name))
}

// Remove удаляет все экспорты сессии.
func (s *ExportStorage) Remove(sessionID string) error {
	if !s.Enabled() {
		return nil
	}
	return os.RemoveAll(s.SessionDir(sessionID))
}
