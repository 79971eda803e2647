package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ============================================================
// Logger
// ============================================================

// New собирает корневой логгер. В development пишет человекочитаемо,
// иначе JSON-строками в stdout.
func New(level, env string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if env == "" || env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}
	}
	return NewWithWriter(w, level)
}

// NewWithWriter нужен для тестов и CLI, где вывод подменяется.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel возвращает info для пустого или неизвестного уровня.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component добавляет поле component.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
