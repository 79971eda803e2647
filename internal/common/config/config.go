package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port           string
	Environment    string
	ReadTimeout    int
	WriteTimeout   int
	LogLevel       string
	DatabaseDSN    string
	PlotlyURL      string
	MaxUploadBytes int
	CORSOrigins    []string
	ExportDir      string
}

// Load загружает конфигурацию из переменных окружения и, если задан
// CONFIG_FILE, из yaml/json файла. Переменные окружения важнее файла.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:           v.GetString("PORT"),
		Environment:    v.GetString("ENV"),
		ReadTimeout:    v.GetInt("READ_TIMEOUT"),
		WriteTimeout:   v.GetInt("WRITE_TIMEOUT"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		PlotlyURL:      v.GetString("PLOTLY_URL"),
		MaxUploadBytes: v.GetInt("MAX_UPLOAD_BYTES"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		ExportDir:      v.GetString("EXPORT_DIR"),
	}

	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUpload
	}
	return cfg, nil
}

const defaultMaxUpload = 4 * 1024 * 1024

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("READ_TIMEOUT", 10)
	v.SetDefault("WRITE_TIMEOUT", 10)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("PLOTLY_URL", "")
	v.SetDefault("MAX_UPLOAD_BYTES", defaultMaxUpload)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("EXPORT_DIR", "")
	v.SetDefault("CONFIG_FILE", "")
}

// splitList разбирает список через запятую, пустые элементы отбрасываются.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

func (c *Config) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}
