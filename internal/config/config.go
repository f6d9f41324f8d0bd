package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Бэкенды для сохранения результатов
const (
	OutputBackendLocal = "local"
	OutputBackendS3    = "s3"
)

var ErrEmptyBaseURL = errors.New("render base url is required")

type Config struct {
	Render RenderConfig
	Server ServerConfig
	Output OutputConfig
	S3     S3Config
	Log    LogConfig
}

type RenderConfig struct {
	BaseURL        string        `env:"RENDER_BASE_URL"`
	PollInterval   time.Duration `env:"RENDER_POLL_INTERVAL" envDefault:"5s"`
	RequestTimeout time.Duration `env:"RENDER_REQUEST_TIMEOUT" envDefault:"30s"`
	// false сохраняет опрос после completed/failed
	StopOnTerminal bool   `env:"RENDER_POLL_STOP_ON_TERMINAL" envDefault:"true"`
	UploadField    string `env:"RENDER_UPLOAD_FIELD" envDefault:"file"`
}

// Validate проверяет адрес сервиса и нормализует его (без завершающего слэша)
func (r *RenderConfig) Validate() error {
	base := strings.TrimSpace(r.BaseURL)
	if base == "" {
		return ErrEmptyBaseURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid render base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid render base url scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("render base url has no host: %q", base)
	}

	r.BaseURL = strings.TrimRight(base, "/")

	if r.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", r.PollInterval)
	}
	if r.UploadField == "" {
		r.UploadField = "file"
	}
	return nil
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"127.0.0.1"`
	Port            int           `env:"SERVER_PORT" envDefault:"3000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxUploadMB     int64         `env:"SERVER_MAX_UPLOAD_MB" envDefault:"256"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type OutputConfig struct {
	Backend     string `env:"OUTPUT_BACKEND" envDefault:"local"`
	Dir         string `env:"OUTPUT_DIR" envDefault:"renders"`
	Concurrency int    `env:"OUTPUT_CONCURRENCY" envDefault:"4"`
}

type S3Config struct {
	Endpoint  string `env:"S3_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"S3_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"S3_SECRET_KEY" envDefault:"minioadmin"`
	Bucket    string `env:"S3_BUCKET" envDefault:"renders"`
	UseSSL    bool   `env:"S3_USE_SSL" envDefault:"false"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// json или console
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load загружает конфигурацию из переменных окружения.
// Адрес сервиса проверяется отдельно через Render.Validate, чтобы CLI мог переопределить его флагом.
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch cfg.Output.Backend {
	case OutputBackendLocal, OutputBackendS3:
	default:
		return nil, fmt.Errorf("unknown output backend: %q", cfg.Output.Backend)
	}
	if cfg.Output.Concurrency < 1 {
		cfg.Output.Concurrency = 1
	}

	return cfg, nil
}
