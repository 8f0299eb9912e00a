package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ModeWebhook = "webhook"
	ModePolling = "polling"
)

type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN"`
	WebhookSecret string `env:"TELEGRAM_WEBHOOK_SECRET"`
	BotMode       string `env:"BOT_MODE" envDefault:"webhook"`
	WebhookURL    string `env:"WEBHOOK_URL"`

	Port        int    `env:"PORT" envDefault:"8000"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"foodlens-bot"`

	ImageDir      string `env:"IMAGE_DIR" envDefault:"images"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	MaxImageBytes int64  `env:"MAX_IMAGE_BYTES" envDefault:"20971520"`

	ModelPath        string        `env:"MODEL_PATH" envDefault:"best.onnx"`
	ClassesPath      string        `env:"CLASSES_PATH" envDefault:"data.yaml"`
	ScoreThreshold   float32       `env:"SCORE_THRESHOLD" envDefault:"0.25"`
	NMSThreshold     float32       `env:"NMS_THRESHOLD" envDefault:"0.45"`
	InferenceTimeout time.Duration `env:"INFERENCE_TIMEOUT" envDefault:"30s"`

	ReplyTokenTTL time.Duration `env:"REPLY_TOKEN_TTL" envDefault:"1h"`
	CatalogLocale string        `env:"CATALOG_LOCALE" envDefault:"en"`
	CatalogFile   string        `env:"CATALOG_FILE"`
	EditMenuURL   string        `env:"EDIT_MENU_URL" envDefault:"https://example.com"`
}

// Load читает .env (если файл есть) и переменные окружения.
// Переменные окружения имеют приоритет над файлом.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные и взаимосвязанные настройки.
func (c *Config) Validate() error {
	var errs []error
	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_TOKEN is required"))
	}
	if c.BotMode != ModeWebhook && c.BotMode != ModePolling {
		errs = append(errs, fmt.Errorf("BOT_MODE must be %q or %q, got %q", ModeWebhook, ModePolling, c.BotMode))
	}
	if c.BotMode == ModeWebhook && c.WebhookURL != "" && c.WebhookSecret == "" {
		errs = append(errs, errors.New("TELEGRAM_WEBHOOK_SECRET is required when WEBHOOK_URL is set"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT is out of range: %d", c.Port))
	}
	for name, raw := range map[string]string{
		"PUBLIC_BASE_URL": c.PublicBaseURL,
		"WEBHOOK_URL":     c.WebhookURL,
		"EDIT_MENU_URL":   c.EditMenuURL,
	} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s is not an absolute URL: %q", name, raw))
		}
	}
	if c.InferenceTimeout <= 0 {
		errs = append(errs, errors.New("INFERENCE_TIMEOUT must be positive"))
	}
	if c.ReplyTokenTTL <= 0 {
		errs = append(errs, errors.New("REPLY_TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}
