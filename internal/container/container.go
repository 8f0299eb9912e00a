package container

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"foodlens-bot/config"
	telegram "foodlens-bot/internal/api"
	"foodlens-bot/internal/api/webhook"
	app "foodlens-bot/internal/application"
	"foodlens-bot/internal/domain/entity"
	"foodlens-bot/internal/domain/port"
	"foodlens-bot/internal/infrastructure/catalog"
	"foodlens-bot/internal/infrastructure/metrics"
	"foodlens-bot/internal/infrastructure/storage"
	"foodlens-bot/internal/infrastructure/vision"
)

type Container struct {
	Catalog    *entity.Catalog
	Store      *storage.FileImageStore
	Detector   *vision.GoCVDetector
	Dispatcher *app.Dispatcher
	Metrics    *metrics.Collector
	Updates    *telegram.UpdateHandler

	cfg    *config.Config
	logger zerolog.Logger
}

// New собирает зависимости приложения. Мессенджер создаётся снаружи.
func New(cfg *config.Config, messenger port.Messenger, logger zerolog.Logger) (*Container, error) {
	menu, err := catalog.Load(cfg.CatalogLocale, cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	store := storage.NewFileImageStore(cfg.ImageDir, app.ImageExtension)
	detector := vision.NewGoCVDetector(vision.Config{
		ModelPath:      cfg.ModelPath,
		ClassesPath:    cfg.ClassesPath,
		ScoreThreshold: cfg.ScoreThreshold,
		NMSThreshold:   cfg.NMSThreshold,
	})

	dispatcher := app.NewDispatcher(app.DispatcherConfig{
		Messenger:        messenger,
		Store:            store,
		Detector:         detector,
		Resolver:         app.NewMenuResolver(menu),
		Replies:          app.NewReplyBuilder(menu.Messages, cfg.PublicBaseURL, cfg.EditMenuURL),
		Ledger:           storage.NewReplyLedger(cfg.ReplyTokenTTL),
		EditMenuTrigger:  menu.Messages.EditMenuTrigger,
		InferenceTimeout: cfg.InferenceTimeout,
		Logger:           logger,
	})

	collector := metrics.New(metricsNamespace(cfg.ServiceName))

	return &Container{
		Catalog:    menu,
		Store:      store,
		Detector:   detector,
		Dispatcher: dispatcher,
		Metrics:    collector,
		Updates:    telegram.NewUpdateHandler(dispatcher, collector),
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// HTTP собирает сервер вебхука.
func (c *Container) HTTP() *fiber.App {
	return webhook.NewApp(c.Updates, webhook.Config{
		Secret:   c.cfg.WebhookSecret,
		ImageDir: c.Store.Dir(),
		Metrics:  c.Metrics.Handler(),
		Logger:   c.logger,
	})
}

// Close освобождает модель.
func (c *Container) Close() error {
	return c.Detector.Close()
}

// metricsNamespace приводит имя сервиса к виду, допустимому в Prometheus.
func metricsNamespace(service string) string {
	out := make([]byte, 0, len(service))
	for i := 0; i < len(service); i++ {
		ch := service[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
			out = append(out, ch)
		case ch >= '0' && ch <= '9':
			if len(out) == 0 {
				out = append(out, '_')
			}
			out = append(out, ch)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
