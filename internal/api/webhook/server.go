package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	telegram "foodlens-bot/internal/api"
	app "foodlens-bot/internal/application"
	"foodlens-bot/internal/domain/entity"
)

const defaultBodyLimit = 25 << 20

// UpdateHandler обработчик апдейтов Telegram
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) entity.Outcome
}

// Config настройки HTTP-сервера
type Config struct {
	Secret    string       // секрет вебхука; пустой отключает проверку
	ImageDir  string       // каталог, раздаваемый по /images
	BodyLimit int          // максимальный размер тела запроса
	Metrics   http.Handler // обработчик /metrics, может быть nil
	Logger    zerolog.Logger
}

type server struct {
	handler UpdateHandler
	secret  []byte
	logger  zerolog.Logger
}

// NewApp собирает fiber-приложение со всеми маршрутами.
func NewApp(handler UpdateHandler, cfg Config) *fiber.App {
	logger := cfg.Logger.With().Str("component", "webhook").Logger()
	if cfg.Secret == "" {
		logger.Warn().Msg("webhook secret is not set, signature check is disabled")
	}
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = defaultBodyLimit
	}

	s := &server{
		handler: handler,
		secret:  []byte(cfg.Secret),
		logger:  logger,
	}

	fapp := fiber.New(fiber.Config{
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
	})
	fapp.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	fapp.Use(s.contextLogger)

	fapp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": "Server is up and running"})
	})
	fapp.Post("/callback", s.callback)
	fapp.Post("/predict", s.upload)
	if cfg.ImageDir != "" {
		fapp.Static(app.ImagesRoute, cfg.ImageDir)
	}
	if cfg.Metrics != nil {
		fapp.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	return fapp
}

// contextLogger кладёт логгер с request id в контекст запроса.
func (s *server) contextLogger(c *fiber.Ctx) error {
	rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	logger := s.logger.With().Str("request_id", rid).Logger()
	c.SetUserContext(logger.WithContext(c.UserContext()))
	return c.Next()
}

// callback принимает апдейты Telegram. После проверки подписи всегда отвечает 200.
func (s *server) callback(c *fiber.Ctx) error {
	logger := zerolog.Ctx(c.UserContext())

	if !s.verify(c.Get(telegram.SecretHeader)) {
		logger.Warn().Msg("invalid webhook signature")
		return fiber.NewError(fiber.StatusBadRequest, "Invalid signature.")
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		logger.Warn().Err(err).Msg("invalid webhook payload")
		return fiber.NewError(fiber.StatusBadRequest, "Invalid payload.")
	}

	out := s.handler.HandleUpdate(c.UserContext(), update)
	logger.Debug().Int("update_id", update.UpdateID).Str("outcome", string(out.Status)).Msg("update handled")

	return c.SendString("OK")
}

// upload принимает файл и подтверждает имя и размер. С распознаванием не связан.
func (s *server) upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Upload failed: "+err.Error())
	}

	return c.JSON(UploadResponse{
		File:     fh.Filename,
		FileSize: fh.Size,
		Message:  "Upload successful",
	})
}

func (s *server) verify(got string) bool {
	if len(s.secret) == 0 {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(got), s.secret) == 1
}

func (s *server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		code = ferr.Code
		msg = ferr.Message
	}
	if code >= fiber.StatusInternalServerError {
		zerolog.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(code).JSON(ErrorResponse{Message: msg})
}
