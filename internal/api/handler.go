package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"foodlens-bot/internal/domain/entity"
)

// Dispatcher обработчик входящих событий
type Dispatcher interface {
	Dispatch(ctx context.Context, event entity.InboundEvent) entity.Outcome
}

// Observer получает итог каждого события
type Observer interface {
	Observe(out entity.Outcome, elapsed time.Duration)
}

// UpdateHandler общий вход для вебхука и long polling.
type UpdateHandler struct {
	dispatcher Dispatcher
	observer   Observer
}

// NewUpdateHandler создаёт обработчик апдейтов. observer может быть nil.
func NewUpdateHandler(dispatcher Dispatcher, observer Observer) *UpdateHandler {
	return &UpdateHandler{dispatcher: dispatcher, observer: observer}
}

// HandleUpdate обрабатывает один апдейт до конца.
func (h *UpdateHandler) HandleUpdate(ctx context.Context, update tgbotapi.Update) entity.Outcome {
	start := time.Now()
	out := h.dispatcher.Dispatch(ctx, EventFromUpdate(update))
	if h.observer != nil {
		h.observer.Observe(out, time.Since(start))
	}
	return out
}
