package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"foodlens-bot/internal/domain/entity"
	"foodlens-bot/internal/domain/port"
)

const defaultInferenceTimeout = 30 * time.Second

// Dispatcher обрабатывает входящие события мессенджера: одно событие, один ответ.
type Dispatcher struct {
	messenger port.Messenger
	store     port.ImageStore
	detector  port.Detector
	resolver  port.LabelResolver
	replies   *ReplyBuilder
	ledger    port.ReplyLedger
	trigger   string
	timeout   time.Duration
	logger    zerolog.Logger
}

// DispatcherConfig зависимости диспетчера
type DispatcherConfig struct {
	Messenger        port.Messenger
	Store            port.ImageStore
	Detector         port.Detector
	Resolver         port.LabelResolver
	Replies          *ReplyBuilder
	Ledger           port.ReplyLedger
	EditMenuTrigger  string
	InferenceTimeout time.Duration
	Logger           zerolog.Logger
}

// NewDispatcher создаёт диспетчер событий.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	timeout := cfg.InferenceTimeout
	if timeout <= 0 {
		timeout = defaultInferenceTimeout
	}
	return &Dispatcher{
		messenger: cfg.Messenger,
		store:     cfg.Store,
		detector:  cfg.Detector,
		resolver:  cfg.Resolver,
		replies:   cfg.Replies,
		ledger:    cfg.Ledger,
		trigger:   cfg.EditMenuTrigger,
		timeout:   timeout,
		logger:    cfg.Logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch определяет тип события и доводит его обработку до конца.
// Ошибки не возвращаются: они отражены в Outcome и в логе.
func (d *Dispatcher) Dispatch(ctx context.Context, event entity.InboundEvent) entity.Outcome {
	logger := d.logger.With().
		Str("kind", string(event.Kind)).
		Str("token", event.Token.Key()).
		Int64("sender", event.SenderID).
		Logger()

	if event.Kind != entity.EventImage && event.Kind != entity.EventText {
		logger.Debug().Msg("unsupported event kind, skipping")
		return entity.Outcome{Kind: event.Kind, Status: entity.OutcomeIgnored}
	}

	if d.ledger != nil && !d.ledger.Claim(event.Token.Key()) {
		logger.Info().Msg("reply token already used, skipping")
		return entity.Outcome{Kind: event.Kind, Status: entity.OutcomeDuplicate}
	}

	var out entity.Outcome
	switch event.Kind {
	case entity.EventImage:
		out = d.handleImage(ctx, logger, event)
	default:
		out = d.handleText(ctx, logger, event)
	}
	out.Kind = event.Kind

	if out.Err != nil {
		logger.Error().Err(out.Err).Str("outcome", string(out.Status)).Msg("event handled with error")
	} else {
		logger.Info().Str("outcome", string(out.Status)).Msg("event handled")
	}
	return out
}

// handleImage сохраняет фото, запускает распознавание и отвечает карточкой.
func (d *Dispatcher) handleImage(ctx context.Context, logger zerolog.Logger, event entity.InboundEvent) entity.Outcome {
	imagePath, err := d.persist(ctx, event)
	if err != nil {
		// Фото не сохранилось: отвечаем запасным текстом вместо молчания.
		reply := d.replies.Fallback(event.Token)
		if sendErr := d.send(ctx, reply); sendErr != nil {
			err = errors.Join(err, sendErr)
		}
		return entity.Outcome{Status: entity.OutcomePersistFailed, Reply: &reply, Err: err}
	}

	if err := d.messenger.ShowWorking(ctx, event.Token.ChatID); err != nil {
		logger.Warn().Err(err).Msg("failed to show working indicator")
	}

	status := entity.OutcomeReplied
	labels, inferErr := d.detect(ctx, imagePath)
	if inferErr != nil {
		status = entity.OutcomeInferenceDegraded
	}

	label := d.resolver.Resolve(labels)
	logger.Debug().Strs("labels", labels).Str("dish", label.Text).Str("status", string(label.Status)).Msg("labels resolved")

	reply := d.replies.Detection(event, label, imagePath)
	if err := d.send(ctx, reply); err != nil {
		return entity.Outcome{Status: entity.OutcomeSendFailed, Reply: &reply, Err: errors.Join(inferErr, err)}
	}
	return entity.Outcome{Status: status, Reply: &reply, Err: inferErr}
}

// handleText отвечает на текст: фраза редактирования меню или приветствие.
func (d *Dispatcher) handleText(ctx context.Context, logger zerolog.Logger, event entity.InboundEvent) entity.Outcome {
	if err := d.messenger.ShowWorking(ctx, event.Token.ChatID); err != nil {
		logger.Warn().Err(err).Msg("failed to show working indicator")
	}

	// Сравнение побайтовое, без обрезки пробелов.
	reply := d.replies.Greeting(event.Token)
	if d.trigger != "" && event.Text == d.trigger {
		reply = d.replies.EditMenuPrompt(event.Token)
	}

	if err := d.send(ctx, reply); err != nil {
		return entity.Outcome{Status: entity.OutcomeSendFailed, Reply: &reply, Err: err}
	}
	return entity.Outcome{Status: entity.OutcomeReplied, Reply: &reply}
}

// persist скачивает фото у мессенджера и записывает его на диск.
func (d *Dispatcher) persist(ctx context.Context, event entity.InboundEvent) (string, error) {
	data, err := d.messenger.FetchContent(ctx, event.ContentRef)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrFetch, err)
	}

	imagePath, err := d.store.Save(ctx, event.MessageID, data)
	if err != nil {
		if errors.Is(err, entity.ErrPersistence) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", entity.ErrPersistence, err)
	}
	return imagePath, nil
}

// detect запускает модель с ограничением по времени. При ошибке метки пустые.
func (d *Dispatcher) detect(ctx context.Context, imagePath string) ([]string, error) {
	if d.detector == nil {
		return []string{}, fmt.Errorf("%w: detector is not configured", entity.ErrInference)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	result, err := d.detector.Detect(ctx, imagePath)
	if err != nil {
		if errors.Is(err, entity.ErrInference) {
			return []string{}, err
		}
		return []string{}, fmt.Errorf("%w: %w", entity.ErrInference, err)
	}
	return result.Labels(), nil
}

func (d *Dispatcher) send(ctx context.Context, reply entity.Reply) error {
	if err := d.messenger.Reply(ctx, reply); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrSend, err)
	}
	return nil
}
