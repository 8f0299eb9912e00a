package telegram

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"foodlens-bot/internal/domain/entity"
)

type stubDispatcher struct {
	got entity.InboundEvent
}

func (d *stubDispatcher) Dispatch(ctx context.Context, event entity.InboundEvent) entity.Outcome {
	d.got = event
	return entity.Outcome{Kind: event.Kind, Status: entity.OutcomeReplied}
}

type stubObserver struct {
	outcomes []entity.Outcome
}

func (o *stubObserver) Observe(out entity.Outcome, elapsed time.Duration) {
	o.outcomes = append(o.outcomes, out)
}

func TestUpdateHandler_ObservesOutcome(t *testing.T) {
	d := &stubDispatcher{}
	o := &stubObserver{}
	h := NewUpdateHandler(d, o)

	msg := baseMessage()
	msg.Text = "hello"
	out := h.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 3, Message: msg})

	require.Equal(t, entity.OutcomeReplied, out.Status)
	require.Equal(t, entity.EventText, d.got.Kind)
	require.Equal(t, "hello", d.got.Text)
	require.Equal(t, []entity.Outcome{out}, o.outcomes)
}

func TestUpdateHandler_NilObserver(t *testing.T) {
	h := NewUpdateHandler(&stubDispatcher{}, nil)

	out := h.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 4})
	require.Equal(t, entity.EventOther, out.Kind)
}
