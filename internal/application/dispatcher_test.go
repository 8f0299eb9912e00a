package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"foodlens-bot/internal/domain/entity"
	"foodlens-bot/internal/infrastructure/storage"
)

type fakeDetector struct {
	result entity.DetectionResult
	err    error
	block  bool
	calls  int
	paths  []string
}

func (f *fakeDetector) Detect(ctx context.Context, imagePath string) (entity.DetectionResult, error) {
	f.calls++
	f.paths = append(f.paths, imagePath)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.result, f.err
}

type failingStore struct{}

func (failingStore) Save(ctx context.Context, messageID string, data []byte) (string, error) {
	return "", errors.New("disk full")
}

type dispatcherDeps struct {
	messenger *MockMessenger
	detector  *fakeDetector
	imageDir  string
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *dispatcherDeps) {
	ctrl := gomock.NewController(t)
	deps := &dispatcherDeps{
		messenger: NewMockMessenger(ctrl),
		detector:  &fakeDetector{},
		imageDir:  filepath.Join(t.TempDir(), "images"),
	}
	catalog := testCatalog()
	d := NewDispatcher(DispatcherConfig{
		Messenger:        deps.messenger,
		Store:            storage.NewFileImageStore(deps.imageDir, ImageExtension),
		Detector:         deps.detector,
		Resolver:         NewMenuResolver(catalog),
		Replies:          NewReplyBuilder(catalog.Messages, "https://bot.example.org", "https://example.com"),
		Ledger:           storage.NewReplyLedger(time.Minute),
		EditMenuTrigger:  catalog.Messages.EditMenuTrigger,
		InferenceTimeout: time.Second,
		Logger:           zerolog.Nop(),
	})
	return d, deps
}

func imageEvent() entity.InboundEvent {
	return entity.InboundEvent{
		Kind:       entity.EventImage,
		UpdateID:   100,
		Token:      entity.ReplyToken{ChatID: 10, MessageID: 7},
		SenderID:   1,
		MessageID:  "10_7",
		ContentRef: "file-id",
	}
}

func textEvent(text string) entity.InboundEvent {
	return entity.InboundEvent{
		Kind:     entity.EventText,
		UpdateID: 101,
		Token:    entity.ReplyToken{ChatID: 10, MessageID: 8},
		SenderID: 1,
		Text:     text,
	}
}

func TestDispatcher_ImageRecognized(t *testing.T) {
	d, deps := newTestDispatcher(t)
	ctx := context.Background()
	deps.detector.result = entity.DetectionResult{{Label: "greencurry", Confidence: 0.91}}

	var sent entity.Reply
	gomock.InOrder(
		deps.messenger.EXPECT().FetchContent(gomock.Any(), "file-id").Return([]byte("jpeg-bytes"), nil),
		deps.messenger.EXPECT().ShowWorking(gomock.Any(), int64(10)).Return(nil),
		deps.messenger.EXPECT().Reply(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r entity.Reply) error {
			sent = r
			return nil
		}).Times(1),
	)

	out := d.Dispatch(ctx, imageEvent())
	require.NoError(t, out.Err)
	require.Equal(t, entity.OutcomeReplied, out.Status)
	require.Equal(t, entity.EventImage, out.Kind)

	path := filepath.Join(deps.imageDir, "10_7.jpg")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "jpeg-bytes", string(data))
	require.Equal(t, []string{path}, deps.detector.paths)

	require.Equal(t, entity.ReplyToken{ChatID: 10, MessageID: 7}, sent.Token)
	require.Len(t, sent.Parts, 1)
	require.Equal(t, "green curry over rice", sent.Parts[0].Card.Title)
	require.Equal(t, "https://bot.example.org/images/10_7.jpg", sent.Parts[0].Card.ImageURL)
}

func TestDispatcher_ImageNothingDetected(t *testing.T) {
	d, deps := newTestDispatcher(t)
	deps.detector.result = entity.DetectionResult{}

	deps.messenger.EXPECT().FetchContent(gomock.Any(), gomock.Any()).Return([]byte("jpeg"), nil)
	deps.messenger.EXPECT().ShowWorking(gomock.Any(), gomock.Any()).Return(nil)
	deps.messenger.EXPECT().Reply(gomock.Any(), gomock.Any()).Return(nil)

	out := d.Dispatch(context.Background(), imageEvent())
	require.Equal(t, entity.OutcomeReplied, out.Status)
	require.Equal(t, "no food found in image", out.Reply.Parts[0].Card.Title)
}

func TestDispatcher_InferenceErrorDegrades(t *testing.T) {
	d, deps := newTestDispatcher(t)
	deps.detector.err = errors.New("model file missing")

	deps.messenger.EXPECT().FetchContent(gomock.Any(), gomock.Any()).Return([]byte("jpeg"), nil)
	deps.messenger.EXPECT().ShowWorking(gomock.Any(), gomock.Any()).Return(nil)
	deps.messenger.EXPECT().Reply(gomock.Any(), gomock.Any()).Return(nil)

	out := d.Dispatch(context.Background(), imageEvent())
	require.Equal(t, entity.OutcomeInferenceDegraded, out.Status)
	require.ErrorIs(t, out.Err, entity.ErrInference)
	require.Equal(t, "no food found in image", out.Reply.Parts[0].Card.Title)
}

func TestDispatcher_InferenceTimeout(t *testing.T) {
	d, deps := newTestDispatcher(t)
	d.timeout = 10 * time.Millisecond
	deps.detector.block = true

	deps.messenger.EXPECT().FetchContent(gomock.Any(), gomock.Any()).Return([]byte("jpeg"), nil)
	deps.messenger.EXPECT().ShowWorking(gomock.Any(), gomock.Any()).Return(nil)
	deps.messenger.EXPECT().Reply(gomock.Any(), gomock.Any()).Return(nil)

	out := d.Dispatch(context.Background(), imageEvent())
	require.Equal(t, entity.OutcomeInferenceDegraded, out.Status)
	require.ErrorIs(t, out.Err, context.DeadlineExceeded)
}

func TestDispatcher_FetchFailureSendsFallback(t *testing.T) {
	d, deps := newTestDispatcher(t)

	deps.messenger.EXPECT().FetchContent(gomock.Any(), gomock.Any()).Return(nil, errors.New("telegram down"))
	deps.messenger.EXPECT().Reply(gomock.Any(), gomock.Any()).Return(nil)

	out := d.Dispatch(context.Background(), imageEvent())
	require.Equal(t, entity.OutcomePersistFailed, out.Status)
	require.ErrorIs(t, out.Err, entity.ErrFetch)
	require.Equal(t, []string{"Sorry, something went wrong. Please try again."}, out.Reply.Texts())
	require.Zero(t, deps.detector.calls)
}

func TestDispatcher_PersistFailureSendsFallback(t *testing.T) {
	d, deps := newTestDispatcher(t)
	d.store = failingStore{}

	deps.messenger.EXPECT().FetchContent(gomock.Any(), gomock.Any()).Return([]byte("jpeg"), nil)
	deps.messenger.EXPECT().Reply(gomock.Any(), gomock.Any()).Return(nil)

	out := d.Dispatch(context.Background(), imageEvent())
	require.Equal(t, entity.OutcomePersistFailed, out.Status)
	require.ErrorIs(t, out.Err, entity.ErrPersistence)
	require.Zero(t, deps.detector.calls)
}

func TestDispatcher_EmptyContentIsPersistenceError(t *testing.T) {
	d, deps := newTestDispatcher(t)

	deps.messenger.EXPECT().FetchContent(gomock.Any(), gomock.Any()).Return([]byte{}, nil)
	deps.messenger.EXPECT().Reply(gomock.Any(), gomock.Any()).Return(nil)

	out := d.Dispatch(context.Background(), imageEvent())
	require.Equal(t, entity.OutcomePersistFailed, out.Status)
	require.ErrorIs(t, out.Err, entity.ErrPersistence)
}

func TestDispatcher_SendFailureIsReported(t *testing.T) {
	d, deps := newTestDispatcher(t)

	deps.messenger.EXPECT().ShowWorking(gomock.Any(), gomock.Any()).Return(errors.New("ignored"))
	deps.messenger.EXPECT().Reply(gomock.Any(), gomock.Any()).Return(errors.New("403 blocked by user"))

	out := d.Dispatch(context.Background(), textEvent("hi"))
	require.Equal(t, entity.OutcomeSendFailed, out.Status)
	require.ErrorIs(t, out.Err, entity.ErrSend)
}

func TestDispatcher_TextTrigger(t *testing.T) {
	d, deps := newTestDispatcher(t)

	deps.messenger.EXPECT().ShowWorking(gomock.Any(), int64(10)).Return(nil)
	deps.messenger.EXPECT().Reply(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	out := d.Dispatch(context.Background(), textEvent("edit menu"))
	require.Equal(t, entity.OutcomeReplied, out.Status)
	require.Equal(t, []string{"Please enter the correct menu name!"}, out.Reply.Texts())
}

func TestDispatcher_TextGreeting(t *testing.T) {
	for _, text := range []string{"hello", "edit menu ", " edit menu", "Edit menu", "edit  menu"} {
		t.Run(text, func(t *testing.T) {
			d, deps := newTestDispatcher(t)

			deps.messenger.EXPECT().ShowWorking(gomock.Any(), gomock.Any()).Return(nil)
			deps.messenger.EXPECT().Reply(gomock.Any(), gomock.Any()).Return(nil)

			out := d.Dispatch(context.Background(), textEvent(text))
			require.Equal(t, entity.OutcomeReplied, out.Status)
			require.Equal(t, []string{"Hello!", "Send me a food photo 🎈"}, out.Reply.Texts())
		})
	}
}

func TestDispatcher_UnsupportedKindIgnored(t *testing.T) {
	// Мок без ожиданий: любой вызов мессенджера провалит тест.
	d, _ := newTestDispatcher(t)

	out := d.Dispatch(context.Background(), entity.InboundEvent{
		Kind:  entity.EventOther,
		Token: entity.ReplyToken{ChatID: 10, MessageID: 9},
	})
	require.Equal(t, entity.OutcomeIgnored, out.Status)
	require.NoError(t, out.Err)
	require.Nil(t, out.Reply)
}

func TestDispatcher_ReplyTokenUsedOnce(t *testing.T) {
	d, deps := newTestDispatcher(t)

	deps.messenger.EXPECT().ShowWorking(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	deps.messenger.EXPECT().Reply(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	first := d.Dispatch(context.Background(), textEvent("hello"))
	second := d.Dispatch(context.Background(), textEvent("hello"))
	require.Equal(t, entity.OutcomeReplied, first.Status)
	require.Equal(t, entity.OutcomeDuplicate, second.Status)
}
