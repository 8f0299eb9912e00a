package telegram

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"foodlens-bot/internal/domain/entity"
	"foodlens-bot/internal/domain/port"
)

const (
	// SecretHeader заголовок с секретом, который Telegram кладёт в каждый вызов вебхука
	SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

	defaultMaxFileBytes = 20 << 20
	httpTimeout         = 30 * time.Second
	ratingIcon          = "★"
)

// Bot реализует мессенджер поверх Telegram Bot API
type Bot struct {
	api          *tgbotapi.BotAPI
	client       *http.Client
	fileEndpoint string
	maxFileBytes int64
	logger       zerolog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, logger zerolog.Logger) (*Bot, error) {
	return NewBotWithEndpoint(token, tgbotapi.APIEndpoint, tgbotapi.FileEndpoint, &http.Client{Timeout: httpTimeout}, logger)
}

// NewBotWithEndpoint создаёт бота с другими адресами API (для тестов).
func NewBotWithEndpoint(token, apiEndpoint, fileEndpoint string, client *http.Client, logger zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, apiEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	logger = logger.With().Str("component", "telegram").Logger()
	logger.Info().Str("account", api.Self.UserName).Msg("authorized on account")

	return &Bot{
		api:          api,
		client:       client,
		fileEndpoint: fileEndpoint,
		maxFileBytes: defaultMaxFileBytes,
		logger:       logger,
	}, nil
}

// SetMaxFileBytes ограничивает размер скачиваемого файла
func (b *Bot) SetMaxFileBytes(n int64) {
	if n > 0 {
		b.maxFileBytes = n
	}
}

// SetWebhook регистрирует адрес вебхука с секретом.
func (b *Bot) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	if secret != "" {
		params["secret_token"] = secret
	}
	if _, err := b.api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	b.logger.Info().Str("url", url).Msg("webhook registered")
	return nil
}

// Run запускает основной цикл получения апдейтов (режим long polling).
// Блокируется до отмены ctx.
func (b *Bot) Run(ctx context.Context, handle func(context.Context, tgbotapi.Update)) error {
	// getUpdates не работает при активном вебхуке.
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info().Msg("polling for updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			handle(ctx, update)
		}
	}
}

// FetchContent скачивает файл из Telegram
func (b *Bot) FetchContent(ctx context.Context, ref string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: ref})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	if file.FileSize > 0 && int64(file.FileSize) > b.maxFileBytes {
		return nil, fmt.Errorf("file is too large: %d bytes", file.FileSize)
	}

	fileURL := fmt.Sprintf(b.fileEndpoint, b.api.Token, file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, b.maxFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > b.maxFileBytes {
		return nil, fmt.Errorf("file is larger than %d bytes", b.maxFileBytes)
	}

	return data, nil
}

// ShowWorking показывает "печатает..." в чате
func (b *Bot) ShowWorking(ctx context.Context, chatID int64) error {
	_ = ctx
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		return fmt.Errorf("send chat action: %w", err)
	}
	return nil
}

// Reply отправляет части ответа по порядку. Ответом на сообщение помечается только первая часть.
func (b *Bot) Reply(ctx context.Context, reply entity.Reply) error {
	_ = ctx
	for i, part := range reply.Parts {
		replyTo := 0
		if i == 0 {
			replyTo = reply.Token.MessageID
		}

		var msg tgbotapi.Chattable
		if part.IsCard() {
			msg = cardMessage(reply.Token.ChatID, replyTo, part.Card)
		} else {
			m := tgbotapi.NewMessage(reply.Token.ChatID, part.Text)
			m.ReplyToMessageID = replyTo
			m.AllowSendingWithoutReply = true
			msg = m
		}

		if _, err := b.api.Send(msg); err != nil {
			return fmt.Errorf("send part %d: %w", i, err)
		}
	}

	b.logger.Debug().Str("token", reply.Token.Key()).Int("parts", len(reply.Parts)).Msg("reply sent")
	return nil
}

// cardMessage собирает фото с подписью и кнопкой.
func cardMessage(chatID int64, replyTo int, card *entity.Card) tgbotapi.PhotoConfig {
	var file tgbotapi.RequestFileData = tgbotapi.FilePath(card.ImagePath)
	if card.ImageURL != "" {
		file = tgbotapi.FileURL(card.ImageURL)
	}

	photo := tgbotapi.NewPhoto(chatID, file)
	photo.Caption = cardCaption(card)
	photo.ParseMode = tgbotapi.ModeHTML
	photo.ReplyToMessageID = replyTo
	photo.AllowSendingWithoutReply = true

	if card.ActionURL != "" {
		photo.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL(card.ActionLabel, card.ActionURL),
			),
		)
	}
	return photo
}

func cardCaption(card *entity.Card) string {
	var sb strings.Builder
	if card.AltText != "" {
		fmt.Fprintf(&sb, "<i>%s</i>\n", html.EscapeString(card.AltText))
	}
	fmt.Fprintf(&sb, "<b>%s</b>\n", html.EscapeString(card.Title))
	if card.RatingIcons > 0 {
		fmt.Fprintf(&sb, "%s %s\n", strings.Repeat(ratingIcon, card.RatingIcons), html.EscapeString(card.RatingText))
	}
	if card.InfoLabel != "" || card.InfoText != "" {
		fmt.Fprintf(&sb, "\n%s: %s", html.EscapeString(card.InfoLabel), html.EscapeString(card.InfoText))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Проверка реализации интерфейса
var _ port.Messenger = (*Bot)(nil)
