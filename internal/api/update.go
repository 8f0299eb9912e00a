package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"foodlens-bot/internal/domain/entity"
)

// EventFromUpdate переводит апдейт Telegram во входящее событие.
// Всё, кроме фото, картинки-документа и текста, получает тип EventOther.
func EventFromUpdate(update tgbotapi.Update) entity.InboundEvent {
	event := entity.InboundEvent{
		Kind:     entity.EventOther,
		UpdateID: update.UpdateID,
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return event
	}

	event.Token = entity.ReplyToken{ChatID: msg.Chat.ID, MessageID: msg.MessageID}
	event.MessageID = fmt.Sprintf("%d_%d", msg.Chat.ID, msg.MessageID)
	if msg.From != nil {
		event.SenderID = msg.From.ID
	}

	switch {
	case len(msg.Photo) > 0:
		// Последний размер самый большой
		event.Kind = entity.EventImage
		event.ContentRef = msg.Photo[len(msg.Photo)-1].FileID

	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/"):
		event.Kind = entity.EventImage
		event.ContentRef = msg.Document.FileID

	case msg.Text != "":
		event.Kind = entity.EventText
		event.Text = msg.Text
	}

	return event
}
