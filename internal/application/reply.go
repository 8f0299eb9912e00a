package app

import (
	"net/url"
	"path"

	"foodlens-bot/internal/domain/entity"
)

const (
	ImagesRoute    = "/images"
	ImageExtension = ".jpg"
	ratingIcons    = 5
)

// ReplyBuilder собирает исходящие ответы из фиксированных текстов каталога.
type ReplyBuilder struct {
	messages      entity.Messages
	publicBaseURL string
	actionURL     string
}

// NewReplyBuilder создаёт сборщик ответов. publicBaseURL может быть пустым,
// тогда карточка ссылается на локальный файл.
func NewReplyBuilder(messages entity.Messages, publicBaseURL, actionURL string) *ReplyBuilder {
	return &ReplyBuilder{
		messages:      messages,
		publicBaseURL: publicBaseURL,
		actionURL:     actionURL,
	}
}

// Text собирает ответ из строк в заданном порядке.
func (b *ReplyBuilder) Text(token entity.ReplyToken, lines ...string) entity.Reply {
	parts := make([]entity.ReplyPart, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, entity.ReplyPart{Text: l})
	}
	return entity.Reply{Token: token, Parts: parts}
}

// Greeting приветствие из двух сообщений
func (b *ReplyBuilder) Greeting(token entity.ReplyToken) entity.Reply {
	return b.Text(token, b.messages.Greeting...)
}

// EditMenuPrompt просьба ввести правильное название блюда
func (b *ReplyBuilder) EditMenuPrompt(token entity.ReplyToken) entity.Reply {
	return b.Text(token, b.messages.EditMenuPrompt)
}

// Fallback ответ на внутреннюю ошибку
func (b *ReplyBuilder) Fallback(token entity.ReplyToken) entity.Reply {
	return b.Text(token, b.messages.Failure)
}

// Detection собирает карточку с результатом распознавания.
func (b *ReplyBuilder) Detection(event entity.InboundEvent, label entity.ReplyLabel, imagePath string) entity.Reply {
	card := &entity.Card{
		AltText:     b.messages.CardAltText,
		ImageURL:    b.ImageURL(event.MessageID),
		Title:       label.Text,
		RatingIcons: ratingIcons,
		RatingText:  b.messages.RatingText,
		InfoLabel:   b.messages.InfoLabel,
		InfoText:    b.messages.InfoText,
		ActionLabel: b.messages.ActionLabel,
		ActionURL:   b.actionURL,
	}
	if card.ImageURL == "" {
		card.ImagePath = imagePath
	}

	return entity.Reply{
		Token: event.Token,
		Parts: []entity.ReplyPart{{Card: card}},
	}
}

// ImageURL публичная ссылка на сохранённое фото или пустая строка.
func (b *ReplyBuilder) ImageURL(messageID string) string {
	if b.publicBaseURL == "" {
		return ""
	}
	u, err := url.Parse(b.publicBaseURL)
	if err != nil {
		return ""
	}
	u.Path = path.Join(u.Path, ImagesRoute, messageID+ImageExtension)
	return u.String()
}
