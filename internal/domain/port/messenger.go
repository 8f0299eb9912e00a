//go:generate go tool mockgen -source=messenger.go -destination=../../application/messenger_mock_test.go -package=app
package port

import (
	"context"

	"foodlens-bot/internal/domain/entity"
)

// Messenger интерфейс мессенджера
type Messenger interface {
	// FetchContent скачивает содержимое вложения по ссылке платформы
	FetchContent(ctx context.Context, ref string) ([]byte, error)

	// ShowWorking показывает пользователю индикатор "печатает"
	ShowWorking(ctx context.Context, chatID int64) error

	// Reply отправляет ответ на сообщение
	Reply(ctx context.Context, reply entity.Reply) error
}
