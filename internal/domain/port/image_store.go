package port

import "context"

// ImageStore интерфейс хранилища присланных фото
type ImageStore interface {
	// Save записывает фото под именем из messageID и возвращает путь к файлу
	Save(ctx context.Context, messageID string, data []byte) (string, error)
}
