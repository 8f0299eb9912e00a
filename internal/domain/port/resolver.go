package port

import "foodlens-bot/internal/domain/entity"

// LabelResolver интерфейс сопоставления меток модели с меню
type LabelResolver interface {
	// Resolve превращает набор меток в строку для пользователя
	Resolve(labels []string) entity.ReplyLabel
}
