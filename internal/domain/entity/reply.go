package entity

// LabelStatus результат сопоставления меток с меню
type LabelStatus string

const (
	LabelResolved LabelStatus = "resolved"  // Блюдо найдено в меню
	LabelNotFound LabelStatus = "not_found" // На фото ничего не найдено
	LabelUnknown  LabelStatus = "unknown"   // Набор меток не описан в меню
)

// ReplyLabel строка для пользователя с признаком того, как она получена.
type ReplyLabel struct {
	Text   string
	Status LabelStatus
}

// Card карточка с результатом распознавания
type Card struct {
	AltText     string
	ImageURL    string // публичная ссылка на фото; пустая, если нет публичного адреса
	ImagePath   string // локальный файл, используется без ImageURL
	Title       string
	RatingIcons int
	RatingText  string
	InfoLabel   string
	InfoText    string
	ActionLabel string
	ActionURL   string
}

// ReplyPart часть ответа: текст или карточка
type ReplyPart struct {
	Text string
	Card *Card
}

// IsCard сообщает, что часть является карточкой
func (p ReplyPart) IsCard() bool {
	return p.Card != nil
}

// Reply исходящий ответ, привязанный к токену
type Reply struct {
	Token ReplyToken
	Parts []ReplyPart
}

// Texts возвращает текстовые части ответа по порядку
func (r Reply) Texts() []string {
	out := make([]string, 0, len(r.Parts))
	for _, p := range r.Parts {
		if !p.IsCard() {
			out = append(out, p.Text)
		}
	}
	return out
}
