package entity

import "fmt"

// EventKind тип входящего события
type EventKind string

const (
	EventImage EventKind = "image" // Фото блюда
	EventText  EventKind = "text"  // Текстовое сообщение
	EventOther EventKind = "other" // Видео, стикер, локация и прочее
)

// ReplyToken адрес ответа на конкретное сообщение. Используется не более одного раза.
type ReplyToken struct {
	ChatID    int64 // чат, куда уходит ответ
	MessageID int   // сообщение, на которое отвечаем
}

// Key возвращает строковый ключ токена
func (t ReplyToken) Key() string {
	return fmt.Sprintf("%d:%d", t.ChatID, t.MessageID)
}

// InboundEvent событие, полученное от мессенджера
type InboundEvent struct {
	Kind       EventKind
	UpdateID   int
	Token      ReplyToken
	SenderID   int64
	MessageID  string // ключ для имени сохранённого файла
	ContentRef string // ссылка на содержимое фото у платформы
	Text       string
}
