package storage

import (
	"time"

	"github.com/patrickmn/go-cache"

	"foodlens-bot/internal/domain/port"
)

// ReplyLedger in-memory учёт токенов ответа с TTL.
// Telegram повторяет доставку вебхука, если не получил ответ вовремя;
// повторное событие не должно давать второй ответ.
type ReplyLedger struct {
	cache *cache.Cache
}

// NewReplyLedger создаёт учёт, где токен помнится ttl.
func NewReplyLedger(ttl time.Duration) *ReplyLedger {
	return &ReplyLedger{
		cache: cache.New(ttl, 2*ttl),
	}
}

// Claim атомарно помечает ключ использованным
func (l *ReplyLedger) Claim(key string) bool {
	return l.cache.Add(key, struct{}{}, cache.DefaultExpiration) == nil
}

// Проверка реализации интерфейса
var _ port.ReplyLedger = (*ReplyLedger)(nil)
