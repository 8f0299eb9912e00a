package port

// ReplyLedger учёт использованных токенов ответа
type ReplyLedger interface {
	// Claim возвращает true, если токен ещё не использовался, и помечает его
	Claim(key string) bool
}
