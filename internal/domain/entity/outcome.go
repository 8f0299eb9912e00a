package entity

import "errors"

var (
	ErrFetch       = errors.New("content fetch failed")
	ErrPersistence = errors.New("image persistence failed")
	ErrInference   = errors.New("inference failed")
	ErrSend        = errors.New("reply delivery failed")
)

// OutcomeStatus итог обработки события
type OutcomeStatus string

const (
	OutcomeReplied           OutcomeStatus = "replied"
	OutcomeIgnored           OutcomeStatus = "ignored"
	OutcomeDuplicate         OutcomeStatus = "duplicate"
	OutcomePersistFailed     OutcomeStatus = "persist_failed"
	OutcomeInferenceDegraded OutcomeStatus = "inference_degraded"
	OutcomeSendFailed        OutcomeStatus = "send_failed"
)

// Outcome результат Dispatch. Err заполнен для всех статусов, кроме replied, ignored и duplicate.
type Outcome struct {
	Kind   EventKind
	Status OutcomeStatus
	Reply  *Reply
	Err    error
}
