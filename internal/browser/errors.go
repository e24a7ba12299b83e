package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotLaunched  = errors.New("браузер не запущен")
	ErrUnknownIndex = errors.New("элемент с таким индексом отсутствует в последнем наборе")
	ErrStaleTags    = errors.New("страница изменилась во время разметки")
	ErrCircuitOpen  = errors.New("восприятие приостановлено после серии ошибок")
	ErrBlockedURL   = errors.New("адрес запрещен настройками")
)

type ErrorType int

const (
	ErrorTypeTemporary ErrorType = iota
	ErrorTypeCritical
	ErrorTypeRetryable
)

func (e ErrorType) String() string {
	switch e {
	case ErrorTypeTemporary:
		return "temporary"
	case ErrorTypeCritical:
		return "critical"
	case ErrorTypeRetryable:
		return "retryable"
	default:
		return "unknown"
	}
}

type ActionError struct {
	Type    ErrorType
	Action  string
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// transientMarkers - фрагменты сообщений playwright, после которых снимок стоит повторить:
// страница перешла или перерисовалась, пока выполнялся скрипт.
var transientMarkers = []string{
	"Execution context was destroyed",
	"Cannot find context with specified id",
	"navigation",
	"timeout",
	"Timeout",
	"connection",
	"ECONNREFUSED",
	"ETIMEDOUT",
}

func classifyError(action string, err error) *ActionError {
	if err == nil {
		return nil
	}

	actionErr := &ActionError{
		Type:    ErrorTypeCritical,
		Action:  action,
		Message: err.Error(),
		Err:     err,
	}

	switch {
	case errors.Is(err, ErrStaleTags):
		actionErr.Type = ErrorTypeRetryable
		return actionErr
	case errors.Is(err, ErrNotLaunched), errors.Is(err, ErrUnknownIndex),
		errors.Is(err, ErrCircuitOpen), errors.Is(err, ErrBlockedURL),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return actionErr
	}

	errStr := err.Error()
	for _, marker := range transientMarkers {
		if strings.Contains(errStr, marker) {
			actionErr.Type = ErrorTypeRetryable
			return actionErr
		}
	}

	if strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "detached") {
		actionErr.Type = ErrorTypeTemporary
	}

	return actionErr
}

// retryAction повторяет fn, пока ошибка не критическая и не исчерпаны попытки.
func retryAction(ctx context.Context, action string, maxRetries int, delay time.Duration, fn func() error) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if classifyError(action, err).Type == ErrorTypeCritical {
			return err
		}
	}

	return fmt.Errorf("%s: после %d попыток: %w", action, maxRetries, lastErr)
}

// backoff возвращает паузы между попытками подключения: 1s, 2s, 4s... не больше limit.
func backoff(attempt int, base, limit time.Duration) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= limit {
			return limit
		}
	}
	return d
}
