// Package retry ручной повтор операций с ограничением числа попыток.
// Повтор запускает пользователь, автоматических повторов нет.
package retry

import (
	"context"
	"errors"
	"sync"

	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
)

// DefaultMaxAttempts число неудачных попыток по умолчанию
const DefaultMaxAttempts = 3

var (
	// ErrCannotRetry нет ошибки, допускающей повтор, или попытки исчерпаны
	ErrCannotRetry = errors.New("cannot retry: no retryable error present")
	// ErrInProgress операция уже выполняется
	ErrInProgress = errors.New("operation in progress")
)

// Operation повторяемая операция
type Operation func(ctx context.Context) error

// Status состояние для отображения рядом с кнопкой повтора
type Status struct {
	Message     string `json:"message,omitempty"`
	Code        string `json:"code,omitempty"`
	Attempts    int    `json:"attempts"`
	MaxAttempts int    `json:"max_attempts"`
	CanRetry    bool   `json:"can_retry"`
	Running     bool   `json:"running"`
}

// Retrier запоминает последнюю операцию и ее ошибку
type Retrier struct {
	mu          sync.Mutex
	maxAttempts int
	op          Operation
	lastErr     error
	attempts    int
	running     bool
	logger      logger.Logger
}

// New создает Retrier. maxAttempts меньше 1 заменяется значением по умолчанию.
func New(maxAttempts int, log logger.Logger) *Retrier {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Retrier{maxAttempts: maxAttempts, logger: log}
}

// Do выполняет операцию один раз, сбрасывая счетчик попыток
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrInProgress
	}
	r.op = op
	r.lastErr = nil
	r.attempts = 0
	r.running = true
	r.mu.Unlock()

	return r.run(ctx, op)
}

// Retry повторяет последнюю операцию, если CanRetry
func (r *Retrier) Retry(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrInProgress
	}
	if !r.canRetryLocked() {
		r.mu.Unlock()
		return ErrCannotRetry
	}
	op := r.op
	r.running = true
	attempt := r.attempts + 1
	r.mu.Unlock()

	r.logger.Debug("повтор операции",
		logger.Int("attempt", attempt),
		logger.Int("max_attempts", r.maxAttempts),
	)
	return r.run(ctx, op)
}

func (r *Retrier) run(ctx context.Context, op Operation) error {
	err := op(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	if err == nil {
		if r.attempts > 0 {
			r.logger.Info("операция выполнена после повтора", logger.Int("attempts", r.attempts))
		}
		r.lastErr = nil
		r.attempts = 0
		return nil
	}
	r.lastErr = err
	r.attempts++
	r.logger.Warn("попытка завершилась ошибкой",
		logger.Error(err),
		logger.Int("attempt", r.attempts),
		logger.Int("max_attempts", r.maxAttempts),
		logger.Bool("retryable", pkgerrors.Retryable(err)),
	)
	return err
}

// CanRetry true, если последняя ошибка допускает повтор и попытки не исчерпаны
func (r *Retrier) CanRetry() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canRetryLocked()
}

func (r *Retrier) canRetryLocked() bool {
	return r.op != nil && r.lastErr != nil && pkgerrors.Retryable(r.lastErr) && r.attempts < r.maxAttempts
}

// Attempts число неудачных попыток подряд
func (r *Retrier) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

// Err последняя ошибка
func (r *Retrier) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Status сводка для отображения
func (r *Retrier) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Status{
		Attempts:    r.attempts,
		MaxAttempts: r.maxAttempts,
		CanRetry:    r.canRetryLocked(),
		Running:     r.running,
	}
	if r.lastErr != nil {
		s.Message = pkgerrors.Message(r.lastErr)
		s.Code = string(pkgerrors.CodeOf(r.lastErr))
	}
	return s
}

// Reset забывает операцию и ошибку
func (r *Retrier) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.op = nil
	r.lastErr = nil
	r.attempts = 0
}
