// Package toggle реализует оптимистичный переключатель: значение меняется сразу,
// действие выполняется следом, при ошибке значение откатывается.
package toggle

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy возвращается, пока предыдущее действие переключателя не завершилось
var ErrBusy = errors.New("toggle: action in progress")

// Action выполняет сетевой вызов для нового значения
type Action func(ctx context.Context, next bool) error

// Toggle булев флаг с защитой от повторного нажатия
type Toggle struct {
	mu       sync.Mutex
	value    bool
	busy     bool
	onChange func(bool)
}

// New создает переключатель с начальным значением
func New(value bool) *Toggle {
	return &Toggle{value: value}
}

// OnChange задает обработчик изменения видимого значения
func (t *Toggle) OnChange(fn func(bool)) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// Value текущее видимое значение
func (t *Toggle) Value() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Busy сообщает, выполняется ли действие
func (t *Toggle) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// Set устанавливает значение без действия, например после загрузки с сервера.
// Во время выполнения действия значение не меняется.
func (t *Toggle) Set(value bool) {
	t.mu.Lock()
	if t.busy {
		t.mu.Unlock()
		return
	}
	t.value = value
	fn := t.onChange
	t.mu.Unlock()
	if fn != nil {
		fn(value)
	}
}

// Flip инвертирует значение и вызывает action. При ошибке или панике action
// значение возвращается к прежнему, паника передается дальше.
func (t *Toggle) Flip(ctx context.Context, action Action) (v bool, err error) {
	t.mu.Lock()
	if t.busy {
		cur := t.value
		t.mu.Unlock()
		return cur, ErrBusy
	}
	prev := t.value
	next := !prev
	t.value = next
	t.busy = true
	fn := t.onChange
	t.mu.Unlock()

	ok := false
	defer func() {
		failed := !ok || err != nil
		t.mu.Lock()
		t.busy = false
		if failed {
			t.value = prev
		}
		v = t.value
		t.mu.Unlock()

		if failed && fn != nil {
			fn(prev)
		}
	}()

	if fn != nil {
		fn(next)
	}
	err = action(ctx, next)
	ok = true
	return v, err
}
