package toggle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// TestFlip_Success проверяет смену значения при успешном действии
func TestFlip_Success(t *testing.T) {
	tg := New(false)
	var seen []bool
	tg.OnChange(func(v bool) { seen = append(seen, v) })

	got, err := tg.Flip(context.Background(), func(ctx context.Context, next bool) error {
		assert.True(t, next)
		assert.True(t, tg.Value(), "значение меняется до завершения вызова")
		assert.True(t, tg.Busy())
		return nil
	})
	require.NoError(t, err)
	assert.True(t, got)
	assert.True(t, tg.Value())
	assert.False(t, tg.Busy())
	assert.Equal(t, []bool{true}, seen)
}

// TestFlip_RevertOnError проверяет откат значения при ошибке
func TestFlip_RevertOnError(t *testing.T) {
	for _, initial := range []bool{false, true} {
		tg := New(initial)
		var seen []bool
		tg.OnChange(func(v bool) { seen = append(seen, v) })

		boom := errors.New("network down")
		got, err := tg.Flip(context.Background(), func(context.Context, bool) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, initial, got)
		assert.Equal(t, initial, tg.Value())
		assert.Equal(t, []bool{!initial, initial}, seen)
	}
}

// TestFlip_PanicReleasesBusy проверяет откат и снятие занятости после паники действия
func TestFlip_PanicReleasesBusy(t *testing.T) {
	tg := New(false)
	var seen []bool
	tg.OnChange(func(v bool) { seen = append(seen, v) })

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = tg.Flip(context.Background(), func(context.Context, bool) error {
			panic("boom")
		})
	})
	assert.False(t, tg.Busy())
	assert.False(t, tg.Value())
	assert.Equal(t, []bool{true, false}, seen)

	got, err := tg.Flip(context.Background(), func(context.Context, bool) error { return nil })
	require.NoError(t, err)
	assert.True(t, got)
}

// TestFlip_Busy проверяет блокировку повторного нажатия
func TestFlip_Busy(t *testing.T) {
	tg := New(false)
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = tg.Flip(context.Background(), func(context.Context, bool) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	calls := 0
	v, err := tg.Flip(context.Background(), func(context.Context, bool) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrBusy)
	assert.True(t, v)
	assert.Zero(t, calls)

	tg.Set(false)
	assert.True(t, tg.Value(), "Set не меняет значение во время действия")

	close(release)
	wg.Wait()
	assert.True(t, tg.Value())
	assert.False(t, tg.Busy())
}

type fakeJobs struct {
	calls []string
	err   error
}

func (f *fakeJobs) SaveJob(_ context.Context, id domain.ID) error {
	f.calls = append(f.calls, "save:"+id.String())
	return f.err
}

func (f *fakeJobs) UnsaveJob(_ context.Context, id domain.ID) error {
	f.calls = append(f.calls, "unsave:"+id.String())
	return f.err
}

func (f *fakeJobs) ActivateJob(_ context.Context, id domain.ID) error {
	f.calls = append(f.calls, "activate:"+id.String())
	return f.err
}

func (f *fakeJobs) DeactivateJob(_ context.Context, id domain.ID) error {
	f.calls = append(f.calls, "deactivate:"+id.String())
	return f.err
}

// TestBindings проверяет выбор вызова по новому значению
func TestBindings(t *testing.T) {
	ctx := context.Background()
	f := &fakeJobs{}

	save := New(false)
	_, err := save.Flip(ctx, SaveJob(f, "5"))
	require.NoError(t, err)
	_, err = save.Flip(ctx, SaveJob(f, "5"))
	require.NoError(t, err)

	status := New(true)
	_, err = status.Flip(ctx, JobStatus(f, "9"))
	require.NoError(t, err)

	assert.Equal(t, []string{"save:5", "unsave:5", "deactivate:9"}, f.calls)
}

// TestBindings_SaveFailureKeepsPreviousValue проверяет откат избранного при ошибке сохранения
func TestBindings_SaveFailureKeepsPreviousValue(t *testing.T) {
	f := &fakeJobs{err: errors.New("rejected")}
	tg := New(false)

	got, err := tg.Flip(context.Background(), SaveJob(f, "5"))
	require.Error(t, err)
	assert.False(t, got)
	assert.False(t, tg.Value())
}
