package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"equipos-backend/internal/config"
	"equipos-backend/internal/docstore"
)

// recordingTimer fires immediately and remembers every requested wait.
type recordingTimer struct {
	waits []time.Duration
	c     chan time.Time
}

func (t *recordingTimer) Start(d time.Duration) {
	t.waits = append(t.waits, d)
	t.c = make(chan time.Time, 1)
	t.c <- time.Now()
}

func (t *recordingTimer) Stop() {}

func (t *recordingTimer) C() <-chan time.Time {
	return t.c
}

func newTestPolicy() (Policy, *recordingTimer) {
	timer := &recordingTimer{}
	p := DefaultPolicy()
	p.Timer = timer
	return p, timer
}

func TestPolicy_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("Quota exhaustion", func(t *testing.T) {
		p, timer := newTestPolicy()
		calls := 0
		quota := fmt.Errorf("%w: rpc error", docstore.ErrQuotaExceeded)

		err := p.Do(ctx, "list-equipos", func() error {
			calls++
			return quota
		})

		assert.ErrorIs(t, err, docstore.ErrQuotaExceeded)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, timer.waits)
		for i := 1; i < len(timer.waits); i++ {
			assert.Greater(t, timer.waits[i], timer.waits[i-1])
		}
	})

	t.Run("Recovers after transient error", func(t *testing.T) {
		p, timer := newTestPolicy()
		calls := 0
		err := p.Do(ctx, "list-entidades", func() error {
			calls++
			if calls == 1 {
				return docstore.ErrQuotaExceeded
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, []time.Duration{time.Second}, timer.waits)
	})

	t.Run("Non-retryable error fails fast", func(t *testing.T) {
		p, timer := newTestPolicy()
		calls := 0
		boom := errors.New("permission denied")
		err := p.Do(ctx, "list-cuentas", func() error {
			calls++
			return boom
		})
		assert.Equal(t, boom, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, timer.waits)
	})

	t.Run("Single attempt policy", func(t *testing.T) {
		p, timer := newTestPolicy()
		p.MaxAttempts = 1
		calls := 0
		err := p.Do(ctx, "get", func() error {
			calls++
			return docstore.ErrQuotaExceeded
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, timer.waits)
	})
}

func TestValue(t *testing.T) {
	p, _ := newTestPolicy()
	calls := 0
	got, err := Value(context.Background(), p, "names", func() (map[string]string, error) {
		calls++
		if calls < 3 {
			return nil, docstore.ErrQuotaExceeded
		}
		return map[string]string{"1": "Retro"}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "Retro", got["1"])
}

func TestFromConfig(t *testing.T) {
	p := FromConfig(config.RetryConfig{MaxAttempts: 5, BaseDelayMS: 250, Multiplier: 3})
	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, p.BaseDelay)
	assert.Equal(t, 3.0, p.Multiplier)
	assert.True(t, p.Retryable(docstore.ErrQuotaExceeded))
}
