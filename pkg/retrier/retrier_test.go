package retrier

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	r := New(WithInitialInterval(time.Millisecond), WithMaxRetries(3))

	attempts := 0
	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_ReturnsLastErrorWhenBudgetSpent(t *testing.T) {
	r := New(WithInitialInterval(time.Millisecond), WithMaxRetries(2))

	attempts := 0
	err := r.Do(context.Background(), func(context.Context) error {
		attempts++
		return fmt.Errorf("still broken")
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts, "one attempt plus two retries")
}

func TestDo_StopsOnContextCancel(t *testing.T) {
	r := New(WithInitialInterval(100*time.Millisecond), WithMaxRetries(5))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Do(ctx, func(context.Context) error {
		return fmt.Errorf("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoWithData(t *testing.T) {
	r := New(WithInitialInterval(time.Millisecond), WithMaxRetries(1))

	calls := 0
	value, err := DoWithData(r, context.Background(), func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, fmt.Errorf("transient")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, value)
}
