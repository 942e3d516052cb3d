package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/paylink/internal/model"
)

func fastPolicy(attempts uint64) Policy {
	return Policy{MaxAttempts: attempts, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond}
}

func TestDo_SucceedsAfterNetworkErrors(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("rpc down: %w", model.ErrNetwork)
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy(2), func(ctx context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("rpc down: %w", model.ErrNetwork)
	})

	assert.ErrorIs(t, err, model.ErrNetwork)
	assert.Equal(t, 2, calls)
}

func TestDo_DoesNotRetryTerminalErrors(t *testing.T) {
	terminal := []error{
		model.ErrValidation,
		model.ErrDecode,
		model.ErrInsufficientFunds,
		model.ErrInsufficientSenderBalance,
		model.ErrNameTaken,
		model.ErrLedgerRejected,
		errors.New("unclassified"),
	}
	for _, want := range terminal {
		calls := 0
		_, err := Do(context.Background(), fastPolicy(5), func(ctx context.Context) (int, error) {
			calls++
			return 0, want
		})
		assert.ErrorIs(t, err, want)
		assert.Equal(t, 1, calls, want.Error())
	}
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{}, func(ctx context.Context) (int, error) {
		calls++
		return 0, model.ErrNetwork
	})
	assert.ErrorIs(t, err, model.ErrNetwork)
	assert.Equal(t, 1, calls)
}

func TestDo_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Do(ctx, Policy{MaxAttempts: 10, InitialWait: time.Hour}, func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, model.ErrNetwork
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
