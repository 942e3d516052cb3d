package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/paylink/internal/model"
)

func tempRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := Open(filepath.Join(t.TempDir(), "nested", "directory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { reg.Close() })
	return reg
}

func testRecord(name, address string) *model.UsernameRecord {
	return &model.UsernameRecord{
		ID:           uuid.New(),
		Name:         name,
		Address:      address,
		Signature:    "sig-" + address,
		RegisteredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestRegistry_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	reg := tempRegistry(t)

	got, err := reg.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, got)

	rec := testRecord("alice", "addr1")
	require.NoError(t, reg.Create(ctx, rec))

	got, err = reg.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Address, got.Address)
	assert.Equal(t, rec.Signature, got.Signature)
	assert.True(t, rec.RegisteredAt.Equal(got.RegisteredAt))
}

func TestRegistry_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	reg := tempRegistry(t)

	require.NoError(t, reg.Create(ctx, testRecord("bob", "addr1")))
	err := reg.Create(ctx, testRecord("bob", "addr2"))
	assert.ErrorIs(t, err, model.ErrNameTaken)

	got, err := reg.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "addr1", got.Address, "first registration must be kept")
}

func TestRegistry_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	reg := tempRegistry(t)

	const writers = 16
	var wins, taken atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := reg.Create(ctx, testRecord("bob", string(rune('a'+i))))
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, model.ErrNameTaken):
				taken.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(writers-1), taken.Load())
}

func TestRegistry_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "directory.db")

	reg, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, reg.Create(ctx, testRecord("carol", "addr3")))
	require.NoError(t, reg.Close())

	reg, err = Open(path)
	require.NoError(t, err)
	defer reg.Close()

	got, err := reg.Get(ctx, "carol")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "addr3", got.Address)
}

func TestRegistry_CancelledContext(t *testing.T) {
	reg := tempRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, reg.Create(ctx, testRecord("dave", "addr4")), context.Canceled)
	_, err := reg.Get(ctx, "dave")
	assert.ErrorIs(t, err, context.Canceled)
}
