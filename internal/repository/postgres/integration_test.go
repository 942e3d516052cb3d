//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/AlexZinkM/paylink/internal/model"
	repo "github.com/AlexZinkM/paylink/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "paylink_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/paylink_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	var db *sql.DB
	var err error
	// the port may accept connections before postgres is ready
	for i := 0; i < 20; i++ {
		db, err = repo.Open(context.Background(), dsn)
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRegistry_Integration(t *testing.T) {
	ctx := context.Background()
	reg := repo.NewRegistry(openDB(t))

	rec := &model.UsernameRecord{
		ID:           uuid.New(),
		Name:         "alice",
		Address:      "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
		Signature:    "sig",
		RegisteredAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, reg.Create(ctx, rec))

	got, err := reg.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, rec.ID, got.ID)
	require.Equal(t, rec.Address, got.Address)
	require.True(t, rec.RegisteredAt.Equal(got.RegisteredAt))

	dup := *rec
	dup.ID = uuid.New()
	require.ErrorIs(t, reg.Create(ctx, &dup), model.ErrNameTaken)

	missing, err := reg.Get(ctx, "nobody")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestRegistry_IntegrationRace(t *testing.T) {
	ctx := context.Background()
	reg := repo.NewRegistry(openDB(t))

	const writers = 10
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = reg.Create(ctx, &model.UsernameRecord{
				ID:           uuid.New(),
				Name:         "bob",
				Address:      fmt.Sprintf("addr%d", i),
				Signature:    "sig",
				RegisteredAt: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.True(t, errors.Is(err, model.ErrNameTaken), "unexpected error: %v", err)
	}
	require.Equal(t, 1, wins)
}
