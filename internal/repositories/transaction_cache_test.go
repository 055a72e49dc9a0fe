package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sbilibin2017/gw-money-tracker/internal/models"
)

func TestTransactionCacheRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx).Err())

	repo := NewTransactionCacheRepository(rdb, 2*time.Second)

	txns := []models.Transaction{{
		ID: "t1", UserID: "alice", Type: models.Expense,
		Amount: decimal.RequireFromString("3.50"), Category: "Food & Dining", Date: "2024-01-15",
	}}

	t.Run("Set and Get list", func(t *testing.T) {
		require.NoError(t, repo.SetList(ctx, "alice", txns))

		got, err := repo.GetList(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "t1", got[0].ID)
		assert.True(t, got[0].Amount.Equal(txns[0].Amount))
	})

	t.Run("Missing list is a cache miss", func(t *testing.T) {
		_, err := repo.GetList(ctx, "bob")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, repo.SetList(ctx, "carol", txns))
		require.NoError(t, repo.Invalidate(ctx, "carol"))

		_, err := repo.GetList(ctx, "carol")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Cached list expires", func(t *testing.T) {
		require.NoError(t, repo.SetList(ctx, "dave", txns))

		time.Sleep(3 * time.Second)

		_, err := repo.GetList(ctx, "dave")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
