package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sbilibin2017/gw-money-tracker/internal/logger"
	"github.com/sbilibin2017/gw-money-tracker/internal/models"
)

// ErrCacheMiss is returned when no cached list exists for a user.
var ErrCacheMiss = errors.New("transaction list not cached")

// TransactionCacheRepository caches each user's transaction list in Redis.
type TransactionCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration of a cached list
}

// NewTransactionCacheRepository creates a cache repository with the given TTL.
func NewTransactionCacheRepository(client *redis.Client, expiration time.Duration) *TransactionCacheRepository {
	return &TransactionCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func transactionsKey(userID string) string {
	return fmt.Sprintf("transactions:%s", userID)
}

// GetList returns the cached list of userID or ErrCacheMiss.
func (r *TransactionCacheRepository) GetList(ctx context.Context, userID string) ([]models.Transaction, error) {
	key := transactionsKey(userID)

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		logger.Log.Debugw("cache get", "key", key, "error", err)
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var txns []models.Transaction
	if err := json.Unmarshal(val, &txns); err != nil {
		logger.Log.Warnw("cache entry is corrupt", "key", key, "error", err)
		return nil, ErrCacheMiss
	}

	logger.Log.Debugw("cache get", "key", key, "result", len(txns))
	return txns, nil
}

// SetList stores the list of userID with expiration.
func (r *TransactionCacheRepository) SetList(ctx context.Context, userID string, txns []models.Transaction) error {
	key := transactionsKey(userID)

	data, err := json.Marshal(txns)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()
	logger.Log.Debugw("cache set", "key", key, "result", len(txns), "error", err)
	return err
}

// Invalidate drops the cached list of userID.
func (r *TransactionCacheRepository) Invalidate(ctx context.Context, userID string) error {
	key := transactionsKey(userID)

	err := r.client.Del(ctx, key).Err()
	logger.Log.Debugw("cache invalidate", "key", key, "error", err)
	return err
}
