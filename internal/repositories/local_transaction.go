package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/gw-money-tracker/internal/apperrors"
	"github.com/sbilibin2017/gw-money-tracker/internal/logger"
	"github.com/sbilibin2017/gw-money-tracker/internal/models"
)

// LocalTransactionsKey names the storage entry that holds the local collection.
const LocalTransactionsKey = "moneyTracker_transactions"

// LocalTransactionRepository persists the transaction collection as one ordered
// JSON sequence under a single storage entry. Operations are serialized.
type LocalTransactionRepository struct {
	mu      sync.Mutex
	storage Storage
	key     string
}

// NewLocalTransactionRepository creates a record store on top of storage.
func NewLocalTransactionRepository(storage Storage) *LocalTransactionRepository {
	return &LocalTransactionRepository{storage: storage, key: LocalTransactionsKey}
}

// load reads the collection. A missing or unreadable entry is an empty collection.
func (r *LocalTransactionRepository) load() []models.Transaction {
	data, err := r.storage.Get(r.key)
	if err != nil {
		if !errors.Is(err, ErrEntryNotFound) {
			logger.Log.Warnw("failed to read local transactions", "key", r.key, "error", err)
		}
		return []models.Transaction{}
	}

	txns := []models.Transaction{}
	if err := json.Unmarshal(data, &txns); err != nil {
		logger.Log.Warnw("local transactions are corrupt, treating as empty", "key", r.key, "error", err)
		return []models.Transaction{}
	}
	return txns
}

func (r *LocalTransactionRepository) save(txns []models.Transaction) error {
	data, err := json.Marshal(txns)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if err := r.storage.Set(r.key, data); err != nil {
		logger.Log.Errorw("failed to write local transactions", "key", r.key, "error", err)
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return nil
}

// List returns every record in storage order.
func (r *LocalTransactionRepository) List(ctx context.Context) []models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

// Count returns the number of stored records.
func (r *LocalTransactionRepository) Count(ctx context.Context) int {
	return len(r.List(ctx))
}

// Insert appends txn, assigning an id when it has none.
func (r *LocalTransactionRepository) Insert(ctx context.Context, txn models.Transaction) (models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}

	txns := append(r.load(), txn)
	if err := r.save(txns); err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}

// Update merges patch into the record with the given id and stamps updatedAt.
func (r *LocalTransactionRepository) Update(
	ctx context.Context,
	id string,
	patch models.TransactionPatch,
	updatedAt time.Time,
) (models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txns := r.load()
	for i := range txns {
		if txns[i].ID != id {
			continue
		}
		txns[i] = patch.Apply(txns[i], updatedAt)
		if err := r.save(txns); err != nil {
			return models.Transaction{}, err
		}
		return txns[i], nil
	}

	return models.Transaction{}, apperrors.ErrNotFound
}

// Delete removes the record with the given id and reports whether one was removed.
func (r *LocalTransactionRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	txns := r.load()
	kept := txns[:0]
	for _, t := range txns {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(txns) {
		return false, nil
	}

	if err := r.save(kept); err != nil {
		return false, err
	}
	return true, nil
}

// Clear empties the collection.
func (r *LocalTransactionRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.storage.Remove(r.key); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return nil
}
