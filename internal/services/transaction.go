package services

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-money-tracker/internal/apperrors"
	"github.com/sbilibin2017/gw-money-tracker/internal/logger"
	"github.com/sbilibin2017/gw-money-tracker/internal/models"
)

//go:generate mockgen -source=transaction.go -destination=transaction_mock.go -package=services

// topCategoriesLimit is the number of categories reported by Summary.
const topCategoriesLimit = 5

// RemoteTransactions is the remote transactions API. Failures are reported in the Result.
type RemoteTransactions interface {
	List(ctx context.Context) models.Result[[]models.Transaction]                                                                // Fetches all transactions
	Get(ctx context.Context, id string) models.Result[models.Transaction]                                                        // Fetches one transaction
	Create(ctx context.Context, txn models.Transaction) models.Result[models.Transaction]                                        // Stores a new transaction
	Update(ctx context.Context, id string, patch models.TransactionPatch, updatedAt time.Time) models.Result[models.Transaction] // Merges a partial update
	Delete(ctx context.Context, id string) models.Result[bool]                                                                   // Removes a transaction
}

// LocalTransactions is the on-device record store.
type LocalTransactions interface {
	List(ctx context.Context) []models.Transaction                                                                         // Returns all records
	Count(ctx context.Context) int                                                                                         // Returns the number of records
	Insert(ctx context.Context, txn models.Transaction) (models.Transaction, error)                                        // Appends a record
	Update(ctx context.Context, id string, patch models.TransactionPatch, updatedAt time.Time) (models.Transaction, error) // Merges a partial update
	Delete(ctx context.Context, id string) (bool, error)                                                                   // Removes a record
	Clear(ctx context.Context) error                                                                                       // Removes all records
}

// TransactionService is the single entry point for transaction CRUD. It talks to the
// remote API when remote mode is enabled and falls back to the local store, once,
// whenever a remote call fails.
type TransactionService struct {
	remote        RemoteTransactions
	local         LocalTransactions
	validator     TransactionValidator
	remoteEnabled atomic.Bool
	now           func() time.Time
}

// TransactionServiceOption configures a TransactionService.
type TransactionServiceOption func(*TransactionService)

// WithClock replaces the time source used to stamp createdAt and updatedAt.
func WithClock(now func() time.Time) TransactionServiceOption {
	return func(s *TransactionService) {
		s.now = now
	}
}

// NewTransactionService creates a TransactionService. remote may be nil when
// remoteEnabled is false.
func NewTransactionService(
	remote RemoteTransactions,
	local LocalTransactions,
	validator TransactionValidator,
	remoteEnabled bool,
	opts ...TransactionServiceOption,
) *TransactionService {
	s := &TransactionService{
		remote:    remote,
		local:     local,
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
	}
	s.remoteEnabled.Store(remoteEnabled && remote != nil)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RemoteEnabled reports whether operations are sent to the remote API first.
func (s *TransactionService) RemoteEnabled() bool {
	return s.remoteEnabled.Load()
}

// EnableRemote switches the service to remote mode. It has no effect without a remote API.
func (s *TransactionService) EnableRemote() {
	if s.remote == nil {
		logger.Log.Warnw("remote API not configured, staying in local mode")
		return
	}
	s.remoteEnabled.Store(true)
	logger.Log.Infow("remote mode enabled")
}

// DisableRemote switches the service to local mode.
func (s *TransactionService) DisableRemote() {
	s.remoteEnabled.Store(false)
	logger.Log.Infow("remote mode disabled")
}

// List returns every transaction. In remote mode a failed fetch falls back to the local store.
func (s *TransactionService) List(ctx context.Context) []models.Transaction {
	if s.RemoteEnabled() {
		res := s.remote.List(ctx)
		if res.Success {
			return res.Data
		}
		logFallback("list", res.Err)
	}
	return s.local.List(ctx)
}

// Get returns the transaction with the given id. In remote mode a failed fetch
// falls back to the local store.
func (s *TransactionService) Get(ctx context.Context, id string) (models.Transaction, error) {
	if s.RemoteEnabled() {
		res := s.remote.Get(ctx, id)
		if res.Success {
			return res.Data, nil
		}
		logFallback("get", res.Err)
	}

	for _, t := range s.local.List(ctx) {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Transaction{}, apperrors.ErrNotFound
}

// Create validates in, stamps it and stores it.
func (s *TransactionService) Create(ctx context.Context, in models.TransactionInput) (models.Transaction, error) {
	if err := s.validator.ValidateInput(in); err != nil {
		return models.Transaction{}, err
	}

	now := s.now()
	txn := models.Transaction{
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if s.RemoteEnabled() {
		res := s.remote.Create(ctx, txn)
		if res.Success {
			return res.Data, nil
		}
		logFallback("create", res.Err)
	}

	saved, err := s.local.Insert(ctx, txn)
	if err != nil {
		logger.Log.Errorw("failed to store transaction locally", "op", "create", "error", err)
		return models.Transaction{}, err
	}
	return saved, nil
}

// Update validates patch, refreshes updatedAt and merges the named fields into transaction id.
func (s *TransactionService) Update(ctx context.Context, id string, patch models.TransactionPatch) (models.Transaction, error) {
	if err := s.validator.ValidatePatch(patch); err != nil {
		return models.Transaction{}, err
	}

	updatedAt := s.now()

	if s.RemoteEnabled() {
		res := s.remote.Update(ctx, id, patch, updatedAt)
		if res.Success {
			return res.Data, nil
		}
		logFallback("update", res.Err)
	}

	updated, err := s.local.Update(ctx, id, patch, updatedAt)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Log.Errorw("failed to update local transaction", "op", "update", "id", id, "error", err)
	}
	return updated, err
}

// Delete removes transaction id and reports whether a record was removed.
// Deleting an unknown id is not an error.
func (s *TransactionService) Delete(ctx context.Context, id string) (bool, error) {
	if s.RemoteEnabled() {
		res := s.remote.Delete(ctx, id)
		if res.Success {
			return res.Data, nil
		}
		logFallback("delete", res.Err)
	}

	removed, err := s.local.Delete(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to delete local transaction", "op", "delete", "id", id, "error", err)
	}
	return removed, err
}

// MigrateToRemote copies every local record to the remote API without its local id.
// Local records are kept. The per-record outcome is returned in local order.
func (s *TransactionService) MigrateToRemote(ctx context.Context) ([]models.MigrationResult, error) {
	if !s.RemoteEnabled() {
		return nil, apperrors.ErrRemoteDisabled
	}

	local := s.local.List(ctx)
	results := make([]models.MigrationResult, 0, len(local))

	for _, txn := range local {
		localID := txn.ID
		txn.ID = ""
		txn.UserID = ""

		res := s.remote.Create(ctx, txn)
		if res.Success {
			remote := res.Data
			results = append(results, models.MigrationResult{
				LocalID:      localID,
				Success:      true,
				RemoteRecord: &remote,
			})
			continue
		}

		logger.Log.Warnw("failed to migrate transaction", "localId", localID, "error", res.Err)
		results = append(results, models.MigrationResult{
			LocalID: localID,
			Error:   res.ErrorMessage(),
		})
	}

	logger.Log.Infow("migration finished", "total", len(results), "migrated", countSucceeded(results))
	return results, nil
}

// Status reports the current mode and the size of the local store.
func (s *TransactionService) Status(ctx context.Context) models.ServiceStatus {
	return models.ServiceStatus{
		RemoteEnabled:         s.RemoteEnabled(),
		LocalTransactionCount: s.local.Count(ctx),
	}
}

// ClearLocal empties the local store. It never touches the remote API.
func (s *TransactionService) ClearLocal(ctx context.Context) error {
	if err := s.local.Clear(ctx); err != nil {
		logger.Log.Errorw("failed to clear local transactions", "error", err)
		return err
	}
	logger.Log.Infow("local transactions cleared")
	return nil
}

// Filter returns the transactions matching every non-empty criterion of f.
func (s *TransactionService) Filter(ctx context.Context, f models.TransactionFilter) []models.Transaction {
	return filter(s.List(ctx), f.Match)
}

// ByDateRange returns the transactions dated within [from, to], both inclusive.
// An empty bound is open.
func (s *TransactionService) ByDateRange(ctx context.Context, from, to string) []models.Transaction {
	return s.Filter(ctx, models.TransactionFilter{From: from, To: to})
}

// ByCategory returns the transactions of the given category.
func (s *TransactionService) ByCategory(ctx context.Context, category string) []models.Transaction {
	return s.Filter(ctx, models.TransactionFilter{Category: category})
}

// ByType returns the transactions of the given type.
func (s *TransactionService) ByType(ctx context.Context, typ models.TransactionType) []models.Transaction {
	return s.Filter(ctx, models.TransactionFilter{Type: typ})
}

// Summary aggregates every transaction for the dashboard.
func (s *TransactionService) Summary(ctx context.Context) models.Summary {
	return Summarize(s.List(ctx))
}

// Summarize computes totals, balance and the top categories by summed amount of txns.
func Summarize(txns []models.Transaction) models.Summary {
	sum := models.Summary{
		TotalCredits:     decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TransactionCount: len(txns),
		TopCategories:    []models.CategoryTotal{},
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, t := range txns {
		switch t.Type {
		case models.Credit:
			sum.TotalCredits = sum.TotalCredits.Add(t.Amount)
		case models.Expense:
			sum.TotalExpenses = sum.TotalExpenses.Add(t.Amount)
		}
		byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
	}
	sum.Balance = sum.TotalCredits.Sub(sum.TotalExpenses)

	for category, amount := range byCategory {
		sum.TopCategories = append(sum.TopCategories, models.CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(sum.TopCategories, func(i, j int) bool {
		a, b := sum.TopCategories[i], sum.TopCategories[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})
	if len(sum.TopCategories) > topCategoriesLimit {
		sum.TopCategories = sum.TopCategories[:topCategoriesLimit]
	}

	return sum
}

func filter(txns []models.Transaction, keep func(models.Transaction) bool) []models.Transaction {
	out := []models.Transaction{}
	for _, t := range txns {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func countSucceeded(results []models.MigrationResult) int {
	n := 0
	for _, r := range results {
		if r.Success {
			n++
		}
	}
	return n
}

func logFallback(op string, err error) {
	logger.Log.Warnw("remote call failed, falling back to local store", "op", op, "error", err)
}
