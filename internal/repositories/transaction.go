package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-money-tracker/internal/apperrors"
	"github.com/sbilibin2017/gw-money-tracker/internal/logger"
	"github.com/sbilibin2017/gw-money-tracker/internal/models"
)

// transactionColumns is the projection shared by every query returning a transaction.
const transactionColumns = `id, user_id, type, amount, category, description,
	to_char(date, 'YYYY-MM-DD') AS date, created_at, updated_at`

func oneLine(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

// TransactionWriteRepository handles transaction write operations scoped by user.
type TransactionWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

// NewTransactionWriteRepository creates a write repository. txGetter may be nil;
// when it returns a transaction the statements run inside it.
func NewTransactionWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db, txGetter: txGetter}
}

func (r *TransactionWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a fully populated transaction and returns the stored row.
func (r *TransactionWriteRepository) Save(ctx context.Context, txn models.Transaction) (models.Transaction, error) {
	query := `
		INSERT INTO transactions (id, user_id, type, amount, category, description, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + transactionColumns
	args := []any{txn.ID, txn.UserID, string(txn.Type), txn.Amount, txn.Category, txn.Description, txn.Date, txn.CreatedAt, txn.UpdatedAt}

	var saved models.Transaction
	err := sqlx.GetContext(ctx, r.executor(ctx), &saved, query, args...)

	logger.Log.Infow("query",
		"sql", oneLine(query),
		"args", args,
		"result", saved.ID,
		"error", err,
	)

	if err != nil {
		return models.Transaction{}, err
	}
	return saved, nil
}

// Update merges the non-nil fields of patch into the row identified by (userID, id).
// It returns apperrors.ErrNotFound when the row does not exist for that user.
func (r *TransactionWriteRepository) Update(
	ctx context.Context,
	userID, id string,
	patch models.TransactionPatch,
	updatedAt time.Time,
) (models.Transaction, error) {
	builder := sq.Update("transactions").
		Set("updated_at", updatedAt).
		Where(sq.Eq{"user_id": userID, "id": id}).
		Suffix("RETURNING " + transactionColumns).
		PlaceholderFormat(sq.Dollar)

	if patch.Type != nil {
		builder = builder.Set("type", string(*patch.Type))
	}
	if patch.Amount != nil {
		builder = builder.Set("amount", *patch.Amount)
	}
	if patch.Category != nil {
		builder = builder.Set("category", *patch.Category)
	}
	if patch.Description != nil {
		builder = builder.Set("description", *patch.Description)
	}
	if patch.Date != nil {
		builder = builder.Set("date", *patch.Date)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return models.Transaction{}, fmt.Errorf("build update query: %w", err)
	}

	var updated models.Transaction
	err = sqlx.GetContext(ctx, r.executor(ctx), &updated, query, args...)

	logger.Log.Infow("query",
		"sql", oneLine(query),
		"args", args,
		"result", updated.ID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, apperrors.ErrNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}
	return updated, nil
}

// Delete removes the row identified by (userID, id).
// It returns apperrors.ErrNotFound when nothing was removed.
func (r *TransactionWriteRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM transactions WHERE user_id = $1 AND id = $2`
	args := []any{userID, id}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query",
		"sql", query,
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// TransactionReadRepository handles transaction read operations scoped by user.
type TransactionReadRepository struct {
	db *sqlx.DB
}

// NewTransactionReadRepository creates a read repository.
func NewTransactionReadRepository(db *sqlx.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// ListByUserID returns every transaction of userID, newest first.
func (r *TransactionReadRepository) ListByUserID(ctx context.Context, userID string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	txns := []models.Transaction{}
	err := r.db.SelectContext(ctx, &txns, query, userID)

	logger.Log.Infow("query",
		"sql", oneLine(query),
		"args", []any{userID},
		"result", len(txns),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return txns, nil
}

// GetByID returns the transaction identified by (userID, id), or apperrors.ErrNotFound.
func (r *TransactionReadRepository) GetByID(ctx context.Context, userID, id string) (models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND id = $2
	`

	var txn models.Transaction
	err := r.db.GetContext(ctx, &txn, query, userID, id)

	logger.Log.Infow("query",
		"sql", oneLine(query),
		"args", []any{userID, id},
		"result", txn.ID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, apperrors.ErrNotFound
	}
	if err != nil {
		return models.Transaction{}, err
	}
	return txn, nil
}
