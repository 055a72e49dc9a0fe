package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sbilibin2017/gw-money-tracker/internal/apperrors"
	"github.com/sbilibin2017/gw-money-tracker/internal/migrations"
	"github.com/sbilibin2017/gw-money-tracker/internal/models"
)

// --- Setup Postgres ---
func setupPostgres(t *testing.T) *sqlx.DB {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "secret", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:secret@%s:%s/testdb?sslmode=disable", host, port.Port())
	require.NoError(t, migrations.Up(dsn))

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestTransactionRepositories_Postgres(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	writer := NewTransactionWriteRepository(db, nil)
	reader := NewTransactionReadRepository(db)

	base := time.Now().UTC().Truncate(time.Millisecond)
	first := models.Transaction{
		ID: "t1", UserID: "alice", Type: models.Expense,
		Amount: decimal.RequireFromString("12.34"), Category: "Food & Dining",
		Date: "2024-01-15", CreatedAt: base, UpdatedAt: base,
	}
	second := models.Transaction{
		ID: "t2", UserID: "alice", Type: models.Credit,
		Amount: decimal.RequireFromString("1000"), Category: "Salary", Description: "January",
		Date: "2024-01-31", CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute),
	}

	_, err := writer.Save(ctx, first)
	require.NoError(t, err)
	saved, err := writer.Save(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", saved.Date)
	assert.True(t, saved.Amount.Equal(second.Amount))

	t.Run("list is newest first and scoped by user", func(t *testing.T) {
		txns, err := reader.ListByUserID(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.Equal(t, "t2", txns[0].ID)
		assert.Equal(t, "t1", txns[1].ID)

		other, err := reader.ListByUserID(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		desc := "lunch"
		updatedAt := base.Add(time.Hour)
		updated, err := writer.Update(ctx, "alice", "t1", models.TransactionPatch{Description: &desc}, updatedAt)
		require.NoError(t, err)
		assert.Equal(t, "lunch", updated.Description)
		assert.Equal(t, "Food & Dining", updated.Category)
		assert.True(t, updated.Amount.Equal(first.Amount))
		assert.True(t, updated.UpdatedAt.Equal(updatedAt))
		assert.True(t, updated.CreatedAt.Equal(base))
	})

	t.Run("other user cannot see or change a record", func(t *testing.T) {
		_, err := reader.GetByID(ctx, "bob", "t1")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		desc := "hijack"
		_, err = writer.Update(ctx, "bob", "t1", models.TransactionPatch{Description: &desc}, time.Now())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		assert.ErrorIs(t, writer.Delete(ctx, "bob", "t1"), apperrors.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, writer.Delete(ctx, "alice", "t1"))
		_, err := reader.GetByID(ctx, "alice", "t1")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.ErrorIs(t, writer.Delete(ctx, "alice", "t1"), apperrors.ErrNotFound)
	})
}
