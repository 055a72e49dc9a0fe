package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-money-tracker/internal/apperrors"
	"github.com/sbilibin2017/gw-money-tracker/internal/models"
	"github.com/sbilibin2017/gw-money-tracker/internal/repositories"
	"github.com/sbilibin2017/gw-money-tracker/internal/validators"
)

// stepClock advances by one second on every reading.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newClock() *stepClock {
	return &stepClock{t: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func newLocalStore(t *testing.T) *repositories.LocalTransactionRepository {
	return repositories.NewLocalTransactionRepository(repositories.NewFileStorage(t.TempDir()))
}

func lunch() models.TransactionInput {
	return models.TransactionInput{
		Type:     models.Expense,
		Amount:   decimal.RequireFromString("42.50"),
		Category: "Food & Dining",
		Date:     "2024-01-15",
	}
}

func TestTransactionService_LocalCreateAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewTransactionService(nil, newLocalStore(t), validators.New(), false, WithClock(newClock().Now))

	created, err := svc.Create(ctx, lunch())
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.Expense, created.Type)
	assert.True(t, created.Amount.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.False(t, created.CreatedAt.IsZero())

	txns := svc.List(ctx)
	require.Len(t, txns, 1)
	assert.Equal(t, created.ID, txns[0].ID)
	assert.Equal(t, "Food & Dining", txns[0].Category)
	assert.Equal(t, "2024-01-15", txns[0].Date)
}

func TestTransactionService_UpdateRefreshesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	svc := NewTransactionService(nil, newLocalStore(t), validators.New(), false, WithClock(newClock().Now))

	created, err := svc.Create(ctx, lunch())
	require.NoError(t, err)

	amount := decimal.RequireFromString("17.25")
	_, err = svc.Update(ctx, created.ID, models.TransactionPatch{Amount: &amount})
	require.NoError(t, err)

	txns := svc.List(ctx)
	require.Len(t, txns, 1)
	got := txns[0]

	assert.True(t, got.Amount.Equal(amount))
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Type, got.Type)
	assert.Equal(t, created.Category, got.Category)
	assert.Equal(t, created.Description, got.Description)
	assert.Equal(t, created.Date, got.Date)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestTransactionService_UpdateUnknownID(t *testing.T) {
	svc := NewTransactionService(nil, newLocalStore(t), validators.New(), false)

	category := "Travel"
	_, err := svc.Update(context.Background(), "missing", models.TransactionPatch{Category: &category})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTransactionService_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewTransactionService(nil, newLocalStore(t), validators.New(), false)

	created, err := svc.Create(ctx, lunch())
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, svc.List(ctx))

	removed, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = svc.Delete(ctx, "never-existed")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestTransactionService_RoundTripUpdateChangesOnlyUpdatedAt(t *testing.T) {
	ctx := context.Background()
	svc := NewTransactionService(nil, newLocalStore(t), validators.New(), false, WithClock(newClock().Now))

	in := lunch()
	in.Description = "team lunch"
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	before := svc.List(ctx)[0]
	_, err = svc.Update(ctx, before.ID, models.PatchFrom(before))
	require.NoError(t, err)
	after := svc.List(ctx)[0]

	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	after.UpdatedAt = before.UpdatedAt
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, before.Type, after.Type)
	assert.True(t, before.Amount.Equal(after.Amount))
	assert.Equal(t, before.Category, after.Category)
	assert.Equal(t, before.Description, after.Description)
	assert.Equal(t, before.Date, after.Date)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
}

func TestTransactionService_RejectsInvalidInputBeforeAnyStore(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no expectations: any store call fails the test
	remote := NewMockRemoteTransactions(ctrl)
	local := NewMockLocalTransactions(ctrl)

	for _, remoteEnabled := range []bool{false, true} {
		svc := NewTransactionService(remote, local, validators.New(), remoteEnabled)

		in := lunch()
		in.Amount = decimal.Zero
		_, err := svc.Create(ctx, in)
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		in = lunch()
		in.Type = "transfer"
		_, err = svc.Create(ctx, in)
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		zero := decimal.Zero
		_, err = svc.Update(ctx, "t1", models.TransactionPatch{Amount: &zero})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestTransactionService_RemoteSuccess(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	remote := NewMockRemoteTransactions(ctrl)
	local := NewMockLocalTransactions(ctrl)
	clock := newClock()
	svc := NewTransactionService(remote, local, validators.New(), true, WithClock(clock.Now))

	stored := models.Transaction{ID: "srv-1", UserID: "alice", Type: models.Expense, Amount: decimal.RequireFromString("42.5")}

	remote.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, txn models.Transaction) models.Result[models.Transaction] {
			assert.Empty(t, txn.ID)
			assert.False(t, txn.CreatedAt.IsZero())
			assert.Equal(t, txn.CreatedAt, txn.UpdatedAt)
			return models.Ok(stored)
		})
	got, err := svc.Create(ctx, lunch())
	require.NoError(t, err)
	assert.Equal(t, "srv-1", got.ID)

	remote.EXPECT().List(ctx).Return(models.Ok([]models.Transaction{stored}))
	assert.Equal(t, []models.Transaction{stored}, svc.List(ctx))

	category := "Travel"
	remote.EXPECT().Update(ctx, "srv-1", models.TransactionPatch{Category: &category}, gomock.Any()).
		Return(models.Ok(stored))
	_, err = svc.Update(ctx, "srv-1", models.TransactionPatch{Category: &category})
	require.NoError(t, err)

	remote.EXPECT().Delete(ctx, "srv-1").Return(models.Ok(true))
	removed, err := svc.Delete(ctx, "srv-1")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestTransactionService_FallsBackOnceWhenRemoteFails(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	remote := NewMockRemoteTransactions(ctrl)
	local := newLocalStore(t)
	svc := NewTransactionService(remote, local, validators.New(), true, WithClock(newClock().Now))

	transportErr := fmt.Errorf("%w: connection refused", apperrors.ErrTransport)

	remote.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.Fail[models.Transaction](transportErr)).Times(1)
	created, err := svc.Create(ctx, lunch())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	remote.EXPECT().List(gomock.Any()).Return(models.Fail[[]models.Transaction](transportErr)).Times(1)
	txns := svc.List(ctx)
	require.Len(t, txns, 1)
	assert.Equal(t, created.ID, txns[0].ID)

	amount := decimal.RequireFromString("99")
	remote.EXPECT().Update(gomock.Any(), created.ID, gomock.Any(), gomock.Any()).
		Return(models.Fail[models.Transaction](apperrors.ErrNotFound)).Times(1)
	updated, err := svc.Update(ctx, created.ID, models.TransactionPatch{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(amount))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	remote.EXPECT().Delete(gomock.Any(), created.ID).Return(models.Fail[bool](transportErr)).Times(1)
	removed, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Zero(t, local.Count(ctx))
}

func TestTransactionService_LocalStorageFailureIsReported(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	remote := NewMockRemoteTransactions(ctrl)
	local := NewMockLocalTransactions(ctrl)
	svc := NewTransactionService(remote, local, validators.New(), true)

	storageErr := fmt.Errorf("%w: disk full", apperrors.ErrStorage)

	remote.EXPECT().Create(gomock.Any(), gomock.Any()).Return(models.Fail[models.Transaction](apperrors.ErrTransport))
	local.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(models.Transaction{}, storageErr)
	_, err := svc.Create(ctx, lunch())
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	remote.EXPECT().Delete(gomock.Any(), "t1").Return(models.Fail[bool](apperrors.ErrTransport))
	local.EXPECT().Delete(gomock.Any(), "t1").Return(false, storageErr)
	_, err = svc.Delete(ctx, "t1")
	assert.ErrorIs(t, err, apperrors.ErrStorage)
}

func TestTransactionService_MigrateToRemote(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	remote := NewMockRemoteTransactions(ctrl)
	local := newLocalStore(t)

	seed := NewTransactionService(nil, local, validators.New(), false)
	var localIDs []string
	for _, category := range []string{"Food & Dining", "Travel", "Shopping"} {
		in := lunch()
		in.Category = category
		created, err := seed.Create(ctx, in)
		require.NoError(t, err)
		localIDs = append(localIDs, created.ID)
	}

	svc := NewTransactionService(remote, local, validators.New(), true)

	calls := 0
	remote.EXPECT().Create(gomock.Any(), gomock.Any()).Times(3).DoAndReturn(
		func(_ context.Context, txn models.Transaction) models.Result[models.Transaction] {
			calls++
			assert.Empty(t, txn.ID, "local id must be stripped")
			if txn.Category == "Travel" {
				return models.Fail[models.Transaction](errors.New("remote rejected record"))
			}
			txn.ID = fmt.Sprintf("srv-%d", calls)
			return models.Ok(txn)
		})

	results, err := svc.MigrateToRemote(ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)

	succeeded := 0
	for i, r := range results {
		assert.Equal(t, localIDs[i], r.LocalID)
		if r.Success {
			succeeded++
			require.NotNil(t, r.RemoteRecord)
			assert.NotEqual(t, r.LocalID, r.RemoteRecord.ID)
			assert.Empty(t, r.Error)
		} else {
			assert.Nil(t, r.RemoteRecord)
			assert.Equal(t, "remote rejected record", r.Error)
		}
	}
	assert.Equal(t, 2, succeeded)
	assert.False(t, results[1].Success)

	remaining := local.List(ctx)
	require.Len(t, remaining, 3)
	for i, txn := range remaining {
		assert.Equal(t, localIDs[i], txn.ID)
	}
}

func TestTransactionService_MigrateRequiresRemote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewTransactionService(NewMockRemoteTransactions(ctrl), NewMockLocalTransactions(ctrl), validators.New(), false)

	_, err := svc.MigrateToRemote(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrRemoteDisabled)
}

func TestTransactionService_StatusAndToggles(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	local := NewMockLocalTransactions(ctrl)
	local.EXPECT().Count(ctx).Return(4).AnyTimes()

	svc := NewTransactionService(NewMockRemoteTransactions(ctrl), local, validators.New(), false)
	assert.Equal(t, models.ServiceStatus{RemoteEnabled: false, LocalTransactionCount: 4}, svc.Status(ctx))

	svc.EnableRemote()
	assert.True(t, svc.Status(ctx).RemoteEnabled)

	svc.DisableRemote()
	assert.False(t, svc.RemoteEnabled())

	withoutRemote := NewTransactionService(nil, local, validators.New(), true)
	assert.False(t, withoutRemote.RemoteEnabled())
	withoutRemote.EnableRemote()
	assert.False(t, withoutRemote.RemoteEnabled())
}

func TestTransactionService_ClearLocal(t *testing.T) {
	ctx := context.Background()
	local := newLocalStore(t)
	svc := NewTransactionService(nil, local, validators.New(), false)

	_, err := svc.Create(ctx, lunch())
	require.NoError(t, err)

	require.NoError(t, svc.ClearLocal(ctx))
	assert.Equal(t, 0, svc.Status(ctx).LocalTransactionCount)
}

func seedFilters(t *testing.T) *TransactionService {
	t.Helper()
	ctx := context.Background()
	svc := NewTransactionService(nil, newLocalStore(t), validators.New(), false)

	inputs := []models.TransactionInput{
		{Type: models.Expense, Amount: decimal.RequireFromString("10"), Category: "Food & Dining", Date: "2024-01-01"},
		{Type: models.Expense, Amount: decimal.RequireFromString("20"), Category: "Travel", Date: "2024-01-15"},
		{Type: models.Credit, Amount: decimal.RequireFromString("1000"), Category: "Salary", Date: "2024-01-31"},
		{Type: models.Expense, Amount: decimal.RequireFromString("5.5"), Category: "Food & Dining", Date: "2024-02-01"},
	}
	for _, in := range inputs {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}
	return svc
}

func TestTransactionService_Filters(t *testing.T) {
	ctx := context.Background()
	svc := seedFilters(t)

	t.Run("date range is inclusive", func(t *testing.T) {
		got := svc.ByDateRange(ctx, "2024-01-15", "2024-01-31")
		require.Len(t, got, 2)
		assert.Equal(t, "Travel", got[0].Category)
		assert.Equal(t, "Salary", got[1].Category)
	})

	t.Run("open bounds", func(t *testing.T) {
		assert.Len(t, svc.ByDateRange(ctx, "", "2024-01-15"), 2)
		assert.Len(t, svc.ByDateRange(ctx, "2024-01-16", ""), 2)
	})

	t.Run("category", func(t *testing.T) {
		assert.Len(t, svc.ByCategory(ctx, "Food & Dining"), 2)
		assert.Empty(t, svc.ByCategory(ctx, "Gift"))
	})

	t.Run("type", func(t *testing.T) {
		assert.Len(t, svc.ByType(ctx, models.Expense), 3)
		assert.Len(t, svc.ByType(ctx, models.Credit), 1)
	})

	t.Run("combined criteria", func(t *testing.T) {
		got := svc.Filter(ctx, models.TransactionFilter{
			Type:     models.Expense,
			Category: "Food & Dining",
			From:     "2024-01-02",
		})
		require.Len(t, got, 1)
		assert.Equal(t, "2024-02-01", got[0].Date)
	})
}

func TestTransactionService_Summary(t *testing.T) {
	sum := seedFilters(t).Summary(context.Background())

	assert.True(t, sum.TotalCredits.Equal(decimal.RequireFromString("1000")))
	assert.True(t, sum.TotalExpenses.Equal(decimal.RequireFromString("35.5")))
	assert.True(t, sum.Balance.Equal(decimal.RequireFromString("964.5")))
	assert.Equal(t, 4, sum.TransactionCount)

	require.Len(t, sum.TopCategories, 3)
	assert.Equal(t, "Salary", sum.TopCategories[0].Category)
	assert.Equal(t, "Travel", sum.TopCategories[1].Category)
	assert.Equal(t, "Food & Dining", sum.TopCategories[2].Category)
	assert.True(t, sum.TopCategories[2].Amount.Equal(decimal.RequireFromString("15.5")))
}

func TestSummarize_LimitsTopCategories(t *testing.T) {
	var txns []models.Transaction
	for i := 1; i <= 7; i++ {
		txns = append(txns, models.Transaction{
			Type:     models.Expense,
			Amount:   decimal.NewFromInt(int64(i)),
			Category: fmt.Sprintf("c%d", i),
		})
	}

	sum := Summarize(txns)
	require.Len(t, sum.TopCategories, 5)
	assert.Equal(t, "c7", sum.TopCategories[0].Category)
	assert.Equal(t, "c3", sum.TopCategories[4].Category)
	assert.True(t, sum.Balance.Equal(decimal.NewFromInt(-28)))

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.TransactionCount)
	assert.True(t, empty.Balance.IsZero())
	assert.Empty(t, empty.TopCategories)
}

func TestTransactionService_Get(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	remote := NewMockRemoteTransactions(ctrl)
	local := NewMockLocalTransactions(ctrl)
	stored := models.Transaction{ID: "t1", Type: models.Expense, Amount: decimal.NewFromInt(5), Category: "Other", Date: "2024-01-15"}

	t.Run("remote", func(t *testing.T) {
		svc := NewTransactionService(remote, local, validators.New(), true)
		remote.EXPECT().Get(ctx, "t1").Return(models.Ok(stored))

		got, err := svc.Get(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("falls back to local", func(t *testing.T) {
		svc := NewTransactionService(remote, local, validators.New(), true)
		remote.EXPECT().Get(ctx, "t1").Return(models.Fail[models.Transaction](apperrors.ErrTransport))
		local.EXPECT().List(ctx).Return([]models.Transaction{stored})

		got, err := svc.Get(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("local only, missing", func(t *testing.T) {
		svc := NewTransactionService(remote, local, validators.New(), false)
		local.EXPECT().List(ctx).Return([]models.Transaction{stored})

		_, err := svc.Get(ctx, "nope")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
