package middlewares

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSqlxMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestTxMiddleware_Commit(t *testing.T) {
	sqlxDB, mock := newSqlxMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		assert.NotNil(t, GetTxFromContext(r.Context()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"t1"}`))
	})

	rr := httptest.NewRecorder()
	TxMiddleware(sqlxDB)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/transactions", nil))

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, `{"id":"t1"}`, rr.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxMiddleware_RollbackOnErrorStatus(t *testing.T) {
	sqlxDB, mock := newSqlxMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Transaction not found"}`))
	})

	rr := httptest.NewRecorder()
	TxMiddleware(sqlxDB)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/transactions/x", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, `{"error":"Transaction not found"}`, rr.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxMiddleware_BeginError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not be called")
	})

	// Close db so Begin fails
	db.Close()

	rr := httptest.NewRecorder()
	TxMiddleware(sqlxDB)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestTxMiddleware_CommitErrorReplacesResponse(t *testing.T) {
	sqlxDB, mock := newSqlxMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(sql.ErrConnDone)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"t1"}`))
	})

	rr := httptest.NewRecorder()
	TxMiddleware(sqlxDB)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "t1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxMiddleware_Panic(t *testing.T) {
	sqlxDB, mock := newSqlxMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	handler := TxMiddleware(sqlxDB)(next)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	assert.Panics(t, func() {
		handler.ServeHTTP(rr, req)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxMiddleware_AfterCommit(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		commitErr error
		wantRun   bool
		wantCode  int
	}{
		{name: "runs after commit", status: http.StatusCreated, wantRun: true, wantCode: http.StatusCreated},
		{name: "dropped on rollback", status: http.StatusBadRequest, wantRun: false, wantCode: http.StatusBadRequest},
		{name: "dropped on commit error", status: http.StatusOK, commitErr: sql.ErrConnDone, wantRun: false, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlxDB, mock := newSqlxMock(t)
			mock.ExpectBegin()
			switch {
			case tt.status >= http.StatusBadRequest:
				mock.ExpectRollback()
			case tt.commitErr != nil:
				mock.ExpectCommit().WillReturnError(tt.commitErr)
			default:
				mock.ExpectCommit()
			}

			ran := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				AfterCommit(r.Context(), func(ctx context.Context) {
					assert.NotNil(t, GetTxFromContext(ctx))
					ran = true
				})
				assert.False(t, ran, "callback must wait for the commit")
				w.WriteHeader(tt.status)
			})

			rr := httptest.NewRecorder()
			TxMiddleware(sqlxDB)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/transactions", nil))

			assert.Equal(t, tt.wantRun, ran)
			assert.Equal(t, tt.wantCode, rr.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAfterCommit_WithoutTransactionRunsImmediately(t *testing.T) {
	ran := false
	AfterCommit(context.Background(), func(ctx context.Context) { ran = true })
	assert.True(t, ran)
}
