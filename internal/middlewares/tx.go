package middlewares

import (
	"bytes"
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/sbilibin2017/gw-money-tracker/internal/logger"
)

// TxMiddleware runs the request inside a database transaction. The response is
// held back until the transaction is settled: a status of 400 or above rolls it
// back, anything else commits, and a failed commit turns the response into a 500.
// Callbacks registered with AfterCommit run only after a successful commit.
func TxMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, err := db.BeginTxx(r.Context(), nil)
			if err != nil {
				logger.Log.Errorw("failed to begin transaction", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			defer func() {
				if rec := recover(); rec != nil {
					tx.Rollback()
					panic(rec)
				}
			}()

			state := &txState{tx: tx}
			ctx := setTxToContext(r.Context(), state)

			bw := &bufferedResponseWriter{header: http.Header{}, statusCode: http.StatusOK}
			next.ServeHTTP(bw, r.WithContext(ctx))

			if bw.statusCode >= http.StatusBadRequest {
				if err := tx.Rollback(); err != nil {
					logger.Log.Errorw("failed to roll back transaction", "error", err)
				}
				bw.flush(w)
				return
			}

			if err := tx.Commit(); err != nil {
				logger.Log.Errorw("failed to commit transaction", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			for _, fn := range state.afterCommit {
				fn(ctx)
			}
			bw.flush(w)
		})
	}
}

// bufferedResponseWriter records a response so it can be replaced before it is sent.
type bufferedResponseWriter struct {
	header      http.Header
	statusCode  int
	wroteHeader bool
	body        bytes.Buffer
}

func (bw *bufferedResponseWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedResponseWriter) WriteHeader(code int) {
	if bw.wroteHeader {
		return
	}
	bw.statusCode = code
	bw.wroteHeader = true
}

func (bw *bufferedResponseWriter) Write(b []byte) (int, error) {
	bw.wroteHeader = true
	return bw.body.Write(b)
}

func (bw *bufferedResponseWriter) flush(w http.ResponseWriter) {
	for k, v := range bw.header {
		w.Header()[k] = v
	}
	w.WriteHeader(bw.statusCode)
	w.Write(bw.body.Bytes())
}

// contextKey is an unexported type for keys in context
type contextKey struct{}

var txKey = contextKey{}

// txState is the per-request transaction and the work deferred until it commits.
type txState struct {
	tx          *sqlx.Tx
	afterCommit []func(ctx context.Context)
}

// setTxToContext stores a transaction in the context
func setTxToContext(ctx context.Context, state *txState) context.Context {
	return context.WithValue(ctx, txKey, state)
}

// GetTxFromContext retrieves the transaction from the context. Returns nil if not present.
func GetTxFromContext(ctx context.Context) *sqlx.Tx {
	state, _ := ctx.Value(txKey).(*txState)
	if state == nil {
		return nil
	}
	return state.tx
}

// AfterCommit defers fn until the request transaction in ctx has committed.
// fn is dropped when the transaction rolls back. Without a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	state, _ := ctx.Value(txKey).(*txState)
	if state == nil {
		fn(ctx)
		return
	}
	state.afterCommit = append(state.afterCommit, fn)
}
