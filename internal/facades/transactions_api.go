package facades

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sbilibin2017/gw-money-tracker/internal/apperrors"
	"github.com/sbilibin2017/gw-money-tracker/internal/logger"
	"github.com/sbilibin2017/gw-money-tracker/internal/models"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// TransactionsAPIFacade talks to the remote transactions HTTP API.
// Every method reports failures inside the returned Result and never returns a bare error.
type TransactionsAPIFacade struct {
	baseURL string
	token   string
	client  *http.Client
}

// TransactionsAPIOption configures a TransactionsAPIFacade.
type TransactionsAPIOption func(*TransactionsAPIFacade)

// WithToken sets the bearer token attached to every request.
func WithToken(token string) TransactionsAPIOption {
	return func(f *TransactionsAPIFacade) {
		f.token = token
	}
}

// WithTimeout sets the per-request timeout of the underlying HTTP client.
func WithTimeout(d time.Duration) TransactionsAPIOption {
	return func(f *TransactionsAPIFacade) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// NewTransactionsAPIFacade creates a client for the API rooted at baseURL.
func NewTransactionsAPIFacade(baseURL string, opts ...TransactionsAPIOption) *TransactionsAPIFacade {
	f := &TransactionsAPIFacade{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// List fetches every transaction of the authenticated user.
func (f *TransactionsAPIFacade) List(ctx context.Context) models.Result[[]models.Transaction] {
	txns := []models.Transaction{}
	if err := f.do(ctx, http.MethodGet, "/transactions", nil, &txns); err != nil {
		return models.Fail[[]models.Transaction](err)
	}
	return models.Ok(txns)
}

// Get fetches a single transaction.
func (f *TransactionsAPIFacade) Get(ctx context.Context, id string) models.Result[models.Transaction] {
	var txn models.Transaction
	if err := f.do(ctx, http.MethodGet, transactionPath(id), nil, &txn); err != nil {
		return models.Fail[models.Transaction](err)
	}
	return models.Ok(txn)
}

// createRequest is the POST body. The id is never sent; the server assigns its own.
type createRequest struct {
	models.TransactionInput
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// updateRequest is the PUT body: the patched fields plus the client-side mutation time.
type updateRequest struct {
	models.TransactionPatch
	UpdatedAt time.Time `json:"updatedAt"`
}

// Create submits txn without its id. The server assigns id and timestamps of the stored record.
func (f *TransactionsAPIFacade) Create(ctx context.Context, txn models.Transaction) models.Result[models.Transaction] {
	in := createRequest{
		TransactionInput: txn.Input(),
		CreatedAt:        txn.CreatedAt,
		UpdatedAt:        txn.UpdatedAt,
	}

	var stored models.Transaction
	if err := f.do(ctx, http.MethodPost, "/transactions", in, &stored); err != nil {
		return models.Fail[models.Transaction](err)
	}
	return models.Ok(stored)
}

// Update merges the fields named in patch into the transaction with the given id.
func (f *TransactionsAPIFacade) Update(
	ctx context.Context,
	id string,
	patch models.TransactionPatch,
	updatedAt time.Time,
) models.Result[models.Transaction] {
	in := updateRequest{TransactionPatch: patch, UpdatedAt: updatedAt}

	var txn models.Transaction
	if err := f.do(ctx, http.MethodPut, transactionPath(id), in, &txn); err != nil {
		return models.Fail[models.Transaction](err)
	}
	return models.Ok(txn)
}

// Delete removes the transaction with the given id.
func (f *TransactionsAPIFacade) Delete(ctx context.Context, id string) models.Result[bool] {
	if err := f.do(ctx, http.MethodDelete, transactionPath(id), nil, nil); err != nil {
		return models.Fail[bool](err)
	}
	return models.Ok(true)
}

func transactionPath(id string) string {
	return "/transactions/" + url.PathEscape(id)
}

// do performs one API call. Returned errors wrap apperrors.ErrNotFound,
// apperrors.ErrValidation or apperrors.ErrTransport.
func (f *TransactionsAPIFacade) do(ctx context.Context, method, path string, in, out any) (err error) {
	defer func() {
		// a panic inside the HTTP stack is a transport failure like any other
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", apperrors.ErrTransport, r)
		}
		if err != nil {
			logger.Log.Errorw("remote transactions API call failed",
				"method", method, "path", path, "error", err)
		}
	}()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", apperrors.ErrTransport, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", apperrors.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	logger.Log.Debugw("remote transactions API call",
		"method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", apperrors.ErrTransport, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	msg := http.StatusText(resp.StatusCode)

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var errResp models.ErrorResponse
	if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
		msg = errResp.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, msg)
	case http.StatusBadRequest:
		return &apperrors.ValidationError{Reason: msg}
	default:
		return fmt.Errorf("%w: status %d: %s", apperrors.ErrTransport, resp.StatusCode, msg)
	}
}
