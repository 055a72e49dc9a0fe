package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-money-tracker/internal/apperrors"
	"github.com/sbilibin2017/gw-money-tracker/internal/jwt"
	"github.com/sbilibin2017/gw-money-tracker/internal/logger"
	"github.com/sbilibin2017/gw-money-tracker/internal/models"
)

//go:generate mockgen -source=transactions.go -destination=transactions_mock.go -package=handlers

const (
	msgUnauthorized        = "Unauthorized"
	msgInvalidBody         = "Invalid request body"
	msgMissingFields       = "Missing required fields: type, amount, category, date"
	msgInvalidType         = `Invalid type. Must be "expense" or "credit"`
	msgNotFound            = "Transaction not found"
	msgDeleted             = "Transaction deleted successfully"
	msgInternalServerError = "Internal server error"
)

// TransactionTokener defines only the token methods needed by the transaction handlers.
type TransactionTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// TransactionLister lists the transactions of a user.
type TransactionLister interface {
	List(ctx context.Context, userID string) ([]models.Transaction, error)
}

// TransactionGetter reads one transaction of a user.
type TransactionGetter interface {
	Get(ctx context.Context, userID, id string) (models.Transaction, error)
}

// TransactionCreator creates a transaction for a user.
type TransactionCreator interface {
	Create(ctx context.Context, userID string, in models.TransactionInput) (models.Transaction, error)
}

// TransactionUpdater applies a partial update to a transaction of a user.
type TransactionUpdater interface {
	Update(ctx context.Context, userID, id string, patch models.TransactionPatch) (models.Transaction, error)
}

// TransactionDeleter deletes a transaction of a user.
type TransactionDeleter interface {
	Delete(ctx context.Context, userID, id string) error
}

// CreateTransactionRequest is the JSON body for creating a transaction
// swagger:model CreateTransactionRequest
type CreateTransactionRequest struct {
	// Transaction type
	// required: true
	// enum: expense,credit
	Type *models.TransactionType `json:"type"`

	// Positive amount
	// required: true
	// example: 42.50
	Amount *decimal.Decimal `json:"amount"`

	// Category name
	// required: true
	// example: Food & Dining
	Category *string `json:"category"`

	// Free text
	Description *string `json:"description,omitempty"`

	// Calendar date, YYYY-MM-DD
	// required: true
	// example: 2024-01-15
	Date *string `json:"date"`
}

func (r CreateTransactionRequest) missingFields() bool {
	return r.Type == nil || strings.TrimSpace(string(*r.Type)) == "" ||
		r.Amount == nil ||
		r.Category == nil || strings.TrimSpace(*r.Category) == "" ||
		r.Date == nil || strings.TrimSpace(*r.Date) == ""
}

func (r CreateTransactionRequest) input() models.TransactionInput {
	in := models.TransactionInput{
		Type:     *r.Type,
		Amount:   *r.Amount,
		Category: *r.Category,
		Date:     *r.Date,
	}
	if r.Description != nil {
		in.Description = *r.Description
	}
	return in
}

// NewListTransactionsHandler returns an HTTP handler listing the caller's transactions.
// @Summary List transactions
// @Description Returns every transaction of the authenticated user, newest first.
// @Tags transactions
// @Produce json
// @Success 200 {array} models.Transaction
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /transactions [get]
// @Security BearerAuth
func NewListTransactionsHandler(svc TransactionLister, tokener TransactionTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userFromRequest(w, r, tokener)
		if !ok {
			return
		}

		txns, err := svc.List(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, txns)
	}
}

// NewGetTransactionHandler returns an HTTP handler reading one transaction.
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Transaction not found"
// @Router /transactions/{id} [get]
// @Security BearerAuth
func NewGetTransactionHandler(svc TransactionGetter, tokener TransactionTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userFromRequest(w, r, tokener)
		if !ok {
			return
		}

		txn, err := svc.Get(r.Context(), userID, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, txn)
	}
}

// NewCreateTransactionHandler returns an HTTP handler creating a transaction.
// @Summary Create transaction
// @Description Stores a new transaction. The server assigns id, createdAt and updatedAt.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body handlers.CreateTransactionRequest true "Transaction"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} models.ErrorResponse "Missing or invalid field"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /transactions [post]
// @Security BearerAuth
func NewCreateTransactionHandler(svc TransactionCreator, tokener TransactionTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userFromRequest(w, r, tokener)
		if !ok {
			return
		}

		var req CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Warnw("failed to decode create transaction request", "error", err)
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		if req.missingFields() {
			writeError(w, http.StatusBadRequest, msgMissingFields)
			return
		}
		if !req.Type.Valid() {
			logger.Log.Warnw("invalid transaction type", "type", *req.Type)
			writeError(w, http.StatusBadRequest, msgInvalidType)
			return
		}

		txn, err := svc.Create(r.Context(), userID, req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, txn)
	}
}

// NewUpdateTransactionHandler returns an HTTP handler applying a partial update.
// @Summary Update transaction
// @Description Merges the supplied fields into the transaction and refreshes updatedAt.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body models.TransactionPatch true "Fields to change"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} models.ErrorResponse "Invalid field"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Transaction not found"
// @Router /transactions/{id} [put]
// @Security BearerAuth
func NewUpdateTransactionHandler(svc TransactionUpdater, tokener TransactionTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userFromRequest(w, r, tokener)
		if !ok {
			return
		}

		var patch models.TransactionPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			logger.Log.Warnw("failed to decode update transaction request", "error", err)
			writeError(w, http.StatusBadRequest, msgInvalidBody)
			return
		}

		txn, err := svc.Update(r.Context(), userID, chi.URLParam(r, "id"), patch)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, txn)
	}
}

// NewDeleteTransactionHandler returns an HTTP handler deleting a transaction.
// @Summary Delete transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.MessageResponse "Transaction deleted successfully"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Transaction not found"
// @Router /transactions/{id} [delete]
// @Security BearerAuth
func NewDeleteTransactionHandler(svc TransactionDeleter, tokener TransactionTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := userFromRequest(w, r, tokener)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, models.MessageResponse{Message: msgDeleted})
	}
}

// userFromRequest resolves the caller's user id from the bearer token.
// It writes a 401 response and returns false when that is not possible.
func userFromRequest(w http.ResponseWriter, r *http.Request, tokener TransactionTokener) (string, bool) {
	ctx := r.Context()

	tokenStr, err := tokener.GetTokenFromRequest(ctx, r)
	if err != nil {
		logger.Log.Errorw("failed to get token from request", "error", err)
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return "", false
	}

	claims, err := tokener.GetClaims(ctx, tokenStr)
	if err != nil {
		logger.Log.Errorw("failed to get claims from token", "error", err)
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
		return "", false
	}

	return claims.UserID, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, apperrors.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
	default:
		logger.Log.Errorw("transaction request failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
