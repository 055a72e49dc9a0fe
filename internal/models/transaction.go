package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, the way browser clients send them.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType distinguishes money going out from money coming in.
type TransactionType string

// Supported transaction types
const (
	Expense TransactionType = "expense"
	Credit  TransactionType = "credit"
)

// Valid reports whether t is one of the supported transaction types.
func (t TransactionType) Valid() bool {
	return t == Expense || t == Credit
}

// DateLayout is the calendar date format used for Transaction.Date.
const DateLayout = "2006-01-02"

// Transaction represents a single income or expense record.
// swagger:model Transaction
type Transaction struct {
	// Opaque identifier, stable once assigned
	ID string `json:"id" db:"id"`

	// Owning principal, set by the remote store only
	UserID string `json:"userId,omitempty" db:"user_id"`

	// example: expense
	Type TransactionType `json:"type" db:"type"`

	// example: 42.50
	Amount decimal.Decimal `json:"amount" db:"amount"`

	// example: Food & Dining
	Category string `json:"category" db:"category"`

	Description string `json:"description" db:"description"`

	// example: 2024-01-15
	Date string `json:"date" db:"date"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TransactionInput carries the fields accepted when creating a transaction.
// swagger:model TransactionInput
type TransactionInput struct {
	// required: true
	// example: expense
	Type TransactionType `json:"type" validate:"required,oneof=expense credit"`

	// required: true
	// example: 42.50
	Amount decimal.Decimal `json:"amount" validate:"positive,money"`

	// required: true
	// example: Food & Dining
	Category string `json:"category" validate:"required,notblank"`

	// example: Lunch with the team
	Description string `json:"description,omitempty"`

	// required: true
	// example: 2024-01-15
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Input returns the creatable fields of t, dropping id, owner and timestamps.
func (t Transaction) Input() TransactionInput {
	return TransactionInput{
		Type:        t.Type,
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date,
	}
}

// TransactionPatch lists the mutable fields of a transaction; nil fields are left untouched.
// swagger:model TransactionPatch
type TransactionPatch struct {
	Type        *TransactionType `json:"type,omitempty" validate:"omitempty,oneof=expense credit"`
	Amount      *decimal.Decimal `json:"amount,omitempty" validate:"omitempty,positive,money"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,notblank"`
	Description *string          `json:"description,omitempty"`
	Date        *string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Apply merges the named fields of p into t and stamps UpdatedAt.
func (p TransactionPatch) Apply(t Transaction, updatedAt time.Time) Transaction {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	t.UpdatedAt = updatedAt
	return t
}

// PatchFrom builds a patch that replaces every mutable field with the values of t.
func PatchFrom(t Transaction) TransactionPatch {
	typ, amount, category, description, date := t.Type, t.Amount, t.Category, t.Description, t.Date
	return TransactionPatch{
		Type:        &typ,
		Amount:      &amount,
		Category:    &category,
		Description: &description,
		Date:        &date,
	}
}
