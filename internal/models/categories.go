package models

// ExpenseCategories are the suggested categories for expenses.
var ExpenseCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	"Other",
}

// CreditCategories are the suggested categories for credits.
var CreditCategories = []string{
	"Salary",
	"Freelance",
	"Investment",
	"Gift",
	"Refund",
	"Other Income",
}

// SuggestedCategories returns the suggestion list for t, or nil for an unknown type.
func SuggestedCategories(t TransactionType) []string {
	switch t {
	case Expense:
		return append([]string(nil), ExpenseCategories...)
	case Credit:
		return append([]string(nil), CreditCategories...)
	default:
		return nil
	}
}
