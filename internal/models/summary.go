package models

import "github.com/shopspring/decimal"

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Summary aggregates a set of transactions for the dashboard.
type Summary struct {
	TotalCredits     decimal.Decimal `json:"totalCredits"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactionCount"`
	TopCategories    []CategoryTotal `json:"topCategories"`
}
