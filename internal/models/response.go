package models

// ErrorResponse is the body of every failed HTTP call.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// example: Transaction not found
	Error string `json:"error"`
}

// MessageResponse is a plain confirmation body.
// swagger:model MessageResponse
type MessageResponse struct {
	// example: Transaction deleted successfully
	Message string `json:"message"`
}

// CategoriesResponse lists suggested categories per transaction type.
// swagger:model CategoriesResponse
type CategoriesResponse struct {
	Expense []string `json:"expense,omitempty"`
	Credit  []string `json:"credit,omitempty"`
}
