package models

// TransactionFilter selects transactions; empty fields match everything.
// From and To bound Date inclusively.
type TransactionFilter struct {
	Type     TransactionType
	Category string
	From     string
	To       string
}

// Match reports whether t satisfies every criterion of f.
func (f TransactionFilter) Match(t Transaction) bool {
	return (f.Type == "" || t.Type == f.Type) &&
		(f.Category == "" || t.Category == f.Category) &&
		(f.From == "" || t.Date >= f.From) &&
		(f.To == "" || t.Date <= f.To)
}
