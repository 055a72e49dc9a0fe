package models

// MigrationResult is the per-record outcome of copying a local transaction to the remote store.
type MigrationResult struct {
	LocalID      string       `json:"localId"`
	Success      bool         `json:"success"`
	RemoteRecord *Transaction `json:"remoteRecord,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// ServiceStatus describes which backing store the transaction service talks to.
type ServiceStatus struct {
	RemoteEnabled         bool `json:"remoteEnabled"`
	LocalTransactionCount int  `json:"localTransactionCount"`
}
