// Package sync defines the outbound port for pushing the ledger to a remote
// collaborator. The push is one-way and fire-and-forget: the core never
// assumes the remote side acknowledges or validates content.
package sync

import (
	"context"

	"finvue/internal/models"
)

// UserRecord is the role-stripped user representation sent to the remote
// side. Credentials and roles never leave the system.
type UserRecord struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Snapshot is the payload of one push: the full transaction list, the
// stripped user list, and an RFC3339 timestamp.
type Snapshot struct {
	Transactions []models.Transaction `json:"transactions"`
	Users        []UserRecord         `json:"users"`
	Timestamp    string               `json:"timestamp"`
}

// Pusher delivers one snapshot to a destination. The endpoint is the
// adapter-specific destination reference: a webhook URL, or a spreadsheet ID
// for the Sheets adapter. Push either delivers the whole snapshot or returns
// an error; it must never leave partial remote state the core depends on.
type Pusher interface {
	Push(ctx context.Context, endpoint string, snap Snapshot) error
}
