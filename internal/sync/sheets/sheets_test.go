package sheets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finvue/internal/models"
	syncport "finvue/internal/sync"
)

func TestSnapshotRows(t *testing.T) {
	date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	snap := syncport.Snapshot{
		Transactions: []models.Transaction{
			{
				Type:      models.TransactionTypeExpense,
				Status:    models.StatusApproved,
				Amount:    decimal.RequireFromString("1234.5"),
				Category:  "Rent",
				Channel:   models.ChannelBank,
				CreatedBy: "rahim",
				Note:      "office",
				Date:      date,
			},
			{
				Type:      models.TransactionTypeIncome,
				Status:    models.StatusRejected,
				Amount:    decimal.RequireFromString("50"),
				Category:  "Other Income",
				Channel:   models.ChannelCash,
				CreatedBy: "karim",
				Date:      date,
			},
		},
		Users: []syncport.UserRecord{
			{ID: "u1", Username: "rahim"},
			{ID: "u2", Username: "karim"},
		},
		Timestamp: "2026-08-31T10:00:00Z",
	}

	rows := snapshotRows(snap)

	if len(rows) != 4 {
		t.Fatalf("expected header + 2 rows + footer, got %d rows", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][3] != "Amount" || rows[0][6] != "Submitted By" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	first := rows[1]
	if first[0] != "2026-08-15" {
		t.Errorf("expected date 2026-08-15, got %v", first[0])
	}
	if first[3] != "1234.50" {
		t.Errorf("expected two-decimal amount 1234.50, got %v", first[3])
	}
	if first[2] != "Rent" || first[4] != "Bank" || first[6] != "rahim" || first[7] != "office" {
		t.Errorf("unexpected transaction row: %v", first)
	}
	// Rejected entries are part of the snapshot too; the remote copy mirrors
	// the full ledger.
	if rows[2][5] != "REJECTED" {
		t.Errorf("expected rejected entry in snapshot, got %v", rows[2])
	}
	footer := rows[3]
	if footer[0] != "synced" || footer[1] != "2026-08-31T10:00:00Z" {
		t.Errorf("unexpected footer row: %v", footer)
	}
	if footer[2] != "rahim, karim" {
		t.Errorf("expected joined usernames, got %v", footer[2])
	}
}

func TestSnapshotRowsEmpty(t *testing.T) {
	rows := snapshotRows(syncport.Snapshot{Timestamp: "2026-08-31T10:00:00Z"})
	if len(rows) != 2 {
		t.Fatalf("expected header + footer only, got %d rows", len(rows))
	}
	if rows[1][2] != "" {
		t.Errorf("expected empty username list, got %v", rows[1][2])
	}
}
