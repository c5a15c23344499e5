// Package sheets pushes ledger snapshots into a Google Sheet through the
// Sheets v4 API, one row per transaction.
package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	syncport "finvue/internal/sync"
)

// Client is a Pusher backed by the Google Sheets API.
type Client struct {
	svc       *gsheet.Service
	sheetName string
}

var _ syncport.Pusher = (*Client)(nil)

// NewFromEnv creates a Sheets client using service-account credentials.
// Auth: GOOGLE_CREDENTIALS_JSON, GOOGLE_APPLICATION_CREDENTIALS, or ADC.
// Optional: GOOGLE_SHEET_NAME (default "Transactions").
func NewFromEnv(ctx context.Context) (*Client, error) {
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Transactions"
	}

	var opts []goption.ClientOption
	if raw := strings.TrimSpace(os.Getenv("GOOGLE_CREDENTIALS_JSON")); raw != "" {
		opts = append(opts, goption.WithCredentialsJSON([]byte(raw)))
	} else if path := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); path != "" {
		opts = append(opts, goption.WithCredentialsFile(path))
	}
	opts = append(opts, goption.WithScopes(gsheet.SpreadsheetsScope))

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, sheetName: sheetName}, nil
}

// snapshotRows flattens a snapshot into sheet rows: a header, one row per
// transaction, then a footer row carrying the push timestamp and the
// stripped user list.
func snapshotRows(snap syncport.Snapshot) [][]interface{} {
	rows := make([][]interface{}, 0, len(snap.Transactions)+2)
	rows = append(rows, []interface{}{"Date", "Type", "Category", "Amount", "Channel", "Status", "Submitted By", "Note"})
	for _, t := range snap.Transactions {
		rows = append(rows, []interface{}{
			t.Date.Format("2006-01-02"),
			string(t.Type),
			t.Category,
			t.Amount.StringFixed(2),
			string(t.Channel),
			string(t.Status),
			t.CreatedBy,
			t.Note,
		})
	}
	usernames := make([]string, 0, len(snap.Users))
	for _, u := range snap.Users {
		usernames = append(usernames, u.Username)
	}
	rows = append(rows, []interface{}{"synced", snap.Timestamp, strings.Join(usernames, ", ")})
	return rows
}

// Push clears the target sheet and rewrites it with the snapshot.
func (c *Client) Push(ctx context.Context, spreadsheetID string, snap syncport.Snapshot) error {
	if spreadsheetID == "" {
		return fmt.Errorf("missing spreadsheet id")
	}

	rows := snapshotRows(snap)

	rangeRef := c.sheetName + "!A1"
	_, err := c.svc.Spreadsheets.Values.Clear(spreadsheetID, c.sheetName, &gsheet.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s: %w", c.sheetName, err)
	}
	_, err = c.svc.Spreadsheets.Values.Update(spreadsheetID, rangeRef, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", rangeRef, err)
	}
	return nil
}
