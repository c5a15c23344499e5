// Package export serializes the ledger for download. Pure serialization of
// already-computed data; no business logic.
package export

import (
	"encoding/csv"
	"io"

	"finvue/internal/models"
)

// Columns is the fixed header of the transaction export.
var Columns = []string{"Date", "Type", "Category", "Amount", "Note"}

// WriteCSV streams one row per transaction with the fixed column set.
func WriteCSV(w io.Writer, transactions []models.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, t := range transactions {
		row := []string{
			t.Date.Format("2006-01-02"),
			string(t.Type),
			t.Category,
			t.Amount.StringFixed(2),
			t.Note,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
