package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"finvue/internal/models"
	syncport "finvue/internal/sync"
)

func sampleSnapshot() syncport.Snapshot {
	return syncport.Snapshot{
		Transactions: []models.Transaction{
			{
				Type:     models.TransactionTypeExpense,
				Status:   models.StatusApproved,
				Amount:   decimal.RequireFromString("42.00"),
				Category: "Food",
				Channel:  models.ChannelCash,
			},
		},
		Users: []syncport.UserRecord{
			{ID: "u1", Username: "rahim"},
		},
		Timestamp: "2026-08-31T10:00:00Z",
	}
}

func TestPush(t *testing.T) {
	t.Run("posts_json_snapshot", func(t *testing.T) {
		var received syncport.Snapshot
		var contentType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType = r.Header.Get("Content-Type")
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &received); err != nil {
				t.Errorf("body is not valid JSON: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := New(srv.Client())
		if err := client.Push(context.Background(), srv.URL, sampleSnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if contentType != "application/json" {
			t.Errorf("expected JSON content type, got %q", contentType)
		}
		if len(received.Transactions) != 1 || len(received.Users) != 1 {
			t.Errorf("snapshot did not round-trip: %+v", received)
		}
		if received.Users[0].Username != "rahim" {
			t.Errorf("expected user record to carry username, got %+v", received.Users[0])
		}
		if received.Timestamp == "" {
			t.Error("expected timestamp in payload")
		}
	})

	t.Run("error_status_is_failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := New(srv.Client())
		if err := client.Push(context.Background(), srv.URL, sampleSnapshot()); err == nil {
			t.Fatal("expected error for 500 response")
		}
	})

	t.Run("unreachable_endpoint_is_failure", func(t *testing.T) {
		client := New(nil)
		err := client.Push(context.Background(), "http://127.0.0.1:1/unreachable", sampleSnapshot())
		if err == nil {
			t.Fatal("expected error for unreachable endpoint")
		}
	})
}
