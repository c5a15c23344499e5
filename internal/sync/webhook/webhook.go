// Package webhook pushes ledger snapshots as a single JSON POST to an
// HTTP endpoint, typically an Apps Script web app bound to a spreadsheet.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	syncport "finvue/internal/sync"
)

// Client is a Pusher backed by a plain HTTP POST.
type Client struct {
	httpClient *http.Client
}

var _ syncport.Pusher = (*Client)(nil)

// New creates a webhook pusher. A nil client gets a 30s-timeout default.
func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient}
}

// Push serializes the snapshot and POSTs it to the endpoint URL. Any HTTP
// error status counts as failure; the response body is not interpreted.
func (c *Client) Push(ctx context.Context, endpoint string, snap syncport.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push to %s: remote returned %s", endpoint, resp.Status)
	}
	return nil
}
