package depconfig

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

const defaultFetchTimeout = 10 * time.Second

// Client fetches the configuration snapshot from a deployment service.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a client that dials the deployment connect endpoint.
// addr is a host:port pair.
func NewClient(addr string) *Client {
	return &Client{
		http:    &http.Client{Timeout: defaultFetchTimeout},
		baseURL: "http://" + addr,
	}
}

// Fetch requests the configuration snapshot. The context bounds the request;
// a failure means the caller cannot proceed to local-mode setup.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ConfigPath, nil)
	if err != nil {
		return snap, eris.Wrap(err, "failed to build config request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return snap, eris.Wrap(err, "failed to reach deployment service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return snap, eris.Errorf("deployment service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return snap, eris.Wrap(err, "failed to read config response")
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		return snap, eris.Wrap(err, "failed to decode config response")
	}
	return snap, nil
}
