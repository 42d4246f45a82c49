// Package ipfs proxies presentation snapshots to an IPFS HTTP gateway.
// Saving never fails the client: when the gateway is unconfigured or
// unreachable, the snapshot is acknowledged with a local pseudo-hash, which
// mirrors the fire-and-forget semantics of the save path.
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// localPrefix marks pseudo-hashes for snapshots never sent to a gateway.
const localPrefix = "local-"

// Client talks to an IPFS HTTP API (e.g. a local kubo node on :5001). An
// empty gateway URL disables remote storage.
type Client struct {
	gateway string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a gateway client. gateway is the API base URL, like
// "http://127.0.0.1:5001".
func NewClient(gateway string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		gateway: gateway,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

// Configured reports whether a gateway URL is set.
func (c *Client) Configured() bool { return c.gateway != "" }

// Save stores raw JSON on the gateway and returns the content hash. When no
// gateway is configured or the add fails, it returns a local pseudo-hash
// and logs the reason.
func (c *Client) Save(ctx context.Context, data []byte) (hash string, remote bool) {
	if !c.Configured() {
		c.log.Info("IPFS not configured, acknowledging locally")
		return fmt.Sprintf("%s%d", localPrefix, time.Now().UnixMilli()), false
	}
	h, err := c.add(ctx, data)
	if err != nil {
		c.log.Warn("IPFS save failed, acknowledging locally", zap.Error(err))
		return fmt.Sprintf("%sfallback-%d", localPrefix, time.Now().UnixMilli()), false
	}
	return h, true
}

// Load fetches a stored snapshot by content hash.
func (c *Client) Load(ctx context.Context, hash string) ([]byte, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("IPFS gateway not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/v0/cat?arg=%s", c.gateway, hash), nil)
	if err != nil {
		return nil, fmt.Errorf("building cat request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching from IPFS: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("IPFS cat returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading IPFS response: %w", err)
	}
	return data, nil
}

// add uploads a file through the gateway's add endpoint and parses the
// returned hash.
func (c *Client) add(ctx context.Context, data []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "presentation.json")
	if err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("building upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gateway+"/api/v0/add", &body)
	if err != nil {
		return "", fmt.Errorf("building add request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading to IPFS: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("IPFS add returned %d", resp.StatusCode)
	}

	var out struct {
		Hash string `json:"Hash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("parsing add response: %w", err)
	}
	if out.Hash == "" {
		return "", fmt.Errorf("IPFS add returned no hash")
	}
	return out.Hash, nil
}
