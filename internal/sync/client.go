package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/stridehq/stride/internal/errors"
	"github.com/stridehq/stride/internal/models"
)

// Remote is the remote replica store as seen by the reconciler: the same
// record shapes as the local store, reached over the sync wire protocol.
type Remote interface {
	// Pull returns all records with updatedAt strictly greater than since.
	// An empty since returns full history.
	Pull(ctx context.Context, since string) (models.PullResponse, error)
	// Push sends records for the remote to merge with the same
	// last-write-wins rule applied locally, making retries safe.
	Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error)
}

// Client implements Remote over HTTP with bearer authentication.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a sync client for the given authority.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Pull(ctx context.Context, since string) (models.PullResponse, error) {
	u := c.baseURL + "/sync/pull"
	if since != "" {
		u += "?since=" + url.QueryEscape(since)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.PullResponse{}, &apperrors.NetworkError{Op: "pull", Err: err}
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return models.PullResponse{}, &apperrors.NetworkError{Op: "pull", Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus("pull", resp.StatusCode); err != nil {
		return models.PullResponse{}, err
	}

	var pull models.PullResponse
	if err := json.NewDecoder(resp.Body).Decode(&pull); err != nil {
		return models.PullResponse{}, &apperrors.NetworkError{Op: "pull", Err: fmt.Errorf("malformed response: %w", err)}
	}
	return pull, nil
}

func (c *Client) Push(ctx context.Context, pushReq models.PushRequest) (models.PushResponse, error) {
	body, err := json.Marshal(pushReq)
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("failed to serialize push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sync/push", bytes.NewReader(body))
	if err != nil {
		return models.PushResponse{}, &apperrors.NetworkError{Op: "push", Err: err}
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.PushResponse{}, &apperrors.NetworkError{Op: "push", Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus("push", resp.StatusCode); err != nil {
		return models.PushResponse{}, err
	}

	var push models.PushResponse
	if err := json.NewDecoder(resp.Body).Decode(&push); err != nil {
		return models.PushResponse{}, &apperrors.NetworkError{Op: "push", Err: fmt.Errorf("malformed response: %w", err)}
	}
	return push, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func checkStatus(op string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return &apperrors.AuthError{Reason: fmt.Sprintf("%s rejected with status %d", op, code)}
	default:
		// Other statuses are treated as transient and retryable.
		return &apperrors.NetworkError{Op: op, Err: fmt.Errorf("unexpected status %d", code)}
	}
}
