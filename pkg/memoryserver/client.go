// Package memoryserver is a thin REST client for the agent memory server that owns
// per-session working memory and per-user long-term memory.
package memoryserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultClientVersion = "0.12.0"

// APIError is returned for any non-success response.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("memory server %s failed: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a 404 from the memory server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client holds no session state; every call is one round trip.
type Client struct {
	BaseURL       string
	ClientVersion string
	HTTPClient    *http.Client
}

func NewClient(baseURL, clientVersion string, timeout time.Duration) *Client {
	if clientVersion == "" {
		clientVersion = defaultClientVersion
	}
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		ClientVersion: clientVersion,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Read fetches the working memory of a session. A session unknown to the server
// yields an empty document so new sessions work without provisioning.
func (c *Client) Read(ctx context.Context, namespace, userID, sessionID string) (*WorkingMemory, error) {
	q := url.Values{}
	q.Set("namespace", namespace)
	q.Set("user_id", userID)

	var wm WorkingMemory
	err := c.do(ctx, "get working memory", http.MethodGet, c.workingMemoryURL(sessionID, q), nil, &wm)
	if IsNotFound(err) {
		return NewWorkingMemory(namespace, userID, sessionID), nil
	}
	if err != nil {
		return nil, err
	}
	return &wm, nil
}

// Replace overwrites the whole working memory. The server trims the window down to
// contextWindowMax and folds evicted messages into the summary.
func (c *Client) Replace(ctx context.Context, sessionID string, contextWindowMax int, wm *WorkingMemory) (*WorkingMemory, error) {
	q := url.Values{}
	q.Set("context_window_max", strconv.Itoa(contextWindowMax))

	body, err := json.Marshal(wm)
	if err != nil {
		return nil, fmt.Errorf("marshal working memory: %w", err)
	}

	var updated WorkingMemory
	if err := c.do(ctx, "replace working memory", http.MethodPut, c.workingMemoryURL(sessionID, q), body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the working memory record. Deleting an absent record succeeds.
func (c *Client) Delete(ctx context.Context, namespace, userID, sessionID string) error {
	q := url.Values{}
	q.Set("namespace", namespace)
	q.Set("user_id", userID)

	err := c.do(ctx, "delete working memory", http.MethodDelete, c.workingMemoryURL(sessionID, q), nil, nil)
	if IsNotFound(err) {
		return nil
	}
	return err
}

type eqFilter struct {
	Eq string `json:"eq"`
}

type searchRequest struct {
	Text      string   `json:"text"`
	Namespace eqFilter `json:"namespace"`
	UserID    eqFilter `json:"user_id"`
	Limit     int      `json:"limit"`
	Offset    int      `json:"offset"`
}

type searchResponse struct {
	Memories []LongTermMemory `json:"memories"`
	Total    int              `json:"total"`
}

// SearchLongTermMemory lists a user's long-term memories. An empty query text
// matches everything, which is how the full list is obtained.
func (c *Client) SearchLongTermMemory(ctx context.Context, namespace, userID string, limit int) ([]LongTermMemory, error) {
	body, err := json.Marshal(searchRequest{
		Text:      "",
		Namespace: eqFilter{Eq: namespace},
		UserID:    eqFilter{Eq: userID},
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	var resp searchResponse
	if err := c.do(ctx, "search long-term memory", http.MethodPost, c.BaseURL+"/v1/long-term-memory/search", body, &resp); err != nil {
		return nil, err
	}
	if resp.Memories == nil {
		return []LongTermMemory{}, nil
	}
	return resp.Memories, nil
}

func (c *Client) workingMemoryURL(sessionID string, q url.Values) string {
	return c.BaseURL + "/v1/working-memory/" + url.PathEscape(sessionID) + "?" + q.Encode()
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Version", c.ClientVersion)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("memory server %s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", op, err)
	}
	return nil
}
