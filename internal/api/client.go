package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "MARINE_HTTP_TIMEOUT"
)

// Client is a small HTTP client for the marine portal JSON endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// Ping checks whether the portal is reachable and its store answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "/health", nil)
}

// VisualizationData fetches the dashboard aggregate.
func (c *Client) VisualizationData(ctx context.Context) (VisualizationData, error) {
	var resp VisualizationData
	err := c.do(ctx, "/api/visualization_data", &resp)
	return resp, err
}

func (c *Client) ListIngestion(ctx context.Context) ([]IngestionResponse, error) {
	var resp []IngestionResponse
	err := c.do(ctx, "/api/records/ingestion", &resp)
	return resp, err
}

func (c *Client) ListOtolith(ctx context.Context) ([]OtolithResponse, error) {
	var resp []OtolithResponse
	err := c.do(ctx, "/api/records/otolith", &resp)
	return resp, err
}

func (c *Client) ListEdna(ctx context.Context) ([]EdnaResponse, error) {
	var resp []EdnaResponse
	err := c.do(ctx, "/api/records/edna", &resp)
	return resp, err
}

// ListRaw returns the records of kind as undecoded JSON documents.
func (c *Client) ListRaw(ctx context.Context, kind string) ([]json.RawMessage, error) {
	var resp []json.RawMessage
	err := c.do(ctx, "/api/records/"+url.PathEscape(kind), &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		return &APIError{
			Status:    resp.StatusCode,
			Code:      errResp.Code,
			ErrorCode: errResp.ErrorCode,
			Message:   errResp.Error,
		}
	}
	return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("api error: %s", resp.Status)}
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
