package grafana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ServiceError carries an upstream error message returned by the dashboard
// service itself (a JSON body with a top-level "message" field).
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

type Config struct {
	Host   string
	APIKey string
}

// Client talks to the dashboard service HTTP API. Failures are reported to
// the caller, never retried.
type Client struct {
	http   *http.Client
	host   string
	apiKey string
}

func NewClient(httpClient *http.Client, cfg Config) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		http:   httpClient,
		host:   strings.TrimRight(strings.TrimSpace(cfg.Host), "/"),
		apiKey: strings.TrimSpace(cfg.APIKey),
	}
}

func (c *Client) Host() string { return c.host }

// Dashboard fetches and normalizes one dashboard definition.
func (c *Client) Dashboard(ctx context.Context, slug string) (*Definition, error) {
	body, err := c.get(ctx, "/api/dashboards/db/"+slug)
	if err != nil {
		return nil, fmt.Errorf("fetch dashboard %q: %w", slug, err)
	}
	def, err := decodeDashboard(body)
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) {
			return nil, err
		}
		return nil, fmt.Errorf("fetch dashboard %q: %w", slug, err)
	}
	return def, nil
}

type SearchEntry struct {
	Slug  string
	Title string
}

type wireSearchHit struct {
	URI   string `json:"uri"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Search lists dashboards known to the service. The endpoint historically
// returned either a bare array or an object wrapping it in "dashboards".
func (c *Client) Search(ctx context.Context) ([]SearchEntry, error) {
	body, err := c.get(ctx, "/api/search")
	if err != nil {
		return nil, fmt.Errorf("search dashboards: %w", err)
	}

	var hits []wireSearchHit
	if err := json.Unmarshal(body, &hits); err != nil {
		var wrapped struct {
			Dashboards []wireSearchHit `json:"dashboards"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("search dashboards: parse response: %w", err)
		}
		hits = wrapped.Dashboards
	}

	entries := make([]SearchEntry, 0, len(hits))
	for _, h := range hits {
		slug := h.Slug
		if h.URI != "" {
			slug = strings.TrimPrefix(h.URI, "db/")
		}
		entries = append(entries, SearchEntry{Slug: slug, Title: h.Title})
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	return body, nil
}
