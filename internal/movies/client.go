package movies

import (
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

	"github.com/tidwall/gjson"

	"github.com/petasbytes/moviebot/internal/telemetry"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4096
)

// ErrNotFound is returned when the provider answers with an empty result set.
var ErrNotFound = errors.New("movies: not found")

// StatusError reports a non-success HTTP status from the provider.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("movies: %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("movies: %s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

// Config configures the Client.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the movie metadata provider. Every call performs exactly
// one HTTP request and is bounded by Config.Timeout.
type Client struct {
	base    string
	apiKey  string
	timeout time.Duration
	http    *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("movies: base url must be provided")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("movies: invalid base url: %w", err)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: timeout,
		http:    hc,
	}, nil
}

// GetByID fetches one movie by its IMDb identifier (e.g. "tt1375666").
func (c *Client) GetByID(ctx context.Context, imdbID string) (Movie, error) {
	var recs []record
	if err := c.get(ctx, "get_by_id", "/movies/"+url.PathEscape(imdbID), nil, &recs); err != nil {
		return Movie{}, err
	}
	if len(recs) == 0 {
		return Movie{}, ErrNotFound
	}
	return recs[0].movie(), nil
}

// SearchByTitle returns movies whose title contains the query.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]Movie, error) {
	var recs []record
	if err := c.get(ctx, "search", "/movies/search", url.Values{"title": {title}}, &recs); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	out := make([]Movie, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.movie())
	}
	return out, nil
}

// Filter returns movies matching the criteria.
func (c *Client) Filter(ctx context.Context, crit Criteria) ([]Movie, error) {
	var recs []filterRecord
	if err := c.get(ctx, "filter", "/movies/filter", crit.Values(), &recs); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	out := make([]Movie, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.movie())
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("movies: %s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	status := "error"
	defer func() {
		telemetry.ObserveProviderRequest(op, status, time.Since(start))
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("movies: %s: %w", op, err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("movies: %s: decode: %w", op, err)
	}
	return nil
}

// errorMessage pulls a human-readable message out of an error body, if any.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	for _, path := range []string{"message", "error.message", "error"} {
		if r := gjson.GetBytes(body, path); r.Exists() && r.Type == gjson.String {
			return r.String()
		}
	}
	return ""
}
