// Package search talks to the remote recommendation endpoints: the /query
// search itself and the fire-and-forget /register and /feedback calls.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/foodmood/foodmood/internal/foodmood"
)

// Results is one successful search. LowCount is an advisory condition, not
// an error.
type Results struct {
	Places   []foodmood.PlaceResult `json:"places"`
	LowCount bool                   `json:"lowCount"`
}

// NewResults wraps places, flagging pages with fewer than
// foodmood.LowResultThreshold entries.
func NewResults(places []foodmood.PlaceResult) Results {
	return Results{Places: places, LowCount: len(places) < foodmood.LowResultThreshold}
}

type Client struct {
	baseURL string
	method  string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMethod selects GET or POST for /query. POST is the default.
func WithMethod(method string) Option {
	return func(c *Client) { c.method = strings.ToUpper(method) }
}

func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		method:  http.MethodPost,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch issues one search. Any transport, status or body problem is reported
// as a *foodmood.NetworkFailure and is not retried. Malformed records are
// dropped.
func (c *Client) Fetch(ctx context.Context, query string) (Results, error) {
	req, err := http.NewRequestWithContext(ctx, c.method, c.baseURL+"/query?"+query, nil)
	if err != nil {
		return Results{}, &foodmood.NetworkFailure{Op: "building search request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Results{}, &foodmood.NetworkFailure{Op: "fetching places", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return Results{}, &foodmood.NetworkFailure{
			Op:  "fetching places",
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return Results{}, &foodmood.NetworkFailure{Op: "decoding places", Err: err}
	}

	places := make([]foodmood.PlaceResult, 0, len(records))
	for i, rec := range records {
		p, err := decodePlace(rec)
		if err != nil {
			c.logger.Warn("skipping malformed place record", "index", i, "error", err)
			continue
		}
		places = append(places, p)
	}

	c.logger.Debug("places fetched", "received", len(records), "kept", len(places))
	return NewResults(places), nil
}

// Register tells the backend about a signed-in user.
func (c *Client) Register(ctx context.Context, idToken string) error {
	return c.post(ctx, "/register", "idToken="+url.QueryEscape(idToken))
}

// SendFeedback reports what the user did with a results page.
func (c *Client) SendFeedback(ctx context.Context, fb Feedback) error {
	if err := fb.Validate(); err != nil {
		return err
	}
	return c.post(ctx, "/feedback", fb.Encode())
}

// Check reports whether the search backend answers at all.
func (c *Client) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("search backend status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, query string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path+"?"+query, nil)
	if err != nil {
		return fmt.Errorf("building %s request: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &foodmood.NetworkFailure{Op: "posting " + path, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &foodmood.NetworkFailure{Op: "posting " + path, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return nil
}
