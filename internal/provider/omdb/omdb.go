// Package omdb looks up movies on the OMDb API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mydehq/plexify/internal/provider"
	"github.com/mydehq/plexify/internal/types"
)

const (
	// Name is the registry key of this provider.
	Name = "omdb"

	DefaultBaseURL = "https://www.omdbapi.com/"
	defaultTimeout = 10 * time.Second
	maxBody        = 1 << 20
)

func init() {
	provider.RegisterProvider(Name, func(cfg types.APIConfig, client *http.Client) (types.Provider, error) {
		return New(cfg.OMDbKey, WithBaseURL(cfg.BaseURL), WithClient(client), WithTimeout(cfg.Timeout))
	})
}

// Client queries OMDb by title. It keeps no cache: every Lookup is a fresh request.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Empty keeps the default.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithClient sets the HTTP client. Nil keeps the default.
func WithClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New returns an OMDb client using apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, types.ErrMissingAPIKey
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

func (c *Client) Name() string { return Name }

// response mirrors the fields of an OMDb title response that are used.
type response struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	IMDbID   string `json:"imdbID"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// Lookup fetches the record for title, narrowed by year when non-empty.
// Transport errors, non-2xx statuses, malformed bodies and explicit misses
// are all returned as types.ErrNotFound.
func (c *Client) Lookup(ctx context.Context, title, year string) (types.MovieRecord, error) {
	notFound := func(reason string) error {
		return types.ErrNotFound{Title: title, Year: year, Reason: reason}
	}
	if strings.TrimSpace(title) == "" {
		return types.MovieRecord{}, notFound("empty title")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return types.MovieRecord{}, notFound(fmt.Sprintf("bad base URL: %v", err))
	}
	q := u.Query()
	q.Set("apikey", c.apiKey)
	q.Set("t", title)
	q.Set("type", "movie")
	if year != "" {
		q.Set("y", year)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return types.MovieRecord{}, notFound(err.Error())
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "plexify")

	resp, err := provider.Do(ctx, c.http, req, "OMDb")
	if err != nil {
		var apiErr types.ErrAPIError
		if errors.As(err, &apiErr) {
			return types.MovieRecord{}, notFound(apiErr.Error())
		}
		return types.MovieRecord{}, notFound(fmt.Sprintf("request failed: %v", redact(err.Error(), c.apiKey)))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return types.MovieRecord{}, notFound(fmt.Sprintf("read failed: %v", err))
	}
	return parse(body, notFound)
}

func parse(body []byte, notFound func(string) error) (types.MovieRecord, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return types.MovieRecord{}, notFound("malformed response")
	}
	if strings.EqualFold(r.Response, "False") {
		reason := r.Error
		if reason == "" {
			reason = "no match"
		}
		return types.MovieRecord{}, notFound(reason)
	}

	title := strings.TrimSpace(r.Title)
	year := leadingYear(r.Year)
	if title == "" || year == "" {
		return types.MovieRecord{}, notFound("incomplete record")
	}
	id := strings.TrimSpace(r.IMDbID)
	if id == "N/A" {
		id = ""
	}
	return types.MovieRecord{Title: title, Year: year, ExternalID: id}, nil
}

// leadingYear returns the first four characters of s if they are digits.
// OMDb reports ranges such as "2019–2021" for some titles.
func leadingYear(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return ""
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return ""
		}
	}
	return s[:4]
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, url.QueryEscape(secret), "***")
}
