package plex

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

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Client wraps the Plex Media Server API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new Plex client. The server is not contacted until the first call.
func NewClient(baseURL, token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" || token == "" {
		return nil, fmt.Errorf("%w: url and token are required", ErrInvalidConfig)
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// get issues an authenticated JSON request
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*MediaContainer, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}
	c.logger.Debug().Str("endpoint", endpoint).Msg("Making Plex API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var container MediaContainer
	if err := json.NewDecoder(resp.Body).Decode(&container); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &container, nil
}

// TestConnection tests the connection to Plex
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.get(ctx, "/library/sections", nil)
	return err
}

// Sections returns the movie and show library sections
func (c *Client) Sections(ctx context.Context) ([]Directory, error) {
	container, err := c.get(ctx, "/library/sections", nil)
	if err != nil {
		return nil, err
	}

	var sections []Directory
	for _, d := range container.MediaContainer.Directory {
		if d.Key == "" {
			continue
		}
		if d.Type == SectionMovie || d.Type == SectionShow {
			sections = append(sections, d)
		}
	}
	return sections, nil
}

// RecentlyAdded returns the recently added entries of one section
func (c *Client) RecentlyAdded(ctx context.Context, sectionKey string) ([]Metadata, error) {
	container, err := c.get(ctx, "/library/sections/"+url.PathEscape(sectionKey)+"/recentlyAdded",
		url.Values{"includeGuids": {"1"}})
	if err != nil {
		return nil, err
	}
	return container.MediaContainer.Metadata, nil
}

// All returns every top-level entry (movies or shows) of one section
func (c *Client) All(ctx context.Context, sectionKey string) ([]Metadata, error) {
	container, err := c.get(ctx, "/library/sections/"+url.PathEscape(sectionKey)+"/all",
		url.Values{"includeGuids": {"1"}})
	if err != nil {
		return nil, err
	}
	return container.MediaContainer.Metadata, nil
}

// forEachSection runs fn for every video section concurrently and
// concatenates the results in section order. A failing section is logged and
// skipped; the call fails only when every section failed.
func (c *Client) forEachSection(ctx context.Context, fn func(context.Context, string) ([]Metadata, error)) ([]Metadata, error) {
	sections, err := c.Sections(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]Metadata, len(sections))
	errs := make([]error, len(sections))
	var g errgroup.Group
	for i, section := range sections {
		g.Go(func() error {
			entries, err := fn(ctx, section.Key)
			if err != nil {
				errs[i] = fmt.Errorf("section %s: %w", section.Title, err)
				return nil
			}
			results[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	var all []Metadata
	failed := 0
	for i, r := range results {
		if errs[i] != nil {
			failed++
			c.logger.Warn().Err(errs[i]).Msg("Skipping Plex section")
			continue
		}
		all = append(all, r...)
	}
	if len(sections) > 0 && failed == len(sections) {
		return nil, errors.Join(errs...)
	}
	return all, nil
}

// RecentlyAddedAll returns the recently added entries of every video section
func (c *Client) RecentlyAddedAll(ctx context.Context) ([]Metadata, error) {
	return c.forEachSection(ctx, c.RecentlyAdded)
}

// LibraryAll returns every movie and show in the server
func (c *Client) LibraryAll(ctx context.Context) ([]Metadata, error) {
	return c.forEachSection(ctx, c.All)
}
