package tmdb

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

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the TMDB v3 API root
const DefaultBaseURL = "https://api.themoviedb.org/3"

// Client reads TMDB lists over the v3 REST API
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API root
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

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

// WithLanguage sets the language parameter sent with list requests
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// NewClient creates a TMDB client. The key may be a v3 API key or a v4 read
// access token; tokens are sent as a bearer header.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: TMDB API key is required", ErrInvalidConfig)
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		language:   "en-US",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// isReadAccessToken reports whether the credential is a v4 JWT
func isReadAccessToken(key string) bool {
	return strings.HasPrefix(key, "eyJ") && strings.Count(key, ".") == 2
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if isReadAccessToken(c.apiKey) {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	} else {
		params.Set("api_key", c.apiKey)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("endpoint", endpoint).Str("page", params.Get("page")).Msg("TMDB request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", endpoint, err)
	}
	return nil
}

// Page fetches one page of an endpoint
func (c *Client) Page(ctx context.Context, endpoint string, page int) (*Page, error) {
	params := url.Values{"language": {c.language}}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}

	var p Page
	if err := c.get(ctx, endpoint, params, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List fetches a list in provider order. popular_tv merges tv/popular,
// trending/tv/week and tv/top_rated over two pages each; duplicates are left
// for the caller to drop.
func (c *Client) List(ctx context.Context, list ListType) ([]Result, error) {
	endpoint := list.Endpoint()
	if endpoint == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownList, list)
	}

	var results []Result
	if list == ListPopularTV {
		merged, err := c.popularTV(ctx)
		if err != nil {
			return nil, err
		}
		results = merged
	} else {
		p, err := c.Page(ctx, endpoint, 1)
		if err != nil {
			return nil, err
		}
		results = p.Results
	}

	if mt := list.mediaType(); mt != "" {
		for i := range results {
			results[i].MediaType = mt
		}
	}
	return results, nil
}

// popularTV skips pages that fail and errors only when every page failed
func (c *Client) popularTV(ctx context.Context) ([]Result, error) {
	n := len(popularTVEndpoints) * popularTVPages
	pages := make([][]Result, n)
	errs := make([]error, n)

	var g errgroup.Group
	for i, endpoint := range popularTVEndpoints {
		for page := 1; page <= popularTVPages; page++ {
			slot := i*popularTVPages + page - 1
			g.Go(func() error {
				p, err := c.Page(ctx, endpoint, page)
				if err != nil {
					errs[slot] = fmt.Errorf("%s page %d: %w", endpoint, page, err)
					return nil
				}
				pages[slot] = p.Results
				return nil
			})
		}
	}
	_ = g.Wait()

	var merged []Result
	failed := 0
	for i, p := range pages {
		if errs[i] != nil {
			failed++
			c.logger.Warn().Err(errs[i]).Msg("Skipping popular TV page")
			continue
		}
		merged = append(merged, p...)
	}
	if failed == n {
		return nil, errors.Join(errs...)
	}
	return merged, nil
}
