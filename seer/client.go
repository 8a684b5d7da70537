package seer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultPageSize = 100

// Client represents a Seer (Overseerr/Jellyseerr) API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	pageSize   int
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPageSize sets the page size used when walking requests
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// NewClient creates a new Seer client. It does not contact the server;
// use TestConnection for that.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: seer URL is required", ErrInvalidConfig)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: seer API key is required", ErrInvalidConfig)
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		pageSize: defaultPageSize,
		logger:   logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// doRequest performs an HTTP request with authentication
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, payload any) ([]byte, error) {
	u := fmt.Sprintf("%s/api/v1%s", c.baseURL, endpoint)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(respBody),
		}
	}

	return respBody, nil
}

// TestConnection tests the connection to Seer
func (c *Client) TestConnection(ctx context.Context) error {
	// /auth/me validates the API key as well as reachability
	_, err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil, nil)
	return err
}

// Discover retrieves one page of a discovery list
func (c *Client) Discover(ctx context.Context, list DiscoverList, page int) (*DiscoverResponse, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}

	var endpoint string
	switch list {
	case DiscoverTrending:
		endpoint = "/discover/trending"
	case DiscoverPopularMovies:
		endpoint = "/discover/movies"
		params.Set("sortBy", "popularity.desc")
	case DiscoverPopularTV:
		endpoint = "/discover/tv"
		params.Set("sortBy", "popularity.desc")
	case DiscoverMovies:
		endpoint = "/discover/movies"
	case DiscoverTV:
		endpoint = "/discover/tv"
	default:
		return nil, fmt.Errorf("%w: unknown discover list %q", ErrInvalidConfig, list)
	}

	body, err := c.doRequest(ctx, http.MethodGet, endpoint, params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", list, err)
	}

	var response DiscoverResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Movie and TV endpoints omit mediaType on their results
	for i := range response.Results {
		if response.Results[i].MediaType != "" {
			continue
		}
		switch list {
		case DiscoverPopularMovies, DiscoverMovies:
			response.Results[i].MediaType = MediaTypeMovie
		case DiscoverPopularTV, DiscoverTV:
			response.Results[i].MediaType = MediaTypeTV
		}
	}

	c.logger.Debug().
		Str("list", string(list)).
		Int("page", response.Page).
		Int("count", len(response.Results)).
		Msg("Retrieved discover results from Seer")

	return &response, nil
}

// GetRequests retrieves every request matching filter, walking all pages
func (c *Client) GetRequests(ctx context.Context, filter string) ([]MediaRequest, error) {
	var all []MediaRequest
	page := 1

	for {
		params := url.Values{}
		params.Set("take", strconv.Itoa(c.pageSize))
		params.Set("skip", strconv.Itoa((page-1)*c.pageSize))
		params.Set("sort", "added")
		if filter != "" {
			params.Set("filter", filter)
		}

		body, err := c.doRequest(ctx, http.MethodGet, "/request", params, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get requests: %w", err)
		}

		var response RequestsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}

		all = append(all, response.Results...)

		c.logger.Debug().
			Int("page", page).
			Int("count", len(response.Results)).
			Int("total", len(all)).
			Msg("Retrieved requests from Seer")

		if page >= response.PageInfo.Pages || len(response.Results) == 0 {
			break
		}
		page++
	}

	return all, nil
}

// GetMediaDetails retrieves title and artwork for a TMDB id
func (c *Client) GetMediaDetails(ctx context.Context, mediaType MediaType, tmdbID int64) (*MediaDetails, error) {
	endpoint := fmt.Sprintf("/%s/%d", mediaType, tmdbID)
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", mediaType, tmdbID, err)
	}

	var details MediaDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &details, nil
}

// Request submits a new request for a title
func (c *Client) Request(ctx context.Context, mediaType MediaType, tmdbID int64) (*MediaRequest, error) {
	if tmdbID <= 0 {
		return nil, fmt.Errorf("invalid TMDB id %d", tmdbID)
	}

	payload := createRequestBody{MediaType: mediaType, MediaID: tmdbID}
	if mediaType == MediaTypeTV {
		payload.Seasons = "all"
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/request", nil, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s %d: %w", mediaType, tmdbID, err)
	}

	c.logger.Info().Str("media_type", string(mediaType)).Int64("tmdb_id", tmdbID).Msg("Submitted request")
	return decodeRequest(body)
}

// Approve approves a pending request
func (c *Client) Approve(ctx context.Context, requestID int64) (*MediaRequest, error) {
	return c.updateStatus(ctx, requestID, "approve")
}

// Deny declines a pending request
func (c *Client) Deny(ctx context.Context, requestID int64) (*MediaRequest, error) {
	return c.updateStatus(ctx, requestID, "decline")
}

func (c *Client) updateStatus(ctx context.Context, requestID int64, status string) (*MediaRequest, error) {
	if requestID <= 0 {
		return nil, fmt.Errorf("invalid request id %d", requestID)
	}

	endpoint := fmt.Sprintf("/request/%d/%s", requestID, status)
	body, err := c.doRequest(ctx, http.MethodPost, endpoint, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to %s request %d: %w", status, requestID, err)
	}

	c.logger.Info().Int64("request_id", requestID).Str("status", status).Msg("Updated request")
	return decodeRequest(body)
}

func decodeRequest(body []byte) (*MediaRequest, error) {
	var req MediaRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return &req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &req, nil
}
