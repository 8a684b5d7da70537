package jellyfin

import (
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

const latestFields = "ProviderIds,Overview,Genres,PremiereDate,DateCreated,ProductionYear"

// Client wraps the Jellyfin API
type Client struct {
	baseURL    string
	token      string
	userID     string
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

// NewClient creates a new Jellyfin client for one user
func NewClient(baseURL, token, userID string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	switch {
	case baseURL == "":
		return nil, fmt.Errorf("%w: url is required", ErrInvalidConfig)
	case token == "":
		return nil, fmt.Errorf("%w: token is required", ErrInvalidConfig)
	case userID == "":
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidConfig)
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		userID:     userID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}
	c.logger.Debug().Str("endpoint", endpoint).Msg("Making Jellyfin API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Emby-Token", c.token)
	req.Header.Set("Accept", "application/json")

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
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// TestConnection checks the token against the configured user
func (c *Client) TestConnection(ctx context.Context) error {
	var user struct {
		ID string `json:"Id"`
	}
	return c.get(ctx, "/Users/"+url.PathEscape(c.userID), nil, &user)
}

// Latest returns the user's latest added items. Episodes of one series are
// grouped by the server.
func (c *Client) Latest(ctx context.Context, limit int) ([]Item, error) {
	params := url.Values{
		"Fields":     {latestFields},
		"GroupItems": {"true"},
	}
	if limit > 0 {
		params.Set("Limit", strconv.Itoa(limit))
	}

	var items []Item
	if err := c.get(ctx, "/Users/"+url.PathEscape(c.userID)+"/Items/Latest", params, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Library returns every movie and series visible to the user
func (c *Client) Library(ctx context.Context) ([]Item, error) {
	params := url.Values{
		"Recursive":        {"true"},
		"IncludeItemTypes": {TypeMovie + "," + TypeSeries},
		"Fields":           {"ProviderIds"},
		"userId":           {c.userID},
	}

	var resp ItemsResponse
	if err := c.get(ctx, "/Items", params, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ImageURL builds the primary image URL for an item. Jellyfin serves images
// without authentication, so the token is not embedded.
func (c *Client) ImageURL(itemID, tag string) string {
	if itemID == "" || tag == "" {
		return ""
	}
	return c.baseURL + "/Items/" + url.PathEscape(itemID) + "/Images/Primary?tag=" + url.QueryEscape(tag)
}
