package plex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/s0up4200/mediarr/content"
)

// ImageKind selects which artwork of an entry to fetch
type ImageKind string

const (
	ImagePoster   ImageKind = "poster"
	ImageBackdrop ImageKind = "backdrop"
)

// ParseImageKind accepts "poster" and "backdrop"
func ParseImageKind(s string) (ImageKind, error) {
	switch ImageKind(s) {
	case ImagePoster, ImageBackdrop:
		return ImageKind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown image kind %q", ErrInvalidImage, s)
	}
}

func (k ImageKind) endpoint() string {
	if k == ImageBackdrop {
		return "art"
	}
	return "thumb"
}

// Image is artwork streamed from the server. The caller closes Body.
type Image struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// Image fetches the current poster or backdrop of a movie or show
func (c *Client) Image(ctx context.Context, ratingKey string, kind ImageKind) (*Image, error) {
	if _, err := strconv.ParseUint(ratingKey, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: rating key %q", ErrInvalidImage, ratingKey)
	}
	if _, err := ParseImageKind(string(kind)); err != nil {
		return nil, err
	}

	endpoint := "/library/metadata/" + ratingKey + "/" + kind.endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "image/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return &Image{Body: resp.Body, ContentType: resp.Header.Get("Content-Type"), ContentLength: resp.ContentLength}, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrImageNotFound
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
}

// ImageURL is the proxy link for an entry's artwork. BaseURL may be empty,
// which yields a path relative to the mediarr server.
func ImageURL(baseURL, sensor, ratingKey string, kind ImageKind) string {
	return strings.TrimRight(baseURL, "/") + "/api/images/" + url.PathEscape(sensor) + "/" + ratingKey + "/" + string(kind)
}

// ImageLinks fills artwork still missing after TMDB resolution with proxy
// links, so the Plex token never reaches clients
type ImageLinks struct {
	BaseURL string
	Sensor  string
}

// ResolveAll implements the sensor poster resolver contract
func (l ImageLinks) ResolveAll(ctx context.Context, items []content.Item) []content.Item {
	for i := range items {
		if _, err := strconv.ParseUint(items[i].ID, 10, 64); err != nil {
			continue
		}
		if items[i].PosterURL == "" {
			items[i].PosterURL = ImageURL(l.BaseURL, l.Sensor, items[i].ID, ImagePoster)
		}
		if items[i].BackdropURL == "" {
			items[i].BackdropURL = ImageURL(l.BaseURL, l.Sensor, items[i].ID, ImageBackdrop)
		}
	}
	return items
}
