package jellyfin

import (
	"context"

	"github.com/s0up4200/mediarr/content"
)

// LatestSource feeds a sensor from the user's latest items
type LatestSource struct {
	Client *Client
	Limit  int
	Label  string
}

// FetchRaw retrieves the latest items
func (s *LatestSource) FetchRaw(ctx context.Context) ([]Item, error) {
	items, err := s.Client.Latest(ctx, s.Limit)
	if err != nil {
		return nil, content.NewFetchError(s.Label, "latest", err)
	}
	return items, nil
}

// Normalize implements the sensor source contract
func (s *LatestSource) Normalize(i Item) (content.Item, bool) {
	return Normalize(i, s.Label, s.Client.ImageURL)
}

// LibraryItems lists every movie and series for library matching
func (c *Client) LibraryItems(ctx context.Context) ([]content.Item, error) {
	raw, err := c.Library(ctx)
	if err != nil {
		return nil, content.NewFetchError("jellyfin", "library", err)
	}

	items := make([]content.Item, 0, len(raw))
	for _, i := range raw {
		if item, ok := Normalize(i, "jellyfin", nil); ok {
			items = append(items, item)
		}
	}
	return items, nil
}
