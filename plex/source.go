package plex

import (
	"context"

	"github.com/s0up4200/mediarr/content"
)

// RecentSource is the part of Client the recently added sensor needs
type RecentSource interface {
	RecentlyAddedAll(ctx context.Context) ([]Metadata, error)
}

// RecentlyAddedSource feeds a sensor from every video section's recently added list
type RecentlyAddedSource struct {
	Client RecentSource
	Label  string
}

// FetchRaw retrieves and groups recently added entries
func (s *RecentlyAddedSource) FetchRaw(ctx context.Context) ([]Entry, error) {
	entries, err := s.Client.RecentlyAddedAll(ctx)
	if err != nil {
		return nil, content.NewFetchError(s.Label, "recentlyAdded", err)
	}
	return Group(entries), nil
}

// Normalize implements the sensor source contract
func (s *RecentlyAddedSource) Normalize(e Entry) (content.Item, bool) {
	return Normalize(e, s.Label)
}

// LibraryItems lists every movie and show for library matching
func (c *Client) LibraryItems(ctx context.Context) ([]content.Item, error) {
	entries, err := c.LibraryAll(ctx)
	if err != nil {
		return nil, content.NewFetchError("plex", "library", err)
	}

	items := make([]content.Item, 0, len(entries))
	for _, m := range entries {
		if item, ok := Normalize(Entry{Metadata: m}, "plex"); ok {
			items = append(items, item)
		}
	}
	return items, nil
}
