package seer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/mediarr/content"
)

// DiscoverSource feeds a sensor from one or more discovery lists, in order
type DiscoverSource struct {
	Client API
	Lists  []DiscoverList
	Label  string
}

// ListsFor maps a configured content type onto discovery lists.
// "discover" covers movies then TV, as the dashboard expects.
func ListsFor(contentType string) ([]DiscoverList, bool) {
	switch contentType {
	case "", "trending":
		return []DiscoverList{DiscoverTrending}, true
	case "popular_movies":
		return []DiscoverList{DiscoverPopularMovies}, true
	case "popular_tv":
		return []DiscoverList{DiscoverPopularTV}, true
	case "discover":
		return []DiscoverList{DiscoverMovies, DiscoverTV}, true
	default:
		return nil, false
	}
}

// FetchRaw retrieves the first page of every configured list
func (s *DiscoverSource) FetchRaw(ctx context.Context) ([]DiscoverResult, error) {
	var all []DiscoverResult
	for _, list := range s.Lists {
		resp, err := s.Client.Discover(ctx, list, 1)
		if err != nil {
			return nil, content.NewFetchError(s.Label, string(list), err)
		}
		all = append(all, resp.Results...)
	}
	return all, nil
}

// Normalize implements the sensor source contract
func (s *DiscoverSource) Normalize(r DiscoverResult) (content.Item, bool) {
	return NormalizeDiscover(r, s.Label)
}

// RequestsSource feeds a sensor from the request queue
type RequestsSource struct {
	Client API
	Filter string
	Label  string
}

const detailConcurrency = 5

// FetchRaw retrieves requests and labels each with its media details.
// A failed detail lookup only drops that request.
func (s *RequestsSource) FetchRaw(ctx context.Context) ([]RequestEntry, error) {
	filter := s.Filter
	if filter == "" {
		filter = "pending"
	}

	requests, err := s.Client.GetRequests(ctx, filter)
	if err != nil {
		return nil, content.NewFetchError(s.Label, "requests", err)
	}

	entries := make([]RequestEntry, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)

	for i, req := range requests {
		entries[i].Request = req
		if req.Media.TmdbID <= 0 {
			continue
		}
		g.Go(func() error {
			details, err := s.Client.GetMediaDetails(gctx, req.Type, req.Media.TmdbID)
			if err != nil {
				return nil
			}
			entries[i].Details = details
			return nil
		})
	}
	_ = g.Wait()

	return entries, nil
}

// Normalize implements the sensor source contract
func (s *RequestsSource) Normalize(e RequestEntry) (content.Item, bool) {
	return NormalizeRequest(e, s.Label)
}
