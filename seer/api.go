package seer

import (
	"context"
)

// API defines the interface for Seer operations
type API interface {
	// TestConnection verifies the client can connect to Seer
	TestConnection(ctx context.Context) error

	// Discover retrieves one page of a discovery list
	Discover(ctx context.Context, list DiscoverList, page int) (*DiscoverResponse, error)

	// GetRequests retrieves requests matching the filter ("pending", "approved", "all", ...)
	GetRequests(ctx context.Context, filter string) ([]MediaRequest, error)

	// GetMediaDetails retrieves title and artwork for a TMDB id
	GetMediaDetails(ctx context.Context, mediaType MediaType, tmdbID int64) (*MediaDetails, error)
}

// Requester exposes the request lifecycle actions
type Requester interface {
	// Request submits a new request for a title
	Request(ctx context.Context, mediaType MediaType, tmdbID int64) (*MediaRequest, error)

	// Approve approves a pending request
	Approve(ctx context.Context, requestID int64) (*MediaRequest, error)

	// Deny declines a pending request
	Deny(ctx context.Context, requestID int64) (*MediaRequest, error)
}
