// Package seer provides a client for the Overseerr and Jellyseerr APIs.
//
// Both servers expose the same /api/v1 surface, so one client serves either.
// The package covers the two things the aggregator needs from Seer: the
// discovery lists (trending, popular, discover) that feed sensors, and the
// request lifecycle (request, approve, deny) exposed as services.
//
// # Usage
//
//	client, err := seer.NewClient("https://requests.example.com", apiKey, logger,
//		seer.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		return err
//	}
//
//	page, err := client.Discover(ctx, seer.DiscoverTrending, 1)
//
//	// Approve request 42
//	_, err = client.Approve(ctx, 42)
//
// # Sources
//
// DiscoverSource and RequestsSource adapt the client to the sensor pipeline:
// FetchRaw returns the native results and Normalize maps each onto a
// content.Item. Request items are keyed by request id; discovery items by
// TMDB id.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError, which matches the sentinel
// errors through errors.Is:
//
//	if errors.Is(err, seer.ErrUnauthorized) {
//		// bad API key
//	}
package seer
