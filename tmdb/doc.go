// Package tmdb reads The Movie Database lists for discovery sensors and
// resolves missing posters for items from other providers.
//
// List endpoints are called directly over the v3 REST API so the raw
// genre_ids and original_language fields reach the filter engine. Poster
// lookups go through github.com/ryanbradynd05/go-tmdb behind the Searcher
// interface, cached with go-cache and rate limited with x/time/rate.
package tmdb
