package tmdb

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	gotmdb "github.com/ryanbradynd05/go-tmdb"
	"golang.org/x/time/rate"

	"github.com/s0up4200/mediarr/content"
)

// Searcher is the subset of *gotmdb.TMDb used for poster lookups
type Searcher interface {
	SearchMovie(name string, options map[string]string) (*gotmdb.MovieSearchResults, error)
	SearchTv(name string, options map[string]string) (*gotmdb.TvSearchResults, error)
	GetMovieInfo(id int, options map[string]string) (*gotmdb.Movie, error)
	GetTvInfo(id int, options map[string]string) (*gotmdb.TV, error)
}

const (
	defaultPosterTTL = 24 * time.Hour
	// TMDB allows roughly 40 requests every 10 seconds
	defaultRateBurst = 40
)

var defaultRateLimit = rate.Every(10 * time.Second / defaultRateBurst)

// PosterResolver fills missing posters from TMDB, by id when the item has
// one and by title search otherwise. Lookups are cached and rate limited.
type PosterResolver struct {
	client  Searcher
	cache   *cache.Cache
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// ResolverOption configures a PosterResolver
type ResolverOption func(*PosterResolver)

// WithCacheTTL sets how long lookups, including misses, are remembered
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *PosterResolver) {
		r.cache = cache.New(ttl, ttl/2)
	}
}

// WithRateLimit overrides the outbound request rate
func WithRateLimit(limit rate.Limit, burst int) ResolverOption {
	return func(r *PosterResolver) {
		r.limiter = rate.NewLimiter(limit, burst)
	}
}

// NewPosterResolver creates a resolver backed by the TMDB API
func NewPosterResolver(apiKey string, logger zerolog.Logger, opts ...ResolverOption) *PosterResolver {
	return NewPosterResolverWithClient(gotmdb.Init(gotmdb.Config{APIKey: apiKey}), logger, opts...)
}

// NewPosterResolverWithClient creates a resolver with a custom client (for testing)
func NewPosterResolverWithClient(client Searcher, logger zerolog.Logger, opts ...ResolverOption) *PosterResolver {
	r := &PosterResolver{
		client:  client,
		cache:   cache.New(defaultPosterTTL, time.Hour),
		limiter: rate.NewLimiter(defaultRateLimit, defaultRateBurst),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type lookup struct {
	posterPath string
	tmdbID     int64
}

// Resolve returns the item with PosterURL filled when TMDB has one. A title
// match also fills a missing TMDBID. Failures leave the item as it was.
func (r *PosterResolver) Resolve(ctx context.Context, item content.Item) content.Item {
	if item.PosterURL != "" {
		return item
	}

	key := cacheKey(item)
	if key == "" {
		return item
	}

	var found lookup
	if cached, ok := r.cache.Get(key); ok {
		found = cached.(lookup)
	} else {
		var err error
		found, err = r.lookup(ctx, item)
		if err != nil {
			// Not cached, so the next cycle retries
			r.logger.Debug().Err(err).Str("title", item.Title).Msg("poster lookup failed")
			return item
		}
		r.cache.Set(key, found, cache.DefaultExpiration)
	}

	if found.posterPath != "" {
		item.PosterURL = PosterURL(found.posterPath)
	}
	if item.TMDBID == 0 && found.tmdbID > 0 {
		item.TMDBID = found.tmdbID
	}
	return item
}

// ResolveAll resolves each item, keeping order
func (r *PosterResolver) ResolveAll(ctx context.Context, items []content.Item) []content.Item {
	out := make([]content.Item, len(items))
	for i, item := range items {
		out[i] = r.Resolve(ctx, item)
	}
	return out
}

func cacheKey(item content.Item) string {
	if item.TMDBID > 0 {
		return string(item.MediaType) + ":id:" + strconv.FormatInt(item.TMDBID, 10)
	}
	if item.Title == "" {
		return ""
	}
	return string(item.MediaType) + ":title:" + strings.ToLower(item.Title) + ":" + strconv.Itoa(item.Year)
}

func (r *PosterResolver) lookup(ctx context.Context, item content.Item) (lookup, error) {
	if item.TMDBID > 0 {
		return r.byID(ctx, item)
	}

	for _, title := range SearchTitles(item.Title) {
		found, err := r.search(ctx, item.MediaType, title, item.Year)
		if err != nil {
			return lookup{}, err
		}
		if found.tmdbID > 0 {
			return found, nil
		}
	}
	return lookup{}, nil
}

func (r *PosterResolver) byID(ctx context.Context, item content.Item) (lookup, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return lookup{}, err
	}

	id := int(item.TMDBID)
	if item.MediaType == content.MediaTypeShow {
		tv, err := r.client.GetTvInfo(id, nil)
		if err != nil || tv == nil {
			return lookup{}, err
		}
		return lookup{posterPath: tv.PosterPath, tmdbID: item.TMDBID}, nil
	}

	movie, err := r.client.GetMovieInfo(id, nil)
	if err != nil || movie == nil {
		return lookup{}, err
	}
	return lookup{posterPath: movie.PosterPath, tmdbID: item.TMDBID}, nil
}

func (r *PosterResolver) search(ctx context.Context, mediaType content.MediaType, title string, year int) (lookup, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return lookup{}, err
	}

	options := map[string]string{}
	if mediaType == content.MediaTypeShow {
		if year > 0 {
			options["first_air_date_year"] = strconv.Itoa(year)
		}
		results, err := r.client.SearchTv(title, options)
		if err != nil {
			return lookup{}, err
		}
		if results == nil || len(results.Results) == 0 {
			return lookup{}, nil
		}
		first := results.Results[0]
		return lookup{posterPath: first.PosterPath, tmdbID: int64(first.ID)}, nil
	}

	if year > 0 {
		options["year"] = strconv.Itoa(year)
	}
	results, err := r.client.SearchMovie(title, options)
	if err != nil {
		return lookup{}, err
	}
	if results == nil || len(results.Results) == 0 {
		return lookup{}, nil
	}
	first := results.Results[0]
	return lookup{posterPath: first.PosterPath, tmdbID: int64(first.ID)}, nil
}

var (
	yearSuffix  = regexp.MustCompile(`\s*\(\d{4}\)\s*$`)
	parenthesis = regexp.MustCompile(`\s*\([^)]*\)`)
)

// SearchTitles returns the title variants tried in order when searching:
// the title itself, without a trailing "(YYYY)", without any parenthesised
// text, and the part before ":" when that is longer than 3 characters.
func SearchTitles(title string) []string {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	candidates := []string{
		title,
		strings.TrimSpace(yearSuffix.ReplaceAllString(title, "")),
		strings.TrimSpace(parenthesis.ReplaceAllString(title, "")),
	}
	if before, _, ok := strings.Cut(title, ":"); ok {
		if before = strings.TrimSpace(before); len(before) > 3 {
			candidates = append(candidates, before)
		}
	}

	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
