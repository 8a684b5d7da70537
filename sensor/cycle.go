package sensor

import (
	"context"

	"github.com/s0up4200/mediarr/content"
)

// DefaultMaxItems is used when a sensor does not set max_items
const DefaultMaxItems = 10

// PosterResolver fills missing artwork; failures leave items untouched
type PosterResolver interface {
	ResolveAll(ctx context.Context, items []content.Item) []content.Item
}

// Posters chains resolvers; each sees the previous one's output
type Posters []PosterResolver

// ResolveAll implements PosterResolver
func (p Posters) ResolveAll(ctx context.Context, items []content.Item) []content.Item {
	for _, r := range p {
		items = r.ResolveAll(ctx, items)
	}
	return items
}

// ItemFilter removes items from a list without reordering it
type ItemFilter interface {
	Apply(ctx context.Context, items []content.Item) []content.Item
}

// CycleOptions configures RunCycle
type CycleOptions struct {
	Posters  PosterResolver
	Filter   ItemFilter
	MaxItems int
}

// RunCycle fetches, resolves posters, filters, dedupes and truncates one list.
// The provider order is kept throughout.
func RunCycle(ctx context.Context, f Fetcher, opts CycleOptions) ([]content.Item, error) {
	items, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	// Posters first: resolution may also fill TMDB ids used by the
	// library lookup and dedupe
	if opts.Posters != nil {
		items = opts.Posters.ResolveAll(ctx, items)
	}

	if opts.Filter != nil {
		items = opts.Filter.Apply(ctx, items)
	}

	items = content.Dedupe(items)

	maxItems := opts.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	items = content.Truncate(items, maxItems)

	if items == nil {
		items = []content.Item{}
	}
	return items, nil
}
