package sensor

import (
	"context"

	"github.com/s0up4200/mediarr/content"
)

// Source is a provider list: raw fetch plus per-item normalization
type Source[T any] interface {
	FetchRaw(ctx context.Context) ([]T, error)
	Normalize(raw T) (content.Item, bool)
}

// Fetcher produces a normalized item list for one cycle
type Fetcher interface {
	Fetch(ctx context.Context) ([]content.Item, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context) ([]content.Item, error)

// Fetch implements Fetcher
func (f FetcherFunc) Fetch(ctx context.Context) ([]content.Item, error) {
	return f(ctx)
}

// Normalized turns a Source into a Fetcher. Entries the source cannot
// normalize are dropped without affecting their neighbours.
func Normalized[T any](src Source[T]) Fetcher {
	return &normalized[T]{src: src}
}

type normalized[T any] struct {
	src Source[T]
}

func (n *normalized[T]) Fetch(ctx context.Context) ([]content.Item, error) {
	raw, err := n.src.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]content.Item, 0, len(raw))
	for _, r := range raw {
		item, ok := n.src.Normalize(r)
		if !ok {
			continue
		}
		if item.RequestStatus == "" {
			item.RequestStatus = content.RequestStatusNone
		}
		items = append(items, item)
	}
	return items, nil
}
