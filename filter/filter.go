package filter

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/s0up4200/mediarr/content"
)

// Engine applies a Spec, and optionally a compiled expression, to item lists
type Engine struct {
	spec    Spec
	program CompiledFilter
	library Library
	logger  zerolog.Logger
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithLibrary sets the library used by hide_existing
func WithLibrary(lib Library) EngineOption {
	return func(e *Engine) {
		e.library = lib
	}
}

// WithLogger sets the logger used for per-item rejection traces
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

var defaultCompiler = NewExprCompiler(WithCache(64))

// NewEngine builds an engine for spec. The expression, if any, is compiled
// up front so a broken expression fails at setup rather than every cycle.
func NewEngine(spec Spec, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		spec:   spec,
		logger: zerolog.Nop(),
	}

	if spec.Expression != "" {
		program, err := defaultCompiler.Compile(spec.Expression)
		if err != nil {
			return nil, err
		}
		e.program = program
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Apply returns the items that pass every enabled predicate, in input order.
// Once a library lookup fails, the rest of the list skips the library check.
func (e *Engine) Apply(ctx context.Context, items []content.Item) []content.Item {
	out := make([]content.Item, 0, len(items))
	libraryUp := true
	for _, item := range items {
		reason := e.check(ctx, item, &libraryUp)
		if reason != ReasonNone {
			e.logger.Debug().
				Str("title", item.Title).
				Str("reason", string(reason)).
				Msg("Item rejected by filter")
			continue
		}
		out = append(out, item)
	}
	return out
}

// Check returns the first predicate rejecting item, or ReasonNone
func (e *Engine) Check(ctx context.Context, item content.Item) Reason {
	libraryUp := true
	return e.check(ctx, item, &libraryUp)
}

func (e *Engine) check(ctx context.Context, item content.Item, libraryUp *bool) Reason {
	if reason := checkStatic(e.spec, item); reason != ReasonNone {
		return reason
	}

	if e.spec.HideExisting && e.library != nil && *libraryUp {
		found, err := e.library.Contains(ctx, item)
		if err != nil {
			// Fail open: an unreachable library never hides content
			*libraryUp = false
			e.logger.Debug().Err(err).Str("title", item.Title).Msg("Library lookup failed, skipping library check")
		} else if found {
			return ReasonInLibrary
		}
	}

	if e.program != nil {
		ok, err := e.program.Evaluate(item)
		if err != nil {
			e.logger.Debug().Err(err).Msg("Filter expression failed, keeping item")
		} else if !ok {
			return ReasonExpression
		}
	}

	return ReasonNone
}

// Apply filters items with spec alone, without library or expression checks
func Apply(items []content.Item, spec Spec) []content.Item {
	out := make([]content.Item, 0, len(items))
	for _, item := range items {
		if checkStatic(spec, item) == ReasonNone {
			out = append(out, item)
		}
	}
	return out
}

func checkStatic(spec Spec, item content.Item) Reason {
	// Unknown years pass
	if spec.MinYear > 0 && item.Year > 0 && item.Year < spec.MinYear {
		return ReasonYear
	}

	if len(spec.ExcludeGenres) > 0 {
		for _, g := range item.GenreIDs {
			if slices.Contains(spec.ExcludeGenres, g) {
				return ReasonGenre
			}
		}
	}

	if spec.ExcludeTalkShows && item.MediaType == content.MediaTypeShow && IsTalkShow(item.Title) {
		return ReasonTalkShow
	}

	if spec.ExcludeNonEnglish && item.Language != "en" {
		return ReasonLanguage
	}

	return ReasonNone
}
