package filter

import (
	"context"

	"github.com/s0up4200/mediarr/content"
)

// Library answers whether an item is already present in the user's media libraries
type Library interface {
	// Contains reports whether the item is already in a library. An error means
	// the lookup could not be made; callers treat it as "not in library".
	Contains(ctx context.Context, item content.Item) (bool, error)
}

// CompiledFilter represents a pre-compiled expression ready for evaluation
type CompiledFilter interface {
	// Evaluate checks if an item matches the expression
	Evaluate(item content.Item) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}
