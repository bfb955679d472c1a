// Package parser defines the temporal-expression parser contract consumed
// by the reasoning engine, together with a pattern-based reference
// implementation and a client for remote parsing services.
//
// The engine never requires a parser: events that fail to parse simply do
// not participate in timestamp-derived constraints.
package parser

import (
	"context"
	"time"

	"github.com/tempograph/tempograph/pkg/types"
)

// Parser extracts temporal expressions from free text. Implementations
// return an empty slice, not an error, when the text contains nothing
// temporal; errors are reserved for transport or infrastructure failures.
type Parser interface {
	// Parse returns every temporal expression found in text.
	Parse(ctx context.Context, text string) ([]types.Expression, error)

	// ExtractRange returns the best start/end pair found in text. Either
	// bound may be nil when the text pins down only one side.
	ExtractRange(ctx context.Context, text string) (start, end *time.Time, err error)
}

// BestExpression picks the expression with the highest confidence that
// carries a concrete start. Returns false when none qualifies.
func BestExpression(expressions []types.Expression) (types.Expression, bool) {
	var best types.Expression
	var found bool
	for _, expr := range expressions {
		if expr.Start == nil {
			continue
		}
		if !found || expr.Confidence > best.Confidence {
			best = expr
			found = true
		}
	}
	return best, found
}
