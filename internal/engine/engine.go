// Package engine implements the lead source engines and the ordered
// fallback chain that runs them. Each engine maps its source payloads
// into the normalized record shape; nothing downstream sees a
// source-specific field.
package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Engine is a single lead source.
type Engine interface {
	// Name identifies the engine in logs and result provenance.
	Name() string
	// Configured reports whether the engine has the credentials or
	// capabilities it needs. Unconfigured engines are skipped without
	// counting as failures.
	Configured() bool
	// Search runs the request against the source. An empty slice with a
	// nil error means the source answered but had nothing.
	Search(ctx context.Context, req model.SearchRequest) ([]model.ScrapedRecord, error)
}

// Chain runs engines in priority order, returning the first non-empty
// result set. Engine failures are logged and skipped; a later engine is
// never invoked once an earlier one has produced results.
type Chain struct {
	engines []Engine
}

// NewChain creates a Chain. Order is the fallback order.
func NewChain(engines ...Engine) *Chain {
	return &Chain{engines: engines}
}

// Run tries each engine in order. It returns the winning records and the
// name of the engine that produced them. Exhausting the chain is not an
// error: the caller gets an empty slice and an empty winner name.
func (c *Chain) Run(ctx context.Context, req model.SearchRequest) ([]model.ScrapedRecord, string, error) {
	for _, e := range c.engines {
		if !e.Configured() {
			zap.L().Debug("engine: skipping unconfigured engine",
				zap.String("engine", e.Name()))
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		records, err := e.Search(ctx, req)
		if err != nil {
			zap.L().Warn("engine: search failed, trying next",
				zap.String("engine", e.Name()),
				zap.Error(err))
			continue
		}
		if len(records) > 0 {
			zap.L().Info("engine: results found",
				zap.String("engine", e.Name()),
				zap.Int("count", len(records)))
			return records, e.Name(), nil
		}
		zap.L().Debug("engine: no results, trying next",
			zap.String("engine", e.Name()))
	}

	return nil, "", nil
}
