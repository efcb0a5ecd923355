// Package signal produces trading analyses from candle histories.
// Two sources are provided: a rule-based technical source and an
// LLM-backed source.
package signal

import (
	"context"

	"github.com/quantfold/fxlab/internal/core"
)

// Source evaluates a candle history and returns a structured verdict.
// A nil analysis with a nil error means the source has no opinion,
// typically because the history is too short.
type Source interface {
	Name() string
	Evaluate(ctx context.Context, candles []core.Candle) (*core.Analysis, error)
}
