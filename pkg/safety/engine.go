package safety

import (
	"github.com/dellavent/glycemicguard/pkg/knowledge"
)

// Engine ties a knowledge store to the threshold rules. Pure computation:
// the only failure modes are the store's (NotFound, MissingData,
// InvalidServingFormat), propagated unchanged.
type Engine struct {
	store      *knowledge.Store
	thresholds Thresholds
}

// NewEngine creates an engine over store. A zero Thresholds means "use the
// defaults"; callers override individual bands via NewEngineWithThresholds.
func NewEngine(store *knowledge.Store) *Engine {
	return NewEngineWithThresholds(store, DefaultThresholds())
}

// NewEngineWithThresholds creates an engine with explicit band boundaries.
func NewEngineWithThresholds(store *knowledge.Store, t Thresholds) *Engine {
	return &Engine{store: store, thresholds: t}
}

// Thresholds returns the bands this engine classifies with.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// EvaluateFood derives per-serving features for the named food and
// classifies them.
func (e *Engine) EvaluateFood(name, serving string) (knowledge.Features, Verdict, error) {
	features, err := e.store.GetFeatures(name, serving)
	if err != nil {
		return knowledge.Features{}, Verdict{}, err
	}
	return features, Evaluate(features, e.thresholds), nil
}
