// Package fuse merges ranked result lists from independent retrieval
// systems into a single ranking per query. It implements reciprocal rank
// fusion, linear and weighted score combination, CombSUM and CombMNZ, with
// deterministic ordering regardless of input order.
package fuse

import (
	"fmt"

	"github.com/searchforge/rankfuse/trecrun"
)

// SystemList is one system's ranked list for the query under fusion. A nil
// or empty List means the system retrieved nothing for this query; the
// system then contributes nothing but keeps its positional weight.
type SystemList struct {
	System string
	List   trecrun.RankedList
}

// strategy computes a combined score for every document retrieved by at
// least one system.
type strategy interface {
	scores(lists []SystemList) map[string]float64
}

// newStrategy selects the implementation for cfg. systems is the total
// number of input systems, which fixes the equal-weight vector for Linear.
func newStrategy(cfg Config, systems int) (strategy, error) {
	switch cfg.Method {
	case RRF:
		return rrfStrategy{k: cfg.K}, nil
	case Linear:
		weights := cfg.Weights
		if len(weights) == 0 {
			weights = equalWeights(systems)
		}
		return linearStrategy{weights: weights}, nil
	case Weighted:
		return linearStrategy{weights: []float64{cfg.Alpha, 1 - cfg.Alpha}}, nil
	case CombSUM:
		return combStrategy{}, nil
	case CombMNZ:
		return combStrategy{mnz: true}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, string(cfg.Method))
}

func equalWeights(n int) []float64 {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0 / float64(n)
	}
	return weights
}
