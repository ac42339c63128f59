package fuse

// linearStrategy combines min-max normalized scores with a positional
// weight per system. A document absent from a system contributes nothing
// for that system's term. weights is aligned with the input lists and is
// assumed validated.
type linearStrategy struct {
	weights []float64
}

func (s linearStrategy) scores(lists []SystemList) map[string]float64 {
	combined := make(map[string]float64)
	for i, sl := range lists {
		weight := s.weights[i]
		for docID, norm := range NormalizeScores(sl.List) {
			combined[docID] += weight * norm
		}
	}
	return combined
}
