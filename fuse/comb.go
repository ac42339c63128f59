package fuse

// combStrategy implements CombSUM and, with mnz set, CombMNZ. The MNZ
// multiplier is the number of systems that retrieved the document, counted
// by presence in the list rather than by the normalized score value: a
// document retrieved at the bottom of a system's list normalizes to 0.0
// but still counts as retrieved.
type combStrategy struct {
	mnz bool
}

func (s combStrategy) scores(lists []SystemList) map[string]float64 {
	combined := make(map[string]float64)
	retrievedBy := make(map[string]int)

	for _, sl := range lists {
		for docID, norm := range NormalizeScores(sl.List) {
			combined[docID] += norm
			retrievedBy[docID]++
		}
	}

	if s.mnz {
		for docID, count := range retrievedBy {
			combined[docID] *= float64(count)
		}
	}
	return combined
}
