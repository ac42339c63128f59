package fuse

// rrfStrategy sums 1/(k+rank) over the systems that retrieved each
// document. Raw scores are ignored entirely, which keeps the fusion stable
// when systems report incomparable score scales. Systems that did not
// retrieve a document are skipped, not penalized with a sentinel rank.
type rrfStrategy struct {
	k int
}

func (s rrfStrategy) scores(lists []SystemList) map[string]float64 {
	combined := make(map[string]float64)
	for _, sl := range lists {
		for _, e := range sl.List {
			combined[e.DocID] += 1.0 / float64(s.k+e.Rank)
		}
	}
	return combined
}
