package fuse

import "github.com/searchforge/rankfuse/trecrun"

// NormalizeScores min-max scales one system's scores for one query into
// [0,1]. When every retrieved document carries the same score there is no
// discriminating signal and each one maps to exactly 1.0. Documents the
// system did not retrieve get no entry; absence stays distinct from a
// normalized score of zero.
func NormalizeScores(list trecrun.RankedList) map[string]float64 {
	if len(list) == 0 {
		return nil
	}

	lo, hi := list[0].Score, list[0].Score
	for _, e := range list[1:] {
		if e.Score < lo {
			lo = e.Score
		}
		if e.Score > hi {
			hi = e.Score
		}
	}

	norm := make(map[string]float64, len(list))
	if hi == lo {
		for _, e := range list {
			norm[e.DocID] = 1.0
		}
		return norm
	}

	span := hi - lo
	for _, e := range list {
		norm[e.DocID] = (e.Score - lo) / span
	}
	return norm
}
