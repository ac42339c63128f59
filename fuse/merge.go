package fuse

import (
	"sort"

	"github.com/searchforge/rankfuse/trecrun"
)

// Merge fuses one query's ranked lists into a single ranking: candidate
// union, strategy scoring, deterministic ordering, then truncation to
// cfg.TopK. It is a pure transform; neither cfg nor the input lists are
// mutated, and no state survives the call.
func Merge(cfg Config, lists []SystemList) (trecrun.RankedList, error) {
	if err := cfg.Validate(len(lists)); err != nil {
		return nil, err
	}
	strat, err := newStrategy(cfg, len(lists))
	if err != nil {
		return nil, err
	}

	combined := strat.scores(lists)

	ranked := make(trecrun.RankedList, 0, len(combined))
	for docID, score := range combined {
		ranked = append(ranked, trecrun.Entry{DocID: docID, Score: score})
	}
	sortRanked(ranked)

	if cfg.TopK < len(ranked) {
		ranked = ranked[:cfg.TopK]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// sortRanked orders by combined score descending; equal scores fall back
// to ascending document id, so the output never depends on map iteration
// or on which system introduced a document first.
func sortRanked(ranked trecrun.RankedList) {
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score == ranked[j].Score {
			return ranked[i].DocID < ranked[j].DocID
		}
		return ranked[i].Score > ranked[j].Score
	})
}
