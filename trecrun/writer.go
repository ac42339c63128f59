package trecrun

import (
	"bufio"
	"fmt"
	"io"
)

// QueryResult pairs a query id with its fused ranking, ready for emission.
type QueryResult struct {
	QueryID string
	Ranked  RankedList
}

// WriteRun serializes results to w in the TREC run format, stamping every
// line with runID. Results are written in the order given; the caller is
// responsible for canonical query ordering. Write errors propagate
// unchanged.
func WriteRun(w io.Writer, results []QueryResult, runID string) error {
	bw := bufio.NewWriter(w)
	for _, qr := range results {
		for _, e := range qr.Ranked {
			if _, err := fmt.Fprintf(bw, "%s %s %s %d %.6f %s\n",
				qr.QueryID, Placeholder, e.DocID, e.Rank, e.Score, runID); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
