// Package trecrun reads and writes TREC-format run files, the interchange
// format between retrieval systems and the fusion engine.
//
// One record per line: qid Q0 docid rank score runid.
package trecrun

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Placeholder is the fixed second column of the TREC run format. It is
// required by the format and carries no meaning.
const Placeholder = "Q0"

// Entry is one scored document in a ranked list.
type Entry struct {
	DocID string
	Rank  int
	Score float64
}

// RankedList is an ordered result list for a single query, best rank first.
type RankedList []Entry

// Run holds one system's ranked lists keyed by query id.
type Run map[string]RankedList

// SystemRun names a run so fusion can attribute contributions per system.
type SystemRun struct {
	System  string
	Queries Run
}

// Queries returns the run's query ids in ascending order.
func (r Run) Queries() []string {
	qids := make([]string, 0, len(r))
	for qid := range r {
		qids = append(qids, qid)
	}
	sort.Strings(qids)
	return qids
}

// ParseError reports a malformed run line.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// ReadRunFile loads a TREC run file from disk.
func ReadRunFile(path string) (Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRun(f, path)
}

type querySeen struct {
	docs  map[string]struct{}
	ranks map[int]struct{}
}

// ReadRun parses TREC run lines from r. Lines may arrive grouped in any
// order; each query's entries are returned sorted by rank. name labels
// parse errors, typically the source file path.
//
// A line with fewer than six fields, a non-numeric rank or score, a
// non-positive rank, a duplicate document id, or a duplicate rank within
// one query fails the whole read with a *ParseError.
func ReadRun(r io.Reader, name string) (Run, error) {
	run := make(Run)
	seen := make(map[string]*querySeen)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, &ParseError{File: name, Line: lineNo, Msg: fmt.Sprintf("expected 6 fields, got %d", len(fields))}
		}

		qid := fields[0]
		docID := fields[2]

		rank, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, &ParseError{File: name, Line: lineNo, Msg: fmt.Sprintf("invalid rank %q", fields[3])}
		}
		if rank <= 0 {
			return nil, &ParseError{File: name, Line: lineNo, Msg: fmt.Sprintf("rank must be positive, got %d", rank)}
		}

		score, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, &ParseError{File: name, Line: lineNo, Msg: fmt.Sprintf("invalid score %q", fields[4])}
		}

		qs := seen[qid]
		if qs == nil {
			qs = &querySeen{
				docs:  make(map[string]struct{}),
				ranks: make(map[int]struct{}),
			}
			seen[qid] = qs
		}
		if _, dup := qs.docs[docID]; dup {
			return nil, &ParseError{File: name, Line: lineNo, Msg: fmt.Sprintf("duplicate document %q for query %q", docID, qid)}
		}
		if _, dup := qs.ranks[rank]; dup {
			return nil, &ParseError{File: name, Line: lineNo, Msg: fmt.Sprintf("duplicate rank %d for query %q", rank, qid)}
		}
		qs.docs[docID] = struct{}{}
		qs.ranks[rank] = struct{}{}

		run[qid] = append(run[qid], Entry{DocID: docID, Rank: rank, Score: score})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	for qid, list := range run {
		sort.Slice(list, func(i, j int) bool { return list[i].Rank < list[j].Rank })
		run[qid] = list
	}
	return run, nil
}
