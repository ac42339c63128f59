// Package testutil provides deterministic run fixtures for fusion tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/searchforge/rankfuse/trecrun"
)

// Doc is a shorthand scored document for assembling fixtures.
type Doc struct {
	ID    string
	Score float64
}

// List builds a RankedList from docs in the given order, assigning ranks
// 1..n.
func List(docs ...Doc) trecrun.RankedList {
	list := make(trecrun.RankedList, 0, len(docs))
	for i, d := range docs {
		list = append(list, trecrun.Entry{DocID: d.ID, Rank: i + 1, Score: d.Score})
	}
	return list
}

// SingleQuery builds a Run holding one query's ranked list.
func SingleQuery(qid string, docs ...Doc) trecrun.Run {
	return trecrun.Run{qid: List(docs...)}
}

// System wraps a named run as fusion input.
func System(name string, run trecrun.Run) trecrun.SystemRun {
	return trecrun.SystemRun{System: name, Queries: run}
}

// TempRunFile writes content to a file under t.TempDir and returns its
// path.
func TempRunFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.run")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}
