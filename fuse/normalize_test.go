package fuse_test

import (
	"testing"

	"github.com/searchforge/rankfuse/fuse"
	"github.com/searchforge/rankfuse/testutil"
)

func TestNormalizeScoresMinMax(t *testing.T) {
	norm := fuse.NormalizeScores(testutil.List(
		testutil.Doc{ID: "a", Score: 10},
		testutil.Doc{ID: "b", Score: 7.5},
		testutil.Doc{ID: "c", Score: 5},
	))

	if norm["a"] != 1.0 {
		t.Fatalf("max score should normalize to 1.0, got %v", norm["a"])
	}
	if norm["b"] != 0.5 {
		t.Fatalf("midpoint should normalize to 0.5, got %v", norm["b"])
	}
	if norm["c"] != 0.0 {
		t.Fatalf("min score should normalize to 0.0, got %v", norm["c"])
	}
}

func TestNormalizeScoresSingleDocIsOne(t *testing.T) {
	norm := fuse.NormalizeScores(testutil.List(testutil.Doc{ID: "only", Score: -3.2}))
	if norm["only"] != 1.0 {
		t.Fatalf("single document must normalize to exactly 1.0, got %v", norm["only"])
	}
}

func TestNormalizeScoresAllTiedAreOne(t *testing.T) {
	norm := fuse.NormalizeScores(testutil.List(
		testutil.Doc{ID: "a", Score: 4},
		testutil.Doc{ID: "b", Score: 4},
		testutil.Doc{ID: "c", Score: 4},
	))
	for doc, v := range norm {
		if v != 1.0 {
			t.Fatalf("tied scores must normalize to exactly 1.0, got %v for %s", v, doc)
		}
	}
	if len(norm) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(norm))
	}
}

func TestNormalizeScoresEmptyList(t *testing.T) {
	if norm := fuse.NormalizeScores(nil); len(norm) != 0 {
		t.Fatalf("expected no entries for empty list, got %v", norm)
	}
}
