package batch_test

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/searchforge/rankfuse/fuse"
	"github.com/searchforge/rankfuse/internal/batch"
	"github.com/searchforge/rankfuse/testutil"
	"github.com/searchforge/rankfuse/trecrun"
)

func twoSystems() []trecrun.SystemRun {
	sysA := testutil.System("bm25", trecrun.Run{
		"q1": testutil.List(
			testutil.Doc{ID: "d1", Score: 10},
			testutil.Doc{ID: "d2", Score: 9},
		),
		"q2": testutil.List(
			testutil.Doc{ID: "d5", Score: 15},
			testutil.Doc{ID: "d6", Score: 14},
		),
	})
	sysB := testutil.System("dense", trecrun.Run{
		"q1": testutil.List(
			testutil.Doc{ID: "d2", Score: 20},
			testutil.Doc{ID: "d1", Score: 19},
			testutil.Doc{ID: "d3", Score: 18},
		),
	})
	return []trecrun.SystemRun{sysA, sysB}
}

func TestRunFusesAndEmitsCanonicalOrder(t *testing.T) {
	runner, err := batch.New(batch.Options{
		Fusion:  fuse.DefaultConfig(),
		RunID:   "hybrid-test",
		Workers: 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out bytes.Buffer
	report, err := runner.Run(context.Background(), twoSystems(), &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// q1: d1 = 1/61+1/62 ties d2 = 1/62+1/61, broken by doc id; d3 only
	// in dense. q2 comes from bm25 alone.
	want := "q1 Q0 d1 1 0.032522 hybrid-test\n" +
		"q1 Q0 d2 2 0.032522 hybrid-test\n" +
		"q1 Q0 d3 3 0.015873 hybrid-test\n" +
		"q2 Q0 d5 1 0.016393 hybrid-test\n" +
		"q2 Q0 d6 2 0.016129 hybrid-test\n"
	if got := out.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}

	if report.Queries != 2 || report.Results != 5 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if !reflect.DeepEqual(report.MissingQueries, []string{"q2"}) {
		t.Fatalf("expected q2 flagged as missing, got %v", report.MissingQueries)
	}
}

func TestRunDeterministicUnderConcurrency(t *testing.T) {
	systems := twoSystems()

	var first string
	for i := 0; i < 10; i++ {
		runner, err := batch.New(batch.Options{
			Fusion:  fuse.DefaultConfig(),
			RunID:   "det",
			Workers: 8,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var out bytes.Buffer
		if _, err := runner.Run(context.Background(), systems, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if i == 0 {
			first = out.String()
			continue
		}
		if out.String() != first {
			t.Fatalf("output differs across runs:\n%s\nvs:\n%s", out.String(), first)
		}
	}
}

func TestRunFailsFastOnBadConfig(t *testing.T) {
	runner, err := batch.New(batch.Options{
		Fusion: fuse.Config{Method: fuse.Linear, Weights: []float64{0.5, 0.6}, TopK: 10},
		RunID:  "bad",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out bytes.Buffer
	if _, err := runner.Run(context.Background(), twoSystems(), &out); !errors.Is(err, fuse.ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing may be written on config error, got %q", out.String())
	}
}

func TestRunRequiresInputsAndRunID(t *testing.T) {
	if _, err := batch.New(batch.Options{Fusion: fuse.DefaultConfig()}); !errors.Is(err, batch.ErrRunIDRequired) {
		t.Fatalf("expected ErrRunIDRequired, got %v", err)
	}

	runner, err := batch.New(batch.Options{Fusion: fuse.DefaultConfig(), RunID: "r"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out bytes.Buffer
	if _, err := runner.Run(context.Background(), nil, &out); !errors.Is(err, batch.ErrNoSystems) {
		t.Fatalf("expected ErrNoSystems, got %v", err)
	}
}

func TestRunCancelledContextWritesNothing(t *testing.T) {
	runner, err := batch.New(batch.Options{
		Fusion:  fuse.DefaultConfig(),
		RunID:   "cancelled",
		Workers: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if _, err := runner.Run(ctx, twoSystems(), &out); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing may be written after cancellation, got %q", out.String())
	}
}

func TestRunSingleSystemPreservesOrder(t *testing.T) {
	sys := testutil.System("bm25", testutil.SingleQuery("q1",
		testutil.Doc{ID: "first", Score: 3},
		testutil.Doc{ID: "second", Score: 2},
		testutil.Doc{ID: "third", Score: 1},
	))

	runner, err := batch.New(batch.Options{Fusion: fuse.DefaultConfig(), RunID: "solo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out bytes.Buffer
	report, err := runner.Run(context.Background(), []trecrun.SystemRun{sys}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.MissingQueries) != 0 {
		t.Fatalf("no queries should be flagged, got %v", report.MissingQueries)
	}

	run, err := trecrun.ReadRun(&out, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := run["q1"]
	wantOrder := []string{"first", "second", "third"}
	for i, doc := range wantOrder {
		if got[i].DocID != doc {
			t.Fatalf("single-system fusion must preserve order: %+v", got)
		}
	}
}
