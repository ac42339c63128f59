// Package batch drives fusion across all queries of an experiment: it
// fixes a canonical query order, fans per-query merges out over a bounded
// worker pool, and emits one fused TREC run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/searchforge/rankfuse/fuse"
	"github.com/searchforge/rankfuse/obs"
	"github.com/searchforge/rankfuse/trecrun"
)

var (
	// ErrNoSystems indicates fusion was invoked without input runs.
	ErrNoSystems = errors.New("no input systems")
	// ErrRunIDRequired indicates the output run identifier is missing.
	ErrRunIDRequired = errors.New("run id required")
)

// Options groups runner configuration.
type Options struct {
	// Fusion selects and parameterizes the strategy.
	Fusion fuse.Config

	// RunID stamps every emitted line. The engine does not interpret it.
	RunID string

	// Workers bounds the per-query fusion pool; <= 0 means one worker
	// per available core.
	Workers int
}

// Report aggregates non-fatal findings from one batch run.
type Report struct {
	Queries int
	Results int

	// MissingQueries lists query ids absent from at least one input
	// system, ascending. Those queries were fused over the systems that
	// did cover them.
	MissingQueries []string
}

// Runner fuses whole runs query by query. A Runner is immutable after
// construction and safe for concurrent use.
type Runner struct {
	opts Options
}

// New validates opts and constructs a Runner.
func New(opts Options) (*Runner, error) {
	if opts.RunID == "" {
		return nil, ErrRunIDRequired
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Runner{opts: opts}, nil
}

// Run fuses the systems' runs and writes the fused run to out. Query order
// in the output is the sorted union of query ids, and each query's fused
// list is written whole, so the bytes produced are independent of worker
// scheduling. Configuration errors fail before any query is processed;
// cancelling ctx stops scheduling further queries and nothing is written.
func (r *Runner) Run(ctx context.Context, systems []trecrun.SystemRun, out io.Writer) (Report, error) {
	var report Report
	if len(systems) == 0 {
		return report, ErrNoSystems
	}
	if err := r.opts.Fusion.Validate(len(systems)); err != nil {
		return report, err
	}

	invocation := uuid.NewString()
	strategy := string(r.opts.Fusion.Method)

	tracer := otel.Tracer("rankfuse")
	ctx, span := tracer.Start(ctx, "batch.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("rankfuse.invocation", invocation),
		attribute.String("rankfuse.strategy", strategy),
		attribute.Int("rankfuse.systems", len(systems)),
	)

	qids := canonicalQueries(systems)
	report.Queries = len(qids)
	report.MissingQueries = missingQueries(systems, qids)
	for range report.MissingQueries {
		obs.IncMissingQuery()
	}
	if n := len(report.MissingQueries); n > 0 {
		log.Printf("rankfuse[%s]: %d queries missing from at least one system: %v",
			invocation, n, report.MissingQueries)
	}

	obs.RecordRun(strategy)
	log.Printf("rankfuse[%s]: fusing %d queries from %d systems with %s",
		invocation, len(qids), len(systems), strategy)

	// Results land at their canonical index; emission below never
	// depends on completion order.
	results := make([]trecrun.QueryResult, len(qids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, qid := range qids {
		i, qid := i, qid
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			_, qspan := tracer.Start(gctx, "batch.query")
			qspan.SetAttributes(attribute.String("rankfuse.query", qid))
			defer qspan.End()

			start := time.Now()
			ranked, err := fuse.Merge(r.opts.Fusion, collectLists(systems, qid))
			if err != nil {
				return fmt.Errorf("query %s: %w", qid, err)
			}
			obs.ObserveQueryFusion(strategy, len(ranked), time.Since(start))

			results[i] = trecrun.QueryResult{QueryID: qid, Ranked: ranked}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	for _, qr := range results {
		report.Results += len(qr.Ranked)
	}
	if err := trecrun.WriteRun(out, results, r.opts.RunID); err != nil {
		return report, fmt.Errorf("write run: %w", err)
	}

	log.Printf("rankfuse[%s]: wrote %d results for %d queries as %q",
		invocation, report.Results, report.Queries, r.opts.RunID)
	return report, nil
}

// canonicalQueries returns the sorted union of query ids across systems.
func canonicalQueries(systems []trecrun.SystemRun) []string {
	union := make(map[string]struct{})
	for _, s := range systems {
		for qid := range s.Queries {
			union[qid] = struct{}{}
		}
	}
	qids := make([]string, 0, len(union))
	for qid := range union {
		qids = append(qids, qid)
	}
	sort.Strings(qids)
	return qids
}

// missingQueries lists query ids not covered by every system.
func missingQueries(systems []trecrun.SystemRun, qids []string) []string {
	var missing []string
	for _, qid := range qids {
		for _, s := range systems {
			if _, ok := s.Queries[qid]; !ok {
				missing = append(missing, qid)
				break
			}
		}
	}
	return missing
}

// collectLists assembles one SystemList per input system for qid,
// preserving system order so positional weights stay aligned. Systems
// without the query get an empty list and contribute nothing.
func collectLists(systems []trecrun.SystemRun, qid string) []fuse.SystemList {
	lists := make([]fuse.SystemList, 0, len(systems))
	for _, s := range systems {
		lists = append(lists, fuse.SystemList{System: s.System, List: s.Queries[qid]})
	}
	return lists
}
