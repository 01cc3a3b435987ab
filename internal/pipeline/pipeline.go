// Package pipeline runs vendor records through lookup, normalization and the
// decision engine.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/bibmatch/internal/candidates"
	"github.com/lehigh-university-libraries/bibmatch/internal/catalog"
	"github.com/lehigh-university-libraries/bibmatch/internal/dataset"
	"github.com/lehigh-university-libraries/bibmatch/internal/matching"
	"github.com/lehigh-university-libraries/bibmatch/internal/order"
	"github.com/lehigh-university-libraries/bibmatch/internal/stats"
	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

// Options configure a run.
type Options struct {
	System  vocab.System
	Library vocab.Library
	Agent   vocab.Agent

	// Concurrency is the number of records decided at once. Values below
	// two process records one after another.
	Concurrency int

	// Recorder is optional.
	Recorder *stats.Recorder
}

// Result is the outcome for one incoming record.
type Result struct {
	Index    int
	RecordID string
	Library  vocab.Library

	Order      order.Metadata
	Candidates int
	Rejected   int
	Decision   matching.Decision

	Err error
}

// Failed reports whether the record could not be decided.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Pipeline decides vendor records against a catalog.
type Pipeline struct {
	engine  *matching.Engine
	fetcher catalog.Fetcher
	opts    Options
}

// New validates opts and builds a pipeline.
func New(fetcher catalog.Fetcher, opts Options) (*Pipeline, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("catalog fetcher is required")
	}
	engine, err := matching.NewEngine(opts.System, opts.Agent)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision engine: %w", err)
	}
	if _, err := vocab.ParseLibrary(string(opts.Library)); err != nil {
		return nil, err
	}
	return &Pipeline{engine: engine, fetcher: fetcher, opts: opts}, nil
}

// Run decides every row. Results are returned in input order. A record that
// fails carries its error in its Result; Run itself fails only when ctx is
// done.
func (p *Pipeline) Run(ctx context.Context, rows []dataset.Row) ([]Result, error) {
	results := make([]Result, len(rows))

	slog.Info("Processing records",
		"records", len(rows),
		"system", p.engine.System(),
		"agent", p.engine.Agent(),
		"concurrency", max(p.opts.Concurrency, 1))

	if p.opts.Concurrency < 2 {
		for i := range rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = p.Process(ctx, i, rows[i])
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for i := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.Process(gctx, i, rows[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Process decides a single row.
func (p *Pipeline) Process(ctx context.Context, index int, row dataset.Row) Result {
	res := Result{Index: index, RecordID: row.Label(index), Library: p.opts.Library}

	res.Decision, res.Err = p.decide(ctx, row, &res)
	if res.Err != nil {
		slog.Warn("Failed to decide record", "record", res.RecordID, "err", res.Err)
		if p.opts.Recorder != nil {
			p.opts.Recorder.Failure(p.engine.System())
		}
		return res
	}

	slog.Debug("Decided record",
		"record", res.RecordID,
		"action", res.Decision.Action,
		"target", res.Decision.TargetID,
		"candidates", res.Candidates,
		"call_numbers_match", res.Decision.CallNumbersMatch)

	if p.opts.Recorder != nil {
		p.opts.Recorder.Observe(p.engine.System(), res.Library, res.Decision, res.Rejected)
	}
	return res
}

func (p *Pipeline) decide(ctx context.Context, row dataset.Row, res *Result) (matching.Decision, error) {
	if row.Library != "" {
		lib, err := vocab.ParseLibrary(row.Library)
		if err != nil {
			return matching.Decision{}, err
		}
		res.Library = lib
	}

	rec, err := row.Record()
	if err != nil {
		return matching.Decision{}, err
	}

	res.Order, err = order.FromRecord(rec, p.engine.System(), res.Library)
	if err != nil {
		return matching.Decision{}, fmt.Errorf("failed to derive order metadata: %w", err)
	}

	var raw []candidates.Raw
	if keys := catalog.KeysFor(res.Order.Metadata); !keys.IsEmpty() {
		raw, err = p.fetcher.Fetch(ctx, keys)
		if err != nil {
			return matching.Decision{}, fmt.Errorf("failed to fetch candidates: %w", err)
		}
	}

	set, err := candidates.Normalize(raw, p.engine.System(), res.Library)
	if err != nil {
		return matching.Decision{}, fmt.Errorf("failed to normalize candidates: %w", err)
	}
	res.Candidates = len(set.Same)
	res.Rejected = set.Rejected

	return p.engine.Decide(res.Order, set)
}
