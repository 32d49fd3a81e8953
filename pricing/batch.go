package pricing

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/market"
)

// Job is one valuation request in a batch. An empty ID is filled with a random UUID.
type Job struct {
	ID         string
	Instrument instruments.Instrument
	Market     *market.Market
}

// Result is the outcome of one Job. Err is per job; other jobs are unaffected.
type Result struct {
	ID             string
	InstrumentType string
	NPV            float64
	Duration       time.Duration
	Err            error
}

// PriceBatch values jobs on at most workers goroutines (runtime.NumCPU when workers <= 0).
//
// Results are returned in job order. Pricing errors are reported per result; only
// cancellation of ctx stops the batch, in which case the context error is returned along
// with whatever results had completed.
func PriceBatch(ctx context.Context, e *Engine, jobs []Job, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		results[i] = Result{ID: job.ID, InstrumentType: typeName(job.Instrument)}

		if err := gctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			start := time.Now()
			npv, err := e.NPV(job.Instrument, job.Market)
			results[i].NPV = npv
			results[i].Err = err
			results[i].Duration = time.Since(start)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
