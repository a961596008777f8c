package parser

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"docextract/internal/config"
	"docextract/internal/port"
)

// ConsistencyRunner repeats an extraction to measure how stable each field
// is. Runs are issued concurrently up to a limit and paced by a rate
// limiter. A failed run is dropped and never fails the batch.
type ConsistencyRunner struct {
	parser      port.DocumentParser
	runs        int
	concurrency int
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewConsistencyRunner creates a runner from the scoring config.
func NewConsistencyRunner(p port.DocumentParser, cfg config.ScoringConfig, logger *zap.Logger) *ConsistencyRunner {
	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsistencyRunner{
		parser:      p,
		runs:        max(cfg.ConsistencyRuns, 0),
		concurrency: concurrency,
		limiter:     rate.NewLimiter(limit, concurrency),
		logger:      logger,
	}
}

// Runs reports how many repeated extractions Run issues.
func (r *ConsistencyRunner) Runs() int {
	return r.runs
}

// Run performs the configured number of repeated extractions and returns the
// successful, non-empty results in run order.
func (r *ConsistencyRunner) Run(ctx context.Context, input port.ExtractInput) []map[string]interface{} {
	if r.runs == 0 {
		return nil
	}

	results := make([]map[string]interface{}, r.runs)
	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed int
	)
	g.SetLimit(r.concurrency)

	for i := 0; i < r.runs; i++ {
		g.Go(func() error {
			if err := r.limiter.Wait(ctx); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			out, err := r.parser.Extract(ctx, input)
			if err != nil || out == nil || len(out.Data) == 0 {
				r.logger.Warn("parser.ConsistencyRunner.Run: dropping failed run",
					zap.Int("run", i),
					zap.Error(err),
				)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			results[i] = out.Data
			return nil
		})
	}
	_ = g.Wait()

	kept := make([]map[string]interface{}, 0, r.runs)
	for _, res := range results {
		if res != nil {
			kept = append(kept, res)
		}
	}
	r.logger.Debug("parser.ConsistencyRunner.Run: done",
		zap.Int("requested", r.runs),
		zap.Int("kept", len(kept)),
		zap.Int("failed", failed),
	)
	return kept
}
