package parser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"docextract/internal/domain"
	"docextract/internal/metrics"
	"docextract/internal/port"
)

const defaultCooldown = 60 * time.Second

// FallbackParser tries parsers in order, skipping those whose circuit is
// open. Only rate-limit errors trip a circuit. It implements
// port.DocumentParser.
type FallbackParser struct {
	parsers  []port.DocumentParser
	breakers []*gobreaker.CircuitBreaker[any]
	names    []string
	cooldown time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// FallbackOption configures a FallbackParser.
type FallbackOption func(*FallbackParser)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) FallbackOption {
	return func(f *FallbackParser) { f.logger = l }
}

// WithMetrics records per-provider call latency.
func WithMetrics(m *metrics.Metrics) FallbackOption {
	return func(f *FallbackParser) { f.metrics = m }
}

// WithCooldown sets how long a rate-limited provider is skipped.
func WithCooldown(d time.Duration) FallbackOption {
	return func(f *FallbackParser) { f.cooldown = d }
}

// NewFallbackParser creates a FallbackParser from an ordered list of parsers and their names.
func NewFallbackParser(parsers []port.DocumentParser, names []string, opts ...FallbackOption) *FallbackParser {
	f := &FallbackParser{
		parsers:  parsers,
		names:    names,
		cooldown: defaultCooldown,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.breakers = make([]*gobreaker.CircuitBreaker[any], len(parsers))
	for i := range parsers {
		f.breakers[i] = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:        names[i],
			MaxRequests: 1,
			Timeout:     f.cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 1
			},
			IsSuccessful: func(err error) bool {
				return !IsRateLimited(err)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				f.logger.Info("parser.FallbackParser: circuit state changed",
					zap.String("provider", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}
	return f
}

// Names returns the provider names in fallback order.
func (f *FallbackParser) Names() []string {
	return append([]string(nil), f.names...)
}

// Classify returns the first successful classification.
func (f *FallbackParser) Classify(ctx context.Context, text string) (domain.DocumentType, error) {
	return callInOrder(f, OpClassify, func(p port.DocumentParser) (domain.DocumentType, error) {
		return p.Classify(ctx, text)
	})
}

// Extract returns the first successful extraction.
func (f *FallbackParser) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	return callInOrder(f, OpExtract, func(p port.DocumentParser) (*port.ExtractOutput, error) {
		return p.Extract(ctx, input)
	})
}

func callInOrder[T any](f *FallbackParser, op string, call func(port.DocumentParser) (T, error)) (T, error) {
	var zero T
	if len(f.parsers) == 0 {
		return zero, fmt.Errorf("no parsers configured")
	}

	var lastErr error
	allRateLimited := true

	for i, p := range f.parsers {
		start := time.Now()
		out, err := f.breakers[i].Execute(func() (any, error) {
			return call(p)
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			f.logger.Debug("parser.FallbackParser: skipping provider (circuit open)",
				zap.String("provider", f.names[i]),
				zap.String("op", op),
			)
			continue
		}
		f.metrics.ObserveLLMCall(f.names[i], op, time.Since(start))
		if err == nil {
			return out.(T), nil
		}

		f.logger.Warn("parser.FallbackParser: provider failed",
			zap.String("provider", f.names[i]),
			zap.String("op", op),
			zap.Error(err),
		)
		lastErr = err

		if !IsRateLimited(err) {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		return zero, NewRateLimitError("all", fmt.Errorf("all parsers rate limited"), f.cooldown)
	}
	return zero, fmt.Errorf("all parsers failed: %w", lastErr)
}
