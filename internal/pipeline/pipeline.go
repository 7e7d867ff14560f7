// Package pipeline runs the batch scenario loop: scenario requests are read
// from the source topic, estimated, and written to the sink topic as impact
// events. Offsets are committed only after the sink write succeeds.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/asteroid-impact-sim/internal/domain"
	"github.com/couchcryptid/asteroid-impact-sim/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

// Retry delays after a failed extract or load. They double per consecutive
// failure and reset after a cycle that succeeds.
const (
	initialRetryDelay = 200 * time.Millisecond
	maxRetryDelay     = 5 * time.Second
)

// BatchExtractor reads up to batchSize raw scenario messages from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer turns one scenario message into a serialized impact event.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader writes impact events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline orchestrates the extract-transform-load loop.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness returns nil once a batch has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any scenarios yet")
	}
	return nil
}

// Ready reports whether a batch has been loaded.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Run executes the batch loop until the context is cancelled. Extract and
// load failures are retried with a growing delay; Run itself only returns nil.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	delay := initialRetryDelay
	for ctx.Err() == nil {
		err := p.step(ctx)
		if err == nil {
			delay = initialRetryDelay
			continue
		}
		if ctx.Err() != nil {
			break
		}
		p.logger.Error("pipeline cycle failed", "error", err, "retry_in", delay)
		if !retry.SleepWithContext(ctx, delay) {
			break
		}
		delay = retry.NextBackoff(delay, maxRetryDelay)
	}

	p.logger.Info("pipeline stopping", "reason", ctx.Err())
	return nil
}

// step reads one batch, estimates every scenario in it and writes the
// resulting impacts. Offsets are committed only for messages that were
// written or that can never be estimated.
func (p *Pipeline) step(ctx context.Context) error {
	began := time.Now()

	msgs, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if len(msgs) == 0 {
		return nil
	}
	p.metrics.MessagesConsumed.Add(float64(len(msgs)))
	p.metrics.BatchSize.Observe(float64(len(msgs)))

	impacts, sources := p.estimate(ctx, msgs)
	if len(impacts) == 0 {
		return nil
	}

	if err := p.loader.LoadBatch(ctx, impacts); err != nil {
		return fmt.Errorf("load %d impacts: %w", len(impacts), err)
	}
	p.metrics.MessagesProduced.Add(float64(len(impacts)))
	for _, m := range sources {
		p.commit(ctx, m)
	}

	p.metrics.BatchProcessingDuration.Observe(time.Since(began).Seconds())
	p.ready.Store(true)
	p.logger.Debug("batch loaded", "loaded", len(impacts), "skipped", len(msgs)-len(impacts))
	return nil
}

// estimate transforms msgs and returns the impacts alongside the messages
// they came from. A scenario that cannot be estimated is committed right away
// so it never blocks the partition.
func (p *Pipeline) estimate(ctx context.Context, msgs []domain.RawEvent) ([]domain.OutputEvent, []domain.RawEvent) {
	impacts := make([]domain.OutputEvent, 0, len(msgs))
	sources := make([]domain.RawEvent, 0, len(msgs))

	for _, m := range msgs {
		out, err := p.transformer.Transform(ctx, m)
		if err != nil {
			p.metrics.TransformErrors.Inc()
			p.logger.Warn("skipping scenario", "error", err,
				"topic", m.Topic, "partition", m.Partition, "offset", m.Offset)
			p.commit(ctx, m)
			continue
		}
		impacts = append(impacts, out)
		sources = append(sources, m)
	}
	return impacts, sources
}

func (p *Pipeline) commit(ctx context.Context, m domain.RawEvent) {
	if m.Commit == nil {
		return
	}
	if err := m.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", m.Topic, "partition", m.Partition, "offset", m.Offset)
	}
}
