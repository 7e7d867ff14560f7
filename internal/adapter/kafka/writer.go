package kafka

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/asteroid-impact-sim/internal/config"
	"github.com/couchcryptid/asteroid-impact-sim/internal/domain"
	"github.com/couchcryptid/asteroid-impact-sim/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces messages to a Kafka topic.
// It implements pipeline.BatchLoader and simulation.EventPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: cfg.BatchFlushInterval,
	}
	return &Writer{writer: w, logger: logger}
}

// NewPublisher creates a producer for interactive impacts. Writes are
// asynchronous so an HTTP request never waits on the batch timer; delivery
// failures are counted and logged from the completion callback.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: cfg.BatchFlushInterval,
		Async:        true,
	}
	w.Completion = func(messages []kafkago.Message, err error) {
		if err == nil {
			return
		}
		metrics.PublishErrors.Add(float64(len(messages)))
		for _, m := range messages {
			logger.Warn("impact delivery failed", "impact_id", string(m.Key), "error", err)
		}
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch publishes multiple serialized impacts in a single WriteMessages call.
func (w *Writer) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msgs[i] = toMessage(events[i])
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

// Publish serializes and writes a single impact. On a writer built by
// NewPublisher it returns once the message is queued.
func (w *Writer) Publish(ctx context.Context, impact domain.Impact) error {
	out, err := domain.SerializeImpact(impact)
	if err != nil {
		return err
	}
	w.logger.Debug("publishing impact", "impact_id", impact.ID, "variant", impact.Variant)
	return w.writer.WriteMessages(ctx, toMessage(out))
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toMessage converts an OutputEvent into a Kafka message. Headers are
// written in sorted key order so messages are reproducible.
func toMessage(out domain.OutputEvent) kafkago.Message {
	return kafkago.Message{
		Key:     out.Key,
		Value:   out.Value,
		Headers: sortedHeaders(out.Headers),
	}
}
