package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/mr1hm/go-hazard-watch/internal/models"
	"github.com/mr1hm/go-hazard-watch/internal/notify"
)

const writeTimeout = 10 * time.Second

// messageWriter is the part of *kafkago.Writer the sink needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaSink forwards broadcast alert batches to a Kafka topic, one message
// per batch keyed by subject.
type KafkaSink struct {
	writer messageWriter
	topic  string
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &KafkaSink{writer: w, topic: topic}
}

// Run subscribes to the broadcaster and writes every non-empty batch until
// ctx is done or the broadcaster closes. It blocks.
func (s *KafkaSink) Run(ctx context.Context, b *notify.Broadcaster) {
	slog.Info("kafka alert sink started", "topic", s.topic)
	b.Listen(ctx, func(batch models.AlertBatch) {
		if err := s.Write(ctx, batch); err != nil {
			slog.Error("kafka write failed", "subject", batch.Subject, "hazard", batch.HazardType, "error", err)
		}
	})
	slog.Info("kafka alert sink stopped")
}

// Write publishes a single batch. Batches without alerts are skipped.
func (s *KafkaSink) Write(ctx context.Context, batch models.AlertBatch) error {
	if len(batch.Alerts) == 0 {
		return nil
	}
	msg, err := serializeBatch(batch)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return s.writer.WriteMessages(ctx, msg)
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func serializeBatch(batch models.AlertBatch) (kafkago.Message, error) {
	data, err := json.Marshal(batch)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert batch: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(batch.Subject),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "hazard_type", Value: []byte(batch.HazardType)},
			{Key: "generation", Value: []byte(strconv.FormatUint(batch.Generation, 10))},
			{Key: "generated_at", Value: []byte(batch.GeneratedAt.Format(time.RFC3339))},
		},
		Time: batch.GeneratedAt,
	}, nil
}
