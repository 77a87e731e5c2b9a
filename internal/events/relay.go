package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"storefront/internal/repository/outbox"
)

const defaultBatchSize = 100

type pendingStore interface {
	FetchPending(ctx context.Context, limit int) ([]outbox.Record, error)
	MarkSent(ctx context.Context, ids ...int64) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Relay publishes committed outbox records to Kafka. Records are marked sent
// only after the broker acknowledged them, so delivery is at least once.
type Relay struct {
	store     pendingStore
	writer    messageWriter
	batchSize int
	logger    *log.Logger
	now       func() time.Time
}

func NewRelay(store pendingStore, writer messageWriter, logger *log.Logger) *Relay {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Relay{store: store, writer: writer, batchSize: defaultBatchSize, logger: logger, now: time.Now}
}

// NewWriter builds a Kafka writer that routes each message by its own topic.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// Flush publishes one batch and returns how many records were sent.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	records, err := r.store.FetchPending(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch pending: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	msgs := make([]kafka.Message, 0, len(records))
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		msgs = append(msgs, toMessage(rec, r.now().UTC()))
		ids = append(ids, rec.ID)
	}
	if err := r.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("publish: %w", err)
	}
	if err := r.store.MarkSent(ctx, ids...); err != nil {
		return 0, fmt.Errorf("mark sent: %w", err)
	}
	return len(records), nil
}

// Run flushes on every tick until ctx is cancelled.
func (r *Relay) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		n, err := r.Flush(ctx)
		switch {
		case errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			r.logger.Printf("relay: flush error=%v", err)
		case n > 0:
			r.logger.Printf("relay: published count=%d", n)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func toMessage(rec outbox.Record, now time.Time) kafka.Message {
	return kafka.Message{
		Topic: rec.Topic,
		Key:   []byte(rec.Key),
		Value: rec.Payload,
		Time:  now,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(rec.EventID)},
		},
	}
}
