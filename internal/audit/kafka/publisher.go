// Package kafka mirrors ledger entries to a Kafka topic for downstream
// consumers (SIEM, analytics). The PostgreSQL ledger remains the source of
// truth; mirroring is fire-and-forget and a produce failure never fails the
// originating mutation.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"lexid/internal/audit"
)

// Publisher produces audit entries to Kafka.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewPublisher connects a franz-go client to the given brokers. Returns nil
// when no brokers are configured (mirroring disabled).
func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchMaxBytes(1<<20),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Publisher{client: client, topic: topic, logger: logger}, nil
}

// record is the wire shape of a mirrored entry.
type record struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profile_id"`
	Action    string    `json:"action"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ChangedBy string    `json:"changed_by,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// Run consumes entries from the inbox until the context is cancelled.
// Produce errors are logged and dropped.
func (p *Publisher) Run(ctx context.Context, inbox <-chan audit.Entry) error {
	defer p.client.Close()
	for {
		select {
		case <-ctx.Done():
			// Flush what is in flight before shutting down.
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = p.client.Flush(flushCtx)
			return ctx.Err()
		case entry := <-inbox:
			p.produce(ctx, entry)
		}
	}
}

func (p *Publisher) produce(ctx context.Context, entry audit.Entry) {
	rec := record{
		ID:        entry.ID.String(),
		ProfileID: entry.ProfileID.String(),
		Action:    string(entry.Action),
		OldValue:  entry.OldValue,
		NewValue:  entry.NewValue,
		ChangedAt: entry.ChangedAt,
	}
	if entry.ChangedBy != nil {
		rec.ChangedBy = entry.ChangedBy.String()
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal audit mirror record", "error", err)
		return
	}

	// Key by profile so one profile's history stays ordered per partition.
	p.client.Produce(ctx, &kgo.Record{
		Topic: p.topic,
		Key:   []byte(rec.ProfileID),
		Value: payload,
	}, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("audit mirror produce failed",
				"entry_id", rec.ID,
				"error", err,
			)
		}
	})
}
