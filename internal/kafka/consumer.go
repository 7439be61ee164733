// Package kafka is the row source: it consumes raw notification rows
// produced by the ingestion pipeline and feeds each poll's records to the
// orchestrator as one ordered batch.
package kafka

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/wavelinehq/notifier/internal/domain"
	"github.com/wavelinehq/notifier/internal/processor"
)

// Consumer wraps the franz-go Kafka client.
type Consumer struct {
	client       *kgo.Client
	orchestrator *processor.Orchestrator
}

// New creates a Consumer with the given brokers, group ID, and topic.
func New(brokers []string, groupID, topic string, orc *processor.Orchestrator) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, err
	}
	return &Consumer{client: client, orchestrator: orc}, nil
}

// Start begins polling Kafka and processing batches. Blocks until ctx is
// cancelled. Offsets are committed only after a batch completes, so a
// crash mid-batch replays rather than drops rows.
func (c *Consumer) Start(ctx context.Context) {
	log.Info().Msg("kafka consumer started")

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			break
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			log.Error().Err(err).Str("topic", topic).Int32("partition", partition).Msg("kafka fetch error")
		})

		var rows []domain.NotificationRow
		fetches.EachRecord(func(r *kgo.Record) {
			var row domain.NotificationRow
			if err := json.Unmarshal(r.Value, &row); err != nil {
				log.Warn().Err(err).
					Str("topic", r.Topic).
					Str("key", string(r.Key)).
					Msg("undecodable notification row, skipping")
				return
			}
			rows = append(rows, row)
		})

		c.orchestrator.Process(ctx, rows)

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			log.Error().Err(err).Msg("kafka commit error")
		}
	}

	c.client.Close()
	log.Info().Msg("kafka consumer stopped")
}
