// Package consumer runs a Kafka consumer group and hands each polled batch to a
// handler, committing offsets only after the handler returns.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is a transport-neutral view of a consumed record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

// BatchHandler processes one polled batch. A non-nil error leaves the batch
// uncommitted and the same batch is handed over again after a backoff, so
// handlers must be idempotent.
type BatchHandler interface {
	HandleBatch(ctx context.Context, msgs []*Message) error
}

// Client is the subset of *kgo.Client the consumer needs.
type Client interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitRecords(ctx context.Context, rs ...*kgo.Record) error
	Close()
}

type Config struct {
	Brokers []string
	Group   string
	Topics  []string
}

const (
	defaultRetryBackoff    = 500 * time.Millisecond
	defaultMaxRetryBackoff = 30 * time.Second
)

type Consumer struct {
	client          Client
	handler         BatchHandler
	logger          *slog.Logger
	retryBackoff    time.Duration
	maxRetryBackoff time.Duration
}

type Option func(*Consumer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		c.logger = logger
	}
}

// NewClient builds a franz-go group client with manual commits.
// WithRetryBackoff sets the delay before a failed batch is handled again. The
// delay doubles per failure up to maxDelay.
func WithRetryBackoff(initial, maxDelay time.Duration) Option {
	return func(c *Consumer) {
		if initial >= 0 {
			c.retryBackoff = initial
		}
		if maxDelay >= c.retryBackoff {
			c.maxRetryBackoff = maxDelay
		}
	}
}

func NewClient(cfg Config) (*kgo.Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.DisableAutoCommit(),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return client, nil
}

func New(client Client, handler BatchHandler, opts ...Option) *Consumer {
	c := &Consumer{
		client:          client,
		handler:         handler,
		logger:          slog.Default(),
		retryBackoff:    defaultRetryBackoff,
		maxRetryBackoff: defaultMaxRetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		records := fetches.Records()
		if len(records) == 0 {
			continue
		}
		msgs := make([]*Message, 0, len(records))
		for _, r := range records {
			msgs = append(msgs, &Message{
				Topic:     r.Topic,
				Partition: r.Partition,
				Offset:    r.Offset,
				Key:       r.Key,
				Value:     r.Value,
				Timestamp: r.Timestamp,
			})
		}

		if !c.handle(ctx, msgs) {
			return nil
		}
		if err := c.client.CommitRecords(ctx, records...); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.ErrorContext(ctx, "kafka commit failed", "records", len(records), "error", err)
		}
	}
}

// handle runs the handler until it succeeds. It reports false when ctx ends
// first, in which case nothing is committed.
func (c *Consumer) handle(ctx context.Context, msgs []*Message) bool {
	delay := c.retryBackoff
	for failures := 1; ; failures++ {
		err := c.handler.HandleBatch(ctx, msgs)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		c.logger.ErrorContext(ctx, "batch handling failed, retrying",
			"records", len(msgs),
			"first_offset", msgs[0].Offset,
			"failures", failures,
			"retry_in", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return false
		case <-time.After(delay):
		}
		delay = min(delay*2, c.maxRetryBackoff)
	}
}
