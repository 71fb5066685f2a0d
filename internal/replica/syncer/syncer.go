// Package syncer applies identity lifecycle events to the local user replica.
//
// Each polled batch is split by user id across a fixed number of workers, so
// events for one user are applied in feed order while different users proceed
// in parallel. HandleBatch succeeds only when every decodable event has been
// applied or ignored as stale. A store outage fails the batch so the consumer
// keeps it uncommitted and hands it over again.
package syncer

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"catalog/internal/platform/kafka/consumer"
	"catalog/internal/replica/metrics"
	"catalog/internal/replica/models"
	id "catalog/pkg/domain"
)

const (
	defaultWorkers      = 4
	defaultApplyTimeout = 5 * time.Second
	defaultMaxAttempts  = 3
	defaultBackoff      = 100 * time.Millisecond
)

// Store is the replica write side. Both methods report whether the write
// changed anything; false means a newer version is already stored.
type Store interface {
	Upsert(ctx context.Context, replica *models.UserReplica) (bool, error)
	Delete(ctx context.Context, userID id.UserID, version int64) (bool, error)
}

type Synchronizer struct {
	store        Store
	workers      int
	applyTimeout time.Duration
	maxAttempts  int
	backoff      time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
}

type Option func(*Synchronizer)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Synchronizer) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Synchronizer) {
		s.tracer = t
	}
}

func WithWorkers(n int) Option {
	return func(s *Synchronizer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithApplyTimeout bounds each store attempt.
func WithApplyTimeout(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.applyTimeout = d
		}
	}
}

// WithRetry sets how many attempts a failing apply gets and the initial delay
// between them. The delay doubles after each attempt.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(s *Synchronizer) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
		if backoff >= 0 {
			s.backoff = backoff
		}
	}
}

func New(store Store, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:        store,
		workers:      defaultWorkers,
		applyTimeout: defaultApplyTimeout,
		maxAttempts:  defaultMaxAttempts,
		backoff:      defaultBackoff,
		logger:       slog.Default(),
		tracer:       otel.Tracer("catalog/replica"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleBatch implements consumer.BatchHandler. Malformed events are skipped;
// any other failure is returned and the batch must not be committed.
func (s *Synchronizer) HandleBatch(ctx context.Context, msgs []*consumer.Message) error {
	s.metrics.ObserveBatch(len(msgs))

	buckets := make([][]models.UserEvent, s.workers)
	for _, msg := range msgs {
		ev, err := models.DecodeUserEvent(msg.Value)
		if err != nil {
			s.metrics.IncMalformed()
			s.logger.WarnContext(ctx, "skipping malformed user event",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
			continue
		}
		w := s.worker(ev.UserID)
		buckets[w] = append(buckets[w], ev)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		g.Go(func() error {
			for _, ev := range bucket {
				if err := s.Apply(gctx, ev); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Synchronizer) worker(userID id.UserID) int {
	h := fnv.New32a()
	_, _ = h.Write(userID[:])
	return int(h.Sum32() % uint32(s.workers))
}

// Apply writes one event, retrying store failures with backoff. After the last
// attempt the store error is returned; events are never dropped.
func (s *Synchronizer) Apply(ctx context.Context, ev models.UserEvent) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "replica.apply")
	span.SetAttributes(
		attribute.String("user.id", ev.UserID.String()),
		attribute.String("event.action", string(ev.Action)),
		attribute.Int64("event.version", ev.Version),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.metrics.ObserveApply(start)
	}()

	delay := s.backoff
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		changed, err := s.applyOnce(ctx, ev)
		if err == nil {
			s.record(ctx, ev, changed)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
		if attempt == s.maxAttempts {
			break
		}
		s.metrics.IncRetry()
		s.logger.WarnContext(ctx, "replica apply failed, retrying",
			"user_id", ev.UserID.String(),
			"action", string(ev.Action),
			"attempt", attempt,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	s.metrics.IncFailed()
	s.logger.ErrorContext(ctx, "replica apply exhausted retries",
		"user_id", ev.UserID.String(),
		"action", string(ev.Action),
		"version", ev.Version,
		"attempts", s.maxAttempts,
		"error", lastErr,
	)
	return fmt.Errorf("apply %s for user %s: %w", ev.Action, ev.UserID, lastErr)
}

func (s *Synchronizer) applyOnce(ctx context.Context, ev models.UserEvent) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.applyTimeout)
	defer cancel()
	if ev.Action == models.ActionDelete {
		return s.store.Delete(ctx, ev.UserID, ev.Version)
	}
	return s.store.Upsert(ctx, ev.Replica())
}

func (s *Synchronizer) record(ctx context.Context, ev models.UserEvent, changed bool) {
	action := string(ev.Action)
	if !changed {
		s.metrics.IncIgnored(action)
		s.logger.DebugContext(ctx, "ignoring stale user event",
			"user_id", ev.UserID.String(),
			"action", action,
			"version", ev.Version,
		)
		return
	}
	s.metrics.IncApplied(action)
	s.logger.DebugContext(ctx, "user replica updated",
		"user_id", ev.UserID.String(),
		"action", action,
		"version", ev.Version,
	)
}
