// Package notification provides a best-effort publisher for user-facing
// notifications.
//
// Dispatcher sends one record per notification to the notification channel and
// reports what happened as an Outcome. Nothing is retried and no error escapes:
// callers decide whether the outcome matters, and on enrollment it does not.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"catalog/internal/notification/metrics"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/circuit"
)

const defaultTimeout = 2 * time.Second

// Notification is a message addressed to one user.
type Notification struct {
	Title       string
	Message     string
	RecipientID id.UserID
}

// message is the wire format on the notification topic.
type message struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type Outcome string

const (
	OutcomeDelivered   Outcome = "delivered"
	OutcomeTimedOut    Outcome = "timed_out"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeDropped     Outcome = "circuit_open"
	OutcomeInvalid     Outcome = "invalid"
)

func (o Outcome) Delivered() bool { return o == OutcomeDelivered }

// Publisher writes a keyed record to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type Dispatcher struct {
	publisher Publisher
	topic     string
	timeout   time.Duration
	breaker   *circuit.Breaker
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithTimeout bounds each publish attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(d *Dispatcher) {
		d.breaker = b
	}
}

func New(publisher Publisher, topic string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		publisher: publisher,
		topic:     topic,
		timeout:   defaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.breaker == nil {
		d.breaker = circuit.New("notification")
	}
	return d
}

// Publish sends n once. The publish runs detached from ctx cancellation so a
// client hanging up after its enrollment committed does not cancel the
// notification; the dispatcher timeout still bounds it.
func (d *Dispatcher) Publish(ctx context.Context, n Notification) Outcome {
	if n.RecipientID.IsNil() {
		d.metrics.IncFailed("encode")
		d.logger.WarnContext(ctx, "notification without recipient dropped", "title", n.Title)
		return OutcomeInvalid
	}
	recipient := n.RecipientID.String()

	if !d.breaker.Allow() {
		d.metrics.IncCircuitBreakerDropped()
		d.logger.WarnContext(ctx, "notification dropped: circuit open", "recipient_id", recipient)
		return OutcomeDropped
	}

	payload, err := json.Marshal(message{Title: n.Title, Message: n.Message, UserID: recipient})
	if err != nil {
		d.metrics.IncFailed("encode")
		d.logger.ErrorContext(ctx, "notification encode failed", "recipient_id", recipient, "error", err)
		return OutcomeInvalid
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	if err := d.publisher.Publish(pubCtx, d.topic, []byte(recipient), payload); err != nil {
		_, change := d.breaker.RecordFailure()
		if change.Opened {
			d.metrics.SetCircuitOpen(true)
			d.logger.WarnContext(ctx, "notification circuit opened", "breaker", d.breaker.Name())
		}
		outcome := OutcomeUnavailable
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(pubCtx.Err(), context.DeadlineExceeded) {
			outcome = OutcomeTimedOut
		}
		d.metrics.IncFailed(string(outcome))
		d.logger.WarnContext(ctx, "notification publish failed",
			"recipient_id", recipient,
			"topic", d.topic,
			"outcome", string(outcome),
			"error", err,
		)
		return outcome
	}

	if _, change := d.breaker.RecordSuccess(); change.Closed {
		d.metrics.SetCircuitOpen(false)
		d.logger.InfoContext(ctx, "notification circuit closed", "breaker", d.breaker.Name())
	}
	d.metrics.IncPublished()
	return OutcomeDelivered
}
