package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/m0th3rfkr/ejecucion-publica/internal/config"
	"github.com/m0th3rfkr/ejecucion-publica/internal/infrastructure/monitoring/logging"
	"github.com/m0th3rfkr/ejecucion-publica/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.CodeInternal, "producer closed")

// writer abstracts kafka.Writer for testing.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuditProducer publishes lookup audit events.  Publishing is best-effort:
// callers log failures but never fail a lookup because the audit bus is down.
type AuditProducer struct {
	writer writer
	topic  string
	logger logging.Logger
	closed atomic.Bool
	sent   atomic.Int64
	failed atomic.Int64
}

// NewAuditProducer builds a producer from the audit topic configuration.
func NewAuditProducer(cfg config.KafkaConfig, log logging.Logger) (*AuditProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.CodeInvalidParam, "kafka brokers required")
	}
	topic := cfg.AuditTopic
	if topic == "" {
		topic = DefaultAuditTopic
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout == 0 {
		batchTimeout = time.Second
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  maxRetries + 1,
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireOne,
	}

	return &AuditProducer{
		writer: w,
		topic:  topic,
		logger: log,
	}, nil
}

// PublishLookupCompleted emits one audit event.  Events are keyed by
// territory so per-territory ordering is preserved within a partition.
func (p *AuditProducer) PublishLookupCompleted(ctx context.Context, evt LookupCompletedEvent) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if evt.EventID == "" {
		evt.EventID = uuid.NewString()
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode audit event")
	}

	msg := kafka.Message{
		Key:   []byte(evt.Territory),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("lookup.completed")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.CodeInternal, "failed to publish audit event")
	}

	p.sent.Add(1)
	p.logger.Debug("Audit event published",
		logging.String("event_id", evt.EventID),
		logging.String("territory", evt.Territory),
	)
	return nil
}

// Sent returns how many events have been published since startup.
func (p *AuditProducer) Sent() int64 { return p.sent.Load() }

// Failed returns how many publish attempts have failed since startup.
func (p *AuditProducer) Failed() int64 { return p.failed.Load() }

func (p *AuditProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("Kafka audit producer closed", logging.Int64("sent", p.sent.Load()))
	return err
}
