package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-hospital-directory/config"
	"go-hospital-directory/internal/domain/entity"
	"go-hospital-directory/internal/service"
	"go-hospital-directory/pkg/metrics"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	writeTimeout     = 5 * time.Second
	breakerOpenFor   = 30 * time.Second
	breakerTripAfter = 5
)

// messageWriter is the part of kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes domain events to one topic behind a circuit breaker
// so a broker outage fails fast instead of stalling requests.
type KafkaPublisher struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger
	metrics *metrics.Metrics
}

// NewEventPublisher returns a kafka publisher, or a no-op one when no
// brokers are configured.
func NewEventPublisher(cfg config.KafkaConfig, log *logrus.Logger, m *metrics.Metrics) service.EventPublisher {
	brokers := cfg.BrokerList()
	if len(brokers) == 0 {
		log.Info("Kafka brokers not configured, domain events are disabled")
		return NoopPublisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: writeTimeout,
	}

	log.Infof("Publishing domain events to %s on %s", cfg.Topic, strings.Join(brokers, ","))
	return newKafkaPublisher(writer, log, m)
}

func newKafkaPublisher(writer messageWriter, log *logrus.Logger, m *metrics.Metrics) *KafkaPublisher {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "kafka-events",
		Timeout: breakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripAfter
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("Circuit breaker %s changed from %s to %s", name, from, to)
		},
	})

	return &KafkaPublisher{
		writer:  writer,
		breaker: breaker,
		log:     log,
		metrics: m,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...entity.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", event.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   event.EventKey(),
			Value: value,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.Type)},
			},
		})
	}

	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.writer.WriteMessages(ctx, msgs...)
	})
	for _, event := range events {
		p.metrics.EventPublished(event.Type, err)
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			p.log.Warnf("Dropped %d domain events, circuit open", len(events))
		} else {
			p.log.Warnf("Failed to publish %d domain events: %+v", len(events), err)
		}
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher discards events
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, events ...entity.DomainEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
