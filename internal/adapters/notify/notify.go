// Package notify holds notification sinks consumed by the worker pool.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/okian/alumnet/internal/domain/model"
	"github.com/okian/alumnet/pkg/logger"
)

// LogSink writes notifications to the structured log.
type LogSink struct {
	logger logger.Logger
}

// NewLogSink returns a LogSink using the named global logger.
func NewLogSink() *LogSink {
	return &LogSink{logger: logger.Get().Named("notify")}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(ctx context.Context, n model.Notification) error { //nolint:gocritic // sink contract
	s.logger.Info(ctx, "notification",
		logger.String("id", n.ID),
		logger.String("user_id", n.UserID),
		logger.String("kind", n.Kind),
		logger.String("title", n.Title),
	)
	return nil
}

// publisher is the subset of *amqp.Channel used by AMQPSink.
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSink publishes notifications as JSON to a topic exchange with routing
// key "notification.<kind>".
type AMQPSink struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       publisher
	exchange string
}

// DialAMQP connects to url and declares exchange as a durable topic exchange.
func DialAMQP(url, exchange string) (*AMQPSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("notify: dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("notify: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("notify: declare exchange %s: %w", exchange, err)
	}
	return &AMQPSink{conn: conn, ch: ch, exchange: exchange}, nil
}

func (s *AMQPSink) Name() string { return "amqp" }

func (s *AMQPSink) Deliver(_ context.Context, n model.Notification) error { //nolint:gocritic // sink contract
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("notify: encode: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    n.ID,
		Timestamp:    n.CreatedAt,
		Type:         n.Kind,
		Body:         body,
	}
	// amqp channels are not safe for concurrent publishing.
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch.Publish(s.exchange, "notification."+n.Kind, false, false, msg)
}

// Close closes the channel and the connection.
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.ch.Close()
	if s.conn != nil {
		if cerr := s.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
