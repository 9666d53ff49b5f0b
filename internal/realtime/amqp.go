package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPSink mirrors change events to a topic exchange, routing key "<table>.<action>".
type AMQPSink struct {
	url      string
	exchange string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

const amqpDialTimeout = 3 * time.Second

func NewAMQPSink(url, exchange string) (*AMQPSink, error) {
	s := &AMQPSink{url: url, exchange: exchange}
	if err := s.ensureConnection(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AMQPSink) ensureConnection() error {
	if s.conn != nil && !s.conn.IsClosed() && s.channel != nil && !s.channel.IsClosed() {
		return nil
	}
	conn, err := amqp.DialConfig(s.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(amqpDialTimeout),
	})
	if err != nil {
		log.Printf("[AMQP] action=dial_error msg=%v", err)
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := ch.ExchangeDeclare(s.exchange, "topic", true, false, false, false, nil); err != nil {
		log.Printf("[AMQP] action=declare_error exchange=%s msg=%v", s.exchange, err)
		ch.Close()
		conn.Close()
		return err
	}
	s.conn = conn
	s.channel = ch
	return nil
}

var errSinkClosed = errors.New("amqp sink closed")

// RoutingKey returns the topic for an event.
func RoutingKey(e Event) string {
	return e.Table + "." + e.Action
}

func (s *AMQPSink) Send(e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errSinkClosed
	}
	if err := s.ensureConnection(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.channel.PublishWithContext(ctx, s.exchange, RoutingKey(e), false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   e.At,
		Body:        body,
	})
}

func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.channel != nil {
		s.channel.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
