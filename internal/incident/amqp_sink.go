package incident

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// Publisher publishes a message body to an exchange.
type Publisher interface {
	Publish(exchange, kind string, body []byte) error
}

// AMQPSink announces incidents on a fanout exchange so patrol-dispatch and
// command-console consumers can react to them.
type AMQPSink struct {
	publisher Publisher
	exchange  string
}

func NewAMQPSink(p Publisher, exchange string) *AMQPSink {
	return &AMQPSink{publisher: p, exchange: exchange}
}

func (s *AMQPSink) CreateAlert(_ context.Context, a Alert) error {
	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("incident: marshal alert: %w", err)
	}
	return s.publisher.Publish(s.exchange, string(a.Kind), body)
}

func (s *AMQPSink) CreateReport(_ context.Context, r Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("incident: marshal report: %w", err)
	}
	return s.publisher.Publish(s.exchange, "CRIME_REPORT", body)
}

type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPPublisher connects to RabbitMQ and declares exchange as a durable
// fanout exchange.
func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("incident: amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("incident: amqp channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("incident: declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, channel: ch}, nil
}

// Publish sends body as a persistent JSON message; kind travels in the
// headers since fanout exchanges ignore routing keys.
func (p *AMQPPublisher) Publish(exchange, kind string, body []byte) error {
	return p.channel.Publish(
		exchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Headers:      amqp.Table{"kind": kind},
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
