package events

import (
	"context"
	"log/slog"
	"sync"

	"clinic-scheduler/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher hands an already encoded event to the broker
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Close() error
}

// AMQPPublisher publishes persistent JSON messages on a durable topic exchange
type AMQPPublisher struct {
	mu       sync.Mutex
	url      string
	exchange string
	conn     *amqp.Connection
	ch       *amqp.Channel
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: exchange}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return errs.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return errs.Wrap(err, "open channel")
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return errs.Wrap(err, "declare exchange")
	}
	p.conn, p.ch = conn, ch
	return nil
}

// Publish redials once when the channel was closed under us
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		p.closeLocked()
		if err := p.connect(); err != nil {
			return errs.Mark(err, errs.ErrPublishFailed)
		}
	}

	err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "publish %s", routingKey), errs.ErrPublishFailed)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *AMQPPublisher) closeLocked() error {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		if err != nil && !errs.Is(err, amqp.ErrClosed) {
			return err
		}
	}
	return nil
}

// LogPublisher stands in when no broker is configured so the outbox still drains
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, routingKey string, body []byte) error {
	slog.Info("booking event", "routing_key", routingKey, "payload", string(body))
	return nil
}

func (LogPublisher) Close() error { return nil }
