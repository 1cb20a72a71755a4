// Package rabbitmq publishes delivery attestations to a durable exchange.
// A record counts as written only once the broker confirms it.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange   = "supplychain.attestations"
	DefaultQueue      = "supplychain.attestations.ledger"
	DefaultRoutingKey = "delivery.attested"
)

var (
	ErrPublishNotConfirmed = errors.New("ledger publish was not confirmed")
	ErrPublishReturned     = errors.New("ledger publish was returned unroutable")
)

// returnBuffer bounds returns queued between two publishes. The broker sends
// at most one return per mandatory publish and each publish drains the buffer.
const returnBuffer = 8

type Config struct {
	URL        string
	Exchange   string
	Queue      string
	RoutingKey string
}

// confirmPublisher publishes one message and waits for the broker's ack.
type confirmPublisher interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (deliveryTag uint64, acked bool, err error)
	Close() error
}

// Ledger implements ports.AttestationLedger.
type Ledger struct {
	publisher  confirmPublisher
	exchange   string
	routingKey string
	now        func() time.Time
}

// NewLedger dials the broker, declares the exchange and its ledger queue and
// switches the channel into confirm mode.
func NewLedger(cfg Config) (*Ledger, error) {
	cfg = withDefaults(cfg)

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := setup(ch, cfg); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	returns := ch.NotifyReturn(make(chan amqp.Return, returnBuffer))
	return newLedger(&amqpPublisher{conn: conn, ch: ch, returns: returns}, cfg), nil
}

func newLedger(publisher confirmPublisher, cfg Config) *Ledger {
	cfg = withDefaults(cfg)
	return &Ledger{
		publisher:  publisher,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		now:        time.Now,
	}
}

func withDefaults(cfg Config) Config {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	if cfg.RoutingKey == "" {
		cfg.RoutingKey = DefaultRoutingKey
	}
	return cfg
}

func setup(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		cfg.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-queue-type": "classic"},
	); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(cfg.Queue, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("enable confirms: %w", err)
	}
	return nil
}

// RecordDelivery publishes payload once and returns "amqp:<exchange>:<tag>".
// A nack, an unroutable return or a context that ends before the ack is an
// error; the caller decides whether to retry.
func (l *Ledger) RecordDelivery(ctx context.Context, referenceID string, payload []byte) (string, error) {
	if referenceID == "" {
		return "", errors.New("reference id is required")
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    l.now().UTC(),
		ContentType:  "application/json",
		MessageId:    referenceID,
		Type:         l.routingKey,
		Body:         payload,
	}

	tag, acked, err := l.publisher.Publish(ctx, l.exchange, l.routingKey, msg)
	if err != nil {
		return "", fmt.Errorf("publish attestation %s: %w", referenceID, err)
	}
	if !acked {
		return "", fmt.Errorf("publish attestation %s: %w", referenceID, ErrPublishNotConfirmed)
	}
	return fmt.Sprintf("amqp:%s:%d", l.exchange, tag), nil
}

func (l *Ledger) Close() error {
	return l.publisher.Close()
}

// amqpPublisher holds its lock until the confirm arrives, so a return queued
// before the ack always belongs to the message just published.
type amqpPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	returns <-chan amqp.Return
}

func (p *amqpPublisher) Publish(
	ctx context.Context,
	exchange, key string,
	msg amqp.Publishing,
) (uint64, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	drainReturns(p.returns)

	confirm, err := p.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key,
		true,  // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return 0, false, err
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return 0, false, err
	}
	if ret, ok := returnedFor(p.returns, msg.MessageId); ok {
		return confirm.DeliveryTag, false, fmt.Errorf("%w: %d %s", ErrPublishReturned, ret.ReplyCode, ret.ReplyText)
	}
	return confirm.DeliveryTag, acked, nil
}

// returnedFor reports a queued return for messageID, discarding the others.
// The broker sends basic.return ahead of the ack, so it is already queued
// once the confirm resolves.
func returnedFor(returns <-chan amqp.Return, messageID string) (amqp.Return, bool) {
	var (
		found amqp.Return
		ok    bool
	)
	for {
		select {
		case ret, open := <-returns:
			if !open {
				return found, ok
			}
			if !ok && ret.MessageId == messageID {
				found, ok = ret, true
			}
		default:
			return found, ok
		}
	}
}

func drainReturns(returns <-chan amqp.Return) {
	for {
		select {
		case _, open := <-returns:
			if !open {
				return
			}
		default:
			return
		}
	}
}

func (p *amqpPublisher) Close() error {
	return errors.Join(p.ch.Close(), p.conn.Close())
}
