package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Delivery is the part of an AMQP message a handler needs.
type Delivery struct {
	Key       string
	RequestID string
	Body      []byte
}

type Consumer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	q    string
}

// NewConsumer declares exchange and queue and binds every key in keys.
func NewConsumer(url, exchange, queue string, keys ...string) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbit: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	fail := func(step string, err error) (*Consumer, error) {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", step, err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fail("declare exchange", err)
	}
	qd, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fail("declare queue", err)
	}
	for _, key := range keys {
		if err := ch.QueueBind(qd.Name, key, exchange, false, nil); err != nil {
			return fail("bind queue", err)
		}
	}

	return &Consumer{conn: conn, ch: ch, q: qd.Name}, nil
}

func (c *Consumer) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// ErrDeliveriesClosed means the broker closed the delivery channel while
// the consumer was still meant to run.
var ErrDeliveriesClosed = errors.New("rabbit delivery channel closed")

// Consume runs workers until ctx is done or the broker goes away. A handler
// error requeues the message.
func (c *Consumer) Consume(ctx context.Context, workers int, handle func(Delivery) error) error {
	if c == nil || c.ch == nil {
		return fmt.Errorf("consumer is not initialized")
	}
	if err := c.ch.Qos(50, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	msgs, err := c.ch.Consume(c.q, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	return consume(ctx, msgs, workers, handle)
}

func consume(ctx context.Context, msgs <-chan amqp.Delivery, workers int, handle func(Delivery) error) error {
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case d, ok := <-msgs:
					if !ok {
						return
					}
					reqID, _ := d.Headers["X-Request-ID"].(string)
					if err := handle(Delivery{Key: d.RoutingKey, RequestID: reqID, Body: d.Body}); err != nil {
						_ = d.Nack(false, true)
						continue
					}
					_ = d.Ack(false)
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		<-done
		return nil
	case <-done:
		if ctx.Err() != nil {
			return nil
		}
		return ErrDeliveriesClosed
	}
}
