package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/streadway/amqp"
)

// Handler processes one message body.
type Handler interface {
	Handle(ctx context.Context, body []byte) error
}

// Pool runs Size consumers on a durable queue. Each consumer has its own
// channel with a prefetch of one.
type Pool struct {
	Conn    *amqp.Connection
	Queue   string
	Size    int
	Handler Handler
}

// Run starts the consumers and blocks until ctx is done or every consumer
// has stopped.
func (p *Pool) Run(ctx context.Context) error {
	size := p.Size
	if size <= 0 {
		size = 1
	}

	ch, err := p.Conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("failed to declare queue %s: %w", p.Queue, err)
	}
	ch.Close()

	var wg sync.WaitGroup
	errs := make(chan error, size)
	for i := 1; i <= size; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := p.consume(ctx, id); err != nil {
				errs <- err
			}
		}(i)
	}
	log.Printf("[WORKER] %d consumers listening on %s", size, p.Queue)

	wg.Wait()
	close(errs)
	var all []error
	for err := range errs {
		all = append(all, err)
	}
	return errors.Join(all...)
}

func (p *Pool) consume(ctx context.Context, id int) error {
	ch, err := p.Conn.Channel()
	if err != nil {
		return fmt.Errorf("worker %d: failed to open channel: %w", id, err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("worker %d: failed to set qos: %w", id, err)
	}
	msgs, err := ch.Consume(p.Queue, fmt.Sprintf("skillmatch-worker-%d", id), false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("worker %d: failed to register consumer: %w", id, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("worker %d: delivery channel closed", id)
			}
			handleDelivery(ctx, p.Handler, d)
		}
	}
}

// handleDelivery acks processed messages and drops malformed ones.
// Messages are requeued only when processing was interrupted by shutdown.
func handleDelivery(ctx context.Context, h Handler, d amqp.Delivery) {
	err := h.Handle(ctx, d.Body)
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			log.Printf("[WORKER] ack failed: %v", ackErr)
		}
	case ctx.Err() != nil:
		log.Printf("[WORKER] interrupted, requeueing message: %v", err)
		_ = d.Nack(false, true)
	case errors.Is(err, ErrInvalidRequest):
		log.Printf("[WORKER] dropping invalid message: %v", err)
		_ = d.Reject(false)
	default:
		log.Printf("[WORKER] request failed: %v", err)
		_ = d.Ack(false)
	}
}
