package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/Atelier_Go/internal/logger"
)

// ResilientPublisher wraps a Bus. A failed publish is queued and retried in the
// background with exponential backoff; events that never succeed are written
// to the dead-letter file. Publish itself only fails if nothing could record
// the event.
type ResilientPublisher struct {
	inner      Bus
	deadLetter *DeadLetterWriter
	maxRetries int
	baseDelay  time.Duration

	queue chan retryItem
	done  chan struct{}
	wg    sync.WaitGroup

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

type retryItem struct {
	event    Event
	attempts int
	lastErr  error
}

// NewResilientPublisher starts the retry worker. maxRetries and baseDelay
// fall back to RetryMaxAttempts and RetryBaseDelay when not positive.
func NewResilientPublisher(inner Bus, maxRetries int, baseDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dlw, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}
	if maxRetries <= 0 {
		maxRetries = RetryMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = RetryBaseDelay
	}

	p := &ResilientPublisher{
		inner:      inner,
		deadLetter: dlw,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		queue:      make(chan retryItem, RetryQueueBufferSize),
		done:       make(chan struct{}),
	}
	p.wg.Add(1)
	go p.retryWorker()
	return p, nil
}

// Publish delivers the event synchronously. A failure is queued for retry
// and nil is returned: the caller's own work has already been committed.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}

	log := logger.FromContext(ctx)
	log.Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)

	item := retryItem{event: event, attempts: 1, lastErr: err}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return p.writeDeadLetter(item, LogMsgEventDroppedShutdown)
	}

	select {
	case p.queue <- item:
		return nil
	default:
		return p.writeDeadLetter(item, LogMsgRetryQueueFull)
	}
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}

// Shutdown stops retrying, dead-letters whatever is still queued and closes
// the dead-letter file. It returns ctx.Err() if the worker does not finish in time.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.done)
	})

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return p.deadLetter.Close()
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout, "error", ctx.Err())
		return ctx.Err()
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			p.drain()
			return
		case item := <-p.queue:
			p.retry(item)
		}
	}
}

// retry runs on the worker goroutine only
func (p *ResilientPublisher) retry(item retryItem) {
	for retry := 1; retry <= p.maxRetries; retry++ {
		timer := time.NewTimer(CalculateRetryDelay(p.baseDelay, retry))
		select {
		case <-p.done:
			timer.Stop()
			_ = p.writeDeadLetter(item, LogMsgEventDroppedShutdown)
			return
		case <-timer.C:
		}

		err := p.inner.Publish(context.Background(), item.event)
		item.attempts++
		if err == nil {
			logger.Info(LogMsgEventRetrySucceeded, "event_type", item.event.Type, "attempts", item.attempts)
			return
		}
		item.lastErr = err
		logger.Warn(LogMsgEventRetryFailed, "event_type", item.event.Type, "attempts", item.attempts, "error", err)
	}

	_ = p.writeDeadLetter(item, LogMsgEventRetryExhausted)
}

func (p *ResilientPublisher) drain() {
	for {
		select {
		case item := <-p.queue:
			_ = p.writeDeadLetter(item, LogMsgEventDroppedShutdown)
		default:
			return
		}
	}
}

func (p *ResilientPublisher) writeDeadLetter(item retryItem, reason string) error {
	logger.Warn(reason, "event_type", item.event.Type, "attempts", item.attempts)
	if err := p.deadLetter.Write(item.event, item.attempts, item.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", item.event.Type, "error", err)
		return err
	}
	return nil
}
