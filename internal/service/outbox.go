package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrOutboxClosed is returned by Submit after Close.
var ErrOutboxClosed = errors.New("outbox closed")

// WriteError reports a persistence write that failed after the local state
// had already changed.
type WriteError struct {
	Op     string
	TaskID string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s task %s: %v", e.Op, e.TaskID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

type writeOp struct {
	op  string
	key string
	run func(ctx context.Context) error
}

// OutboxStats is a snapshot of the queue counters.
type OutboxStats struct {
	Pending   int
	Completed int
	Failed    int
	LastError error
}

// Outbox runs persistence writes off the caller's goroutine. Writes sharing a
// key run in submission order; different keys run concurrently.
type Outbox struct {
	mu      sync.Mutex
	queues  map[string][]writeOp
	wg      sync.WaitGroup
	closed  bool
	logger  *log.Logger
	onError func(*WriteError)

	completed int
	failed    int
	lastErr   error
}

func NewOutbox(logger *log.Logger) *Outbox {
	if logger == nil {
		logger = log.Default()
	}
	return &Outbox{
		queues: make(map[string][]writeOp),
		logger: logger,
	}
}

// OnError registers a hook called for every failed write.
func (o *Outbox) OnError(fn func(*WriteError)) {
	o.mu.Lock()
	o.onError = fn
	o.mu.Unlock()
}

// Submit enqueues a write for key. It never blocks on the write itself.
func (o *Outbox) Submit(op, key string, run func(ctx context.Context) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrOutboxClosed
	}
	w := writeOp{op: op, key: key, run: run}
	queue, busy := o.queues[key]
	o.queues[key] = append(queue, w)
	if !busy {
		o.wg.Add(1)
		go o.drain(key)
	}
	return nil
}

// drain runs the queue for key until it is empty. The head stays in the map
// while it runs so a concurrent Submit appends behind it.
func (o *Outbox) drain(key string) {
	defer o.wg.Done()
	for {
		o.mu.Lock()
		queue := o.queues[key]
		if len(queue) == 0 {
			delete(o.queues, key)
			o.mu.Unlock()
			return
		}
		head := queue[0]
		o.mu.Unlock()

		err := head.run(context.Background())

		o.mu.Lock()
		o.queues[key] = o.queues[key][1:]
		var hook func(*WriteError)
		var werr *WriteError
		if err != nil {
			werr = &WriteError{Op: head.op, TaskID: head.key, Err: err}
			o.failed++
			o.lastErr = werr
			hook = o.onError
		} else {
			o.completed++
		}
		o.mu.Unlock()

		if werr != nil {
			o.logger.Printf("[error] %v", werr)
			if hook != nil {
				hook(werr)
			}
		}
	}
}

// Wait blocks until every submitted write has finished.
func (o *Outbox) Wait() {
	o.wg.Wait()
}

// Close rejects new writes and waits for the queued ones, or for ctx.
func (o *Outbox) Close(ctx context.Context) error {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Outbox) Stats() OutboxStats {
	o.mu.Lock()
	defer o.mu.Unlock()
	pending := 0
	for _, q := range o.queues {
		pending += len(q)
	}
	return OutboxStats{
		Pending:   pending,
		Completed: o.completed,
		Failed:    o.failed,
		LastError: o.lastErr,
	}
}
