package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"
	"testing"
	"time"
)

func TestOutboxOrdersWritesPerKey(t *testing.T) {
	outbox := NewOutbox(log.New(&bytes.Buffer{}, "", 0))

	var mu sync.Mutex
	var order []int
	for i := 0; i < 20; i++ {
		i := i
		err := outbox.Submit("update", "same", func(ctx context.Context) error {
			if i == 0 {
				time.Sleep(10 * time.Millisecond)
			}
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	outbox.Wait()

	if len(order) != 20 {
		t.Fatalf("Expected 20 writes, got %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("Expected write %d at position %d, got %d", i, i, v)
		}
	}
	if stats := outbox.Stats(); stats.Completed != 20 || stats.Pending != 0 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestOutboxRunsKeysConcurrently(t *testing.T) {
	outbox := NewOutbox(log.New(&bytes.Buffer{}, "", 0))
	release := make(chan struct{})
	done := make(chan struct{})

	outbox.Submit("update", "slow", func(ctx context.Context) error {
		<-release
		return nil
	})
	outbox.Submit("update", "fast", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected a write on another key to proceed while one is blocked")
	}
	close(release)
	outbox.Wait()
}

func TestOutboxFailuresAndClose(t *testing.T) {
	var buf bytes.Buffer
	outbox := NewOutbox(log.New(&buf, "", 0))
	var hooked *WriteError
	outbox.OnError(func(err *WriteError) { hooked = err })

	outbox.Submit("delete", "t1", func(ctx context.Context) error {
		return errors.New("no route")
	})
	if err := outbox.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if hooked == nil || hooked.Op != "delete" || hooked.TaskID != "t1" {
		t.Errorf("Expected hook to receive the failure, got %+v", hooked)
	}
	if !bytes.Contains(buf.Bytes(), []byte("[error] delete task t1: no route")) {
		t.Errorf("Expected failure to be logged, got %q", buf.String())
	}
	if stats := outbox.Stats(); stats.Failed != 1 {
		t.Errorf("Expected 1 failure, got %d", stats.Failed)
	}
	err := outbox.Submit("update", "t1", func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrOutboxClosed) {
		t.Errorf("Expected ErrOutboxClosed, got %v", err)
	}
}
