// Package state holds the latest outcome of each onboarding call for the UI.
//
// Every call runs in its own goroutine and reports on a channel owned by that
// call. The holder also keeps the newest result: calls are numbered and only
// the most recently issued one may publish, so a slow stale call never
// overwrites a newer result. Close cancels whatever is still in flight; a
// cancelled call reports on its channel but does not publish.
package state

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is reported by calls issued after Close.
var ErrClosed = errors.New("state: holder closed")

// slot is a single published value guarded by a sequence number.
type slot[T any] struct {
	mu    sync.Mutex
	seq   uint64
	value T
	set   bool
}

// next reserves the sequence number for a new call.
func (s *slot[T]) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// publish stores v if seq is still the newest call. then runs under the same
// lock when v was stored.
func (s *slot[T]) publish(seq uint64, v T, then func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.value, s.set = v, true
	if then != nil {
		then()
	}
	return true
}

func (s *slot[T]) get() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.set
}

// tasks runs call goroutines under one cancellable context.
type tasks struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

func newTasks(parent context.Context) *tasks {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	return &tasks{ctx: ctx, cancel: cancel}
}

// launch starts fn unless the holder was closed.
func (t *tasks) launch(fn func(ctx context.Context)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		fn(t.ctx)
	}()
	return true
}

// close cancels running calls and waits for them to return.
func (t *tasks) close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.cancel()
	t.mu.Unlock()
	t.wg.Wait()
}
