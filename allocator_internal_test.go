// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hpqueue

import (
	"sync"
	"testing"
)

// boundedAllocator is a test double with a hard capacity, used to exercise
// ErrAllocatorFailure deterministically — the bundled PooledAllocator never
// fails (a miss just falls back to the heap), so nothing else in this
// package can trigger that path. It must live in this file rather than an
// external _test.go file because Allocator[T]'s methods are expressed in
// terms of the unexported *node[T], which only code inside this package can
// name.
type boundedAllocator[T any] struct {
	mu        sync.Mutex
	remaining int
}

func newBoundedAllocator[T any](capacity int) *boundedAllocator[T] {
	return &boundedAllocator[T]{remaining: capacity}
}

func (a *boundedAllocator[T]) Alloc(value T) (*node[T], error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.remaining <= 0 {
		return nil, ErrAllocatorFailure
	}
	a.remaining--
	return newNode(value), nil
}

func (a *boundedAllocator[T]) Free(*node[T]) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.remaining++
}

var _ Allocator[int] = (*boundedAllocator[int])(nil)

func TestQueuePushAllocatorFailure(t *testing.T) {
	// One unit for the sentinel NewQueue allocates, one for the first Push.
	alloc := newBoundedAllocator[int](2)
	q := NewQueue[int](WithAllocator[int](alloc))

	if err := q.Push(1); err != nil {
		t.Fatalf("first Push: unexpected error: %v", err)
	}
	err := q.Push(2)
	if !IsAllocatorFailure(err) {
		t.Fatalf("second Push: err = %v, want ErrAllocatorFailure", err)
	}

	v, ok, err := q.Pop()
	if err != nil || !ok || v != 1 {
		t.Fatalf("Pop() = (%d, %v, %v), want (1, true, nil)", v, ok, err)
	}
}

func TestNodeLifecycleMonotonic(t *testing.T) {
	n := newNode(7)

	n.markRetired()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("markRetired a second time: want panic, got none")
			}
		}()
		n.markRetired()
	}()

	n.markReclaimed()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("markReclaimed a second time: want panic, got none")
			}
		}()
		n.markReclaimed()
	}()
}

func TestNodeReclaimBeforeRetirePanics(t *testing.T) {
	n := newNode(7)
	defer func() {
		if recover() == nil {
			t.Fatalf("markReclaimed before markRetired: want panic, got none")
		}
	}()
	n.markReclaimed()
}
