// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hpqueue

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/spin"
)

// Queue is an unbounded, multi-producer multi-consumer FIFO built on the
// Michael–Scott lock-free algorithm and shielded by a hazard pointer
// Registry.
//
// Unlike a bounded, fixed-capacity ring buffer, Queue never blocks and
// never reports "full": Push always succeeds, subject only to allocator
// availability. Every participant may both push and pop, so Queue has no
// producer/consumer-cardinality variant family to select between.
//
// The zero value is not usable; construct with NewQueue.
type Queue[T any] struct {
	_            pad
	head         atomic.Pointer[node[T]]
	_            pad
	tail         atomic.Pointer[node[T]]
	_            pad
	registry     *Registry
	allocator    Allocator[T]
	participants sync.Pool
}

// NewQueue creates an empty Queue. By default nodes are shielded by the
// process-wide DefaultRegistry and allocated directly from the heap; use
// WithRegistry and WithAllocator to override either.
func NewQueue[T any](opts ...Option[T]) *Queue[T] {
	cfg := newConfig(opts)

	var zero T
	sentinel, err := cfg.allocator.Alloc(zero)
	if err != nil {
		// The default heapAllocator never fails; a custom allocator that
		// fails on its very first call cannot back a queue at all.
		panic("hpqueue: allocator failed constructing the sentinel: " + err.Error())
	}

	q := &Queue[T]{
		registry:  cfg.registry,
		allocator: cfg.allocator,
	}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	q.participants.New = func() any { return &Participant{} }
	return q
}

// Push appends value to the logical sequence. It always succeeds unless
// the configured Allocator fails, in which case ErrAllocatorFailure (or
// whatever error the allocator returns) propagates unchanged and the queue
// is left exactly as it was — no partial linkage has occurred.
//
// Linearization point: the compare-and-swap below that installs the new
// node as the successor of the observed last node.
func (q *Queue[T]) Push(value T) error {
	n, err := q.allocator.Alloc(value)
	if err != nil {
		return err
	}

	sw := spin.Wait{}
	for {
		last := q.tail.Load()
		next := last.next.Load()

		if last != q.tail.Load() {
			sw.Once()
			continue
		}

		if next == nil {
			// Tail points at the true last node: try to link the new node.
			if last.next.CompareAndSwap(nil, n) {
				// Best-effort: swing tail forward. Failure means another
				// participant already helped; that is not our problem.
				q.tail.CompareAndSwap(last, n)
				return nil
			}
		} else {
			// Tail is lagging behind the true last node. Help it catch up
			// before retrying our own link attempt.
			q.tail.CompareAndSwap(last, next)
		}
		sw.Once()
	}
}

// Pop removes and returns the oldest value in the queue. ok is false if
// the queue was empty at the linearization point — a normal outcome, not
// an error. err is non-nil only if the hazard pointer registry has no free
// slot (see ErrOutOfSlots); in a correctly dimensioned deployment this is
// unreachable.
//
// Pop obtains a Participant from an internal pool for the duration of the
// call. Long-lived goroutines that call Pop in a tight loop and want to
// skip that pool's indirection can maintain their own Participant and call
// PopWith instead.
func (q *Queue[T]) Pop() (value T, ok bool, err error) {
	p, _ := q.participants.Get().(*Participant)
	value, ok, err = q.PopWith(p)
	q.participants.Put(p)
	return value, ok, err
}

// PopWith is Pop using an explicitly supplied Participant instead of one
// drawn from Queue's internal pool. p's retired list persists across
// calls, so a goroutine that reuses the same Participant across many
// PopWith calls gets the amortized-scan behavior Registry.Retire
// describes; reusing p from more than one goroutine concurrently is not
// safe, since a participant's retired list is not synchronized.
func (q *Queue[T]) PopWith(p *Participant) (value T, ok bool, err error) {
	scoped, err := acquireScoped(q.registry, p)
	if err != nil {
		var zero T
		return zero, false, err
	}
	defer scoped.release()

	sw := spin.Wait{}
	for {
		first := q.head.Load()
		scoped.protect(unsafe.Pointer(first))

		// The hazard must be published before we can trust that first
		// has not already been retired; re-check head to close that
		// window.
		if first != q.head.Load() {
			sw.Once()
			continue
		}

		next := first.next.Load()
		if next == nil {
			var zero T
			return zero, false, nil
		}

		result := next.value // copy before the CAS: next may be concurrently reclaimed if we lose the race

		if q.head.CompareAndSwap(first, next) {
			scoped.protect(nil)
			first.markRetired()
			q.registry.Retire(p, unsafe.Pointer(first), func(ptr unsafe.Pointer) {
				n := (*node[T])(ptr)
				n.markReclaimed()
				q.allocator.Free(n)
			})
			return result, true, nil
		}
		sw.Once()
	}
}

// Close drains the queue, forces a reclamation scan for the participant
// that performed the drain, and destroys the final sentinel directly.
//
// Close is not thread-safe: no other participant may be operating on the
// queue concurrently with Close, and Close must not be called more than
// once. Violating either is undefined behavior.
func (q *Queue[T]) Close() {
	p := &Participant{}
	for {
		_, ok, err := q.PopWith(p)
		if err != nil || !ok {
			break
		}
	}
	q.registry.ForceCleanup(p)

	sentinel := q.head.Load()
	sentinel.markRetired()
	sentinel.markReclaimed()
	q.allocator.Free(sentinel)
}
