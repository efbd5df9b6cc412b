// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hpqueue

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// nodePool is a bounded, multi-producer multi-consumer free list of
// reclaimed *node[T] values, adapted from the SCQ (Scalable Circular Queue)
// algorithm used by a general-purpose bounded MPMC ring buffer:
// Fetch-And-Add position counters and per-slot cycle tagging give ABA
// safety at 2n physical slots for n logical capacity.
//
// Unlike a value-copying ring slot, a nodePoolSlot stores a real *node[T]
// rather than a copy of T, so a successful get keeps the garbage
// collector's view of the node consistent throughout — no bit-cast
// pointer ever leaves Go's type system. There is no livelock threshold
// here: a pool miss just falls back to a fresh heap allocation in
// PooledAllocator, so contention costs a small allocation instead of an
// incorrect result, and the correctness-critical half of the SCQ
// algorithm — the stale-slot repair and tail catchup that make an
// empty-vs-full read race safe — is kept as is.
type nodePool[T any] struct {
	_        pad
	tail     atomix.Uint64
	_        pad
	head     atomix.Uint64
	_        pad
	buffer   []nodePoolSlot[T]
	capacity uint64
	size     uint64
	mask     uint64
}

type nodePoolSlot[T any] struct {
	cycle atomix.Uint64
	data  *node[T]
	_     padPtr
}

func newNodePool[T any](capacity int) *nodePool[T] {
	if capacity < 1 {
		capacity = 1
	}
	n := uint64(roundToPow2(capacity))
	size := n * 2

	p := &nodePool[T]{
		buffer:   make([]nodePoolSlot[T], size),
		capacity: n,
		size:     size,
		mask:     size - 1,
	}
	for i := uint64(0); i < size; i++ {
		p.buffer[i].cycle.StoreRelaxed(i / n)
	}
	return p
}

// put returns n to the pool. If the pool is at capacity, or the slot put
// claims still holds a node no get has taken yet, put reports false and the
// caller is expected to let n be collected normally.
func (p *nodePool[T]) put(n *node[T]) bool {
	sw := spin.Wait{}
	for {
		tail := p.tail.LoadAcquire()
		head := p.head.LoadAcquire()
		if tail >= head+p.capacity {
			return false
		}

		myTail := p.tail.AddAcqRel(1) - 1
		slot := &p.buffer[myTail&p.mask]
		expectedCycle := myTail / p.capacity
		slotCycle := slot.cycle.LoadAcquire()

		if slotCycle == expectedCycle {
			slot.data = n
			slot.cycle.StoreRelease(expectedCycle + 1)
			return true
		}
		if int64(slotCycle) < int64(expectedCycle) {
			return false
		}
		sw.Once()
	}
}

// get removes and returns a node from the pool, or reports false if empty.
func (p *nodePool[T]) get() (*node[T], bool) {
	sw := spin.Wait{}
	for {
		myHead := p.head.AddAcqRel(1) - 1
		slot := &p.buffer[myHead&p.mask]
		expectedCycle := myHead/p.capacity + 1
		slotCycle := slot.cycle.LoadAcquire()

		if slotCycle == expectedCycle {
			n := slot.data
			slot.data = nil
			nextEnqCycle := (myHead + p.size) / p.capacity
			slot.cycle.StoreRelease(nextEnqCycle)
			return n, true
		}

		if int64(slotCycle) < int64(expectedCycle) {
			nextEnqCycle := (myHead + p.size) / p.capacity
			slot.cycle.CompareAndSwapAcqRel(slotCycle, nextEnqCycle)

			tail := p.tail.LoadAcquire()
			if tail <= myHead+1 {
				p.catchup(tail, myHead+1)
				return nil, false
			}
		}
		sw.Once()
	}
}

func (p *nodePool[T]) catchup(tail, head uint64) {
	for tail < head {
		if p.tail.CompareAndSwapRelaxed(tail, head) {
			break
		}
		tail = p.tail.LoadRelaxed()
		head = p.head.LoadRelaxed()
	}
}
