// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hpqueue provides an unbounded, multi-producer multi-consumer
// lock-free FIFO queue, safe for concurrent use without garbage-collector
// assistance pausing any participant: deletion is mediated by a hazard
// pointer Registry instead.
//
// # Quick Start
//
//	q := hpqueue.NewQueue[Event]()
//
//	// Producers
//	err := q.Push(ev)
//
//	// Consumers
//	value, ok, err := q.Pop()
//	if ok {
//	    process(value)
//	}
//
//	// Shutdown, once no other goroutine touches q again
//	q.Close()
//
// # Algorithm
//
// Push and Pop implement the Michael–Scott lock-free queue: a singly
// linked list with a sentinel node, head and tail pointers advanced with
// compare-and-swap, and tail-lag helping — a producer that observes tail
// pointing somewhere other than the true last node helps swing tail
// forward before retrying its own link, so no producer ever blocks on
// another's slow compare-and-swap.
//
// What the algorithm does not solve is when it is safe to free a node
// that has been unlinked from the list: another goroutine may already be
// mid-traversal over it. Queue answers that with the hazard pointer
// scheme from registry.go — every Pop traversal publishes the node address
// it is about to dereference to a process-wide Registry before
// dereferencing it (Push holds no hazard slot), and Pop defers the actual free until a Registry.Scan certifies that
// no published hazard pointer names that address anymore.
//
// # Participants
//
// Most callers never see a Participant: Pop draws one transparently from
// an internal pool for the duration of each call. Long-lived worker
// goroutines that call Pop in a tight loop can instead keep one
// Participant of their own and call PopWith, which amortizes the pool's
// indirection and lets Registry.Retire's scan-threshold batching work
// across many calls instead of one.
//
// # Allocation
//
// By default every Push allocates a fresh node on the heap and every
// reclaimed node is simply dropped for the garbage collector. PooledAllocator
// substitutes a bounded lock-free free list so that steady-state traffic
// recycles node memory instead of allocating and collecting continuously;
// see WithAllocator.
//
// # Error Handling
//
// Push returns whatever error the configured Allocator reports; with the
// default allocator this is always nil. Pop returns a non-nil error only
// when the hazard pointer registry has no free slot for a new Participant
// (ErrOutOfSlots) — a symptom of misconfiguration (too many concurrent
// participants for the registry's capacity), not of ordinary queue
// traffic. An empty queue is reported as (zero value, false, nil), not an
// error: see [code.hybscloud.com/iox]'s distinction between semantic
// control-flow signals and real failures, which IsRetryable delegates to.
//
// # Thread Safety
//
// Push, Pop, and PopWith are safe for any number of concurrent producer
// and consumer goroutines. Close is not: it must run with no concurrent
// Push, Pop, or PopWith in flight, and must run at most once per Queue.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for atomic primitives with
// explicit memory ordering on every field that is not itself a pointer
// needing to remain a garbage-collector root, [code.hybscloud.com/spin]
// for CPU pause instructions in compare-and-swap retry loops, and
// [code.hybscloud.com/iox] for semantic error classification.
package hpqueue
