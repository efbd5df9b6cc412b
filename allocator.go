// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hpqueue

// Allocator supplies and reclaims the nodes a Queue links into its chain.
// Node allocation sits on the hot path of Push, so implementations are
// free to substitute a pooled allocator; doing so must preserve the
// invariant that a node's address is not reused until the registry has
// certified it non-hazardous, which is exactly when Queue calls Free.
type Allocator[T any] interface {
	// Alloc returns a new live node holding value, or ErrAllocatorFailure
	// if the allocator is exhausted. On failure the queue is left
	// untouched: no partial linkage has occurred yet.
	Alloc(value T) (*node[T], error)

	// Free is called once a node has been certified non-hazardous by the
	// registry's scan (or, for the final sentinel, directly by Close). The
	// node's state is nodeReclaimed; implementations that recycle nodes
	// must reset it to nodeLive before handing it out again from Alloc.
	Free(n *node[T])
}

// heapAllocator is the default Allocator: every Alloc is a fresh heap
// allocation, and Free drops the node for the garbage collector to
// reclaim in the ordinary way. It never fails.
type heapAllocator[T any] struct{}

func (heapAllocator[T]) Alloc(value T) (*node[T], error) {
	return newNode(value), nil
}

func (heapAllocator[T]) Free(*node[T]) {}

// PooledAllocator recycles reclaimed nodes through a bounded, lock-free
// free list (see nodePool) instead of leaving every node to the garbage
// collector. Alloc first tries the pool; on a miss it falls back to a
// fresh heap allocation, so PooledAllocator never fails due to pool
// exhaustion — only an Allocator deliberately built with a hard cap (as
// tests use to exercise ErrAllocatorFailure) fails.
//
// This is the allocator substitution Design Notes anticipates: hazard
// pointers are what make recycling a node back into circulation safe while
// other participants might still be mid-traversal over it.
type PooledAllocator[T any] struct {
	pool *nodePool[T]
}

// NewPooledAllocator creates a PooledAllocator whose free list holds up to
// capacity reclaimed nodes (rounded up to a power of two, at least 2)
// before Free starts dropping nodes for ordinary collection instead.
func NewPooledAllocator[T any](capacity int) *PooledAllocator[T] {
	return &PooledAllocator[T]{pool: newNodePool[T](capacity)}
}

func (a *PooledAllocator[T]) Alloc(value T) (*node[T], error) {
	if n, ok := a.pool.get(); ok {
		n.value = value
		n.next.Store(nil)
		n.state.Store(int32(nodeLive))
		return n, nil
	}
	return newNode(value), nil
}

func (a *PooledAllocator[T]) Free(n *node[T]) {
	if !a.pool.put(n) {
		return // pool full: let the garbage collector take it from here
	}
}
