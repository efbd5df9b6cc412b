// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hpqueue

import "unsafe"

// config holds the pieces of a Queue that are worth varying across
// instances: which hazard pointer registry it shields its nodes with, and
// which allocator supplies those nodes. Both default to process-wide,
// general-purpose choices.
type config[T any] struct {
	registry  *Registry
	allocator Allocator[T]
}

// Option configures a Queue at construction time.
type Option[T any] func(*config[T])

// WithRegistry shields the queue's nodes with registry instead of the
// process-wide DefaultRegistry. Use this when independent subsystems in
// the same process should not share a hazard slot table — see Design
// Notes in DESIGN.md on the process-wide singleton.
func WithRegistry[T any](registry *Registry) Option[T] {
	return func(c *config[T]) {
		c.registry = registry
	}
}

// WithAllocator supplies the queue's nodes from allocator instead of the
// default direct heap allocator. See PooledAllocator for a bundled
// recycling allocator.
func WithAllocator[T any](allocator Allocator[T]) Option[T] {
	return func(c *config[T]) {
		c.allocator = allocator
	}
}

func newConfig[T any](opts []Option[T]) config[T] {
	c := config[T]{
		registry:  DefaultRegistry(),
		allocator: heapAllocator[T]{},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// roundToPow2 rounds n up to the next power of 2, with a minimum of 2.
// Shared by nodePool,
// whose SCQ layout requires a power-of-2 slot count for its mask-based
// indexing.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padPtr is padding to fill a cache line after a pointer-sized field.
type padPtr [64 - ptrSize]byte
