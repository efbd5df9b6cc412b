// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hpqueue

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// nodeState tags the lifecycle of a node. The transitions live -> retired ->
// reclaimed are monotonic; a node never moves backward and is never
// destroyed twice. See Design Notes on node ownership in DESIGN.md.
type nodeState int32

const (
	nodeLive nodeState = iota
	nodeRetired
	nodeReclaimed
)

// node is one element of the queue's singly linked chain, or the sentinel.
//
// next is a real *node[T]-typed atomic field, not a bit-cast integer: a
// node reachable only through a hazard slot or another node's next field
// must remain visible to the garbage collector for as long as some
// participant might still dereference it. See DESIGN.md's "Pointer
// safety" entry for why this package does not route node pointers
// through atomix.Uintptr the way some bounded variants route opaque
// uintptr payloads.
type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
	state atomix.Int32
}

func newNode[T any](value T) *node[T] {
	n := &node[T]{value: value}
	n.state.Store(int32(nodeLive))
	return n
}

// markRetired transitions a node from live to retired. It is called exactly
// once, by the dequeuer that unlinked the node, before handing it to the
// registry's retired list.
func (n *node[T]) markRetired() {
	if !n.state.CompareAndSwapRelaxed(int32(nodeLive), int32(nodeRetired)) {
		panic("hpqueue: node retired twice")
	}
}

// markReclaimed transitions a node from retired to reclaimed. It is called
// exactly once, by the registry's scan, immediately before the node's last
// reference is dropped.
func (n *node[T]) markReclaimed() {
	if !n.state.CompareAndSwapRelaxed(int32(nodeRetired), int32(nodeReclaimed)) {
		panic("hpqueue: node reclaimed twice, or reclaimed before retirement")
	}
}
