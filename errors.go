// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hpqueue

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrOutOfSlots is returned by Pop when the hazard pointer registry has no
// free slot at the moment of acquire.
//
// Non-recoverable at the call site: the caller's Pop has already failed and
// must be retried by the application (typically after other participants
// release slots). In a correctly dimensioned deployment, where slot capacity
// is at least the number of concurrently active participants, ErrOutOfSlots
// is unreachable. Push never acquires a slot and cannot observe it.
var ErrOutOfSlots = errors.New("hpqueue: hazard pointer registry has no free slot")

// ErrAllocatorFailure is returned by Push when node allocation fails.
//
// Propagated to the caller unchanged; queue invariants are preserved because
// no partial linkage has occurred when allocation fails. The default
// allocator never returns this error, and neither does [PooledAllocator],
// which falls back to the heap on a pool miss; it is reachable when Queue
// is built with an Allocator that has a hard capacity.
var ErrAllocatorFailure = errors.New("hpqueue: node allocator failed")

// IsOutOfSlots reports whether err is ErrOutOfSlots, unwrapping as needed.
func IsOutOfSlots(err error) bool {
	return errors.Is(err, ErrOutOfSlots)
}

// IsAllocatorFailure reports whether err is ErrAllocatorFailure, unwrapping
// as needed.
func IsAllocatorFailure(err error) bool {
	return errors.Is(err, ErrAllocatorFailure)
}

// IsRetryable classifies err as a condition the caller should retry rather
// than treat as a terminal failure. It delegates to [iox.IsSemantic] for
// ecosystem consistency with other code.hybscloud.com packages; neither of
// this package's own sentinel errors is a retryable control-flow signal, so
// this only returns true for wrapped errors the iox ecosystem itself
// classifies as semantic.
func IsRetryable(err error) bool {
	return iox.IsSemantic(err)
}
