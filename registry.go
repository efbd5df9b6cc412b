// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hpqueue

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/atomix"
)

// DefaultSlotCapacity is the slot count of the process-wide default
// registry returned by DefaultRegistry. It is a tunable constant, not
// runtime configuration: build your own Registry with NewRegistry if a
// different capacity or threshold is needed.
const DefaultSlotCapacity = 100

// DefaultScanThreshold is the per-participant retired-list length, reached
// by Retire, that triggers a Scan for the process-wide default registry.
const DefaultScanThreshold = 10

// Slot is a hazard slot: one atomic owner identity plus one atomic snapshot
// of the pointer its owner is about to dereference.
//
// ptr is deliberately typed unsafe.Pointer and mutated only through
// sync/atomic's Pointer functions rather than through an atomix fixed-width
// type. A Registry is shared by queues over arbitrary element types T, so
// a single Slot table cannot be generic over T; representing the protected
// address as a real (if type-erased) pointer keeps it a garbage-collector
// root for as long as it is published here, which is the property this
// whole subsystem exists to provide. See DESIGN.md.
type Slot struct {
	_     pad
	owner atomix.Uintptr // identity of the owning participant, 0 == free
	_     pad
	ptr   unsafe.Pointer // protected pointer snapshot, nil == none
	_     padPtr
}

func (s *Slot) tryAcquire(owner uintptr) bool {
	return s.owner.CompareAndSwapAcqRel(0, owner)
}

func (s *Slot) protect(p unsafe.Pointer) {
	atomic.StorePointer(&s.ptr, p)
}

func (s *Slot) protected() unsafe.Pointer {
	return atomic.LoadPointer(&s.ptr)
}

func (s *Slot) free() {
	atomic.StorePointer(&s.ptr, nil)
	s.owner.StoreRelease(0)
}

// retireEntry is one (pointer, destructor) pair awaiting reclamation. It is
// never accessed outside the participant that retired it, so it carries no
// synchronization of its own.
type retireEntry struct {
	ptr     unsafe.Pointer
	destroy func(unsafe.Pointer)
}

// Participant is the ambient, per-goroutine collaborator the registry's
// per-participant bookkeeping is modeled against: a private retired list
// and the identity used to claim hazard slots. Most callers never construct
// one directly — Queue.Pop obtains one transparently from an internal pool
// — but long-lived workers that want to avoid that pool's indirection can
// create one and drive the queue through PopWith.
type Participant struct {
	retired []retireEntry
}

// identity returns a process-unique, non-zero value naming this
// participant, used as the hazard slot's owner tag.
func (p *Participant) identity() uintptr {
	return uintptr(unsafe.Pointer(p))
}

// Registry is a fixed-capacity table of hazard slots. It mediates deletion
// of pointers that may still be observed concurrently by other
// participants. A Registry is ordinarily process-wide and shared by every
// queue that cares about the same universe of pointers (see
// DefaultRegistry), but independent subsystems that want isolated hazard
// tables can construct their own with NewRegistry.
type Registry struct {
	slots     []Slot
	threshold int
}

// NewRegistry creates an independent registry with the given slot capacity
// and scan amortization threshold. Panics if capacity < 1 or threshold < 1.
func NewRegistry(capacity, threshold int) *Registry {
	if capacity < 1 {
		panic("hpqueue: registry capacity must be >= 1")
	}
	if threshold < 1 {
		panic("hpqueue: registry scan threshold must be >= 1")
	}
	return &Registry{
		slots:     make([]Slot, capacity),
		threshold: threshold,
	}
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistryVal  *Registry
)

// DefaultRegistry returns the lazily initialized, process-wide hazard
// pointer registry shared by queues constructed without an explicit
// Registry option. It is created exactly once, on first use, with
// DefaultSlotCapacity slots and DefaultScanThreshold as its scan
// amortization threshold, and lives for the remainder of the process.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistryVal = NewRegistry(DefaultSlotCapacity, DefaultScanThreshold)
	})
	return defaultRegistryVal
}

// Acquire claims a free slot for p. Returns ErrOutOfSlots if every slot in
// the table is currently owned.
func (r *Registry) Acquire(p *Participant) (*Slot, error) {
	owner := p.identity()
	for i := range r.slots {
		slot := &r.slots[i]
		if slot.tryAcquire(owner) {
			return slot, nil
		}
	}
	return nil, ErrOutOfSlots
}

// Release clears slot's protected pointer (release-ordered) and then
// returns it to the free pool. The caller must not read or write the slot
// again afterward.
func (r *Registry) Release(slot *Slot) {
	slot.free()
}

// IsHazard reports whether any slot in the table currently protects p.
func (r *Registry) IsHazard(p unsafe.Pointer) bool {
	for i := range r.slots {
		if r.slots[i].protected() == p {
			return true
		}
	}
	return false
}

// Retire appends (ptr, destroy) to participant's retired list. Once that
// list's length reaches the registry's scan threshold, a Scan runs
// immediately, amortizing scan cost across threshold retires.
func (r *Registry) Retire(participant *Participant, ptr unsafe.Pointer, destroy func(unsafe.Pointer)) {
	participant.retired = append(participant.retired, retireEntry{ptr: ptr, destroy: destroy})
	if len(participant.retired) >= r.threshold {
		r.Scan(participant)
	}
}

// Scan walks participant's retired list, destroying and removing every
// entry that is not currently hazardous. Entries still protected by some
// slot remain retired for a later scan. Scan is idempotent with respect to
// the entries it removes.
func (r *Registry) Scan(participant *Participant) {
	kept := participant.retired[:0]
	for _, entry := range participant.retired {
		if r.IsHazard(entry.ptr) {
			kept = append(kept, entry)
			continue
		}
		entry.destroy(entry.ptr)
	}
	participant.retired = kept
}

// ForceCleanup runs an unconditional Scan for participant regardless of its
// retired list's length, intended for deterministic teardown paths such as
// Queue.Close. A second call immediately following reclaims nothing new: it
// is idempotent for the same reason Scan is.
func (r *Registry) ForceCleanup(participant *Participant) {
	r.Scan(participant)
}

// scopedSlot is the canonical interface consumers use to hold a hazard
// slot for the duration of one pointer traversal: constructing it acquires
// a slot, and release clears the slot and returns it on every exit path,
// including early returns. The slot stays held across retries after a
// failed CAS and is released only once the traversal returns.
type scopedSlot struct {
	registry *Registry
	slot     *Slot
}

func acquireScoped(r *Registry, p *Participant) (*scopedSlot, error) {
	slot, err := r.Acquire(p)
	if err != nil {
		return nil, err
	}
	return &scopedSlot{registry: r, slot: slot}, nil
}

func (s *scopedSlot) protect(p unsafe.Pointer) {
	s.slot.protect(p)
}

func (s *scopedSlot) release() {
	s.registry.Release(s.slot)
}
