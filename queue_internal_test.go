// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hpqueue

import (
	"sync"
	"testing"
)

// TestQueueTailCatchesUpAfterContention exercises scenario 5 from the
// design notes: two producers contend on tail, each expected to help
// advance it whenever it observes the other's unlinked node still
// dangling off the true last node. After both producers quiesce, tail
// must point at the true last node of the chain — it must never be left
// indefinitely lagging.
func TestQueueTailCatchesUpAfterContention(t *testing.T) {
	if RaceEnabled {
		t.Skip("stress test incompatible with the race detector; see race.go")
	}

	const perProducer = 2000
	q := NewQueue[int]()

	var wg sync.WaitGroup
	for p := 0; p < 2; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Push(id*perProducer + i); err != nil {
					t.Errorf("producer %d: Push: %v", id, err)
					return
				}
			}
		}(p)
	}
	wg.Wait()

	// Walk the chain from head to find the true last node.
	last := q.head.Load()
	for {
		next := last.next.Load()
		if next == nil {
			break
		}
		last = next
	}

	if got := q.tail.Load(); got != last {
		t.Fatalf("tail lags the true last node after producers quiesced: tail = %p, true last = %p", got, last)
	}
}
