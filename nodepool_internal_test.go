// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hpqueue

import (
	"sync"
	"testing"
)

func TestNodePoolPutGetRoundTrip(t *testing.T) {
	p := newNodePool[int](4)

	n := newNode(9)
	if !p.put(n) {
		t.Fatalf("put on a fresh pool reported false")
	}
	got, ok := p.get()
	if !ok {
		t.Fatalf("get after put reported false")
	}
	if got != n {
		t.Fatalf("get returned a different node than was put")
	}
}

func TestNodePoolGetOnEmptyReportsFalse(t *testing.T) {
	p := newNodePool[int](4)
	if _, ok := p.get(); ok {
		t.Fatalf("get on empty pool reported true")
	}
}

func TestNodePoolPutBeyondCapacityReportsFalse(t *testing.T) {
	p := newNodePool[int](2) // rounds up to 2, so capacity is 2

	for i := 0; i < 2; i++ {
		if !p.put(newNode(i)) {
			t.Fatalf("put %d: unexpected false within capacity", i)
		}
	}
	if p.put(newNode(99)) {
		t.Fatalf("put beyond capacity reported true")
	}
}

func TestNodePoolConcurrentPutGet(t *testing.T) {
	if RaceEnabled {
		t.Skip("stress test incompatible with the race detector")
	}

	const capacity = 64
	const ops = 2000
	p := newNodePool[int](capacity)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < ops; i++ {
				n := newNode(id*ops + i)
				if p.put(n) {
					p.get()
				}
			}
		}(g)
	}
	wg.Wait()
}
