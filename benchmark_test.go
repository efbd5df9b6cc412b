// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hpqueue_test

import (
	"runtime"
	"sync"
	"testing"

	"code.hybscloud.com/hpqueue"
	"code.hybscloud.com/spin"
)

// =============================================================================
// Single-goroutine baseline
// =============================================================================

func BenchmarkQueuePushPop(b *testing.B) {
	q := hpqueue.NewQueue[int]()

	b.ResetTimer()
	for i := range b.N {
		q.Push(i)
		q.Pop()
	}
}

func BenchmarkQueuePushPopPooledAllocator(b *testing.B) {
	q := hpqueue.NewQueue[int](hpqueue.WithAllocator[int](hpqueue.NewPooledAllocator[int](1024)))

	b.ResetTimer()
	for i := range b.N {
		q.Push(i)
		q.Pop()
	}
}

// =============================================================================
// Concurrent producer/consumer
// =============================================================================

func BenchmarkQueueParallel(b *testing.B) {
	q := hpqueue.NewQueue[int]()
	numProducers := runtime.GOMAXPROCS(0) / 2
	numConsumers := runtime.GOMAXPROCS(0) / 2
	if numProducers < 1 {
		numProducers = 1
	}
	if numConsumers < 1 {
		numConsumers = 1
	}

	opsPerProducer := b.N / numProducers
	if opsPerProducer < 1 {
		opsPerProducer = 1
	}

	b.ResetTimer()

	var producerWg, consumerWg sync.WaitGroup

	done := make(chan struct{})
	for range numConsumers {
		consumerWg.Add(1)
		go func() {
			defer consumerWg.Done()
			sw := spin.Wait{}
			for {
				select {
				case <-done:
					return
				default:
				}
				if _, ok, _ := q.Pop(); !ok {
					sw.Once()
				}
			}
		}()
	}

	for range numProducers {
		producerWg.Add(1)
		go func() {
			defer producerWg.Done()
			for i := 0; i < opsPerProducer; i++ {
				q.Push(i)
			}
		}()
	}

	producerWg.Wait()
	close(done)
	consumerWg.Wait()
}

// BenchmarkQueuePush_RunParallel uses testing.B's own parallel driver, the
// idiomatic alternative to hand-rolled goroutines for a pure-producer
// workload with no result to drain.
func BenchmarkQueuePush_RunParallel(b *testing.B) {
	q := hpqueue.NewQueue[int]()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			q.Push(i)
			i++
		}
	})
}

// =============================================================================
// Allocation profile
// =============================================================================

func BenchmarkQueuePushPopAllocs(b *testing.B) {
	q := hpqueue.NewQueue[int]()

	allocs := testing.AllocsPerRun(b.N, func() {
		q.Push(1)
		q.Pop()
	})
	b.ReportMetric(allocs, "allocs/op")
}
