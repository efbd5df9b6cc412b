// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hpqueue

// Producer is the interface for appending values to a queue. Queue
// satisfies it directly; code that only ever pushes can depend on the
// narrower interface instead of the concrete type.
type Producer[T any] interface {
	// Push appends value to the logical sequence. See Queue.Push.
	Push(value T) error
}

// Consumer is the interface for removing values from a queue. Queue
// satisfies it directly; code that only ever pops can depend on the
// narrower interface instead of the concrete type.
type Consumer[T any] interface {
	// Pop removes and returns the oldest value. See Queue.Pop.
	Pop() (value T, ok bool, err error)
}

var (
	_ Producer[int] = (*Queue[int])(nil)
	_ Consumer[int] = (*Queue[int])(nil)
)
