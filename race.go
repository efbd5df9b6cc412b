// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package hpqueue

// RaceEnabled is true when the race detector is active.
// Used by tests to skip stress tests that race over hazard slots and
// retired-list bookkeeping, which the race detector cannot interpret
// correctly: it has no model for the acquire-release discipline a Registry
// uses instead of a mutex.
const RaceEnabled = true
