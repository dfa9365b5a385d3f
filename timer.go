// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sham

import (
	"time"

	"code.hybscloud.com/atomix"
)

// ScopedTimer captures a monotonic timestamp at construction and, on
// Stop, writes the elapsed nanoseconds into the slot given to
// [StartTimer]. It exists for benchmarks and tests only; it is never
// consulted by [TurnQueue] or [ByteQueue].
type ScopedTimer struct {
	start time.Time
	out   *int64
}

// StartTimer begins a scoped timing interval, returning a [ScopedTimer]
// whose Stop writes the elapsed time into out.
func StartTimer(out *int64) ScopedTimer {
	return ScopedTimer{start: time.Now(), out: out}
}

// Stop records the elapsed nanoseconds since StartTimer into the slot
// given to StartTimer.
func (t ScopedTimer) Stop() {
	if t.out != nil {
		*t.out = time.Since(t.start).Nanoseconds()
	}
}

// ResultAggregator accumulates total operations and total elapsed
// nanoseconds across any number of concurrent benchmark goroutines
// without a mutex, mirroring how the original benchmark harness folds
// per-thread timings into one report.
type ResultAggregator struct {
	ops   atomix.Int64
	_     pad
	nanos atomix.Int64
}

// Add accumulates one goroutine's contribution.
func (r *ResultAggregator) Add(ops int64, nanos int64) {
	r.ops.AddAcqRel(ops)
	r.nanos.AddAcqRel(nanos)
}

// Ops returns the accumulated operation count.
func (r *ResultAggregator) Ops() int64 { return r.ops.LoadAcquire() }

// Nanos returns the accumulated elapsed nanoseconds.
func (r *ResultAggregator) Nanos() int64 { return r.nanos.LoadAcquire() }

// OpsPerSecond returns the accumulated throughput. Returns 0 if no
// nanoseconds have been recorded yet.
func (r *ResultAggregator) OpsPerSecond() float64 {
	nanos := r.nanos.LoadAcquire()
	if nanos <= 0 {
		return 0
	}
	return float64(r.ops.LoadAcquire()) / (float64(nanos) / 1e9)
}
