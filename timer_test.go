// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sham_test

import (
	"sync"
	"testing"
	"time"

	"github.com/pierricgimmig/sham"
)

func TestScopedTimerRecordsElapsed(t *testing.T) {
	var nanos int64
	timer := sham.StartTimer(&nanos)
	time.Sleep(time.Millisecond)
	timer.Stop()

	if nanos <= 0 {
		t.Fatalf("nanos = %d, want > 0", nanos)
	}
}

func TestResultAggregatorAccumulates(t *testing.T) {
	var agg sham.ResultAggregator
	const goroutines = 8
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.Add(100, int64(time.Millisecond))
		}()
	}
	wg.Wait()

	if got := agg.Ops(); got != goroutines*100 {
		t.Fatalf("Ops: got %d, want %d", got, goroutines*100)
	}
	if agg.OpsPerSecond() <= 0 {
		t.Fatalf("OpsPerSecond: got %v, want > 0", agg.OpsPerSecond())
	}
}

func TestResultAggregatorZeroNanos(t *testing.T) {
	var agg sham.ResultAggregator
	if agg.OpsPerSecond() != 0 {
		t.Fatalf("OpsPerSecond with no recorded time: got %v, want 0", agg.OpsPerSecond())
	}
}
