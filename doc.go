// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sham provides bounded multi-producer/multi-consumer queues
// designed to live inside a shared-memory region, plus the cross-process
// shared-memory primitives they build on.
//
// # Quick Start
//
// Two queue flavors are available:
//
//	q := sham.NewTurnQueue[Event](1024)  // fixed-size elements
//	bq := sham.NewByteQueue(128 << 10)   // variable-size byte payloads
//
// Both can also be placement-constructed inside a shared-memory [Buffer] so
// that producers and consumers running in different OS processes can
// exchange messages through them:
//
//	buf, err := sham.CreateBuffer("/orders", 4<<20)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer buf.Close()
//
//	q, ok := sham.NewTurnQueueIn[Order](buf, 4096)
//	if !ok {
//	    log.Fatal("arena exhausted")
//	}
//
// A second process attaches to the same region and reconstructs a handle
// over the same bytes at the same offset:
//
//	buf, err := sham.OpenBuffer("/orders", 4<<20)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer buf.Close()
//
//	q, ok := sham.AttachTurnQueue[Order](buf, 0, 4096)
//
// # Basic Usage
//
// TurnQueue has a two-tier API: non-blocking Try* variants that never
// block, and blocking Push/Pop variants that busy-wait until they can
// proceed. ByteQueue has only the non-blocking TryPush/TryPop.
//
//	val := Event{Seq: 1}
//	if !q.TryPush(val) {
//	    // queue is full — handle backpressure
//	}
//
//	elem, ok := q.TryPop()
//	if !ok {
//	    // queue is empty
//	}
//
// # Common Patterns
//
// Pipeline stage, one producer and one consumer goroutine in the same
// process:
//
//	q := sham.NewTurnQueue[Frame](1024)
//
//	go func() { // producer
//	    backoff := iox.Backoff{}
//	    for f := range frames {
//	        for !q.TryPush(f) {
//	            backoff.Wait()
//	        }
//	        backoff.Reset()
//	    }
//	}()
//
//	go func() { // consumer
//	    backoff := iox.Backoff{}
//	    for {
//	        f, ok := q.TryPop()
//	        if !ok {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        process(f)
//	    }
//	}()
//
// Cross-process hand-off through shared memory, producer side:
//
//	buf, _ := sham.CreateBuffer("/telemetry", 1<<20)
//	q, _ := sham.NewByteQueueIn(buf, 512<<10)
//	for _, rec := range records {
//	    for !q.TryPush(rec) {
//	        runtime.Gosched()
//	    }
//	}
//
// consumer process, attaching to the same name:
//
//	buf, _ := sham.OpenBuffer("/telemetry", 1<<20)
//	q, _ := sham.AttachByteQueue(buf, 0, 512<<10)
//	out := make([]byte, 4096)
//	for {
//	    n, ok := q.TryPop(out)
//	    if ok {
//	        handle(out[:n])
//	    }
//	}
//
// # Placement Construction
//
// [Buffer] is a bump-allocating arena over a mapped [Region]. Queues are
// constructed in place inside it with NewTurnQueueIn/NewByteQueueIn so that
// their entire state — slots, cursors, headers — lives at fixed byte
// offsets inside the region rather than behind a Go pointer. The handle a
// process holds (*TurnQueue[T], *ByteQueue) is local to that process and is
// never itself written into the region; a second process reconstructs an
// equivalent handle with AttachTurnQueue/AttachByteQueue at the same
// offset. See the package-level type docs on Region and Buffer for the
// ownership rules around Create vs AttachExisting.
//
// # Capacity
//
// TurnQueue's capacity is used as given (any value >= 1). ByteQueue's
// capacity must be a power of two and at least one cache line
// ([CacheLineSize], 128 bytes); NewByteQueue panics otherwise, and
// NewByteQueueIn/AttachByteQueue return ok=false.
//
// Neither queue grows or shrinks after construction: this package has no
// resizing path, matching the fixed-capacity-for-life contract a
// shared-memory object needs.
//
// # Error Handling
//
// Try* operations never fail beyond returning false/ok=false. Blocking
// Push/Pop spin indefinitely and do not return an error. Region and Buffer
// constructors return one of the sentinels in errors.go:
// ErrRegionNotFound, ErrRegionCreationFailed, ErrMapFailed,
// ErrInvalidCapacity. Close is idempotent and always succeeds; operating
// on a closed Region or Buffer afterward is a usage error the caller is
// responsible for avoiding, not a runtime condition this package detects.
//
// # Thread and Process Safety
//
// Both queue types are safe for any number of concurrent producer and
// consumer goroutines, whether confined to one process or spread across
// every process that has mapped the same Region. Coordination uses only
// atomics on fields inside the shared bytes — no locks, no OS-level
// wake-up. Blocking variants busy-wait; there is no park/unpark across
// processes.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives (mutex,
// channel, WaitGroup) but cannot observe the happens-before relationships
// established by acquire/release atomics on otherwise unrelated memory
// locations. The algorithms here are correct under the C/C++ and Go memory
// models, but tests that stress them under high contention report false
// positives under -race and are skipped via [RaceEnabled].
//
// # Dependencies
//
// The examples above and this package's tests use
// [code.hybscloud.com/iox] for backoff in polling loops. The package itself
// uses [code.hybscloud.com/atomix] for atomics on ordinary (non-shared-memory)
// fields, and [code.hybscloud.com/spin] for CPU pause instructions during
// CAS retries. Atomics inside a mapped Region use sync/atomic directly,
// addressed through unsafe.Pointer arithmetic, because their byte layout
// must match the documented cross-process contract regardless of any
// wrapper type's internal representation.
package sham
