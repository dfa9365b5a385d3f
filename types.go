// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sham

// FixedQueue is the interface implemented by [TurnQueue].
//
// All operations are safe for any number of concurrent producers and any
// number of concurrent consumers. The interface intentionally excludes an
// exact Len: Size is a best-effort snapshot, documented on Size itself.
type FixedQueue[T any] interface {
	// TryPush adds an element (non-blocking).
	// Returns false if the queue is full.
	TryPush(elem T) bool
	// Push adds an element, busy-waiting until a slot is available.
	Push(elem T)
	// TryPop removes and returns an element (non-blocking).
	// Returns (zero-value, false) if the queue is empty.
	TryPop() (T, bool)
	// Pop removes and returns an element, busy-waiting until one is
	// available.
	Pop() T
	// Size returns a best-effort element count; may be negative when
	// consumers are waiting ahead of any published element.
	Size() int
	// Empty reports whether Size() <= 0.
	Empty() bool
	// Cap returns the queue's usable capacity.
	Cap() int
}

// StreamQueue is the interface implemented by [ByteQueue].
//
// Unlike FixedQueue, elements are variable-length byte payloads rather than
// a fixed Go type, so payloads move through plain []byte rather than a
// generic T.
type StreamQueue interface {
	// TryPush enqueues one payload of len(data) bytes (non-blocking).
	// Returns false if the queue cannot currently fit the payload.
	TryPush(data []byte) bool
	// TryPop copies the oldest published payload into buf and returns its
	// length. Returns (0, false) if no payload is ready; buf must be at
	// least as large as the payload or TryPop panics.
	TryPop(buf []byte) (int, bool)
	// Size returns a best-effort occupied-byte count (head - tail).
	Size() int
	// Empty reports whether Size() <= 0.
	Empty() bool
	// Cap returns the ring's usable byte capacity.
	Cap() int
}
