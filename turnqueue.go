// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sham

import (
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/spin"
)

// TurnQueue is a bounded multi-producer multi-consumer queue of
// fixed-size elements using per-slot turn sequencing.
//
// Its entire state — the slot array, turn counters, head and tail — lives
// in a single contiguous byte range that can be placement-constructed
// either on the Go heap ([NewTurnQueue]) or inside a shared-memory
// [Buffer] ([NewTurnQueueIn], [AttachTurnQueue]). T must hold no Go
// pointers, slices, or interface values: that range may live outside the
// Go heap, where the garbage collector never looks.
//
// TurnQueue implements [FixedQueue].
type TurnQueue[T any] struct {
	base      unsafe.Pointer
	capacity  uint64
	internalN uint64
	stride    uint64
	headOff   uint64
	tailOff   uint64
	backing   []byte
}

// turnQueueLayout computes the byte layout for a TurnQueue of the given
// user-visible capacity, per the normative table: slots[] (each a
// multiple of [CacheLineSize]), then head, then tail, head and tail each
// padded to a full cache line.
func turnQueueLayout[T any](capacity int) (internalN, stride, headOff, tailOff, total uint64) {
	var zero T
	elemSize := uint64(unsafe.Sizeof(zero))
	elemAlign := uint64(unsafe.Alignof(zero))
	dataOff := alignUp(8, uintptr(elemAlign))
	stride = uint64(alignUp(uintptr(dataOff)+uintptr(elemSize), CacheLineSize))
	internalN = uint64(capacity) + 1
	headOff = internalN * stride
	tailOff = headOff + CacheLineSize
	total = tailOff + CacheLineSize
	return
}

func newTurnQueueOver[T any](base unsafe.Pointer, capacity int) *TurnQueue[T] {
	internalN, stride, headOff, tailOff, _ := turnQueueLayout[T](capacity)
	return &TurnQueue[T]{
		base:      base,
		capacity:  uint64(capacity),
		internalN: internalN,
		stride:    stride,
		headOff:   headOff,
		tailOff:   tailOff,
	}
}

// NewTurnQueue creates a heap-backed TurnQueue of the given capacity
// (element count, >= 1). Panics if capacity < 1.
func NewTurnQueue[T any](capacity int) *TurnQueue[T] {
	if capacity < 1 {
		panic("sham: capacity must be >= 1")
	}
	_, _, _, _, total := turnQueueLayout[T](capacity)
	backing := make([]byte, total)
	q := newTurnQueueOver[T](unsafe.Pointer(&backing[0]), capacity)
	q.backing = backing
	return q
}

// NewTurnQueueIn placement-constructs a TurnQueue of the given capacity
// inside buf. Returns ok=false if buf's remaining capacity is
// insufficient or capacity < 1.
func NewTurnQueueIn[T any](buf *Buffer, capacity int) (*TurnQueue[T], bool) {
	if capacity < 1 {
		return nil, false
	}
	_, _, _, _, total := turnQueueLayout[T](capacity)
	ptr := buf.Allocate(int64(total))
	if ptr == nil {
		return nil, false
	}
	return newTurnQueueOver[T](ptr, capacity), true
}

// AttachTurnQueue reconstructs a handle over a TurnQueue of the given
// capacity previously constructed with [NewTurnQueueIn] at offset inside
// buf. Both processes must agree on T and capacity; nothing in the
// region's bytes records them.
func AttachTurnQueue[T any](buf *Buffer, offset int64, capacity int) (*TurnQueue[T], bool) {
	if capacity < 1 {
		return nil, false
	}
	_, _, _, _, total := turnQueueLayout[T](capacity)
	ptr := ViewAs[byte](buf, offset)
	if ptr == nil || offset+int64(total) > buf.Capacity() {
		return nil, false
	}
	return newTurnQueueOver[T](unsafe.Pointer(ptr), capacity), true
}

func (q *TurnQueue[T]) slotTurn(i uint64) *atomic.Uint64 {
	return (*atomic.Uint64)(unsafe.Add(q.base, uintptr(i)*uintptr(q.stride)))
}

func (q *TurnQueue[T]) slotData(i uint64) *T {
	return (*T)(unsafe.Add(q.base, uintptr(i)*uintptr(q.stride)+8))
}

func (q *TurnQueue[T]) head() *atomic.Uint64 {
	return (*atomic.Uint64)(unsafe.Add(q.base, uintptr(q.headOff)))
}

func (q *TurnQueue[T]) tail() *atomic.Uint64 {
	return (*atomic.Uint64)(unsafe.Add(q.base, uintptr(q.tailOff)))
}

// TryPush adds an element without blocking. Returns false if the queue is
// full.
func (q *TurnQueue[T]) TryPush(elem T) bool {
	headPtr := q.head()
	tailPtr := q.tail()
	head := headPtr.Load()
	sw := spin.Wait{}
	for {
		if int64(head-tailPtr.Load()) >= int64(q.capacity) {
			return false
		}
		i := head % q.internalN
		round := head / q.internalN
		turnPtr := q.slotTurn(i)
		if turnPtr.Load() == round*2 {
			if headPtr.CompareAndSwap(head, head+1) {
				*q.slotData(i) = elem
				turnPtr.Store(round*2 + 1)
				return true
			}
			head = headPtr.Load()
			sw.Once()
			continue
		}
		prev := head
		head = headPtr.Load()
		if head == prev {
			return false
		}
	}
}

// Push adds an element, busy-waiting until a slot is available.
func (q *TurnQueue[T]) Push(elem T) {
	headPtr := q.head()
	head := headPtr.Add(1) - 1
	i := head % q.internalN
	round := head / q.internalN
	turnPtr := q.slotTurn(i)
	sw := spin.Wait{}
	tailPtr := q.tail()
	for int64(head-tailPtr.Load()) >= int64(q.capacity) {
		sw.Once()
	}
	for turnPtr.Load() != round*2 {
		sw.Once()
	}
	*q.slotData(i) = elem
	turnPtr.Store(round*2 + 1)
}

// TryPop removes and returns an element without blocking. Returns
// (zero-value, false) if the queue is empty.
func (q *TurnQueue[T]) TryPop() (T, bool) {
	tailPtr := q.tail()
	tail := tailPtr.Load()
	sw := spin.Wait{}
	for {
		i := tail % q.internalN
		round := tail / q.internalN
		turnPtr := q.slotTurn(i)
		if turnPtr.Load() == round*2+1 {
			if tailPtr.CompareAndSwap(tail, tail+1) {
				elem := *q.slotData(i)
				var zero T
				*q.slotData(i) = zero
				turnPtr.Store(round*2 + 2)
				return elem, true
			}
			tail = tailPtr.Load()
			sw.Once()
			continue
		}
		prev := tail
		tail = tailPtr.Load()
		if tail == prev {
			var zero T
			return zero, false
		}
	}
}

// Pop removes and returns an element, busy-waiting until one is
// available.
func (q *TurnQueue[T]) Pop() T {
	tailPtr := q.tail()
	tail := tailPtr.Add(1) - 1
	i := tail % q.internalN
	round := tail / q.internalN
	turnPtr := q.slotTurn(i)
	sw := spin.Wait{}
	for turnPtr.Load() != round*2+1 {
		sw.Once()
	}
	elem := *q.slotData(i)
	var zero T
	*q.slotData(i) = zero
	turnPtr.Store(round*2 + 2)
	return elem
}

// Size returns a best-effort element count (head - tail); it may be
// negative when consumers are waiting ahead of any published element.
func (q *TurnQueue[T]) Size() int {
	head := q.head().Load()
	tail := q.tail().Load()
	return int(int64(head) - int64(tail))
}

// Empty reports whether Size() <= 0.
func (q *TurnQueue[T]) Empty() bool { return q.Size() <= 0 }

// Cap returns the queue's usable capacity.
func (q *TurnQueue[T]) Cap() int { return int(q.capacity) }

var _ FixedQueue[int] = (*TurnQueue[int])(nil)
