// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sham

import (
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/spin"
)

// blockHeaderSize is the footprint of a Block Header: one cache line, of
// which only the first 4 bytes (the atomic size field) are meaningful.
const blockHeaderSize = CacheLineSize

// byteQueueFixedBytes is the size of the three cursor cache lines
// (head, tail, read) that precede the ring data in a ByteQueue's layout.
const byteQueueFixedBytes = 3 * CacheLineSize

// ByteQueue is a bounded multi-producer multi-consumer queue of
// variable-size byte payloads over a cache-line-aligned ring of blocks.
//
// Like [TurnQueue], its entire state lives in one contiguous byte range
// placement-constructible on the heap ([NewByteQueue]) or inside a
// [Buffer] ([NewByteQueueIn], [AttachByteQueue]).
//
// ByteQueue implements [StreamQueue].
type ByteQueue struct {
	base     unsafe.Pointer
	dataBase unsafe.Pointer
	capacity uint64
	mask     uint64
	backing  []byte
}

func validByteQueueCapacity(capacity int) bool {
	return capacity > 0 && uint64(capacity) >= CacheLineSize && isPowerOfTwo(uint64(capacity))
}

func byteQueueTotal(capacity uint64) uint64 {
	return byteQueueFixedBytes + capacity
}

func newByteQueueOver(base unsafe.Pointer, capacity uint64) *ByteQueue {
	return &ByteQueue{
		base:     base,
		dataBase: unsafe.Add(base, byteQueueFixedBytes),
		capacity: capacity,
		mask:     capacity - 1,
	}
}

// NewByteQueue creates a heap-backed ByteQueue with room for capacity
// bytes of ring data. capacity must be a power of two and at least
// [CacheLineSize]; NewByteQueue panics otherwise.
func NewByteQueue(capacity int) *ByteQueue {
	if !validByteQueueCapacity(capacity) {
		panic("sham: byte queue capacity must be a power of two >= CacheLineSize")
	}
	backing := make([]byte, byteQueueTotal(uint64(capacity)))
	q := newByteQueueOver(unsafe.Pointer(&backing[0]), uint64(capacity))
	q.backing = backing
	return q
}

// NewByteQueueIn placement-constructs a ByteQueue with room for capacity
// ring bytes inside buf. Returns ok=false if capacity is invalid or buf's
// remaining space is insufficient.
func NewByteQueueIn(buf *Buffer, capacity int) (*ByteQueue, bool) {
	if !validByteQueueCapacity(capacity) {
		return nil, false
	}
	ptr := buf.Allocate(int64(byteQueueTotal(uint64(capacity))))
	if ptr == nil {
		return nil, false
	}
	return newByteQueueOver(ptr, uint64(capacity)), true
}

// AttachByteQueue reconstructs a handle over a ByteQueue of the given ring
// capacity previously constructed with [NewByteQueueIn] at offset inside
// buf.
func AttachByteQueue(buf *Buffer, offset int64, capacity int) (*ByteQueue, bool) {
	if !validByteQueueCapacity(capacity) {
		return nil, false
	}
	total := byteQueueTotal(uint64(capacity))
	ptr := ViewAs[byte](buf, offset)
	if ptr == nil || offset+int64(total) > buf.Capacity() {
		return nil, false
	}
	return newByteQueueOver(unsafe.Pointer(ptr), uint64(capacity)), true
}

func (q *ByteQueue) headAtomic() *atomic.Uint64 { return (*atomic.Uint64)(q.base) }

func (q *ByteQueue) tailAtomic() *atomic.Uint64 {
	return (*atomic.Uint64)(unsafe.Add(q.base, CacheLineSize))
}

func (q *ByteQueue) readAtomic() *atomic.Uint64 {
	return (*atomic.Uint64)(unsafe.Add(q.base, 2*CacheLineSize))
}

// headerAt returns the Block Header's size field at cursor's ring
// position.
func (q *ByteQueue) headerAt(cursor uint64) *atomic.Int32 {
	off := cursor & q.mask
	return (*atomic.Int32)(unsafe.Add(q.dataBase, uintptr(off)))
}

// Published and consumed header values are stored biased by one so that a
// published zero-length payload (header value 1) never collides with the
// unpublished-landing-zone sentinel (header value 0). publishedLen and
// consumedLen invert the bias applied by TryPush and TryPop respectively.
func publishedLen(size int32) uint64 { return uint64(size - 1) }
func consumedLen(size int32) uint64  { return uint64(-size - 1) }

// blockFootprint is align_up(n + sizeof(Header), cache_line).
func (q *ByteQueue) blockFootprint(n uint64) uint64 {
	return uint64(alignUp(uintptr(n)+blockHeaderSize, CacheLineSize))
}

// copyIn writes src into the ring starting at the byte position
// logicalOff mod capacity, splitting across the wrap if needed.
func (q *ByteQueue) copyIn(logicalOff uint64, src []byte) {
	off := logicalOff & q.mask
	n := uint64(len(src))
	if n == 0 {
		return
	}
	if off+n <= q.capacity {
		copy(unsafe.Slice((*byte)(unsafe.Add(q.dataBase, uintptr(off))), n), src)
		return
	}
	first := q.capacity - off
	copy(unsafe.Slice((*byte)(unsafe.Add(q.dataBase, uintptr(off))), first), src[:first])
	copy(unsafe.Slice((*byte)(q.dataBase), n-first), src[first:])
}

// copyOut is the inverse of copyIn.
func (q *ByteQueue) copyOut(logicalOff uint64, dst []byte) {
	off := logicalOff & q.mask
	n := uint64(len(dst))
	if n == 0 {
		return
	}
	if off+n <= q.capacity {
		copy(dst, unsafe.Slice((*byte)(unsafe.Add(q.dataBase, uintptr(off))), n))
		return
	}
	first := q.capacity - off
	copy(dst[:first], unsafe.Slice((*byte)(unsafe.Add(q.dataBase, uintptr(off))), first))
	copy(dst[first:], unsafe.Slice((*byte)(q.dataBase), n-first))
}

// maxPayload is the largest n for which try_push can ever succeed: beyond
// this, there would never be room left for the ring's sentinel header.
func (q *ByteQueue) maxPayload() uint64 {
	return q.capacity - blockHeaderSize - CacheLineSize
}

// TryPush enqueues one payload of len(data) bytes without blocking.
// Returns false if the queue cannot currently fit the payload, including
// permanently when len(data) exceeds the queue's maximum payload size.
func (q *ByteQueue) TryPush(data []byte) bool {
	n := uint64(len(data))
	if n > q.maxPayload() {
		return false
	}
	b := q.blockFootprint(n)
	headPtr := q.headAtomic()
	sw := spin.Wait{}
	for {
		tail := q.tailAtomic().Load()
		head := headPtr.Load()
		if head+b+blockHeaderSize-tail > q.capacity {
			if q.shrink() == 0 {
				return false
			}
			continue
		}
		if headPtr.CompareAndSwap(head, head+b) {
			q.headerAt(head + b).Store(0)
			q.copyIn(head+blockHeaderSize, data)
			q.headerAt(head).Store(int32(n) + 1)
			return true
		}
		sw.Once()
	}
}

// TryPop copies the oldest published payload into buf and returns its
// length. Returns (0, false) if no payload is ready. Panics if buf is
// smaller than the payload.
func (q *ByteQueue) TryPop(buf []byte) (int, bool) {
	readPtr := q.readAtomic()
	sw := spin.Wait{}
	for {
		read := readPtr.Load()
		hdr := q.headerAt(read)
		size := hdr.Load()
		if size <= 0 {
			return 0, false
		}
		n := publishedLen(size)
		b := q.blockFootprint(n)
		if readPtr.CompareAndSwap(read, read+b) {
			if uint64(len(buf)) < n {
				panic("sham: buf too small for payload")
			}
			q.copyOut(read+blockHeaderSize, buf[:n])
			hdr.Store(-size)
			q.shrink()
			return int(n), true
		}
		sw.Once()
	}
}

// Shrink reclaims consumed blocks at the tail, advancing tail past every
// contiguous run of already-consumed blocks. Returns the number of bytes
// reclaimed. Idempotent: calling it again with no intervening pops
// returns 0.
func (q *ByteQueue) Shrink() int { return q.shrink() }

func (q *ByteQueue) shrink() int {
	tailPtr := q.tailAtomic()
	reclaimed := 0
	for {
		tail := tailPtr.Load()
		hdr := q.headerAt(tail)
		size := hdr.Load()
		if size >= 0 {
			return reclaimed
		}
		b := q.blockFootprint(consumedLen(size))
		if !tailPtr.CompareAndSwap(tail, tail+b) {
			return reclaimed
		}
		reclaimed += int(b)
	}
}

// Size returns a best-effort occupied-byte count (head - tail).
func (q *ByteQueue) Size() int {
	head := q.headAtomic().Load()
	tail := q.tailAtomic().Load()
	return int(int64(head) - int64(tail))
}

// Empty reports whether Size() <= 0.
func (q *ByteQueue) Empty() bool { return q.Size() <= 0 }

// Cap returns the ring's usable byte capacity.
func (q *ByteQueue) Cap() int { return int(q.capacity) }

var _ StreamQueue = (*ByteQueue)(nil)
