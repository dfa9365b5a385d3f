// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sham

import "unsafe"

// noCopy helps go vet's -copylocks check flag accidental copies of a
// Buffer. See sync.noCopy for the convention this follows.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Buffer is a bump-allocating arena over a mapped [Region]. It owns the
// region's lifetime and hands out pointer-free sub-ranges of it for
// placement construction of queues and other shared objects.
//
// Buffer is move-only in spirit: Go has no move semantics, so the rule is
// call Close exactly once and never copy a Buffer by value — take its
// address instead. The embedded noCopy marker makes `go vet -copylocks`
// flag accidental copies.
type Buffer struct {
	_      noCopy
	region *Region
	size   int64 // bump cursor; deliberately not atomic, see DESIGN.md
}

// CreateBuffer creates a new named region of capacity bytes and wraps it
// in a Buffer. The Buffer owns the region: Close removes the host-wide
// name.
func CreateBuffer(name string, capacity int64) (*Buffer, error) {
	r, err := CreateRegion(name, capacity)
	if err != nil {
		return nil, err
	}
	return &Buffer{region: r}, nil
}

// OpenBuffer attaches to an existing named region of capacity bytes. Close
// only unmaps; the name outlives the Buffer.
func OpenBuffer(name string, capacity int64) (*Buffer, error) {
	r, err := OpenRegion(name, capacity)
	if err != nil {
		return nil, err
	}
	return &Buffer{region: r}, nil
}

// Close releases the underlying region. Idempotent.
func (b *Buffer) Close() error {
	if b == nil {
		return nil
	}
	return b.region.Close()
}

// Allocate reserves and returns the next n bytes of the arena, advancing
// the bump cursor. Returns nil if the remaining capacity is insufficient.
//
// Allocate is not safe for concurrent use: the arena's allocation phase is
// expected to run single-threaded in the creating process before any
// producer or consumer touches the region, matching the ownership model
// documented on [Buffer].
func (b *Buffer) Allocate(n int64) unsafe.Pointer {
	if n < 0 {
		return nil
	}
	next := b.size + n
	if next > b.region.Capacity() {
		return nil
	}
	ptr := unsafe.Add(b.region.Base(), b.size)
	b.size = next
	return ptr
}

// ViewAs reinterprets the bytes at offset as a *T without allocating.
// Returns nil if offset+sizeof(T) exceeds the arena's capacity.
func ViewAs[T any](b *Buffer, offset int64) *T {
	var zero T
	size := int64(unsafe.Sizeof(zero))
	if offset < 0 || offset+size > b.region.Capacity() {
		return nil
	}
	return (*T)(unsafe.Add(b.region.Base(), offset))
}

// Data returns the arena's base address in this process.
func (b *Buffer) Data() unsafe.Pointer { return b.region.Base() }

// Capacity returns the arena's total byte capacity.
func (b *Buffer) Capacity() int64 { return b.region.Capacity() }

// Size returns the number of bytes allocated so far.
func (b *Buffer) Size() int64 { return b.size }

// Valid reports whether the underlying region is mapped.
func (b *Buffer) Valid() bool { return b.region != nil && b.region.Valid() }
