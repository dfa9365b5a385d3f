// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sham

import "unsafe"

// Mode selects whether a [Region] creates a new named object or attaches
// to one created by another process.
type Mode int

const (
	// ModeCreate allocates a new host-wide named object. The caller becomes
	// its owner and is responsible for removing the name on Close.
	ModeCreate Mode = iota
	// ModeAttachExisting opens an object created by another process. Close
	// only unmaps; it never removes the name.
	ModeAttachExisting
)

// handle is the opaque per-platform reference to the OS-level shared
// memory object: a POSIX file descriptor or a Windows HANDLE.
type handle struct {
	fd     int
	native uintptr
}

// Region is a named, byte-addressable range of memory mapped read/write
// into the calling process's address space.
//
// A Region makes no guarantee about the virtual address at which the same
// named object appears in two different processes; nothing stored inside
// a Region's bytes may be an absolute pointer, a slice header, or a Go
// interface value. See [Buffer] for the bump-allocating arena built on top
// of a Region.
//
// Region names follow the POSIX /name convention on POSIX hosts (leading
// slash, no embedded slashes, host-unique); on Windows the name is used
// as-is, matching windows.CreateFileMapping's native naming convention.
type Region struct {
	name     string
	mode     Mode
	capacity int64
	h        handle
	base     unsafe.Pointer
	closed   bool
}

// CreateRegion allocates a new named, file-backed memory object of exactly
// capacity bytes and maps it read/write into the calling process. It fails
// with [ErrRegionCreationFailed] if the name is already held by a live
// creator or the host otherwise rejects the request.
func CreateRegion(name string, capacity int64) (*Region, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	h, err := createMapping(name, capacity)
	if err != nil {
		return nil, err
	}
	base, err := mapView(h, capacity)
	if err != nil {
		destroyMapping(h, name)
		return nil, err
	}
	return &Region{name: name, mode: ModeCreate, capacity: capacity, h: h, base: base}, nil
}

// OpenRegion attaches to an existing named memory object for read/write
// access. It fails with [ErrRegionNotFound] if no such object exists.
func OpenRegion(name string, capacity int64) (*Region, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	h, err := openMapping(name)
	if err != nil {
		return nil, err
	}
	base, err := mapView(h, capacity)
	if err != nil {
		return nil, err
	}
	return &Region{name: name, mode: ModeAttachExisting, capacity: capacity, h: h, base: base}, nil
}

// Close unmaps the region. If the Region was created with [ModeCreate] it
// also removes the host-wide name; an attached Region only unmaps.
// Close is idempotent.
func (r *Region) Close() error {
	if r == nil || r.closed {
		return nil
	}
	r.closed = true
	unmapView(r.base, r.capacity)
	if r.mode == ModeCreate {
		destroyMapping(r.h, r.name)
	}
	r.base = nil
	return nil
}

// Name returns the region's host-unique name.
func (r *Region) Name() string { return r.name }

// Capacity returns the region's fixed byte capacity.
func (r *Region) Capacity() int64 { return r.capacity }

// Base returns the process-local base address of the mapped view. Valid
// only in the process that mapped it; never persist this value.
func (r *Region) Base() unsafe.Pointer { return r.base }

// Valid reports whether the region currently has a live mapping.
func (r *Region) Valid() bool { return r.base != nil && !r.closed }
