// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build windows

package sham

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

func createMapping(name string, size int64) (handle, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return handle{}, fmt.Errorf("%w: %v", ErrRegionCreationFailed, err)
	}
	h, err := windows.CreateFileMapping(
		windows.InvalidHandle,
		nil,
		windows.PAGE_READWRITE,
		uint32(size>>32),
		uint32(size&0xffffffff),
		namePtr,
	)
	if err != nil {
		return handle{}, fmt.Errorf("%w: %v", ErrRegionCreationFailed, err)
	}
	return handle{native: uintptr(h)}, nil
}

func openMapping(name string) (handle, error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return handle{}, fmt.Errorf("%w: %v", ErrRegionNotFound, err)
	}
	const fileMapAllAccess = windows.FILE_MAP_WRITE | windows.FILE_MAP_READ
	h, err := windows.OpenFileMapping(fileMapAllAccess, false, namePtr)
	if err != nil {
		return handle{}, fmt.Errorf("%w: %v", ErrRegionNotFound, err)
	}
	return handle{native: uintptr(h)}, nil
}

// destroyMapping is a no-op on Windows: a named file mapping has no
// POSIX-style unlink. The kernel object is destroyed automatically once
// its last handle and last mapped view are both closed, which mapView
// and unmapView already arrange between them.
func destroyMapping(_ handle, _ string) {}

// mapView establishes the mapping and closes the file-mapping handle: a
// mapped view keeps the underlying object alive on its own, so the handle
// carries no further information we need once MapViewOfFile succeeds.
func mapView(h handle, size int64) (unsafe.Pointer, error) {
	const fileMapAllAccess = windows.FILE_MAP_WRITE | windows.FILE_MAP_READ
	addr, err := windows.MapViewOfFile(windows.Handle(h.native), fileMapAllAccess, 0, 0, uintptr(size))
	windows.CloseHandle(windows.Handle(h.native))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMapFailed, err)
	}
	return unsafe.Pointer(addr), nil
}

func unmapView(addr unsafe.Pointer, _ int64) {
	if addr == nil {
		return
	}
	windows.UnmapViewOfFile(uintptr(addr))
}
