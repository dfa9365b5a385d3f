// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix

package sham

import (
	"fmt"
	"path"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// shmPath roots name (which follows the POSIX "/name" convention) under
// /dev/shm so shared regions are visible via the tmpfs namespace every
// other process on the host shares.
func shmPath(name string) string {
	trimmed := strings.TrimPrefix(name, "/")
	return path.Join("/dev/shm", trimmed)
}

func createMapping(name string, size int64) (handle, error) {
	fd, err := unix.Open(shmPath(name), unix.O_RDWR|unix.O_CREAT|unix.O_EXCL, 0o600)
	if err != nil {
		return handle{}, fmt.Errorf("%w: %v", ErrRegionCreationFailed, err)
	}
	if err := unix.Ftruncate(fd, size); err != nil {
		unix.Close(fd)
		unix.Unlink(shmPath(name))
		return handle{}, fmt.Errorf("%w: %v", ErrRegionCreationFailed, err)
	}
	return handle{fd: fd}, nil
}

func openMapping(name string) (handle, error) {
	fd, err := unix.Open(shmPath(name), unix.O_RDWR, 0o600)
	if err != nil {
		return handle{}, fmt.Errorf("%w: %v", ErrRegionNotFound, err)
	}
	return handle{fd: fd}, nil
}

func destroyMapping(_ handle, name string) {
	unix.Unlink(shmPath(name))
}

// mapView establishes the mapping and closes the fd: once mapped, the
// descriptor carries no further information the kernel needs from us.
func mapView(h handle, size int64) (unsafe.Pointer, error) {
	data, err := unix.Mmap(h.fd, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	unix.Close(h.fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMapFailed, err)
	}
	return unsafe.Pointer(&data[0]), nil
}

func unmapView(addr unsafe.Pointer, size int64) {
	if addr == nil {
		return
	}
	data := unsafe.Slice((*byte)(addr), int(size))
	unix.Munmap(data)
}
