// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sham

import "errors"

// Constructor-time errors. TryPush/TryPop/TryPop signal "would block" by
// returning false/ok=false directly — there is no error-returning path in
// this package's queue API for a would-block sentinel to travel through —
// so these are the only sentinels sham defines, each diagnosable enough
// that a caller benefits from matching it with errors.Is.
var (
	// ErrRegionNotFound is returned by OpenRegion when no region with the
	// requested name exists.
	ErrRegionNotFound = errors.New("sham: region not found")

	// ErrRegionCreationFailed is returned by CreateRegion when the
	// OS-level object could not be created — for example another live
	// creator already holds the name, or the host rejected the request.
	ErrRegionCreationFailed = errors.New("sham: region creation failed")

	// ErrMapFailed is returned when a memory mapping could not be
	// installed in the calling process's address space.
	ErrMapFailed = errors.New("sham: memory mapping failed")

	// ErrInvalidCapacity is returned by CreateRegion and OpenRegion when
	// the requested capacity is not positive. Queue constructors do not
	// return it: NewTurnQueue/NewByteQueue panic on an invalid capacity,
	// and the arena-placed and attach constructors return ok=false.
	ErrInvalidCapacity = errors.New("sham: invalid capacity")
)
