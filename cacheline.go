// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sham

// CacheLineSize is the coherence granule this package pads against.
//
// Most of the retrieval pack's lock-free queues assume 64 bytes, the
// common size on x86-64 and arm64. This package deliberately uses 128: a
// conservative choice that also protects against adjacent-line prefetch
// coupling on CPUs that fetch cache lines in pairs, and it is the figure
// the cross-process wire layout in this package's documentation is built
// around. Every struct that crosses a process boundary through a Region
// must size and align against this constant, not against
// runtime/cache-line assumptions baked into any one CPU.
const CacheLineSize = 128

// alignUp rounds n up to the next multiple of align. align must be a
// power of two.
func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// isPowerOfTwo reports whether n is a power of two.
func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// pad is cache-line padding used between adjacent atomic fields to
// prevent false sharing.
type pad [CacheLineSize]byte
