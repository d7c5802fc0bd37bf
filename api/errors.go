// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values for the nativebuf library.

package api

import "fmt"

// Common errors used across the library.
var (
	// ErrOutOfMemory reports that the OS heap could not satisfy an
	// allocation or resize request. The prior state of the handle or
	// buffer involved is left intact.
	ErrOutOfMemory = fmt.Errorf("out of memory")

	// ErrSizeOverflow reports a request beyond the platform's
	// addressable-memory limit. Never silently clamped.
	ErrSizeOverflow = fmt.Errorf("requested size exceeds addressable limit")

	// ErrInvalidSize reports a zero-byte allocation or resize request.
	// Zero-length native allocations are disallowed; absence of a handle
	// models zero capacity.
	ErrInvalidSize = fmt.Errorf("invalid allocation size")

	// ErrOutOfRange reports an indexed access at or beyond capacity.
	ErrOutOfRange = fmt.Errorf("index out of range")

	// ErrHandleDisposed reports an operation on a handle already released
	// to the OS heap.
	ErrHandleDisposed = fmt.Errorf("handle is disposed")

	// ErrCacheClosed reports an acquisition from a cache after teardown.
	ErrCacheClosed = fmt.Errorf("handle cache is closed")
)
