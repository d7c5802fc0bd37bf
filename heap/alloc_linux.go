//go:build linux
// +build linux

// File: heap/alloc_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux allocator: anonymous private mappings with mremap-backed growth.
// mremap keeps the old mapping intact when it fails, which is exactly the
// strong resize guarantee Handle.Resize promises.

package heap

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/nativebuf/api"
)

func osAlloc(n int) ([]byte, error) {
	data, err := unix.Mmap(-1, 0, n,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		if errors.Is(err, unix.ENOMEM) {
			return nil, fmt.Errorf("heap: mmap %d bytes: %w", n, api.ErrOutOfMemory)
		}
		return nil, fmt.Errorf("heap: mmap %d bytes: %w", n, err)
	}
	return data, nil
}

func osResize(data []byte, n int) ([]byte, error) {
	next, err := unix.Mremap(data, n, unix.MREMAP_MAYMOVE)
	if err != nil {
		if errors.Is(err, unix.ENOMEM) {
			return nil, fmt.Errorf("heap: mremap to %d bytes: %w", n, api.ErrOutOfMemory)
		}
		return nil, fmt.Errorf("heap: mremap to %d bytes: %w", n, err)
	}
	return next, nil
}

func osFree(data []byte) error {
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("heap: munmap: %w", err)
	}
	return nil
}
