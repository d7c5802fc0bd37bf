//go:build windows
// +build windows

// File: heap/alloc_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows allocator over the default process heap. HeapReAlloc without
// HEAP_REALLOC_IN_PLACE_ONLY may move the block but leaves the original
// untouched on failure, matching the Handle.Resize contract.

package heap

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/momentics/nativebuf/api"
)

var (
	kern32          = windows.NewLazySystemDLL("kernel32.dll")
	procHeapAlloc   = kern32.NewProc("HeapAlloc")
	procHeapReAlloc = kern32.NewProc("HeapReAlloc")
	procHeapFree    = kern32.NewProc("HeapFree")

	heapOnce    sync.Once
	processHeap windows.Handle
	heapErr     error
)

func defaultHeap() (windows.Handle, error) {
	heapOnce.Do(func() {
		processHeap, heapErr = windows.GetProcessHeap()
	})
	return processHeap, heapErr
}

func osAlloc(n int) ([]byte, error) {
	h, err := defaultHeap()
	if err != nil {
		return nil, fmt.Errorf("heap: process heap: %w", err)
	}
	addr, _, _ := procHeapAlloc.Call(uintptr(h), 0, uintptr(n))
	if addr == 0 {
		return nil, fmt.Errorf("heap: HeapAlloc %d bytes: %w", n, api.ErrOutOfMemory)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n), nil
}

func osResize(data []byte, n int) ([]byte, error) {
	h, err := defaultHeap()
	if err != nil {
		return nil, fmt.Errorf("heap: process heap: %w", err)
	}
	old := uintptr(unsafe.Pointer(unsafe.SliceData(data)))
	addr, _, _ := procHeapReAlloc.Call(uintptr(h), 0, old, uintptr(n))
	if addr == 0 {
		return nil, fmt.Errorf("heap: HeapReAlloc to %d bytes: %w", n, api.ErrOutOfMemory)
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n), nil
}

func osFree(data []byte) error {
	h, err := defaultHeap()
	if err != nil {
		return fmt.Errorf("heap: process heap: %w", err)
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(data)))
	ret, _, callErr := procHeapFree.Call(uintptr(h), 0, addr)
	if ret == 0 {
		return fmt.Errorf("heap: HeapFree: %w", callErr)
	}
	return nil
}
