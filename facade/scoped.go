// File: facade/scoped.go
// Author: momentics <momentics@gmail.com>
//
// Scoped acquisition: a buffer with a guaranteed release path on every
// exit route, normal return and error alike.

// Package facade offers convenience entry points over buffer and pool.
package facade

import (
	"github.com/momentics/nativebuf/api"
	"github.com/momentics/nativebuf/buffer"
	"github.com/momentics/nativebuf/pool"
)

// With runs fn with a buffer of at least minCapacity bytes from the
// process-wide cache and frees it on every exit path.
func With(minCapacity uint64, fn func(*buffer.Buffer) error) error {
	return WithCache(pool.Default(), minCapacity, fn)
}

// WithCache is With against an explicit cache.
func WithCache(cache api.HandleCache, minCapacity uint64, fn func(*buffer.Buffer) error) error {
	b, err := buffer.NewWithCache(cache, minCapacity)
	if err != nil {
		return err
	}
	defer b.Free()
	return fn(b)
}
