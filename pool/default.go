// File: pool/default.go
// Author: momentics <momentics@gmail.com>
//
// Process-wide default cache shared by all buffers that do not bring
// their own, initialized lazily on first use.

package pool

import (
	"log/slog"
	"os"
	"strconv"
	"sync"
)

// Environment overrides for the default cache, read once at first use.
const (
	EnvMinSize = "NATIVEBUF_MIN_SIZE"
	EnvMaxSize = "NATIVEBUF_MAX_SIZE"
	EnvSlots   = "NATIVEBUF_SLOTS"
)

var (
	defaultOnce  sync.Once
	defaultCache *HandleCache
)

// Default returns the process-wide cache so all buffers reuse the same
// slot array instead of fragmenting allocations.
func Default() *HandleCache {
	defaultOnce.Do(func() {
		defaultCache = New(configFromEnv())
	})
	return defaultCache
}

// InitDefault configures the process-wide cache. It only takes effect
// when called before the first use of Default; afterwards it returns the
// already-initialized cache unchanged.
func InitDefault(cfg Config) *HandleCache {
	defaultOnce.Do(func() {
		defaultCache = New(cfg)
	})
	return defaultCache
}

// CloseDefault tears the default cache down deterministically, freeing
// every pooled handle. Safe to call more than once.
func CloseDefault() {
	Default().Close()
}

func configFromEnv() Config {
	cfg := DefaultConfig()
	cfg.MinSize = envSize(EnvMinSize, cfg.MinSize)
	cfg.MaxSize = envSize(EnvMaxSize, cfg.MaxSize)
	cfg.SlotCount = int(envSize(EnvSlots, uint64(cfg.SlotCount)))
	return cfg.withDefaults()
}

// envSize reads a positive integer override, falling back to def on any
// unset, malformed, or zero value.
func envSize(name string, def uint64) uint64 {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		slog.Warn("nativebuf: ignoring invalid cache setting",
			"var", name, "value", raw)
		return def
	}
	return v
}
