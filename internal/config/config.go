// Package config holds the runtime settings read by the engine and the protocols.
package config

import (
	"errors"
	"flag"
	"fmt"
	"sort"
)

var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// Config keys as used by the text protocols.
const (
	KeyExactFive          = "is_exact_five"
	KeyMaxDepth           = "max_depth"
	KeyCacheSize          = "cache_size"
	KeyUseCache           = "use_cache"
	KeyIterativeDeepening = "iterative_deepening"
)

// Limits and defaults.
const (
	MinDepth = 1
	MaxDepth = 20

	MinCacheSize     = 4 << 10
	MaxCacheSize     = 4 << 30
	DefaultCacheSize = 64 << 20
)

// Protocol selects the line protocol spoken on stdin/stdout.
type Protocol string

const (
	ProtocolSimple  Protocol = "simple"
	ProtocolGomocup Protocol = "gomocup"
)

// Config stores engine settings. The engine only reads it; protocols and
// binaries own mutation.
type Config struct {
	ExactFive          bool     `json:"is_exact_five"`
	MaxDepth           int      `json:"max_depth"`
	CacheSize          uint64   `json:"cache_size"`
	UseCache           bool     `json:"use_cache"`
	IterativeDeepening bool     `json:"iterative_deepening"`
	Protocol           Protocol `json:"-"`

	// Optional ceilings below MaxDepth and MaxCacheSize, set with Limit.
	depthLimit int
	cacheLimit uint64
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		ExactFive:          false,
		MaxDepth:           5,
		CacheSize:          DefaultCacheSize,
		UseCache:           true,
		IterativeDeepening: true,
		Protocol:           ProtocolSimple,
	}
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Limit lowers the largest accepted depth and cache size, for example for
// untrusted clients. Zero keeps the package limit. Current values above a
// new limit are lowered to it. Clones inherit the limits.
func (c *Config) Limit(maxDepth int, maxCacheSize uint64) {
	c.depthLimit = maxDepth
	c.cacheLimit = maxCacheSize
	c.MaxDepth = min(c.MaxDepth, c.maxDepth())
	c.CacheSize = min(c.CacheSize, c.maxCacheSize())
}

func (c *Config) maxDepth() int {
	if c.depthLimit > 0 {
		return min(c.depthLimit, MaxDepth)
	}
	return MaxDepth
}

func (c *Config) maxCacheSize() uint64 {
	if c.cacheLimit > 0 {
		return min(c.cacheLimit, MaxCacheSize)
	}
	return MaxCacheSize
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := []string{KeyExactFive, KeyMaxDepth, KeyCacheSize, KeyUseCache, KeyIterativeDeepening}
	sort.Strings(keys)
	return keys
}

// Get returns the integer value of key.
func (c *Config) Get(key string) (int, error) {
	switch key {
	case KeyExactFive:
		return boolToInt(c.ExactFive), nil
	case KeyMaxDepth:
		return c.MaxDepth, nil
	case KeyCacheSize:
		return int(c.CacheSize), nil
	case KeyUseCache:
		return boolToInt(c.UseCache), nil
	case KeyIterativeDeepening:
		return boolToInt(c.IterativeDeepening), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set assigns value to key after validating it.
func (c *Config) Set(key string, value int) error {
	switch key {
	case KeyExactFive:
		return setBool(&c.ExactFive, key, value)
	case KeyMaxDepth:
		if value < MinDepth || value > c.maxDepth() {
			return fmt.Errorf("%w: %s must be in [%d,%d], got %d", ErrInvalidValue, key, MinDepth, c.maxDepth(), value)
		}
		c.MaxDepth = value
		return nil
	case KeyCacheSize:
		if value < MinCacheSize || uint64(value) > c.maxCacheSize() {
			return fmt.Errorf("%w: %s must be in [%d,%d], got %d", ErrInvalidValue, key, MinCacheSize, c.maxCacheSize(), value)
		}
		c.CacheSize = uint64(value)
		return nil
	case KeyUseCache:
		return setBool(&c.UseCache, key, value)
	case KeyIterativeDeepening:
		return setBool(&c.IterativeDeepening, key, value)
	}
	return fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Validate checks every field, for example after loading from storage.
func (c *Config) Validate() error {
	for _, key := range Keys() {
		v, err := c.Get(key)
		if err != nil {
			return err
		}
		check := c.Clone()
		if err := check.Set(key, v); err != nil {
			return err
		}
	}
	switch c.Protocol {
	case ProtocolSimple, ProtocolGomocup, "":
	default:
		return fmt.Errorf("%w: protocol %q", ErrInvalidValue, c.Protocol)
	}
	return nil
}

// RegisterFlags binds the configuration to command line flags.
// Current field values become the flag defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.ExactFive, "exact-five", c.ExactFive, "only exactly five in a row wins")
	fs.IntVar(&c.MaxDepth, "depth", c.MaxDepth, "maximum search depth")
	fs.Uint64Var(&c.CacheSize, "cache", c.CacheSize, "transposition cache size in bytes")
	fs.BoolVar(&c.UseCache, "use-cache", c.UseCache, "probe the transposition cache during search")
	fs.BoolVar(&c.IterativeDeepening, "iterative", c.IterativeDeepening, "search with iterative deepening")
	fs.Func("protocol", "line protocol: simple or gomocup (default "+string(c.Protocol)+")", func(s string) error {
		switch p := Protocol(s); p {
		case ProtocolSimple, ProtocolGomocup:
			c.Protocol = p
			return nil
		}
		return fmt.Errorf("%w: protocol %q", ErrInvalidValue, s)
	})
}

func setBool(dst *bool, key string, value int) error {
	switch value {
	case 0:
		*dst = false
	case 1:
		*dst = true
	default:
		return fmt.Errorf("%w: %s must be 0 or 1, got %d", ErrInvalidValue, key, value)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
