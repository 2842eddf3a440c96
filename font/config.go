package font

import (
	"github.com/gogpu/maplabel/texture"
)

// DefaultAtlasSize is the edge length of the glyph atlas.
const DefaultAtlasSize = 512

// Config holds glyph atlas configuration.
type Config struct {
	// AtlasSize is the atlas texture size (width = height).
	// Must be a power of 2 in [64, 8192]. Default: 512
	AtlasSize int

	// Padding is the gap between packed glyphs in pixels.
	// Default: 1
	Padding int

	// CacheCapacity is the per-shard capacity of the layout cache.
	// Zero selects the cache default.
	CacheCapacity int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		AtlasSize:     DefaultAtlasSize,
		Padding:       1,
		CacheCapacity: 0,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.AtlasSize < 64 {
		return &ConfigError{Field: "AtlasSize", Reason: "must be at least 64"}
	}
	if c.AtlasSize > 8192 {
		return &ConfigError{Field: "AtlasSize", Reason: "must be at most 8192"}
	}
	if c.AtlasSize&(c.AtlasSize-1) != 0 {
		return &ConfigError{Field: "AtlasSize", Reason: "must be power of 2"}
	}
	if c.Padding < 1 {
		return &ConfigError{Field: "Padding", Reason: "must be at least 1"}
	}
	if c.Padding > 16 {
		return &ConfigError{Field: "Padding", Reason: "must be at most 16"}
	}
	if c.CacheCapacity < 0 {
		return &ConfigError{Field: "CacheCapacity", Reason: "must be non-negative"}
	}
	return nil
}

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "font: invalid config." + e.Field + ": " + e.Reason
}

// Option configures a Context during creation.
type Option func(*options)

type options struct {
	config  Config
	backend texture.Backend
}

// WithAtlasSize sets the atlas edge length.
func WithAtlasSize(size int) Option {
	return func(o *options) {
		o.config.AtlasSize = size
	}
}

// WithPadding sets the gap between packed glyphs.
func WithPadding(px int) Option {
	return func(o *options) {
		o.config.Padding = px
	}
}

// WithCacheCapacity sets the per-shard capacity of the layout cache.
func WithCacheCapacity(n int) Option {
	return func(o *options) {
		o.config.CacheCapacity = n
	}
}

// WithBackend sets the GPU backend the atlas is flushed to.
// Without a backend the atlas stays CPU only.
//
// Example:
//
//	backend, err := texture.NewHALBackendFromProvider(provider, 512, 512)
//	if err != nil {
//		return err
//	}
//	ctx, err := font.NewContext(font.WithBackend(backend))
func WithBackend(b texture.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.config = c
	}
}
