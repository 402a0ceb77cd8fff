package valar

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

///////////////////////////////////////////////////////////////////////////////
// Config
///////////////////////////////////////////////////////////////////////////////

// Config carries the runtime-adjustable validation limits. It is a plain
// value supplied per call through Opts; there is no process-global mutable
// configuration, so concurrent callers may validate with different limits
// simultaneously.
type Config struct {
	// MaxCollectionSize caps the number of elements a collection may hold
	// before element-wise validation even starts. Zero or negative means
	// no limit.
	MaxCollectionSize int `env:"VALAR_MAX_COLLECTION_SIZE"`
}

// ConfigFromEnv builds a Config from environment variables. Unset
// variables leave the zero value (no limit) in place.
func ConfigFromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parsing validation config from environment: %w", err)
	}
	return c, nil
}

// collectionLimit returns the configured limit and whether one is set.
func (c Config) collectionLimit() (int, bool) {
	if c.MaxCollectionSize <= 0 {
		return 0, false
	}
	return c.MaxCollectionSize, true
}

///////////////////////////////////////////////////////////////////////////////
// Opts
///////////////////////////////////////////////////////////////////////////////

// Opts bundles the ambient collaborators of a single validation call:
// limits, the error-accumulation strategy, the result observer, and the
// registry validators are resolved from. All fields are optional; the zero
// value validates with no limits, concatenating accumulation, no observer,
// and the default registry. Opts is resolved once per top-level call and
// passed down unchanged through the full recursive traversal.
type Opts struct {
	Config      Config
	Accumulator Accumulator
	Observer    Observer
	Registry    *Registry
}

func (o Opts) accumulator() Accumulator {
	if o.Accumulator == nil {
		return Concat
	}
	return o.Accumulator
}

func (o Opts) registry() *Registry {
	if o.Registry == nil {
		return _defaultRegistry
	}
	return o.Registry
}
