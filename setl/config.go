// Copyright © 2026 The SetlX authors

package setl

// Config holds the knobs a Runtime is constructed with. It follows the
// functional-options idiom rather than a struct literal with exported
// fields so new knobs can be added without breaking existing call sites.
type Config struct {
	maxCallDepth int
	profiler     Profiler
}

// Option configures a Config.
type Option func(*Config)

// WithMaxCallDepth overrides MaxCallDepth for a single Runtime.
func WithMaxCallDepth(n int) Option {
	return func(c *Config) { c.maxCallDepth = n }
}

// WithProfiler installs p as the Runtime's Profiler.
func WithProfiler(p Profiler) Option {
	return func(c *Config) { c.profiler = p }
}

func newConfig(opts ...Option) *Config {
	c := &Config{maxCallDepth: MaxCallDepth, profiler: NoopProfiler{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewConfiguredRuntime returns a Runtime built from opts, applying
// WithMaxCallDepth and WithProfiler (if given) to the new Runtime's stack
// and profiler.
func NewConfiguredRuntime(opts ...Option) *Runtime {
	c := newConfig(opts...)
	rt := NewRuntime()
	rt.Stack.limit = c.maxCallDepth
	rt.Profiler = c.profiler
	return rt
}
