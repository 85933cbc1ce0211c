package embedding

import (
	"github.com/robamler/linguistic-flux-capacitor/internal/options"
	"github.com/robamler/linguistic-flux-capacitor/internal/tensor"
)

// BuildConfig holds the tunable parameters BuildWithOptions passes on to
// Build: the jump interval defaults to 100 words, matching the CLI's
// default, and the scale factor defaults to 1 (no rescaling) for callers
// who already pre-scale their tensor.
type BuildConfig struct {
	ScaleFactor  float32
	JumpInterval uint32
}

// Option configures a BuildConfig, the same functional-option shape used
// throughout the codebase for optional, defaultable settings.
type Option = options.Option[*BuildConfig]

// WithScaleFactor overrides the default scale factor of 1.
func WithScaleFactor(s float32) Option {
	return options.NoError(func(c *BuildConfig) {
		c.ScaleFactor = s
	})
}

// WithJumpInterval overrides the default jump interval of 100 words.
func WithJumpInterval(interval uint32) Option {
	return options.NoError(func(c *BuildConfig) {
		c.JumpInterval = interval
	})
}

// BuildWithOptions serializes input the same way Build does, but takes its
// scale factor and jump interval as functional options instead of
// positional parameters, defaulting to a jump interval of 100 and a scale
// factor of 1 when the corresponding option isn't given.
func BuildWithOptions(input *tensor.Rank3[int16], opts ...Option) ([]byte, error) {
	cfg := &BuildConfig{ScaleFactor: 1, JumpInterval: 100}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	return Build(input, cfg.ScaleFactor, cfg.JumpInterval)
}
