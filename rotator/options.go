package rotator

import (
	"math/rand/v2"

	"github.com/noon-labs/namecycler/common"
	"github.com/noon-labs/namecycler/variants"
)

type rotatorConfig struct {
	logger       common.Logger
	observer     Observer
	baseName     string
	variantCount int
	variants     []string
	policy       common.IntervalPolicy
	pick         func(n int) int
}

type Option func(*rotatorConfig)

func defaultRotatorConfig() *rotatorConfig {
	return &rotatorConfig{
		logger:       common.NopLogger(),
		observer:     nopObserver{},
		baseName:     common.DefaultBaseName,
		variantCount: common.DefaultVariantCount,
		policy:       common.DefaultIntervalPolicy(),
		pick:         rand.IntN,
	}
}

func WithLogger(logger common.Logger) Option {
	return func(c *rotatorConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(c *rotatorConfig) {
		if observer != nil {
			c.observer = observer
		}
	}
}

func WithBaseName(name string) Option {
	return func(c *rotatorConfig) {
		if name != "" {
			c.baseName = name
		}
	}
}

func WithVariantCount(n int) Option {
	return func(c *rotatorConfig) {
		if n > 0 {
			c.variantCount = n
		}
	}
}

// WithVariants skips generation and uses pool as-is.
func WithVariants(pool []string) Option {
	return func(c *rotatorConfig) {
		if len(pool) > 0 {
			c.variants = append([]string(nil), pool...)
		}
	}
}

func WithIntervalPolicy(policy common.IntervalPolicy) Option {
	return func(c *rotatorConfig) {
		c.policy = policy
	}
}

// WithPicker replaces the uniform index picker. pick must be safe for
// concurrent use.
func WithPicker(pick func(n int) int) Option {
	return func(c *rotatorConfig) {
		if pick != nil {
			c.pick = pick
		}
	}
}

func (c *rotatorConfig) pool() []string {
	if len(c.variants) > 0 {
		return c.variants
	}
	return variants.Generate(c.baseName, c.variantCount)
}
