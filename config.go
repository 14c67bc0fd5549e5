package glyphatlas

// minTolerance is the floor every tolerance is clamped up to. Below this,
// bucket arithmetic in the fingerprint (§4.1) risks overflowing the u16
// offset bucket.
const minTolerance = 0.001

// Config holds the tunable parameters for a Cache. Use DefaultConfig for
// reasonable defaults, or build one with functional Options passed to New.
type Config struct {
	// ScaleTolerance is the quantization step, in pixels, for font scale.
	// Clamped up to at least 0.001 at construction.
	ScaleTolerance float32

	// PositionTolerance is the quantization step, in pixels, for sub-pixel
	// phase. Clamped up to at least 0.001 at construction.
	PositionTolerance float32

	// PadGlyphs controls whether a 1-pixel zero-alpha border is stored
	// around each rasterized bitmap, to prevent bilinear texture sampling
	// from bleeding in neighboring glyphs.
	PadGlyphs bool
}

// DefaultConfig returns the default cache configuration: a tolerance of
// 0.1 pixels on both scale and position, with padding enabled.
func DefaultConfig() Config {
	return Config{
		ScaleTolerance:    0.1,
		PositionTolerance: 0.1,
		PadGlyphs:         true,
	}
}

func (c Config) clamped() Config {
	if c.ScaleTolerance < minTolerance {
		c.ScaleTolerance = minTolerance
	}
	if c.PositionTolerance < minTolerance {
		c.PositionTolerance = minTolerance
	}
	return c
}

// Option configures a Cache during construction.
//
// Example:
//
//	c := glyphatlas.New(1024, 1024,
//	    glyphatlas.WithTolerances(0.25, 0.25),
//	    glyphatlas.WithPadding(false))
type Option func(*Config)

// WithTolerances sets the scale and position tolerances. Negative values
// panic; values below 0.001 are clamped up.
func WithTolerances(scale, position float32) Option {
	return func(c *Config) {
		if scale < 0 || position < 0 {
			panic("glyphatlas: tolerances must be non-negative")
		}
		c.ScaleTolerance = scale
		c.PositionTolerance = position
	}
}

// WithPadding sets whether stored bitmaps get a 1-pixel zero-alpha border.
func WithPadding(pad bool) Option {
	return func(c *Config) {
		c.PadGlyphs = pad
	}
}
