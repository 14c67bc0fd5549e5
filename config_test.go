package glyphatlas

import "testing"

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.ScaleTolerance != 0.1 || c.PositionTolerance != 0.1 {
		t.Errorf("DefaultConfig() tolerances = (%v, %v), want (0.1, 0.1)", c.ScaleTolerance, c.PositionTolerance)
	}
	if !c.PadGlyphs {
		t.Error("DefaultConfig().PadGlyphs = false, want true")
	}
}

func TestConfigClamped(t *testing.T) {
	c := Config{ScaleTolerance: 0, PositionTolerance: 0.0001}
	got := c.clamped()
	if got.ScaleTolerance != minTolerance {
		t.Errorf("clamped ScaleTolerance = %v, want %v", got.ScaleTolerance, minTolerance)
	}
	if got.PositionTolerance != minTolerance {
		t.Errorf("clamped PositionTolerance = %v, want %v", got.PositionTolerance, minTolerance)
	}
}

func TestWithTolerances(t *testing.T) {
	c := DefaultConfig()
	WithTolerances(0.5, 0.25)(&c)
	if c.ScaleTolerance != 0.5 || c.PositionTolerance != 0.25 {
		t.Errorf("got (%v, %v), want (0.5, 0.25)", c.ScaleTolerance, c.PositionTolerance)
	}
}

func TestWithTolerancesNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative tolerance")
		}
	}()
	c := DefaultConfig()
	WithTolerances(-1, 0)(&c)
}

func TestWithPadding(t *testing.T) {
	c := DefaultConfig()
	WithPadding(false)(&c)
	if c.PadGlyphs {
		t.Error("WithPadding(false) did not clear PadGlyphs")
	}
}
