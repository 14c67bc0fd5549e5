package glyphatlas

import (
	"errors"
	"testing"
)

func TestNewPanicsOnNonPositiveDimensions(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-positive dimensions")
		}
	}()
	New(0, 10)
}

func TestNewAppliesOptions(t *testing.T) {
	c := New(64, 64, WithTolerances(0.5, 0.25), WithPadding(false))
	if c.ScaleTolerance() != 0.5 || c.PositionTolerance() != 0.25 {
		t.Errorf("tolerances = (%v, %v), want (0.5, 0.25)", c.ScaleTolerance(), c.PositionTolerance())
	}
	if c.config.PadGlyphs {
		t.Error("expected padding disabled")
	}
}

func TestDimensions(t *testing.T) {
	c := New(128, 96)
	w, h := c.Dimensions()
	if w != 128 || h != 96 {
		t.Errorf("Dimensions() = (%d, %d), want (128, 96)", w, h)
	}
}

func TestQueueGlyphIgnoresEmptyBoundingBox(t *testing.T) {
	c := New(64, 64)
	g := newRectGlyph(1, 0, 0, 0, 0)
	c.QueueGlyph(1, g)
	if len(c.queue) != 0 {
		t.Errorf("queue length = %d, want 0 for an empty-bbox glyph", len(c.queue))
	}
}

func TestClearQueueEmptiesPendingQueue(t *testing.T) {
	c := New(64, 64)
	c.QueueGlyph(1, newRectGlyph(1, 10, 10, 0, 0))
	c.ClearQueue()
	if len(c.queue) != 0 {
		t.Errorf("queue length = %d after ClearQueue, want 0", len(c.queue))
	}
}

func TestCacheQueuedCommitsAndLooksUp(t *testing.T) {
	c := New(256, 256)
	g := newRectGlyph(7, 10, 10, 5.0, 5.0)
	c.QueueGlyph(1, g)

	var uploads int
	err := c.CacheQueued(func(rect IntRect, pixels []byte) {
		uploads++
		if rect.Width() != 12 || rect.Height() != 12 {
			t.Errorf("upload rect = %+v, want 12x12", rect)
		}
		if len(pixels) != 144 {
			t.Errorf("len(pixels) = %d, want 144", len(pixels))
		}
	})
	if err != nil {
		t.Fatalf("CacheQueued() error = %v", err)
	}
	if uploads != 1 {
		t.Errorf("uploads = %d, want 1", uploads)
	}

	_, _, err = c.RectFor(1, g)
	if err != nil {
		t.Errorf("RectFor() after commit error = %v", err)
	}
	if c.stats.Commits != 1 {
		t.Errorf("Commits = %d, want 1", c.stats.Commits)
	}
}

func TestRectForMissReturnsErrGlyphNotCached(t *testing.T) {
	c := New(64, 64)
	g := newRectGlyph(1, 10, 10, 0, 0)
	_, _, err := c.RectFor(1, g)
	if !errors.Is(err, ErrGlyphNotCached) {
		t.Errorf("RectFor() error = %v, want ErrGlyphNotCached", err)
	}
	if c.stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", c.stats.Misses)
	}
}

func TestRectForEmptyBoundingBoxReturnsZeroNoError(t *testing.T) {
	c := New(64, 64)
	g := newRectGlyph(1, 0, 0, 0, 0)
	uv, screen, err := c.RectFor(1, g)
	if err != nil {
		t.Fatalf("RectFor() error = %v, want nil", err)
	}
	if uv != (Rect{}) || screen != (IntRect{}) {
		t.Errorf("RectFor() = (%+v, %+v), want zero values", uv, screen)
	}
}

func TestClearDropsCachedGlyphsKeepsQueue(t *testing.T) {
	c := New(256, 256)
	g := newRectGlyph(1, 10, 10, 5, 5)
	c.QueueGlyph(1, g)
	if err := c.CacheQueued(nil); err != nil {
		t.Fatalf("CacheQueued() error = %v", err)
	}
	c.QueueGlyph(1, newRectGlyph(2, 10, 10, 0, 0))
	c.Clear()

	if _, _, err := c.RectFor(1, g); !errors.Is(err, ErrGlyphNotCached) {
		t.Errorf("RectFor() after Clear error = %v, want ErrGlyphNotCached", err)
	}
	if len(c.queue) != 1 {
		t.Errorf("queue length after Clear = %d, want 1 (unaffected)", len(c.queue))
	}
}

func TestRebuildResetsDimensionsAndDropsEverything(t *testing.T) {
	c := New(64, 64)
	c.QueueGlyph(1, newRectGlyph(1, 10, 10, 0, 0))
	c.CacheQueued(nil)
	c.Rebuild(128, 128, WithPadding(false))

	w, h := c.Dimensions()
	if w != 128 || h != 128 {
		t.Errorf("Dimensions() after Rebuild = (%d, %d), want (128, 128)", w, h)
	}
	if len(c.queue) != 0 {
		t.Errorf("queue length after Rebuild = %d, want 0", len(c.queue))
	}
	if len(c.index) != 0 {
		t.Errorf("index length after Rebuild = %d, want 0", len(c.index))
	}
}

func TestSetTolerancesClearsCache(t *testing.T) {
	c := New(256, 256)
	g := newRectGlyph(1, 10, 10, 5, 5)
	c.QueueGlyph(1, g)
	c.CacheQueued(nil)

	c.SetTolerances(0.2, 0.2)
	if c.ScaleTolerance() != 0.2 || c.PositionTolerance() != 0.2 {
		t.Errorf("tolerances after SetTolerances = (%v, %v), want (0.2, 0.2)", c.ScaleTolerance(), c.PositionTolerance())
	}
	if _, _, err := c.RectFor(1, g); !errors.Is(err, ErrGlyphNotCached) {
		t.Errorf("RectFor() after SetTolerances error = %v, want ErrGlyphNotCached", err)
	}
}

func TestSetTolerancesPanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative tolerance")
		}
	}()
	New(64, 64).SetTolerances(-1, 0)
}

func TestStatsHitRate(t *testing.T) {
	var s CacheStats
	if s.HitRate() != 0 {
		t.Errorf("HitRate() with no lookups = %v, want 0", s.HitRate())
	}
	s.Hits, s.Misses = 3, 1
	if s.HitRate() != 0.75 {
		t.Errorf("HitRate() = %v, want 0.75", s.HitRate())
	}
}
