package fontbridge

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func loadTestSource(t *testing.T) *SFNTSource {
	t.Helper()
	src, err := NewSFNTSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewSFNTSource() error = %v", err)
	}
	return src
}

func TestSFNTSourceGlyphIndex(t *testing.T) {
	src := loadTestSource(t)
	if src.NumGlyphs() == 0 {
		t.Fatal("NumGlyphs() = 0, want > 0 for goregular")
	}

	gid, err := src.GlyphIndex('A')
	if err != nil {
		t.Fatalf("GlyphIndex('A') error = %v", err)
	}
	if gid == 0 {
		t.Error("GlyphIndex('A') = 0 (.notdef), want a real glyph index")
	}
}

func TestSFNTGlyphPixelBoundingBoxNonEmpty(t *testing.T) {
	src := loadTestSource(t)
	gid, err := src.GlyphIndex('A')
	if err != nil {
		t.Fatalf("GlyphIndex('A') error = %v", err)
	}

	g := src.Glyph(gid, 32, 32, 10, 10)
	bb, ok := g.PixelBoundingBox()
	if !ok {
		t.Fatal("PixelBoundingBox() ok = false for 'A', want true")
	}
	if bb.Empty() {
		t.Error("PixelBoundingBox() is empty for a visible glyph")
	}
}

func TestSFNTGlyphSpaceHasNoBoundingBox(t *testing.T) {
	src := loadTestSource(t)
	gid, err := src.GlyphIndex(' ')
	if err != nil {
		t.Fatalf("GlyphIndex(' ') error = %v", err)
	}

	g := src.Glyph(gid, 32, 32, 0, 0)
	if _, ok := g.PixelBoundingBox(); ok {
		t.Error("PixelBoundingBox() ok = true for space glyph, want false")
	}
}

func TestSFNTGlyphDrawProducesCoverage(t *testing.T) {
	src := loadTestSource(t)
	gid, err := src.GlyphIndex('A')
	if err != nil {
		t.Fatalf("GlyphIndex('A') error = %v", err)
	}

	g := src.Glyph(gid, 48, 48, 0, 0)
	var covered int
	g.Draw(func(x, y int, v float32) {
		if v > 0 {
			covered++
		}
	})
	if covered == 0 {
		t.Error("Draw() produced no covered pixels for 'A' at 48ppem")
	}
}

func TestSFNTGlyphRepositioned(t *testing.T) {
	src := loadTestSource(t)
	gid, err := src.GlyphIndex('A')
	if err != nil {
		t.Fatalf("GlyphIndex('A') error = %v", err)
	}

	g := src.Glyph(gid, 32, 32, 1, 1)
	moved := g.Repositioned(5, 7)
	x, y := moved.Position()
	if x != 5 || y != 7 {
		t.Errorf("Repositioned().Position() = (%v, %v), want (5, 7)", x, y)
	}
	if moved.ID() != g.ID() {
		t.Errorf("Repositioned().ID() = %d, want %d", moved.ID(), g.ID())
	}
}
