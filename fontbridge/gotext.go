package fontbridge

import (
	"bytes"
	"fmt"

	gotextfont "github.com/go-text/typesetting/font"
)

// GoTextSource is an alternate font-metadata parser backed by
// github.com/go-text/typesetting/font, mirroring the teacher's own
// "Pluggable Parser Backend" design note (text/doc.go): callers can
// validate a glyph id against either backend's glyph count before
// queuing it with SFNTSource.
//
// GoTextSource deliberately exposes only font.Font's metadata surface
// (glyph count, units per em). It never imports the shaping or
// harfbuzz packages — text shaping is out of scope here (spec.md
// Non-goals), and glyphatlas only ever needs to know how many glyphs a
// font has and how its outline units relate to pixels, not how to lay
// runs of text out.
type GoTextSource struct {
	font *gotextfont.Font
}

// NewGoTextSource parses font file bytes (TrueType or OpenType) with
// go-text/typesetting, the same parser the teacher's GoTextShaper uses
// (text/shaper_gotext.go's font.ParseTTF call). Only the parsed font.Font
// of the returned face is kept, and no HarfbuzzShaper is constructed.
func NewGoTextSource(data []byte) (*GoTextSource, error) {
	face, err := gotextfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("fontbridge: parse font: %w", err)
	}
	return &GoTextSource{font: face.Font}, nil
}

// NumGlyphs returns the number of glyphs defined by the font.
func (s *GoTextSource) NumGlyphs() int {
	return s.font.NumGlyphs()
}

// UnitsPerEm returns the font's design units per em, used to scale
// outline coordinates to a given pixel size.
func (s *GoTextSource) UnitsPerEm() int {
	return int(s.font.Upem())
}

// HasGlyph reports whether gid is a valid glyph index in this font,
// the validation step the doc comment above describes: callers can
// check a glyph id against this backend's count before handing it (and
// an SFNTSource-backed PositionedGlyph for the same font bytes) to
// glyphatlas.Cache.QueueGlyph.
func (s *GoTextSource) HasGlyph(gid uint32) bool {
	return int(gid) < s.font.NumGlyphs()
}
