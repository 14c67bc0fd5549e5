package fontbridge

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/glyphatlas"
)

// SFNTSource parses a TrueType/OpenType font with
// golang.org/x/image/font/sfnt and produces glyphatlas.PositionedGlyph
// values from it, mirroring the teacher's own ximageParsedFont /
// RasterizeGlyph pairing (text/parser_ximage.go, text/rasterize.go) but
// retargeted at the cache's interface instead of an immediate-mode
// font.Drawer call.
//
// SFNTSource is not safe for concurrent use: it reuses a single
// sfnt.Buffer across calls, matching the single-owner model spec §5
// imposes on the cache itself.
type SFNTSource struct {
	font *sfnt.Font
	buf  sfnt.Buffer
}

// NewSFNTSource parses font file bytes (TrueType or OpenType).
func NewSFNTSource(data []byte) (*SFNTSource, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fontbridge: parse font: %w", err)
	}
	return &SFNTSource{font: f}, nil
}

// NumGlyphs returns the number of glyphs defined by the font.
func (s *SFNTSource) NumGlyphs() int {
	return s.font.NumGlyphs()
}

// GlyphIndex returns the glyph index for a rune, or an error if the font
// has no mapping for it.
func (s *SFNTSource) GlyphIndex(r rune) (uint32, error) {
	idx, err := s.font.GlyphIndex(&s.buf, r)
	if err != nil {
		return 0, fmt.Errorf("fontbridge: glyph index for %q: %w", r, err)
	}
	return uint32(idx), nil
}

// Glyph returns a PositionedGlyph for glyph gid at scale sx, sy pixels
// per em and absolute position (x, y), ready to be passed to
// glyphatlas.Cache.QueueGlyph or RectFor.
func (s *SFNTSource) Glyph(gid uint32, sx, sy, x, y float32) *SFNTGlyph {
	return &SFNTGlyph{source: s, gid: gid, sx: sx, sy: sy, px: x, py: y}
}

// SFNTGlyph adapts one (font, glyph, scale, position) tuple from an
// SFNTSource to glyphatlas.PositionedGlyph. It rasterizes lazily: no
// outline is loaded or rendered until PixelBoundingBox or Draw is
// called.
type SFNTGlyph struct {
	source *SFNTSource
	gid    uint32
	sx, sy float32
	px, py float32
}

var _ glyphatlas.PositionedGlyph = (*SFNTGlyph)(nil)

// ID returns the glyph's index within its font.
func (g *SFNTGlyph) ID() uint32 { return g.gid }

// Position returns the glyph's absolute sub-pixel position.
func (g *SFNTGlyph) Position() (x, y float32) { return g.px, g.py }

// Scale returns the glyph's horizontal and vertical scale in pixels per
// em. SFNTGlyph only supports uniform vertical scaling (sfnt.LoadGlyph
// takes a single ppem); Scale().sx is reported but not separately
// applied to the outline.
func (g *SFNTGlyph) Scale() (sx, sy float32) { return g.sx, g.sy }

// Repositioned returns a copy of this glyph translated to a new
// absolute position, used by Cache.RectFor to recompute a pixel
// bounding box at the exact offset a cached bitmap was rasterized with.
func (g *SFNTGlyph) Repositioned(x, y float32) glyphatlas.PositionedGlyph {
	cp := *g
	cp.px, cp.py = x, y
	return &cp
}

// segments loads the glyph's outline at this glyph's scale, in font
// units converted to pixels by sfnt.LoadGlyph, y-axis pointing up (font
// convention).
func (g *SFNTGlyph) segments() ([]sfnt.Segment, error) {
	ppem := fixed.Int26_6(g.sy * 64)
	segs, err := g.source.font.LoadGlyph(&g.source.buf, sfnt.GlyphIndex(g.gid), ppem, nil)
	if err != nil {
		return nil, fmt.Errorf("fontbridge: load glyph %d: %w", g.gid, err)
	}
	return segs, nil
}

// PixelBoundingBox returns the integer pixel rectangle the glyph
// occupies at its current position (§6), or ok=false for a glyph with
// no outline (e.g. space).
func (g *SFNTGlyph) PixelBoundingBox() (glyphatlas.IntRect, bool) {
	segs, err := g.segments()
	if err != nil || len(segs) == 0 {
		return glyphatlas.IntRect{}, false
	}

	minX, minY, maxX, maxY := segmentPixelBounds(segs)
	if minX >= maxX || minY >= maxY {
		return glyphatlas.IntRect{}, false
	}

	minX += g.px
	maxX += g.px
	minY += g.py
	maxY += g.py

	return glyphatlas.IntRect{
		MinX: int(math.Round(float64(minX))),
		MinY: int(math.Round(float64(minY))),
		MaxX: int(math.Round(float64(maxX))),
		MaxY: int(math.Round(float64(maxY))),
	}, true
}

// Draw rasterizes the glyph's outline into an alpha coverage mask using
// golang.org/x/image/vector, then calls fn once per pixel with non-zero
// coverage, in row-major order — the same x/image vector-rasterizer math the teacher's
// RasterizeGlyph uses via font.Drawer, applied directly to an outline
// instead of through a face/drawer pair so a single glyph index (rather
// than a rune) can be rasterized.
func (g *SFNTGlyph) Draw(fn func(x, y int, v float32)) {
	bb, ok := g.PixelBoundingBox()
	if !ok {
		return
	}
	w, h := bb.Width(), bb.Height()

	segs, err := g.segments()
	if err != nil {
		return
	}

	originX, originY := fracTowardZero(g.px), fracTowardZero(g.py)
	minX, minY, _, _ := segmentPixelBounds(segs)

	ras := vector.NewRasterizer(w, h)
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			ax, ay := glyphToRaster(seg.Args[0], minX, minY, originX, originY)
			ras.MoveTo(ax, ay)
		case sfnt.SegmentOpLineTo:
			ax, ay := glyphToRaster(seg.Args[0], minX, minY, originX, originY)
			ras.LineTo(ax, ay)
		case sfnt.SegmentOpQuadTo:
			bx, by := glyphToRaster(seg.Args[0], minX, minY, originX, originY)
			ax, ay := glyphToRaster(seg.Args[1], minX, minY, originX, originY)
			ras.QuadTo(bx, by, ax, ay)
		case sfnt.SegmentOpCubeTo:
			bx, by := glyphToRaster(seg.Args[0], minX, minY, originX, originY)
			cx, cy := glyphToRaster(seg.Args[1], minX, minY, originX, originY)
			ax, ay := glyphToRaster(seg.Args[2], minX, minY, originX, originY)
			ras.CubeTo(bx, by, cx, cy, ax, ay)
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := mask.AlphaAt(x, y).A
			if v == 0 {
				continue
			}
			fn(x, y, float32(v)/255)
		}
	}
}

// glyphToRaster converts one outline point (font units, y-up) into
// rasterizer-local pixel coordinates (y-down, relative to the glyph's
// own pixel bounding box).
func glyphToRaster(p fixed.Point26_6, minX, minY, originX, originY float32) (x, y float32) {
	fx := float32(p.X)/64 + originX - minX
	fy := -(float32(p.Y)/64 + originY) - minY
	return fx, fy
}

// segmentPixelBounds computes the font-space bounding box of an
// outline's control/end points, in pixels with the y-axis flipped to
// point down (image convention) — font outlines are y-up.
func segmentPixelBounds(segs []sfnt.Segment) (minX, minY, maxX, maxY float32) {
	minX, minY = float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY = float32(math.Inf(-1)), float32(math.Inf(-1))

	visit := func(p fixed.Point26_6) {
		x := float32(p.X) / 64
		y := -float32(p.Y) / 64
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}

	for _, seg := range segs {
		n := 1
		switch seg.Op {
		case sfnt.SegmentOpQuadTo:
			n = 2
		case sfnt.SegmentOpCubeTo:
			n = 3
		}
		for i := 0; i < n; i++ {
			visit(seg.Args[i])
		}
	}
	return minX, minY, maxX, maxY
}

// fracTowardZero returns x minus its truncation toward zero, matching
// glyphatlas's own fingerprint sub-pixel convention.
func fracTowardZero(x float32) float32 {
	return x - float32(math.Trunc(float64(x)))
}
