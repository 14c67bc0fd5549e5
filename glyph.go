package glyphatlas

// IntRect is an axis-aligned rectangle with integer pixel bounds, half-open
// on the max side: it covers [MinX, MaxX) x [MinY, MaxY). Used for pixel
// bounding boxes, atlas texel rectangles, and screen-space draw rectangles.
type IntRect struct {
	MinX, MinY, MaxX, MaxY int
}

// Width returns the rectangle's width in pixels.
func (r IntRect) Width() int { return r.MaxX - r.MinX }

// Height returns the rectangle's height in pixels.
func (r IntRect) Height() int { return r.MaxY - r.MinY }

// Empty reports whether the rectangle covers zero area.
func (r IntRect) Empty() bool { return r.MinX >= r.MaxX || r.MinY >= r.MaxY }

// Rect is an axis-aligned rectangle with normalized float32 bounds, used
// for atlas UV coordinates in [0, 1].
type Rect struct {
	MinX, MinY, MaxX, MaxY float32
}

// Width returns the rectangle's width.
func (r Rect) Width() float32 { return r.MaxX - r.MinX }

// Height returns the rectangle's height.
func (r Rect) Height() float32 { return r.MaxY - r.MinY }

// Empty reports whether the rectangle covers zero area.
func (r Rect) Empty() bool { return r.MinX >= r.MaxX || r.MinY >= r.MaxY }

// PositionedGlyph is the external capability the cache requires of
// whatever type an application uses to represent "a glyph, at a scale,
// at a sub-pixel position" (§6). The cache never parses fonts or
// rasterizes; it only calls these methods.
type PositionedGlyph interface {
	// PixelBoundingBox returns the integer pixel rectangle the glyph
	// occupies at its current position, or ok=false if the glyph has no
	// visible extent (e.g. a space).
	PixelBoundingBox() (r IntRect, ok bool)

	// Position returns the glyph's absolute sub-pixel position.
	Position() (x, y float32)

	// Scale returns the glyph's horizontal and vertical scale.
	Scale() (sx, sy float32)

	// ID returns the glyph's index within its font.
	ID() uint32

	// Draw rasterizes the glyph, invoking fn once per covered pixel in
	// row-major order with coverage v in [0, 1]. x and y are relative to
	// the glyph's own pixel bounding box (i.e. 0 <= x < box.Width()).
	Draw(fn func(x, y int, v float32))

	// Repositioned returns a copy of this glyph translated to a new
	// absolute position, used by RectFor to recompute a pixel bounding
	// box at the exact offset a cached bitmap was rasterized with.
	Repositioned(x, y float32) PositionedGlyph
}

// GlyphSlot is one packed bitmap inside a Row, identified by its
// Fingerprint and located by (row top, index within the row). ExactOffset
// stores the unquantized sub-pixel offset that was actually rasterized,
// so RectFor can reconstruct a pixel-accurate screen rectangle for a
// caller whose position falls anywhere inside the fingerprint's bucket.
type GlyphSlot struct {
	Fingerprint  Fingerprint
	ExactOffsetX float32
	ExactOffsetY float32
	TexRect      IntRect
}
