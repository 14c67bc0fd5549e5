// Package glyphatlas implements a dynamic GPU glyph cache for real-time
// text rendering.
//
// Given a stream of positioned-glyph requests (font, glyph id, scale,
// sub-pixel offset) produced per frame by an application, Cache packs
// the rasterized bitmaps of glyphs currently in use into a single
// rectangular pixel atlas and returns the normalized atlas coordinates
// plus the screen-space pixel rectangle at which each glyph should be
// drawn. The goal is to minimize both CPU rasterization work and
// texture-upload bandwidth while keeping the draw-call count for text
// at exactly one atlas texture.
//
// Cache never parses fonts, rasterizes outlines, or talks to a graphics
// API: those are external collaborators reached through the narrow
// PositionedGlyph interface and the upload callback passed to
// CacheQueued. Package fontbridge provides real adapters to
// golang.org/x/image/font/sfnt and github.com/go-text/typesetting/font
// for applications that want one.
//
// # Basic usage
//
//	c := glyphatlas.New(1024, 1024)
//	c.QueueGlyph(fontID, glyph)
//	if err := c.CacheQueued(func(rect glyphatlas.IntRect, pixels []byte) {
//	    uploadToGPUTexture(rect, pixels)
//	}); err != nil {
//	    // GlyphTooLargeError or NoRoomForWholeQueueError
//	}
//	uv, screen, err := c.RectFor(fontID, glyph)
//
// Cache has a single owner and is not safe for concurrent use; see the
// Cache doc comment for the full contract.
package glyphatlas
