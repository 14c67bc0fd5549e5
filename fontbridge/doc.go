// Package fontbridge adapts real font-parsing and rasterization libraries
// to glyphatlas.PositionedGlyph (spec §6's external collaborator contract).
//
// glyphatlas never parses fonts or rasterizes outlines itself — that is
// deliberately out of scope (spec §1). fontbridge is where this repository
// exercises the font stack the cache is meant to sit behind: SFNTSource
// wraps golang.org/x/image/font/sfnt to turn a (font, glyph id, scale,
// position) tuple into the bounding box and coverage callback the cache
// asks for, and GoTextSource offers an alternate font-metadata parser
// backed by github.com/go-text/typesetting/font, mirroring the "pluggable
// parser backend" design the teacher documents in its own text package.
package fontbridge
