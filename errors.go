package glyphatlas

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Cache.
var (
	// ErrGlyphNotCached is returned by RectFor when the requested glyph's
	// fingerprint has no entry in the glyph index. The caller should queue
	// the glyph and call CacheQueued before retrying the lookup.
	ErrGlyphNotCached = errors.New("glyphatlas: glyph not cached")
)

// GlyphTooLargeError is returned by CacheQueued when a queued glyph's
// padded pixel bounding box cannot fit inside an empty atlas of the
// cache's configured dimensions. Shrink the glyph or grow the atlas.
type GlyphTooLargeError struct {
	Width, Height  int
	AtlasW, AtlasH int
}

func (e *GlyphTooLargeError) Error() string {
	return fmt.Sprintf("glyphatlas: glyph %dx%d too large for atlas %dx%d", e.Width, e.Height, e.AtlasW, e.AtlasH)
}

// NoRoomForWholeQueueError is returned by CacheQueued when the entire
// queued set, treated as one transaction, cannot be packed into the
// atlas even starting from an empty cache. Split the queue across
// multiple commits or grow the atlas.
type NoRoomForWholeQueueError struct {
	QueueLen int
	AtlasW   int
	AtlasH   int
}

func (e *NoRoomForWholeQueueError) Error() string {
	return fmt.Sprintf("glyphatlas: %d queued glyphs do not fit in atlas %dx%d even from empty", e.QueueLen, e.AtlasW, e.AtlasH)
}
