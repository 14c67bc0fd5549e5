package glyphatlas

import (
	"math"

	"github.com/gogpu/glyphatlas/internal/shelf"
)

// slotRef locates a GlyphSlot inside a Row by index, mirroring the glyph
// index described in §3/§4.3: a fingerprint maps to (row-top, slot-index)
// rather than to a pointer, so eviction can invalidate entries by key
// without chasing back-references.
type slotRef struct {
	rowTop    uint32
	slotIndex int
}

// Cache is a dynamic GPU glyph atlas cache (§1-§9): it packs rasterized
// glyph bitmaps into a fixed W x H atlas using shelf-based rectangle
// allocation with LRU row eviction, keyed by a tolerance-quantized
// fingerprint, and answers lookups with the atlas UV rectangle and
// screen-space pixel rectangle to draw at.
//
// Cache has a single owner. It is not safe for concurrent use (§5): all
// methods must be called from one goroutine at a time, and the upload
// callback passed to CacheQueued must not re-enter the cache.
type Cache struct {
	width, height uint32
	config        Config

	alloc *shelf.Allocator

	// rowSlots holds the full slot list for each open row, mirroring the
	// row metadata shelf.Allocator tracks internally (top, height,
	// usedWidth). Kept here rather than inside the shelf package so that
	// package stays a pure packing data structure with no knowledge of
	// glyph identity.
	rowSlots map[uint32][]GlyphSlot

	index map[Fingerprint]slotRef

	queue []queueEntry

	stats CacheStats
}

type queueEntry struct {
	fontID uint64
	glyph  PositionedGlyph
}

// New creates a Cache over a W x H atlas with the given options applied on
// top of DefaultConfig. It panics if width or height is not positive, or
// if an Option sets a negative tolerance (§6: "panics/rejects on τ<0").
func New(width, height int, opts ...Option) *Cache {
	if width <= 0 || height <= 0 {
		panic("glyphatlas: atlas dimensions must be positive")
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.clamped()

	return &Cache{
		width:    uint32(width),
		height:   uint32(height),
		config:   cfg,
		alloc:    shelf.New(uint32(width), uint32(height)),
		rowSlots: make(map[uint32][]GlyphSlot),
		index:    make(map[Fingerprint]slotRef),
	}
}

// Dimensions returns the atlas width and height.
func (c *Cache) Dimensions() (width, height int) { return int(c.width), int(c.height) }

// ScaleTolerance returns the current (clamped) scale tolerance.
func (c *Cache) ScaleTolerance() float32 { return c.config.ScaleTolerance }

// PositionTolerance returns the current (clamped) position tolerance.
func (c *Cache) PositionTolerance() float32 { return c.config.PositionTolerance }

// Stats returns a snapshot of the cache's cumulative statistics.
func (c *Cache) Stats() CacheStats { return c.stats }

// QueueGlyph appends a glyph to the pending queue for the next CacheQueued
// call. Glyphs with an empty pixel bounding box are ignored (§4.4).
func (c *Cache) QueueGlyph(fontID uint64, glyph PositionedGlyph) {
	if _, ok := glyph.PixelBoundingBox(); !ok {
		return
	}
	c.queue = append(c.queue, queueEntry{fontID: fontID, glyph: glyph})
}

// ClearQueue empties the pending queue without affecting cached glyphs.
func (c *Cache) ClearQueue() {
	c.queue = c.queue[:0]
}

// Clear drops every row and glyph-index entry, resetting the atlas to a
// single full-height gap. The pending queue is unaffected (§4.6).
func (c *Cache) Clear() {
	c.alloc.Reset()
	c.rowSlots = make(map[uint32][]GlyphSlot)
	c.index = make(map[Fingerprint]slotRef)
}

// Rebuild replaces the cache's dimensions and options in place, dropping
// every cached glyph — equivalent to constructing a fresh cache (§4.6).
// The pending queue is cleared too, since it may reference glyphs sized
// for the old atlas.
func (c *Cache) Rebuild(width, height int, opts ...Option) {
	if width <= 0 || height <= 0 {
		panic("glyphatlas: atlas dimensions must be positive")
	}
	fresh := New(width, height, opts...)
	*c = *fresh
}

// SetTolerances updates the scale and position tolerances in place and
// clears the cache, since every existing fingerprint was computed under
// the old tolerances (§4.6: "tolerance setters alone must not leave stale
// entries").
func (c *Cache) SetTolerances(scale, position float32) {
	if scale < 0 || position < 0 {
		panic("glyphatlas: tolerances must be non-negative")
	}
	c.config.ScaleTolerance = scale
	c.config.PositionTolerance = position
	c.config = c.config.clamped()
	c.Clear()
}

// CacheQueued performs one commit attempt over the pending queue (§4.4):
// classify already-cached glyphs, sort the rest tallest-first, allocate
// and upload each, and either commit (clearing the queue) or clear the
// whole atlas and retry once from empty.
//
// upload is invoked synchronously, in allocation order (tallest-first,
// not queue order — §5), once per newly rasterized glyph, with the
// destination rectangle and its row-major 8-bit coverage bytes.
func (c *Cache) CacheQueued(upload func(rect IntRect, pixels []byte)) error {
	return c.cacheQueued(upload, false)
}

func (c *Cache) cacheQueued(upload func(rect IntRect, pixels []byte), isRetry bool) error {
	inUse := make(map[uint32]bool)
	var uncached []uncachedEntry

	// 1. Classify.
	for _, qe := range c.queue {
		box, ok := qe.glyph.PixelBoundingBox()
		if !ok {
			continue
		}
		sx, sy := qe.glyph.Scale()
		px, py := qe.glyph.Position()
		fp := fingerprintFor(qe.fontID, qe.glyph.ID(), sx, sy, px, py, c.config.ScaleTolerance, c.config.PositionTolerance)

		if ref, ok := c.index[fp]; ok {
			inUse[ref.rowTop] = true
			continue
		}
		uncached = append(uncached, uncachedEntry{
			fontID: qe.fontID, glyph: qe.glyph, fingerprint: fp,
			w: box.Width(), h: box.Height(),
		})
	}

	// 2. Touch every in-use row to MRU.
	for top := range inUse {
		c.alloc.Touch(top)
	}

	// 3. Sort uncached tallest-first, stable so ties keep queue order.
	sortTallestFirstStable(uncached)

	// 3a. Validate every uncached entry's size against the atlas before
	// allocating or uploading any of them. Tallest-first sort only orders
	// by height, so a short-but-too-wide glyph can sort after several
	// glyphs that would otherwise fit — GlyphTooLarge must be all-or-
	// nothing for the call, leaving the index, row set, and queue exactly
	// as they were before it (§8).
	for _, e := range uncached {
		w, h := e.w, e.h
		if c.config.PadGlyphs {
			w += 2
			h += 2
		}
		if uint32(w) >= c.width || uint32(h) >= c.height {
			Logger().Warn("glyphatlas: glyph too large for atlas", "width", w, "height", h, "atlas_width", c.width, "atlas_height", c.height)
			c.stats.GlyphTooLarge++
			return &GlyphTooLargeError{Width: w, Height: h, AtlasW: int(c.width), AtlasH: int(c.height)}
		}
	}

	retryNeeded := false

insertLoop:
	for _, e := range uncached {
		// 4a. Skip if a prior iteration already inserted this fingerprint.
		if _, ok := c.index[e.fingerprint]; ok {
			inUse[c.index[e.fingerprint].rowTop] = true
			continue
		}

		// 4b/c. Sizes were already validated above.
		w, h := e.w, e.h
		if c.config.PadGlyphs {
			w += 2
			h += 2
		}

		// 4d. Allocate.
		placement, ok := c.alloc.Allocate(uint32(w), uint32(h), inUse, func(top uint32) {
			c.evictRow(top)
		})
		if !ok {
			if isRetry {
				c.stats.NoRoomForWholeQueue++
				Logger().Warn("glyphatlas: queue does not fit atlas even from empty", "queue_len", len(c.queue), "atlas_width", c.width, "atlas_height", c.height)
				// Earlier entries in this same from-empty pass may already
				// have been allocated and uploaded; the documented
				// postcondition is an empty cache, not a partially filled
				// one (§8).
				c.Clear()
				return &NoRoomForWholeQueueError{QueueLen: len(c.queue), AtlasW: int(c.width), AtlasH: int(c.height)}
			}
			retryNeeded = true
			break insertLoop
		}
		inUse[placement.RowTop] = true
		if placement.RowIsNew {
			Logger().Debug("glyphatlas: row opened", "top", placement.RowTop, "height", h)
		}

		// 4e. Compute destination rect, rasterize, pad.
		texRect := IntRect{
			MinX: int(placement.X), MinY: int(placement.RowTop),
			MaxX: int(placement.X) + w, MaxY: int(placement.RowTop) + h,
		}
		pixels := rasterizeGlyph(e.glyph, w, h, c.config.PadGlyphs)

		// 4f. Upload.
		if upload != nil {
			upload(texRect, pixels)
		}

		// 4g. Commit the slot.
		px, py := e.glyph.Position()
		ox := normalizeOffset(fracTowardZero(px))
		oy := normalizeOffset(fracTowardZero(py))
		slot := GlyphSlot{Fingerprint: e.fingerprint, ExactOffsetX: ox, ExactOffsetY: oy, TexRect: texRect}

		slots := c.rowSlots[placement.RowTop]
		c.rowSlots[placement.RowTop] = append(slots, slot)
		c.index[e.fingerprint] = slotRef{rowTop: placement.RowTop, slotIndex: len(c.rowSlots[placement.RowTop]) - 1}
	}

	if !retryNeeded {
		c.stats.Commits++
		c.queue = c.queue[:0]
		return nil
	}

	// 5. Clear and retry once from empty.
	c.stats.Retries++
	c.Clear()
	return c.cacheQueued(upload, true)
}

// evictRow removes a row's glyph-index entries when the allocator evicts
// it, keeping rowSlots and index in sync with the allocator's row set.
func (c *Cache) evictRow(top uint32) {
	for _, slot := range c.rowSlots[top] {
		delete(c.index, slot.Fingerprint)
	}
	delete(c.rowSlots, top)
	c.stats.Evictions++
	Logger().Debug("glyphatlas: row evicted", "top", top)
}

// RectFor implements lookup (§4.5): given a positioned glyph, returns its
// atlas UV rectangle and the screen-space pixel rectangle to draw it at.
// Returns a zero Rect, a zero IntRect and a nil error if the glyph has no
// visible extent. Returns
// ErrGlyphNotCached if the fingerprint is absent from the index.
func (c *Cache) RectFor(fontID uint64, glyph PositionedGlyph) (uv Rect, screen IntRect, err error) {
	glyphBB, ok := glyph.PixelBoundingBox()
	if !ok {
		return Rect{}, IntRect{}, nil
	}

	sx, sy := glyph.Scale()
	px, py := glyph.Position()
	fp := fingerprintFor(fontID, glyph.ID(), sx, sy, px, py, c.config.ScaleTolerance, c.config.PositionTolerance)

	ref, ok := c.index[fp]
	if !ok {
		c.stats.Misses++
		return Rect{}, IntRect{}, ErrGlyphNotCached
	}
	c.stats.Hits++

	slots := c.rowSlots[ref.rowTop]
	slot := slots[ref.slotIndex]

	texRect := slot.TexRect
	if c.config.PadGlyphs {
		texRect = IntRect{
			MinX: texRect.MinX + 1, MinY: texRect.MinY + 1,
			MaxX: texRect.MaxX - 1, MaxY: texRect.MaxY - 1,
		}
	}

	uv = Rect{
		MinX: float32(texRect.MinX) / float32(c.width),
		MinY: float32(texRect.MinY) / float32(c.height),
		MaxX: float32(texRect.MaxX) / float32(c.width),
		MaxY: float32(texRect.MaxY) / float32(c.height),
	}

	// Screen-rect reconstruction (§9): re-derive the local pixel bounding
	// box at the slot's exact stored offset, then translate by the
	// integer delta between the caller's rounded position and that
	// local box's min corner.
	localGlyph := glyph.Repositioned(slot.ExactOffsetX, slot.ExactOffsetY)
	localBB, ok := localGlyph.PixelBoundingBox()
	if !ok {
		localBB = glyphBB
	}

	minFromOriginX := float32(localBB.MinX) - slot.ExactOffsetX
	minFromOriginY := float32(localBB.MinY) - slot.ExactOffsetY

	idealMinX := minFromOriginX + px
	idealMinY := minFromOriginY + py

	minX := int(math.Round(float64(idealMinX)))
	minY := int(math.Round(float64(idealMinY)))

	offsetX := minX - localBB.MinX
	offsetY := minY - localBB.MinY

	screen = IntRect{
		MinX: minX, MinY: minY,
		MaxX: localBB.MaxX + offsetX,
		MaxY: localBB.MaxY + offsetY,
	}

	return uv, screen, nil
}

// rasterizeGlyph draws glyph's raw coverage bitmap into a paddedW x
// paddedH buffer, offset by one pixel on each side if pad is set, leaving
// a zero-alpha border — §4.4 step 4e. Coverage is converted from a [0,1]
// float to a clamped 8-bit value via round(v*255), never truncation.
func rasterizeGlyph(glyph PositionedGlyph, paddedW, paddedH int, pad bool) []byte {
	out := make([]byte, paddedW*paddedH)

	offsetX, offsetY := 0, 0
	if pad {
		offsetX, offsetY = 1, 1
	}

	glyph.Draw(func(x, y int, v float32) {
		v8 := int(math.Round(float64(v)*255))
		if v8 < 0 {
			v8 = 0
		}
		if v8 > 255 {
			v8 = 255
		}
		px := x + offsetX
		py := y + offsetY
		if px < 0 || px >= paddedW || py < 0 || py >= paddedH {
			return
		}
		out[py*paddedW+px] = byte(v8)
	})

	return out
}

// uncachedEntry is a queued glyph awaiting allocation during one commit
// attempt, paired with its computed fingerprint and padded-free bounding
// box size.
type uncachedEntry struct {
	fontID      uint64
	glyph       PositionedGlyph
	fingerprint Fingerprint
	w, h        int
}

// sortTallestFirstStable sorts es by descending pixel-bounding-box height,
// breaking ties by original (queue) order — §4.4 step 3.
func sortTallestFirstStable(es []uncachedEntry) {
	// Insertion sort: the queues this cache deals with are small enough
	// per commit that O(n^2) is not a concern, and it is trivially stable.
	for i := 1; i < len(es); i++ {
		for j := i; j > 0 && es[j].h > es[j-1].h; j-- {
			es[j], es[j-1] = es[j-1], es[j]
		}
	}
}
