package shelf

// Placement is the result of a successful Allocate call: the row the
// glyph was placed in (possibly newly opened) and the x-offset inside
// that row to place it at.
type Placement struct {
	RowTop   uint32
	RowIsNew bool
	X        uint32
}

// Allocator packs w x h rectangles into horizontal rows inside a fixed
// width x height area (§4.2), tracking free vertical gaps between rows so
// evicted space can be reclaimed and coalesced with its neighbors.
//
// Allocator has a single owner; it performs no locking.
type Allocator struct {
	width, height uint32

	rows *LRU

	// startToEnd maps a gap's start y to its end y (space_end_for_start
	// in the reference implementation). endToStart is its inverse.
	startToEnd map[uint32]uint32
	endToStart map[uint32]uint32
}

// New creates an allocator over a width x height area, initialized to one
// full-height gap and no rows.
func New(width, height uint32) *Allocator {
	a := &Allocator{width: width, height: height, rows: NewLRU()}
	a.resetGaps()
	return a
}

func (a *Allocator) resetGaps() {
	a.startToEnd = map[uint32]uint32{0: a.height}
	a.endToStart = map[uint32]uint32{a.height: 0}
}

// Reset drops every row and restores a single full-height gap, mirroring
// Cache::clear in the reference implementation.
func (a *Allocator) Reset() {
	a.rows.Clear()
	a.resetGaps()
}

// Dimensions returns the allocator's fixed width and height.
func (a *Allocator) Dimensions() (width, height uint32) { return a.width, a.height }

// Row returns the row at top, if one is currently open there.
func (a *Allocator) Row(top uint32) (*Row, bool) { return a.rows.Get(top) }

// Touch marks the row at top as most-recently-used. No-op if absent.
func (a *Allocator) Touch(top uint32) { a.rows.Touch(top) }

// RowCount returns the number of currently open rows.
func (a *Allocator) RowCount() int { return a.rows.Len() }

// Allocate finds space for a w x h rectangle (§4.2). inUse is the set of
// row tops that must not be evicted during this call (rows referenced by
// the in-flight commit). onEvict is invoked once per evicted row, before
// its band is merged back into the gap maps, so the caller can remove the
// row's glyph-index entries first.
//
// Returns (placement, true) on success. Returns (zero, false) if the LRU
// end is blocked by a row in inUse — the caller must clear and retry.
// Callers must reject w >= width or h >= height before calling Allocate;
// it assumes the request can in principle fit.
func (a *Allocator) Allocate(w, h uint32, inUse map[uint32]bool, onEvict func(top uint32)) (Placement, bool) {
	// Step 1: scan existing rows MRU-first for a fit.
	var fit *Row
	a.rows.EachMRUFirst(func(row *Row) bool {
		if row.Height >= h && a.width-row.UsedWidth >= w {
			fit = row
			return false
		}
		return true
	})
	if fit != nil {
		x := fit.UsedWidth
		fit.UsedWidth += w
		a.rows.Touch(fit.Top)
		return Placement{RowTop: fit.Top, X: x}, true
	}

	// Step 2/3: find or make room for a new row of height h.
	gapStart, gapEnd, ok := a.findGap(h)
	if !ok {
		gapStart, gapEnd, ok = a.evictUntilGapFits(h, inUse, onEvict)
		if !ok {
			return Placement{}, false
		}
	}

	newStart := gapStart + h
	delete(a.startToEnd, gapStart)
	if newStart == gapEnd {
		delete(a.endToStart, gapEnd)
	} else {
		a.startToEnd[newStart] = gapEnd
		a.endToStart[gapEnd] = newStart
	}

	row := &Row{Top: gapStart, Height: h, UsedWidth: w}
	a.rows.Insert(row)

	return Placement{RowTop: gapStart, RowIsNew: true, X: 0}, true
}

// findGap returns a gap with end-start >= h, if any. When several gaps
// qualify, which one is returned is not defined (map iteration order).
func (a *Allocator) findGap(h uint32) (start, end uint32, ok bool) {
	for s, e := range a.startToEnd {
		if e-s >= h {
			return s, e, true
		}
	}
	return 0, 0, false
}

// evictUntilGapFits evicts rows from the LRU end, one at a time,
// coalescing freed bands into the gap maps, until a gap big enough for h
// appears or the LRU end is blocked by a row in inUse.
func (a *Allocator) evictUntilGapFits(h uint32, inUse map[uint32]bool, onEvict func(top uint32)) (start, end uint32, ok bool) {
	for a.rows.Len() > 0 {
		top, _ := a.rows.PeekLRUTop()
		if inUse[top] {
			return 0, 0, false
		}

		row, _ := a.rows.PopLRU()
		if onEvict != nil {
			onEvict(row.Top)
		}

		newStart, newEnd := row.Top, row.Top+row.Height
		if e, found := a.startToEnd[newEnd]; found {
			delete(a.startToEnd, newEnd)
			delete(a.endToStart, e)
			newEnd = e
		}
		if s, found := a.endToStart[newStart]; found {
			delete(a.endToStart, newStart)
			delete(a.startToEnd, s)
			newStart = s
		}
		a.endToStart[newEnd] = newStart
		a.startToEnd[newStart] = newEnd

		if newEnd-newStart >= h {
			return newStart, newEnd, true
		}
	}
	return 0, 0, false
}
