package glyphatlas

import "math"

// Fingerprint is the quantized cache key for a positioned glyph: a
// (font, glyph, scale, sub-pixel offset) tuple reduced to an equality
// and hash key by the configured scale and position tolerances (§4.1).
// Two requests that quantize to the same Fingerprint are treated as
// interchangeable and share one rasterized bitmap.
type Fingerprint struct {
	FontID  uint64
	GlyphID uint32

	ScaleBucketX, ScaleBucketY uint32
	OffsetBucketX, OffsetBucketY uint16
}

// normalizeOffset folds a fractional sub-pixel offset into [-0.5, +0.5],
// mirroring normalise_pixel_offset in the reference implementation.
func normalizeOffset(v float32) float32 {
	if v > 0.5 {
		return v - 1
	}
	if v < -0.5 {
		return v + 1
	}
	return v
}

// bucket implements the floor(x + 0.5) rounding the fingerprint requires
// everywhere — never "round half to even".
func bucket(x float32) int64 {
	return int64(math.Floor(float64(x) + 0.5))
}

// fingerprintFor computes the Fingerprint for a positioned glyph, given
// the cache's current (already-clamped) tolerances.
//
// sx, sy is the glyph's scale; px, py is its absolute position. The
// sub-pixel offset is the fractional part of the position, truncated
// toward zero and then normalized into [-0.5, +0.5].
func fingerprintFor(fontID uint64, glyphID uint32, sx, sy, px, py float32, scaleTol, posTol float32) Fingerprint {
	ox := normalizeOffset(fracTowardZero(px))
	oy := normalizeOffset(fracTowardZero(py))

	sbx := bucket(sx / scaleTol)
	sby := bucket(sy / scaleTol)

	obx := bucket((ox + 0.5) / posTol)
	oby := bucket((oy + 0.5) / posTol)

	return Fingerprint{
		FontID:        fontID,
		GlyphID:       glyphID,
		ScaleBucketX:  uint32(sbx),
		ScaleBucketY:  uint32(sby),
		OffsetBucketX: uint16(obx),
		OffsetBucketY: uint16(oby),
	}
}

// fracTowardZero returns x minus its truncation toward zero, i.e. the
// signed fractional part: fracTowardZero(5.3) == 0.3, fracTowardZero(-5.3) == -0.3.
func fracTowardZero(x float32) float32 {
	return x - float32(math.Trunc(float64(x)))
}
