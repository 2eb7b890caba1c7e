package region

import "math"

// Transform is a 2D affine transform applied to regions (2x3 row-major:
// x' = a*x + b*y + c, y' = d*x + e*y + f), restricted to the cases the
// compositor actually needs: translation, axis swaps, 90-degree rotations,
// and flips, plus an escape hatch for an arbitrary affine whose output can
// only be trusted as a conservative bounding rect.
type Transform struct {
	A, B, C float64
	D, E, F float64

	// rectPreserving is true when the linear part {A,B,D,E} is a signed
	// permutation matrix (exactly one nonzero +-1 entry per row/column):
	// translations, axis swaps, 90/180/270 rotations, and flips all
	// qualify. It is false for general affine transforms (arbitrary
	// scale, shear, or rotation by an angle other than a multiple of 90
	// degrees).
	rectPreserving bool
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, E: 1, rectPreserving: true}
}

// Translate returns a transform that offsets by (tx, ty).
func Translate(tx, ty int) Transform {
	return Transform{A: 1, E: 1, C: float64(tx), F: float64(ty), rectPreserving: true}
}

// Rotate90 returns a clockwise 90-degree rotation of content that is
// width x height, producing output in a height x width space.
func Rotate90(width, height int) Transform {
	return Transform{A: 0, B: -1, C: float64(height), D: 1, E: 0, F: 0, rectPreserving: true}
}

// Rotate180 returns a 180-degree rotation of content that is width x height.
func Rotate180(width, height int) Transform {
	return Transform{A: -1, B: 0, C: float64(width), D: 0, E: -1, F: float64(height), rectPreserving: true}
}

// Rotate270 returns a counter-clockwise 90-degree (i.e. 270 clockwise)
// rotation of content that is width x height, producing output in a
// height x width space.
func Rotate270(width, height int) Transform {
	return Transform{A: 0, B: 1, C: 0, D: -1, E: 0, F: float64(width), rectPreserving: true}
}

// FlipH returns a horizontal mirror of content with the given width.
func FlipH(width int) Transform {
	return Transform{A: -1, B: 0, C: float64(width), D: 0, E: 1, F: 0, rectPreserving: true}
}

// FlipV returns a vertical mirror of content with the given height.
func FlipV(height int) Transform {
	return Transform{A: 1, B: 0, C: 0, D: 0, E: -1, F: float64(height), rectPreserving: true}
}

// GeneralAffine returns an arbitrary affine transform (e.g. scale or
// shear). Its output on a Region is only a conservative bounding rect —
// see IsRectPreserving.
func GeneralAffine(a, b, c, d, e, f float64) Transform {
	return Transform{A: a, B: b, C: c, D: d, E: e, F: f, rectPreserving: false}
}

// IsRectPreserving reports whether the transform maps rectangles to
// rectangles exactly (translations, axis swaps, 90-degree rotations,
// flips), as opposed to requiring a conservative bounding-rect
// approximation.
func (t Transform) IsRectPreserving() bool {
	return t.rectPreserving
}

// Multiply composes t followed by other: result(p) = other(t(p)).
func (t Transform) Multiply(other Transform) Transform {
	return Transform{
		A: other.A*t.A + other.B*t.D,
		B: other.A*t.B + other.B*t.E,
		C: other.A*t.C + other.B*t.F + other.C,
		D: other.D*t.A + other.E*t.D,
		E: other.D*t.B + other.E*t.E,
		F: other.D*t.C + other.E*t.F + other.F,
		rectPreserving: t.rectPreserving && other.rectPreserving,
	}
}

func (t Transform) applyPoint(x, y float64) (float64, float64) {
	return t.A*x + t.B*y + t.C, t.D*x + t.E*y + t.F
}

// TransformRect maps r through t. When t is rect-preserving the result is
// exact; otherwise it is the conservative bounding rect of the four
// transformed corners.
func (t Transform) TransformRect(r Rect) Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	x0, y0 := t.applyPoint(float64(r.Left), float64(r.Top))
	x1, y1 := t.applyPoint(float64(r.Right), float64(r.Top))
	x2, y2 := t.applyPoint(float64(r.Left), float64(r.Bottom))
	x3, y3 := t.applyPoint(float64(r.Right), float64(r.Bottom))

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{
		Left:   int(math.Floor(minX)),
		Top:    int(math.Floor(minY)),
		Right:  int(math.Ceil(maxX)),
		Bottom: int(math.Ceil(maxY)),
	}
}

// TransformRegion maps every constituent rect of reg through t and unions
// the results. When t is not rect-preserving, callers should prefer
// treating the result as a bounding rect only; TransformRegion
// still returns a valid, if coarser, Region in that case by unioning the
// per-rect bounding boxes.
func (t Transform) TransformRegion(reg Region) Region {
	var out Region
	for _, r := range reg.rects {
		out = out.Union(FromRect(t.TransformRect(r)))
	}
	return out
}
