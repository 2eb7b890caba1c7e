// Package region implements integer rectangular-region algebra: union,
// intersection, subtraction, and transform over sets of closed-open
// rectangles, as used by the visibility & coverage pass to track visible,
// covered, and dirty pixels per output.
//
// A Region never merges adjacent rectangles beyond what's needed to keep
// its rectangle count from growing unboundedly; callers that need a single
// bounding box should call Bounds.
package region

import "fmt"

// Rect is a closed-open integer rectangle: it contains points with
// Left <= x < Right and Top <= y < Bottom.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Rectangle returns the rect with the given bounds. A rect where
// Right <= Left or Bottom <= Top is empty.
func Rectangle(left, top, right, bottom int) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// IsEmpty reports whether the rectangle contains no points.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Width returns the rectangle's width, or 0 if empty.
func (r Rect) Width() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the rectangle's height, or 0 if empty.
func (r Rect) Height() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Bottom - r.Top
}

// Intersect returns the intersection of r and o. The result is empty if
// they don't overlap.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersect(o).IsEmpty()
}

// Contains reports whether the point (x, y) lies within r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %d,%d]", r.Left, r.Top, r.Right, r.Bottom)
}

// translate returns r offset by (dx, dy).
func (r Rect) translate(dx, dy int) Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Region is a set of pixels expressed as a list of non-overlapping Rects.
// The zero value is the empty region. Region is immutable: every operation
// returns a new Region rather than mutating the receiver.
type Region struct {
	rects []Rect
}

// FromRect returns the region covering exactly r.
func FromRect(r Rect) Region {
	if r.IsEmpty() {
		return Region{}
	}
	return Region{rects: []Rect{r}}
}

// New returns the union of the given rects as a single region.
func New(rects ...Rect) Region {
	var out Region
	for _, r := range rects {
		out = out.Union(FromRect(r))
	}
	return out
}

// maxRects caps how many disjoint rects a Region will carry before
// operations collapse it to its bounding rect. Layer stacks with highly
// irregular damage (many small, scattered updates) would otherwise grow a
// region's rect count without bound; the compositor would rather
// overdraw a slightly larger area than spend the rest of the frame
// budget on region bookkeeping.
const maxRects = 64

// IsEmpty reports whether the region contains no points.
func (reg Region) IsEmpty() bool {
	return len(reg.rects) == 0
}

// Rects returns the constituent rectangles of the region. The caller must
// not mutate the returned slice.
func (reg Region) Rects() []Rect {
	return reg.rects
}

// Bounds returns the smallest rect containing the entire region.
func (reg Region) Bounds() Rect {
	if len(reg.rects) == 0 {
		return Rect{}
	}
	out := reg.rects[0]
	for _, r := range reg.rects[1:] {
		out.Left = min(out.Left, r.Left)
		out.Top = min(out.Top, r.Top)
		out.Right = max(out.Right, r.Right)
		out.Bottom = max(out.Bottom, r.Bottom)
	}
	return out
}

// subtractRectFromRect subtracts cut from r, returning up to 4 fragments
// that cover r minus cut.
func subtractRectFromRect(r, cut Rect) []Rect {
	if r.IsEmpty() || !r.Intersects(cut) {
		if r.IsEmpty() {
			return nil
		}
		return []Rect{r}
	}
	var out []Rect
	if cut.Top > r.Top {
		out = append(out, Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: cut.Top})
	}
	if cut.Bottom < r.Bottom {
		out = append(out, Rect{Left: r.Left, Top: cut.Bottom, Right: r.Right, Bottom: r.Bottom})
	}
	midTop, midBottom := max(r.Top, cut.Top), min(r.Bottom, cut.Bottom)
	if midTop < midBottom {
		if cut.Left > r.Left {
			out = append(out, Rect{Left: r.Left, Top: midTop, Right: cut.Left, Bottom: midBottom})
		}
		if cut.Right < r.Right {
			out = append(out, Rect{Left: cut.Right, Top: midTop, Right: r.Right, Bottom: midBottom})
		}
	}
	return out
}

// subtractRect subtracts cut from every rect in rects.
func subtractRect(rects []Rect, cut Rect) []Rect {
	if cut.IsEmpty() {
		return rects
	}
	out := make([]Rect, 0, len(rects))
	for _, r := range rects {
		out = append(out, subtractRectFromRect(r, cut)...)
	}
	return out
}

// simplify collapses reg to its bounding rect once its rect count exceeds
// maxRects.
func simplify(rects []Rect) []Rect {
	if len(rects) <= maxRects {
		return rects
	}
	out := Region{rects: rects}.Bounds()
	return []Rect{out}
}

// Union returns the union of reg and other.
func (reg Region) Union(other Region) Region {
	if reg.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return reg
	}
	out := make([]Rect, len(reg.rects))
	copy(out, reg.rects)
	for _, r := range other.rects {
		// Add only the part of r not already covered by out, so the
		// result stays a disjoint set of rects.
		frags := []Rect{r}
		for _, existing := range out {
			var next []Rect
			for _, f := range frags {
				next = append(next, subtractRectFromRect(f, existing)...)
			}
			frags = next
		}
		out = append(out, frags...)
	}
	return Region{rects: simplify(out)}
}

// Intersect returns the intersection of reg and other.
func (reg Region) Intersect(other Region) Region {
	if reg.IsEmpty() || other.IsEmpty() {
		return Region{}
	}
	if !reg.Bounds().Intersects(other.Bounds()) {
		return Region{}
	}
	var out []Rect
	for _, a := range reg.rects {
		for _, b := range other.rects {
			if i := a.Intersect(b); !i.IsEmpty() {
				out = append(out, i)
			}
		}
	}
	return Region{rects: simplify(out)}
}

// IntersectRect returns the portion of reg that lies within r.
func (reg Region) IntersectRect(r Rect) Region {
	return reg.Intersect(FromRect(r))
}

// Intersects reports whether reg and other share any point.
func (reg Region) Intersects(other Region) bool {
	return !reg.Intersect(other).IsEmpty()
}

// Subtract returns reg with every point of other removed.
func (reg Region) Subtract(other Region) Region {
	if reg.IsEmpty() || other.IsEmpty() {
		return reg
	}
	rects := reg.rects
	for _, cut := range other.rects {
		rects = subtractRect(rects, cut)
		if len(rects) == 0 {
			break
		}
	}
	return Region{rects: simplify(rects)}
}

// SubtractRect returns reg with r removed.
func (reg Region) SubtractRect(r Rect) Region {
	return Region{rects: simplify(subtractRect(reg.rects, r))}
}

// Translate returns reg offset by (dx, dy). Translation is always
// rect-preserving and exact.
func (reg Region) Translate(dx, dy int) Region {
	out := make([]Rect, len(reg.rects))
	for i, r := range reg.rects {
		out[i] = r.translate(dx, dy)
	}
	return Region{rects: out}
}

func (reg Region) String() string {
	if reg.IsEmpty() {
		return "region{}"
	}
	s := "region{"
	for i, r := range reg.rects {
		if i > 0 {
			s += ","
		}
		s += r.String()
	}
	return s + "}"
}
