package region

import "testing"

func TestRectIsEmpty(t *testing.T) {
	cases := []struct {
		r    Rect
		want bool
	}{
		{Rectangle(0, 0, 10, 10), false},
		{Rectangle(0, 0, 0, 10), true},
		{Rectangle(5, 5, 5, 5), true},
		{Rectangle(10, 0, 0, 10), true},
	}
	for _, c := range cases {
		if got := c.r.IsEmpty(); got != c.want {
			t.Errorf("Rectangle%+v.IsEmpty() = %v, want %v", c.r, got, c.want)
		}
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rectangle(0, 0, 10, 10)
	b := Rectangle(5, 5, 15, 15)
	got := a.Intersect(b)
	want := Rectangle(5, 5, 10, 10)
	if got != want {
		t.Errorf("Intersect = %v, want %v", got, want)
	}

	c := Rectangle(20, 20, 30, 30)
	if got := a.Intersect(c); !got.IsEmpty() {
		t.Errorf("Intersect of disjoint rects = %v, want empty", got)
	}
}

func TestRegionUnionDisjoint(t *testing.T) {
	a := FromRect(Rectangle(0, 0, 10, 10))
	b := FromRect(Rectangle(20, 20, 30, 30))
	u := a.Union(b)
	if u.IsEmpty() {
		t.Fatal("union of two non-empty rects is empty")
	}
	if got := u.Bounds(); got != Rectangle(0, 0, 30, 30) {
		t.Errorf("Bounds = %v, want %v", got, Rectangle(0, 0, 30, 30))
	}
	// every point of each source rect must be covered
	for _, r := range []Rect{Rectangle(0, 0, 10, 10), Rectangle(20, 20, 30, 30)} {
		if u.Intersect(FromRect(r)).Bounds() != r {
			t.Errorf("union does not fully cover %v", r)
		}
	}
}

func TestRegionUnionOverlapping(t *testing.T) {
	a := FromRect(Rectangle(0, 0, 10, 10))
	b := FromRect(Rectangle(5, 5, 15, 15))
	u := a.Union(b)
	if got := u.Bounds(); got != Rectangle(0, 0, 15, 15) {
		t.Errorf("Bounds = %v, want %v", got, Rectangle(0, 0, 15, 15))
	}
	// area should equal area(a) + area(b) - area(intersection)
	area := func(reg Region) int {
		total := 0
		for _, r := range reg.Rects() {
			total += r.Width() * r.Height()
		}
		return total
	}
	want := 10*10 + 10*10 - 5*5
	if got := area(u); got != want {
		t.Errorf("union area = %d, want %d", got, want)
	}
}

func TestRegionSubtract(t *testing.T) {
	whole := FromRect(Rectangle(0, 0, 10, 10))
	hole := FromRect(Rectangle(3, 3, 6, 6))
	remainder := whole.Subtract(hole)

	if remainder.Intersects(hole) {
		t.Error("remainder still intersects the subtracted hole")
	}
	area := 0
	for _, r := range remainder.Rects() {
		area += r.Width() * r.Height()
	}
	want := 10*10 - 3*3
	if area != want {
		t.Errorf("remainder area = %d, want %d", area, want)
	}
}

func TestRegionSubtractAll(t *testing.T) {
	whole := FromRect(Rectangle(0, 0, 10, 10))
	remainder := whole.Subtract(whole)
	if !remainder.IsEmpty() {
		t.Errorf("subtracting a region from itself should be empty, got %v", remainder)
	}
}

func TestRegionIntersect(t *testing.T) {
	a := FromRect(Rectangle(0, 0, 10, 10))
	b := FromRect(Rectangle(5, 5, 20, 20))
	i := a.Intersect(b)
	if got := i.Bounds(); got != Rectangle(5, 5, 10, 10) {
		t.Errorf("Intersect Bounds = %v, want %v", got, Rectangle(5, 5, 10, 10))
	}
}

func TestRegionTranslate(t *testing.T) {
	a := FromRect(Rectangle(0, 0, 10, 10))
	got := a.Translate(5, -5)
	want := Rectangle(5, -5, 15, 5)
	if b := got.Bounds(); b != want {
		t.Errorf("Translate Bounds = %v, want %v", b, want)
	}
}

func TestTransformTranslateIsRectPreserving(t *testing.T) {
	tr := Translate(10, 20)
	if !tr.IsRectPreserving() {
		t.Error("Translate should be rect-preserving")
	}
	got := tr.TransformRect(Rectangle(0, 0, 5, 5))
	want := Rectangle(10, 20, 15, 25)
	if got != want {
		t.Errorf("TransformRect = %v, want %v", got, want)
	}
}

func TestTransformRotate90(t *testing.T) {
	tr := Rotate90(100, 200)
	if !tr.IsRectPreserving() {
		t.Error("Rotate90 should be rect-preserving")
	}
	got := tr.TransformRect(Rectangle(0, 0, 100, 200))
	want := Rectangle(0, 0, 200, 100)
	if got != want {
		t.Errorf("TransformRect = %v, want %v", got, want)
	}
}

func TestTransformGeneralAffineNotRectPreserving(t *testing.T) {
	tr := GeneralAffine(2, 0, 0, 0, 2, 0)
	if tr.IsRectPreserving() {
		t.Error("scaling transform should not be rect-preserving")
	}
	got := tr.TransformRect(Rectangle(0, 0, 10, 10))
	want := Rectangle(0, 0, 20, 20)
	if got != want {
		t.Errorf("TransformRect = %v, want %v", got, want)
	}
}

func TestTransformRegion(t *testing.T) {
	reg := New(Rectangle(0, 0, 10, 10), Rectangle(20, 20, 30, 30))
	tr := Translate(5, 5)
	got := tr.TransformRegion(reg)
	want := Rectangle(5, 5, 35, 35)
	if b := got.Bounds(); b != want {
		t.Errorf("TransformRegion Bounds = %v, want %v", b, want)
	}
}
