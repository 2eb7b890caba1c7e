package visibility

import (
	"testing"

	"github.com/gogpu/compose/layer"
	"github.com/gogpu/compose/output"
	"github.com/gogpu/compose/region"
)

func newTestOutput() *output.Output {
	o := output.New(1, "test", false)
	o.State.Bounds = region.Rectangle(0, 0, 100, 100)
	o.State.Viewport = region.Rectangle(0, 0, 100, 100)
	o.State.Transform = region.Identity()
	o.State.LayerStackID = 1
	return o
}

func inputLayer(id layer.ID, bounds region.Rect, opaque, visible, contentDirty bool) InputLayer {
	fe := layer.NewFake(id)
	fe.State.Bounds = bounds
	fe.State.Transform = region.Identity()
	fe.State.IsOpaque = opaque
	fe.State.IsVisible = visible
	fe.State.ContentDirty = contentDirty
	fe.State.LayerStackID = 1
	return InputLayer{FrontEnd: fe, State: layer.FrontEndState{IsVisible: visible}}
}

// Scenario 1: single opaque fullscreen layer.
func TestSingleOpaqueFullscreenLayer(t *testing.T) {
	o := newTestOutput()
	layers := []InputLayer{inputLayer(1, region.Rectangle(0, 0, 100, 100), true, true, true)}

	released := Pass(o, layers, NewLatchTracker())

	if len(released) != 0 {
		t.Errorf("released = %v, want none", released)
	}
	if len(o.Layers) != 1 {
		t.Fatalf("len(Layers) = %d, want 1", len(o.Layers))
	}
	ol := o.Layers[0]
	if ol.VisibleRegion.Bounds() != region.Rectangle(0, 0, 100, 100) {
		t.Errorf("VisibleRegion = %v, want full bounds", ol.VisibleRegion.Bounds())
	}
	if o.State.DirtyRegion.Bounds() != region.Rectangle(0, 0, 100, 100) {
		t.Errorf("DirtyRegion = %v, want full bounds dirty", o.State.DirtyRegion)
	}
	if !o.State.UndefinedRegion.IsEmpty() {
		t.Errorf("UndefinedRegion = %v, want empty", o.State.UndefinedRegion)
	}
}

// Scenario 2: opaque layer on top of a translucent fullscreen layer.
func TestOpaqueOnTopOfTranslucent(t *testing.T) {
	o := newTestOutput()
	a := inputLayer(1, region.Rectangle(0, 0, 100, 100), false, true, true)
	b := inputLayer(2, region.Rectangle(0, 0, 50, 50), true, true, true)

	// back-to-front: A first (bottom), B last (top).
	Pass(o, []InputLayer{a, b}, NewLatchTracker())

	if len(o.Layers) != 2 {
		t.Fatalf("len(Layers) = %d, want 2", len(o.Layers))
	}
	var aOut, bOut region.Region
	for _, ol := range o.Layers {
		switch ol.LayerID {
		case 1:
			aOut = ol.VisibleRegion
		case 2:
			bOut = ol.VisibleRegion
		}
	}
	wantA := region.FromRect(region.Rectangle(0, 0, 100, 100)).Subtract(region.FromRect(region.Rectangle(0, 0, 50, 50)))
	areaA := 0
	for _, r := range aOut.Rects() {
		areaA += r.Width() * r.Height()
	}
	wantAreaA := 0
	for _, r := range wantA.Rects() {
		wantAreaA += r.Width() * r.Height()
	}
	if areaA != wantAreaA {
		t.Errorf("A.VisibleRegion area = %d, want %d", areaA, wantAreaA)
	}
	if bOut.Bounds() != region.Rectangle(0, 0, 50, 50) {
		t.Errorf("B.VisibleRegion = %v, want 50x50", bOut.Bounds())
	}
	if !o.State.UndefinedRegion.IsEmpty() {
		t.Errorf("UndefinedRegion = %v, want empty", o.State.UndefinedRegion)
	}
}

// Scenario 3: unchanged frame produces no dirty region.
func TestNoChangeFrameProducesNoDirty(t *testing.T) {
	o := newTestOutput()
	layers := []InputLayer{inputLayer(1, region.Rectangle(0, 0, 100, 100), true, true, true)}
	Pass(o, layers, NewLatchTracker())

	// Second frame: same geometry, contentDirty=false.
	o.State.DirtyRegion = region.Region{}
	layers2 := []InputLayer{inputLayer(1, region.Rectangle(0, 0, 100, 100), true, true, false)}
	Pass(o, layers2, NewLatchTracker())

	if !o.State.DirtyRegion.IsEmpty() {
		t.Errorf("DirtyRegion = %v, want empty on unchanged frame", o.State.DirtyRegion)
	}
}

func TestInvisibleLayerNeverAppears(t *testing.T) {
	o := newTestOutput()
	layers := []InputLayer{inputLayer(1, region.Rectangle(0, 0, 100, 100), true, false, true)}
	Pass(o, layers, NewLatchTracker())
	if len(o.Layers) != 0 {
		t.Errorf("len(Layers) = %d, want 0 for isVisible=false", len(o.Layers))
	}
}

func TestNonRectPreservingTransparentRegionIsEmpty(t *testing.T) {
	o := newTestOutput()
	fe := layer.NewFake(1)
	fe.State.Bounds = region.Rectangle(0, 0, 100, 100)
	fe.State.Transform = region.GeneralAffine(2, 0, 0, 0, 2, 0)
	fe.State.IsOpaque = false
	fe.State.IsVisible = true
	fe.State.ContentDirty = true
	fe.State.LayerStackID = 1
	fe.State.TransparentRegionHint = region.FromRect(region.Rectangle(0, 0, 10, 10))

	Pass(o, []InputLayer{{FrontEnd: fe, State: layer.FrontEndState{IsVisible: true}}}, NewLatchTracker())
	if len(o.Layers) != 1 {
		t.Fatalf("len(Layers) = %d, want 1", len(o.Layers))
	}
	// visibleNonTransparent should equal visible (transparent treated as empty).
	ol := o.Layers[0]
	if ol.VisibleNonTransparentRegion.Bounds() != ol.VisibleRegion.Bounds() {
		t.Errorf("VisibleNonTransparentRegion = %v, want equal to VisibleRegion %v (transparent hint ignored for non-rect-preserving transform)",
			ol.VisibleNonTransparentRegion.Bounds(), ol.VisibleRegion.Bounds())
	}
}

func TestZValuesAreSequential(t *testing.T) {
	o := newTestOutput()
	layers := []InputLayer{
		inputLayer(1, region.Rectangle(0, 0, 100, 100), false, true, true),
		inputLayer(2, region.Rectangle(0, 0, 50, 50), false, true, true),
		inputLayer(3, region.Rectangle(50, 50, 100, 100), false, true, true),
	}
	Pass(o, layers, NewLatchTracker())
	for i, ol := range o.Layers {
		if ol.Z != i {
			t.Errorf("Layers[%d].Z = %d, want %d", i, ol.Z, i)
		}
	}
}

func TestReleasedLayerWhenNoLongerVisible(t *testing.T) {
	o := newTestOutput()
	Pass(o, []InputLayer{inputLayer(1, region.Rectangle(0, 0, 50, 50), true, true, true)}, NewLatchTracker())

	released := Pass(o, []InputLayer{inputLayer(1, region.Rectangle(0, 0, 50, 50), true, false, true)}, NewLatchTracker())
	if len(released) != 1 || released[0] != 1 {
		t.Errorf("released = %v, want [1]", released)
	}
}
