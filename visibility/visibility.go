// Package visibility implements the per-frame visibility & coverage pass:
// a front-to-back walk over input layers that computes each layer's
// visible, covered, opaque, and transparent regions, the frame's
// accumulated dirty region, and the output's undefined region.
package visibility

import (
	"github.com/gogpu/compose/layer"
	"github.com/gogpu/compose/output"
	"github.com/gogpu/compose/outputlayer"
	"github.com/gogpu/compose/region"
)

// coverageState accumulates state across one output's front-to-back walk:
// the opaque/covered accumulators and the dirty region contributed by this
// output.
type coverageState struct {
	aboveOpaqueLayers  region.Region
	aboveCoveredLayers region.Region
	dirtyRegion        region.Region
}

// LatchTracker records which layer-FEs have had their basic geometry
// latched this frame, so that a layer visible on multiple outputs is
// latched at most once across all of them. Callers create one
// LatchTracker per frame and pass it to every output's Pass call that
// frame.
type LatchTracker struct {
	latched map[layer.ID]bool
}

// NewLatchTracker returns an empty LatchTracker for one frame.
func NewLatchTracker() *LatchTracker {
	return &LatchTracker{latched: make(map[layer.ID]bool)}
}

// InputLayer is one application-provided layer as seen by the visibility
// pass: its front end plus the geometry/content state latched from it.
type InputLayer struct {
	FrontEnd layer.FrontEnd
	State    layer.FrontEndState
}

// isRectPreservingOrientation reports whether t's orientation is one of
// the four axis-aligned rotations (possibly flipped). This is exactly
// IsRectPreserving, since every rect-preserving transform package region
// constructs is one of those eight cases (plus a translation).
func isRectPreservingOrientation(t region.Transform) bool {
	return t.IsRectPreserving()
}

// Pass runs the visibility & coverage pass over layers (ordered
// back-to-front, the order Output.Layers is kept in) against out, updating
// out.Layers, out.State.DirtyRegion, and out.State.UndefinedRegion.
// released receives the ids of output-layers that existed last frame but
// were not reused this frame; the caller moves their front ends into the
// released-layers set.
func Pass(out *output.Output, layers []InputLayer, latch *LatchTracker) (released []layer.ID) {
	coverage := &coverageState{}
	prev := make(map[layer.ID]*outputlayer.OutputLayer, len(out.Layers))
	for _, ol := range out.Layers {
		prev[ol.LayerID] = ol
	}
	taken := make(map[layer.ID]bool, len(out.Layers))

	var emitted []*outputlayer.OutputLayer

	// Walk front-to-back: the input ordering (back-to-front, increasing
	// z) is reversed for the walk and reversed back afterward.
	for i := len(layers) - 1; i >= 0; i-- {
		in := &layers[i]

		// Step 1: latch basic geometry at most once per layer per frame.
		if !latch.latched[in.FrontEnd.ID()] {
			in.FrontEnd.LatchCompositionState(&in.State, layer.BasicGeometry)
			latch.latched[in.FrontEnd.ID()] = true
		}
		// Content fields are always latched fresh for this output's pass.
		in.FrontEnd.LatchCompositionState(&in.State, layer.Content)

		st := in.State

		// Step 2: layer-stack membership.
		if st.LayerStackID != out.State.LayerStackID {
			continue
		}
		if st.InternalOnly && !out.State.LayerStackInternal {
			continue
		}

		// Step 3.
		if !st.IsVisible {
			continue
		}

		// Step 4.
		visible := st.Transform.TransformRect(st.Bounds)
		visibleReg := region.FromRect(visible).IntersectRect(out.State.Bounds)
		if visibleReg.IsEmpty() {
			continue
		}

		// Step 5.
		var transparent region.Region
		if !st.IsOpaque && isRectPreservingOrientation(st.Transform) {
			transparent = st.Transform.TransformRegion(st.TransparentRegionHint)
		}

		// Step 6.
		var opaque region.Region
		if st.IsOpaque && isRectPreservingOrientation(st.Transform) {
			opaque = visibleReg
		}

		// Step 7.
		covered := coverage.aboveCoveredLayers.Intersect(visibleReg)

		// Step 8.
		coverage.aboveCoveredLayers = coverage.aboveCoveredLayers.Union(visibleReg)

		// Step 9.
		visibleReg = visibleReg.Subtract(coverage.aboveOpaqueLayers)
		if visibleReg.IsEmpty() {
			continue
		}

		// Step 10.
		old, hadOld := prev[in.FrontEnd.ID()]
		var oldVisible, oldCovered region.Region
		if hadOld {
			oldVisible = old.VisibleRegion
			oldCovered = old.CoveredRegion
			taken[in.FrontEnd.ID()] = true
		}

		// Step 11.
		var dirty region.Region
		if st.ContentDirty {
			dirty = visibleReg.Union(oldVisible)
		} else {
			newExposed := visibleReg.Subtract(covered)
			oldExposed := oldVisible.Subtract(oldCovered)
			dirty = visibleReg.Intersect(oldCovered).Union(newExposed.Subtract(oldExposed))
		}

		// Step 12.
		dirty = dirty.Subtract(coverage.aboveOpaqueLayers)
		coverage.dirtyRegion = coverage.dirtyRegion.Union(dirty)

		// Step 13.
		coverage.aboveOpaqueLayers = coverage.aboveOpaqueLayers.Union(opaque)

		// Step 14.
		visibleNonTransparent := visibleReg.Subtract(transparent)
		drawRegion := out.State.Transform.TransformRegion(visibleNonTransparent).IntersectRect(out.State.Bounds)
		if drawRegion.IsEmpty() {
			continue
		}

		// Step 15.
		var ol *outputlayer.OutputLayer
		if hadOld {
			ol = old
		} else {
			ol = outputlayer.NewOutputLayer(in.FrontEnd.ID())
		}
		ol.VisibleRegion = visibleReg
		ol.VisibleNonTransparentRegion = visibleNonTransparent
		ol.CoveredRegion = covered
		ol.OutputSpaceVisibleRegion = out.State.Transform.TransformRegion(visibleReg.IntersectRect(out.State.Viewport))

		// Step 16.
		emitted = append(emitted, ol)
	}

	// Reverse to restore back-to-front order and reassign z.
	for l, r := 0, len(emitted)-1; l < r; l, r = l+1, r-1 {
		emitted[l], emitted[r] = emitted[r], emitted[l]
	}
	for i, ol := range emitted {
		ol.Z = i
	}

	out.State.UndefinedRegion = region.FromRect(out.State.Bounds).Subtract(out.State.Transform.TransformRegion(coverage.aboveOpaqueLayers))
	out.State.DirtyRegion = out.State.DirtyRegion.Union(coverage.dirtyRegion)
	out.Layers = emitted

	for id, ol := range prev {
		if !taken[id] {
			released = append(released, ol.LayerID)
		}
	}
	return released
}
