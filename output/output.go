// Package output models one composition target — a physical display or a
// virtual display buffer sink — and the mutable per-frame state the rest
// of the pipeline reads and writes.
package output

import (
	"github.com/gogpu/compose/colorprofile"
	"github.com/gogpu/compose/layer"
	"github.com/gogpu/compose/outputlayer"
	"github.com/gogpu/compose/region"
)

// DisplayID identifies an output: either a physical display id or the
// sentinel VirtualDisplayID for virtual displays.
type DisplayID uint64

// VirtualDisplayID is the DisplayID used by every virtual display; virtual
// displays have no stable hardware identity.
const VirtualDisplayID DisplayID = 0

// CompositionState is the mutable per-output snapshot the composition
// pipeline reads and writes. It is mutated only through Output's setters
// or the per-frame pipeline; callers on other goroutines must not hold a
// reference across a mutation.
type CompositionState struct {
	IsEnabled bool
	IsSecure  bool

	LayerStackID       uint32
	LayerStackInternal bool

	Transform   region.Transform
	Orientation int // 0/90/180/270, meaningful only if Transform.IsRectPreserving()

	Frame    region.Rect
	Viewport region.Rect
	Scissor  region.Rect
	Bounds   region.Rect

	NeedsFiltering bool

	ColorMode      colorprofile.ColorMode
	Dataspace      layer.Dataspace
	RenderIntent   colorprofile.RenderIntent
	TargetDataspace layer.Dataspace

	ColorTransformMatrix [16]float32
	HasColorTransform    bool

	DirtyRegion     region.Region
	UndefinedRegion region.Region

	UsesClientComposition bool
	UsesDeviceComposition bool
	FlipClientTarget      bool

	LastCompositionHadVisibleLayers bool
}

// RenderSurface is the narrow render-surface contract the output drives
// directly for sizing and dataspace notification; the rest of the
// render-surface contract lives in package rendersurface and is driven by
// the per-frame phases, not by Output itself.
type RenderSurface interface {
	SetDisplaySize(width, height int)
	GetSize() (width, height int)
	SetBufferDataspace(ds layer.Dataspace)
}

// Output owns one composition target: its identity, color profile, render
// surface, composition state, and ordered (back-to-front, z = 0..n-1)
// output-layers.
type Output struct {
	ID      DisplayID
	IsVirtual bool
	Name    string

	ColorProfile colorprofile.DisplayColorProfile
	Surface      RenderSurface

	State CompositionState

	// Layers is the ordered list of output-layers, back-to-front: Layers[i].Z == i.
	Layers []*outputlayer.OutputLayer
}

// New returns an Output with IsEnabled=false and empty state. Callers
// populate Surface, ColorProfile, and State.Bounds before the first frame.
func New(id DisplayID, name string, isVirtual bool) *Output {
	return &Output{ID: id, Name: name, IsVirtual: isVirtual}
}

// SetCompositionEnabled sets State.IsEnabled. Its round-trip
// property, calling this twice with the same value leaves DirtyRegion
// unchanged after the first call: there is nothing here to re-dirty
// because enablement is not itself drawable state.
func (o *Output) SetCompositionEnabled(enabled bool) {
	o.State.IsEnabled = enabled
}

// SetColorProfile applies a resolved color profile.  setting
// the same profile twice re-dirties the output only on the first call.
func (o *Output) SetColorProfile(p colorprofile.Profile) bool {
	changed := o.State.ColorMode != p.Mode || o.State.Dataspace != p.Dataspace || o.State.RenderIntent != p.Intent
	o.State.ColorMode = p.Mode
	o.State.Dataspace = p.Dataspace
	o.State.RenderIntent = p.Intent
	if changed {
		o.DirtyEntireOutput()
	}
	return changed
}

// SetColorTransform updates the color-transform matrix if it differs,
// re-dirtying the output on change.
func (o *Output) SetColorTransform(matrix [16]float32) bool {
	if o.State.HasColorTransform && o.State.ColorTransformMatrix == matrix {
		return false
	}
	o.State.ColorTransformMatrix = matrix
	o.State.HasColorTransform = true
	o.DirtyEntireOutput()
	return true
}

// DirtyEntireOutput merges the full bounds into DirtyRegion.
func (o *Output) DirtyEntireOutput() {
	o.State.DirtyRegion = o.State.DirtyRegion.Union(region.FromRect(o.State.Bounds))
}

// GetDirtyRegion returns the current dirty region. repaintEverything, when
// true, returns the full bounds instead (used by devOptRepaintFlash-style
// callers that want to redraw unconditionally).
func (o *Output) GetDirtyRegion(repaintEverything bool) region.Region {
	if repaintEverything {
		return region.FromRect(o.State.Bounds)
	}
	return o.State.DirtyRegion
}

// LayerByID returns the output-layer for the given input layer, if one
// currently exists on this output.
func (o *Output) LayerByID(id layer.ID) (*outputlayer.OutputLayer, bool) {
	for _, ol := range o.Layers {
		if ol.LayerID == id {
			return ol, true
		}
	}
	return nil, false
}
