// Package outputlayer holds per-(output,layer) derived state: the
// geometry and coverage computed by the visibility pass, plus the
// composition-strategy flags layered on top by the strategy selector.
package outputlayer

import (
	"github.com/gogpu/compose/layer"
	"github.com/gogpu/compose/region"
)

// HWHandle is an opaque hardware-composer layer handle. A zero value means
// this output-layer has no hardware-composer counterpart (device
// composition is unavailable for it).
type HWHandle uint64

// DeviceCompositionType is the hardware composer's classification for one
// layer.
type DeviceCompositionType int

const (
	// Device means the hardware composer will draw this layer directly.
	Device DeviceCompositionType = iota
	// Client means the compositor must blend this layer with the GPU.
	Client
	// Cursor is a hardware-cursor-plane composition, handled like Device
	// for the purposes of usesClientComposition/usesDeviceComposition.
	Cursor
	// SolidColor means the hardware composer can render a flat color
	// without sampling a buffer.
	SolidColor
)

// OutputLayer is the per-(output,layer) derived state computed by the
// visibility pass and refined by the strategy selector. It is exclusively
// owned by its Output; lifecycle is: created the first frame the layer is
// visible on this output, mutated in place across frames, and discarded
// when the layer is no longer visible or leaves the output.
type OutputLayer struct {
	LayerID layer.ID
	HW      HWHandle // zero if none
	Z       int

	VisibleRegion              region.Region
	VisibleNonTransparentRegion region.Region
	CoveredRegion              region.Region
	OutputSpaceVisibleRegion    region.Region

	ForceClientComposition bool
	ClearClientTarget      bool
	CompositionType        DeviceCompositionType
}

// NewOutputLayer returns an OutputLayer for layerID with no hardware
// handle and zero-value state, as created the first frame a layer becomes
// visible on an output.
func NewOutputLayer(id layer.ID) *OutputLayer {
	return &OutputLayer{LayerID: id, CompositionType: Client}
}

// HasHW reports whether this output-layer has a hardware-composer
// counterpart.
func (ol *OutputLayer) HasHW() bool {
	return ol.HW != 0
}

// ResetRequestFlags clears the per-frame request-derived flags ahead of
// the strategy selector applying any matching layerRequests entry.
func (ol *OutputLayer) ResetRequestFlags() {
	ol.ClearClientTarget = false
}

// RequiresClientComposition reports whether the composition-strategy
// selector's per-layer decision (CompositionType, ForceClientComposition)
// means this layer must go through client composition this frame. This is
// the authoritative signal for the draw-request builder: the strategy
// selector, not the layer front end, decides whether a layer was actually
// assigned client or device composition.
func (ol *OutputLayer) RequiresClientComposition() bool {
	return ol.ForceClientComposition || ol.CompositionType == Client
}
