// Package layer models the application-provided input layers that the
// compositor reads each frame: their front-end contract (latch state,
// prepare client-composition draw specs, notify on display) and the
// read-only state snapshot the rest of the pipeline consults.
package layer

import (
	"image"

	"github.com/gogpu/compose/region"
)

// ID identifies an input layer. Layers are modeled as arena entries with
// stable integer ids rather than shared-ownership pointers, so an
// OutputLayer can reference one without holding it alive.
type ID uint64

// LatchSubset selects how much of a layer's front-end state
// latchCompositionState should refresh.
type LatchSubset int

const (
	// BasicGeometry latches only geometry: bounds, transform, z,
	// layerStackId, internalOnly. Used once per layer per frame, by
	// whichever output visits it first.
	BasicGeometry LatchSubset = iota
	// GeometryAndContent additionally latches dataspace, opacity,
	// transparent-region hint, content-dirty, and protected-content.
	GeometryAndContent
	// Content latches only the fields GeometryAndContent adds, leaving
	// geometry as previously latched.
	Content
)

func (s LatchSubset) String() string {
	switch s {
	case BasicGeometry:
		return "BasicGeometry"
	case GeometryAndContent:
		return "GeometryAndContent"
	case Content:
		return "Content"
	default:
		return "LatchSubset(?)"
	}
}

// FrontEndState is the read-only snapshot of a layer's state as latched
// from its front end. The visibility pass and client-composition pipeline
// read it; nothing in this module writes it except through latching.
type FrontEndState struct {
	ID ID

	// Geometry.
	Bounds         region.Rect
	Transform      region.Transform
	LayerStackID   uint32
	InternalOnly   bool
	Z              int

	// Content.
	Dataspace               Dataspace
	IsOpaque                bool
	TransparentRegionHint    region.Region
	ContentDirty             bool
	ForceClientComposition   bool
	HasProtectedContent      bool
	NeedsFiltering           bool

	IsVisible bool
}

// Dataspace is a coarse color/gamut/transfer-function tag, mirroring the
// subset the color-profile selector cares about.
type Dataspace int

const (
	DataspaceUnknown Dataspace = iota
	DataspaceSRGB
	DataspaceDisplayP3
	DataspaceDisplayBT2020
	DataspaceBT2020PQ
	DataspaceBT2020HLG
)

// IsHDR reports whether d is one of the HDR transfer functions.
func (d Dataspace) IsHDR() bool {
	return d == DataspaceBT2020PQ || d == DataspaceBT2020HLG
}

// IsWideGamut reports whether d carries a gamut wider than sRGB.
func (d Dataspace) IsWideGamut() bool {
	switch d {
	case DataspaceDisplayP3, DataspaceDisplayBT2020, DataspaceBT2020PQ, DataspaceBT2020HLG:
		return true
	default:
		return false
	}
}

// ClientTargetSettings is the argument to PrepareClientComposition: what
// region to draw, whether to force an identity transform, filtering and
// protection requirements, and the clear region to report back for the
// clear-client-target path.
type ClientTargetSettings struct {
	Clip                   region.Region
	UseIdentityTransform   bool
	NeedsFiltering         bool
	IsSecure               bool
	SupportsProtectedContent bool
	ClearRegion            region.Region
}

// DrawSpec is what a layer front end returns from PrepareClientComposition:
// enough to build one render-backend draw request.
type DrawSpec struct {
	Geometry        region.Rect
	Transform       region.Transform
	Source          image.Image // nil for a solid-color fill
	Alpha           float32
	SolidColor      *[3]float32 // non-nil for a solid-color fill instead of sampling Source
	DisableBlending bool
	Dataspace       Dataspace
}

// FrontEnd is the contract an application-owned layer exposes to the
// compositor ("Layer-FE contract").
type FrontEnd interface {
	// ID returns the layer's stable identity.
	ID() ID

	// LatchCompositionState copies the requested subset of front-end
	// state into *state.
	LatchCompositionState(state *FrontEndState, subset LatchSubset)

	// PrepareClientComposition returns a draw spec for this layer, or
	// false if the layer declines to draw (e.g. it has nothing to
	// contribute, such as an off-screen layer).
	PrepareClientComposition(settings ClientTargetSettings) (DrawSpec, bool)

	// OnLayerDisplayed notifies the layer that a previously-queued
	// buffer may be reused once releaseFence signals.
	OnLayerDisplayed(releaseFence Fence)
}

// Fence is an opaque handle to a point in a command stream's completion.
// Defined here (not in package present) to avoid an import cycle between
// layer and present; present.Fence is the concrete implementation layers
// actually receive.
type Fence interface {
	// Wait blocks until the fence signals or the given timeout elapses
	// (a non-positive timeout waits forever). Returns false on timeout.
	Wait(timeoutMillis int) bool
}
