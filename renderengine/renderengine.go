// Package renderengine is the render-backend contract the client
// composition pipeline draws through: given a list of per-layer draw
// requests and a destination buffer, it produces pixels and a fence the
// caller can wait on before reusing the buffer ("render-engine contract").
package renderengine

import (
	"image"

	"github.com/gogpu/compose/layer"
	"github.com/gogpu/compose/present"
	"github.com/gogpu/compose/region"
)

// DisplaySettings configures one drawLayers invocation: the output's
// scissor/clip, its global transform, orientation, output dataspace, HDR
// headroom, and optional color transform.
type DisplaySettings struct {
	PhysicalDisplay region.Rect
	Clip            region.Rect
	GlobalTransform region.Transform
	Orientation     int
	OutputDataspace layer.Dataspace
	MaxLuminance    float32
	ColorTransform  *[16]float32
}

// LayerSettings is one render-backend draw request: either sample a
// source image through a geometry/transform, or fill a solid color,
// matching layer.DrawSpec plus the destination clip.
type LayerSettings struct {
	layer.DrawSpec
	Clip region.Rect
}

// Engine is the render-backend contract ("render-engine
// contract").
type Engine interface {
	SupportsProtectedContent() bool
	IsProtected() bool
	UseProtectedContext(enabled bool) error

	// DrawLayers renders layers onto dst per settings. useFramebufferCache
	// hints that dst's prior contents may be reused where layers don't
	// cover it. inFence is waited on (if valid) before sampling any
	// layer's source image; the returned fence signals when dst is safe
	// to read or reuse.
	DrawLayers(settings DisplaySettings, layers []LayerSettings, dst *image.RGBA, useFramebufferCache bool, inFence present.Fence) (readyFence present.Fence, err error)
}
