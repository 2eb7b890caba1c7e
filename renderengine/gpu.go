package renderengine

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/compose/present"
)

// GPUEngine is an Engine backed by a host-provided GPU device
// (gpucontext.DeviceProvider), for physical displays. It is modeled after
// gg's render.DeviceHandle pattern: the compositor receives the device
// from the host rather than creating one, so GPU resources are shared
// with the rest of the host application.
//
// The actual draw submission (tessellation, shader dispatch) belongs to
// the render backend and is out of scope here; GPUEngine's job is to
// expose the device's capabilities (preferred swapchain format, protected
// content support) to the rest of the pipeline and delegate rasterization
// to an injected Engine, typically one backed by the render backend's own
// device-aware renderer.
type GPUEngine struct {
	device   gpucontext.DeviceProvider
	format   gputypes.TextureFormat
	fallback Engine
	protected bool
}

// NewGPUEngine returns a GPUEngine using device for capability queries,
// preferring the given TextureFormat for its swapchain target, and
// delegating DrawLayers to fallback (which may be a device-aware render
// backend, or SoftwareEngine as a compatibility path).
func NewGPUEngine(device gpucontext.DeviceProvider, format gputypes.TextureFormat, fallback Engine) *GPUEngine {
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	return &GPUEngine{device: device, format: format, fallback: fallback}
}

// PreferredFormat returns the swapchain texture format this engine was
// configured with.
func (e *GPUEngine) PreferredFormat() gputypes.TextureFormat {
	return e.format
}

func (e *GPUEngine) SupportsProtectedContent() bool {
	return e.device != nil
}

func (e *GPUEngine) IsProtected() bool { return e.protected }

func (e *GPUEngine) UseProtectedContext(enabled bool) error {
	if enabled && e.device == nil {
		return fmt.Errorf("renderengine: no GPU device bound, cannot enter protected context")
	}
	e.protected = enabled
	return nil
}

func (e *GPUEngine) DrawLayers(settings DisplaySettings, layers []LayerSettings, dst *image.RGBA, useFramebufferCache bool, inFence present.Fence) (present.Fence, error) {
	if e.fallback == nil {
		return present.Fence{}, fmt.Errorf("renderengine: GPUEngine has no draw backend configured")
	}
	return e.fallback.DrawLayers(settings, layers, dst, useFramebufferCache, inFence)
}

var _ Engine = (*GPUEngine)(nil)
