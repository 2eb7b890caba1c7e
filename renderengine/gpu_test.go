package renderengine

import (
	"image"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/compose/present"
)

func TestGPUEngineDefaultsFormat(t *testing.T) {
	e := NewGPUEngine(nil, gputypes.TextureFormatUndefined, NewSoftwareEngine())
	if e.PreferredFormat() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("PreferredFormat = %v, want RGBA8Unorm default", e.PreferredFormat())
	}
}

func TestGPUEngineProtectedContextRequiresDevice(t *testing.T) {
	e := NewGPUEngine(nil, gputypes.TextureFormatBGRA8Unorm, NewSoftwareEngine())
	if e.SupportsProtectedContent() {
		t.Error("engine with no device should not support protected content")
	}
	if err := e.UseProtectedContext(true); err == nil {
		t.Error("UseProtectedContext(true) with no device should error")
	}
}

func TestGPUEngineDelegatesDraw(t *testing.T) {
	e := NewGPUEngine(nil, gputypes.TextureFormatRGBA8Unorm, NewSoftwareEngine())
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if _, err := e.DrawLayers(DisplaySettings{}, nil, dst, false, present.Fence{}); err != nil {
		t.Errorf("DrawLayers error: %v", err)
	}
}
