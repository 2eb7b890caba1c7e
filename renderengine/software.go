package renderengine

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/compose/present"
	"github.com/gogpu/compose/region"
)

// SoftwareEngine is a pure-CPU Engine, used for virtual displays and for
// tests. It composites by sampling each layer's source image with
// bilinear filtering and blending per DrawSpec.Alpha.
type SoftwareEngine struct {
	protected bool
}

// NewSoftwareEngine returns a ready-to-use SoftwareEngine.
func NewSoftwareEngine() *SoftwareEngine {
	return &SoftwareEngine{}
}

func (e *SoftwareEngine) SupportsProtectedContent() bool { return false }
func (e *SoftwareEngine) IsProtected() bool              { return e.protected }

func (e *SoftwareEngine) UseProtectedContext(enabled bool) error {
	e.protected = enabled
	return nil
}

// DrawLayers implements Engine. Sources (DrawSpec.Source) are assumed to
// already be in the destination's color space; this engine performs no
// color management, only geometric compositing.
func (e *SoftwareEngine) DrawLayers(settings DisplaySettings, layers []LayerSettings, dst *image.RGBA, useFramebufferCache bool, inFence present.Fence) (present.Fence, error) {
	if inFence.IsValid() {
		inFence.Wait(0)
	}
	if !useFramebufferCache {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)
	}

	for _, l := range layers {
		clip := clampRect(toImageRect(l.Clip), dst.Bounds())
		if clip.Empty() {
			continue
		}
		if l.SolidColor != nil {
			fillSolid(dst, clip, *l.SolidColor, l.Alpha, l.DisableBlending)
			continue
		}
		if l.Source == nil {
			continue
		}
		op := draw.Over
		if l.DisableBlending {
			op = draw.Src
		}
		var opts *xdraw.Options
		if l.Alpha < 1 {
			opts = &xdraw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(l.Alpha * 255)})}
		}
		xdraw.BiLinear.Scale(dst, clip, l.Source, l.Source.Bounds(), op, opts)
	}

	ready, signal := present.NewFence()
	signal()
	return ready, nil
}

func clampRect(r image.Rectangle, bounds image.Rectangle) image.Rectangle {
	return r.Intersect(bounds)
}

func toImageRect(r region.Rect) image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

func fillSolid(dst *image.RGBA, clip image.Rectangle, rgb [3]float32, alpha float32, disableBlending bool) {
	c := color.RGBA{
		R: uint8(rgb[0] * 255),
		G: uint8(rgb[1] * 255),
		B: uint8(rgb[2] * 255),
		A: uint8(alpha * 255),
	}
	op := draw.Over
	if disableBlending {
		op = draw.Src
	}
	draw.Draw(dst, clip, image.NewUniform(c), image.Point{}, op)
}
