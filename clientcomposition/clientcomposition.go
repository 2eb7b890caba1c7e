// Package clientcomposition builds the per-frame draw-request list and
// drives the render engine when an output needs client composition.
package clientcomposition

import (
	"image"

	"github.com/gogpu/compose/layer"
	"github.com/gogpu/compose/outputlayer"
	"github.com/gogpu/compose/present"
	"github.com/gogpu/compose/region"
	"github.com/gogpu/compose/renderengine"
)

// LayerRef pairs an output-layer with its input layer's front end, the
// minimum the draw-request builder needs.
type LayerRef struct {
	OutputLayer *outputlayer.OutputLayer
	FrontEnd    layer.FrontEnd
	FEState     layer.FrontEndState
}

// BuildDrawRequests implements the draw-request half of §4.6. viewport
// and output-level needsFiltering/isSecure/supportsProtectedContent are
// forwarded into each layer's ClientTargetSettings.
func BuildDrawRequests(layers []LayerRef, viewport region.Rect, outputNeedsFiltering, isSecure, supportsProtectedContent bool) []renderengine.LayerSettings {
	var out []renderengine.LayerSettings
	for i, l := range layers {
		clip := region.FromRect(viewport).Intersect(l.OutputLayer.VisibleRegion)
		if clip.IsEmpty() {
			continue
		}
		isFirstLayer := i == 0

		clientComposition := l.OutputLayer.RequiresClientComposition()
		clearClientComposition := l.OutputLayer.ClearClientTarget && l.FEState.IsOpaque && !isFirstLayer

		if !clientComposition && !clearClientComposition {
			continue
		}

		settings := layer.ClientTargetSettings{
			Clip:                     clip,
			UseIdentityTransform:     false,
			NeedsFiltering:           l.FEState.NeedsFiltering || outputNeedsFiltering,
			IsSecure:                 isSecure,
			SupportsProtectedContent: supportsProtectedContent,
		}

		draw, ok := l.FrontEnd.PrepareClientComposition(settings)
		if !ok {
			continue
		}

		if clearClientComposition && !clientComposition {
			black := [3]float32{0, 0, 0}
			draw.SolidColor = &black
			draw.Alpha = 0
			draw.DisableBlending = true
			draw.Source = nil
		}

		out = append(out, renderengine.LayerSettings{DrawSpec: draw, Clip: clip.Bounds()})
	}
	return out
}

// FlashRequests appends one solid-magenta, alpha=1 draw request per rect
// in flashRegion, for the devOptRepaintFlash debug path.
func FlashRequests(flashRegion region.Region) []renderengine.LayerSettings {
	var out []renderengine.LayerSettings
	magenta := [3]float32{1, 0, 1}
	for _, r := range flashRegion.Rects() {
		out = append(out, renderengine.LayerSettings{
			DrawSpec: layer.DrawSpec{SolidColor: &magenta, Alpha: 1},
			Clip:     r,
		})
	}
	return out
}

// ProtectedSurface is the render-surface subset ComposeSurfaces drives
// directly: keeping the surface's protected-content flag in sync with the
// render engine's protected context, the render-surface half of §4.6
// step 3.
type ProtectedSurface interface {
	SetProtected(protected bool)
	IsProtected() bool
}

// ComposeSurfaces implements the orchestration: switch protected
// context if needed, dequeue a buffer, and invoke the render engine. It
// returns ok=false (with no error) when usesClientComposition is false, or
// when the buffer dequeue fails ("dequeue failure").
func ComposeSurfaces(
	usesClientComposition bool,
	settings renderengine.DisplaySettings,
	drawRequests []renderengine.LayerSettings,
	engine renderengine.Engine,
	surface ProtectedSurface,
	dequeue func() (*image.RGBA, present.Fence, bool),
	anyProtectedContent, isSecure bool,
) (readyFence present.Fence, ok bool, err error) {
	if !usesClientComposition {
		return present.Fence{}, false, nil
	}

	if isSecure && engine.SupportsProtectedContent() {
		if engine.IsProtected() != anyProtectedContent {
			if err := engine.UseProtectedContext(anyProtectedContent); err != nil {
				return present.Fence{}, false, err
			}
		}
		if surface != nil && surface.IsProtected() != anyProtectedContent {
			surface.SetProtected(anyProtectedContent)
		}
	}

	buf, inFence, dequeued := dequeue()
	if !dequeued {
		return present.Fence{}, false, nil
	}

	ready, err := engine.DrawLayers(settings, drawRequests, buf, true, inFence)
	if err != nil {
		return present.Fence{}, false, err
	}
	return ready, true, nil
}
