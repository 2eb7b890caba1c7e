// Package frame drives the per-frame phase ordering: updateColorProfile,
// updateAndWriteCompositionState, setColorTransform, beginFrame,
// prepareFrame, devOptRepaintFlash, finishFrame, postFramebuffer.
package frame

import (
	"image"
	"log/slog"
	"time"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/clientcomposition"
	"github.com/gogpu/compose/colorprofile"
	"github.com/gogpu/compose/layer"
	"github.com/gogpu/compose/output"
	"github.com/gogpu/compose/outputlayer"
	"github.com/gogpu/compose/present"
	"github.com/gogpu/compose/region"
	"github.com/gogpu/compose/renderengine"
	"github.com/gogpu/compose/rendersurface"
	"github.com/gogpu/compose/strategy"
)

// RefreshArgs is the per-frame input that doesn't come from layers: the
// requested color setting, an optional output color-mode override, the
// color-transform matrix, and repaint-flash debug settings.
type RefreshArgs struct {
	ColorSetting         colorprofile.ColorSetting
	ForceOutputColorMode *layer.Dataspace
	ColorTransform       [16]float32
	HasColorTransform    bool

	RepaintFlashEnabled bool
	RepaintFlashDelay   time.Duration

	// SkipColorTransform mirrors Output variant dispatch : true
	// for displays (e.g. some virtual displays) that apply color
	// transforms themselves.
	SkipColorTransform bool
}

// Driver orchestrates one frame for one Output using the injected
// collaborators: a hardware composer (nil for displays with none bound),
// a render surface, and a render engine.
type Driver struct {
	HWC          strategy.HardwareComposer
	PresentHWC   present.HardwareComposer
	Surface      rendersurface.RenderSurface
	Engine       renderengine.Engine
	ColorProfile colorprofile.DisplayColorProfile

	// DevOptForceClientComposition mirrors a debug knob that forces
	// every output-layer into client composition regardless of the
	// strategy selector.
	DevOptForceClientComposition bool

	released []present.ReleaseTarget
}

func logger() *slog.Logger { return compose.Logger() }

// UpdateColorProfile resolves and applies the output's display color
// profile for this frame, if a color profile selector is bound.
func (d *Driver) UpdateColorProfile(out *output.Output, args RefreshArgs, layerGamuts []colorprofile.LayerGamut) {
	if d.ColorProfile == nil {
		return
	}
	profile := colorprofile.Select(args.ColorSetting, layerGamuts, d.ColorProfile, args.ForceOutputColorMode)
	out.SetColorProfile(profile)
}

// UpdateAndWriteCompositionState does the following: apply the
// devOptForceClientComposition override, then (in a real deployment) push
// each output-layer's resulting state to its hardware-composer handle via
// pushLayerState. Pushing to the hardware composer is part of the
// strategy/HWC contract and is intentionally not modeled further here —
// only the flag update, which this package owns.
func (d *Driver) UpdateAndWriteCompositionState(out *output.Output) {
	for _, ol := range out.Layers {
		if d.DevOptForceClientComposition {
			ol.ForceClientComposition = true
			ol.CompositionType = outputlayer.Client
		}
	}
}

// SetColorTransform applies args' color transform matrix to out, if set.
func (d *Driver) SetColorTransform(out *output.Output, args RefreshArgs) {
	if !args.HasColorTransform {
		return
	}
	out.SetColorTransform(args.ColorTransform)
}

// BeginFrame does the following: recompose iff dirty and not
// (empty && wasEmpty). lastCompositionHadVisibleLayers updates only when
// recomposing, so that exactly one black frame is emitted after the last
// layer disappears.
func (d *Driver) BeginFrame(out *output.Output) (recompose bool) {
	dirty := !out.GetDirtyRegion(false).IsEmpty()
	empty := len(out.Layers) == 0
	wasEmpty := !out.State.LastCompositionHadVisibleLayers

	recompose = dirty && !(empty && wasEmpty)
	if d.Surface != nil {
		d.Surface.BeginFrame(recompose)
	}
	if recompose {
		out.State.LastCompositionHadVisibleLayers = !empty
	}
	return recompose
}

// PrepareFrame chooses this frame's composition strategy and primes the
// render surface for it.
func (d *Driver) PrepareFrame(out *output.Output) strategy.Result {
	if !out.State.IsEnabled {
		return strategy.Result{}
	}
	var hwID uint64
	if out.ID != output.VirtualDisplayID {
		hwID = uint64(out.ID)
	}
	result := strategy.ChooseCompositionStrategy(hwID, d.HWC, out.Layers)
	out.State.UsesClientComposition = result.UsesClientComposition
	out.State.UsesDeviceComposition = result.UsesDeviceComposition
	out.State.FlipClientTarget = result.FlipClientTarget
	if d.Surface != nil {
		d.Surface.PrepareFrame(result.UsesClientComposition, result.UsesDeviceComposition)
	}
	return result
}

func (d *Driver) dequeue() (func() (*image.RGBA, present.Fence, bool)) {
	return func() (img *image.RGBA, fence present.Fence, ok bool) {
		return d.Surface.DequeueBuffer()
	}
}

func (d *Driver) buildDisplaySettings(out *output.Output, args RefreshArgs) renderengine.DisplaySettings {
	ds := renderengine.DisplaySettings{
		PhysicalDisplay: out.State.Scissor,
		Clip:            out.State.Scissor,
		GlobalTransform: out.State.Transform,
		Orientation:     out.State.Orientation,
	}
	if out.State.Dataspace.IsWideGamut() {
		ds.OutputDataspace = out.State.Dataspace
	} else {
		ds.OutputDataspace = layer.DataspaceUnknown
	}
	if !out.State.UsesDeviceComposition && !args.SkipColorTransform && out.State.HasColorTransform {
		m := out.State.ColorTransformMatrix
		ds.ColorTransform = &m
	}
	return ds
}

// drawRequestsFor builds the per-layer draw requests for out, given the
// matching front ends by layer id.
func (d *Driver) drawRequestsFor(out *output.Output, states map[layer.ID]layer.FrontEndState, frontEnds map[layer.ID]layer.FrontEnd) []renderengine.LayerSettings {
	refs := make([]clientcomposition.LayerRef, 0, len(out.Layers))
	for _, ol := range out.Layers {
		fe, found := frontEnds[ol.LayerID]
		if !found {
			continue
		}
		refs = append(refs, clientcomposition.LayerRef{
			OutputLayer: ol,
			FrontEnd:    fe,
			FEState:     states[ol.LayerID],
		})
	}
	return clientcomposition.BuildDrawRequests(refs, out.State.Viewport, out.State.NeedsFiltering, out.State.IsSecure, d.Engine != nil && d.Engine.SupportsProtectedContent())
}

func anyProtectedContent(states map[layer.ID]layer.FrontEndState, out *output.Output) bool {
	for _, ol := range out.Layers {
		if states[ol.LayerID].HasProtectedContent {
			return true
		}
	}
	return false
}

// ComposeSurfaces implements the outer call, used by both
// finishFrame and devOptRepaintFlash.
func (d *Driver) ComposeSurfaces(out *output.Output, args RefreshArgs, drawRequests []renderengine.LayerSettings, states map[layer.ID]layer.FrontEndState) (present.Fence, bool, error) {
	settings := d.buildDisplaySettings(out, args)
	return clientcomposition.ComposeSurfaces(
		out.State.UsesClientComposition,
		settings,
		drawRequests,
		d.Engine,
		d.Surface,
		d.dequeue(),
		anyProtectedContent(states, out),
		out.State.IsSecure,
	)
}

// DevOptRepaintFlash recomposes the current frame's dirty region with a
// flash overlay for visual debugging. The returned ready-fence is
// intentionally discarded; the surface is queued with an unconnected
// fence, matching the preserved (if suboptimal) upstream behavior.
func (d *Driver) DevOptRepaintFlash(out *output.Output, args RefreshArgs, states map[layer.ID]layer.FrontEndState, frontEnds map[layer.ID]layer.FrontEnd) {
	if !args.RepaintFlashEnabled || !out.State.IsEnabled {
		return
	}
	dirty := out.GetDirtyRegion(false)
	if dirty.IsEmpty() {
		return
	}

	requests := d.drawRequestsFor(out, states, frontEnds)
	requests = append(requests, clientcomposition.FlashRequests(dirty)...)

	_, ok, err := d.ComposeSurfaces(out, args, requests, states)
	if err != nil {
		logger().Warn("repaint flash compose failed", "output", out.Name, "error", err)
	}
	if ok && d.Surface != nil {
		d.Surface.QueueBuffer(present.Fence{})
	}

	time.Sleep(args.RepaintFlashDelay)
	d.PrepareFrame(out)
}

// FinishFrame does the following: client-compose the draw requests of
// every output-layer (no flash overlay; the dirty region is not
// consulted), then queue the returned buffer with the ready-fence.
func (d *Driver) FinishFrame(out *output.Output, args RefreshArgs, states map[layer.ID]layer.FrontEndState, frontEnds map[layer.ID]layer.FrontEnd) {
	if !out.State.IsEnabled {
		return
	}
	requests := d.drawRequestsFor(out, states, frontEnds)
	ready, ok, err := d.ComposeSurfaces(out, args, requests, states)
	if err != nil {
		logger().Warn("finish frame compose failed", "output", out.Name, "error", err)
		return
	}
	if ok && d.Surface != nil {
		d.Surface.QueueBuffer(ready)
	}
}

// PostFramebuffer implements §4.5 step 8: flip the surface, present
// through the hardware composer, and distribute release fences. frontEnds
// maps layer id to its present.ReleaseTarget (the same front end, adapted).
// The front ends of layers released this frame are the ones recorded with
// SetReleased (visibility.Pass returns their layer ids).
func (d *Driver) PostFramebuffer(out *output.Output, frontEnds map[uint64]present.ReleaseTarget) {
	if !out.State.IsEnabled {
		return
	}
	out.State.DirtyRegion = region.Region{}

	if d.Surface != nil {
		d.Surface.Flip()
	}

	if d.PresentHWC == nil {
		d.released = nil
		return
	}

	var hwID uint64
	if out.ID != output.VirtualDisplayID {
		hwID = uint64(out.ID)
	}
	fences, ok := d.PresentHWC.PresentAndGetReleaseFences(hwID)
	if !ok {
		d.released = nil
		return
	}
	if d.Surface != nil {
		d.Surface.OnPresentDisplayCompleted()
		// The client-target acquire fence is a render-surface contract
		// operation, not part of what the hardware composer's present call
		// returns; pull it from the surface before merging it into release
		// fences below.
		fences.ClientTargetAcquireFence = d.Surface.GetClientTargetAcquireFence()
	}

	present.DistributeReleaseFences(out.Layers, frontEnds, fences, out.State.UsesClientComposition)
	present.NotifyReleased(d.released, fences.PresentFence)
	d.released = nil
}

// SetReleased records the front ends of layers released this frame (no
// longer visible on out), to be notified with the present fence at the
// next PostFramebuffer. When no PresentHWC is bound, or its present call
// fails, PostFramebuffer drops them without notifying them.
func (d *Driver) SetReleased(released []present.ReleaseTarget) {
	d.released = released
}
