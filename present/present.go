package present

import "github.com/gogpu/compose/outputlayer"

// HardwareComposer is the present-side subset of the hardware-composer
// contract : collecting fences after a present and clearing them
// once consumed.
type HardwareComposer interface {
	PresentAndGetReleaseFences(displayID uint64) (FrameFences, bool)
	GetPresentFence(displayID uint64) Fence
	GetLayerReleaseFence(displayID uint64, handle outputlayer.HWHandle) (Fence, bool)
	ClearReleaseFences(displayID uint64)
}

// FrameFences is everything present collects from one present call: the
// present fence, the client-target acquire fence, and a release fence per
// hardware-composer layer handle ("FrameFences").
type FrameFences struct {
	PresentFence             Fence
	ClientTargetAcquireFence Fence
	LayerReleaseFences       map[outputlayer.HWHandle]Fence
}

// ReleaseTarget is anything that can receive a release fence: a currently
// visible output-layer, or (via the Released set) a layer front end that
// fell out of visibility this frame.
type ReleaseTarget interface {
	OnLayerDisplayed(fence Fence)
}

// DistributeReleaseFences implements the release half of :
// for every output-layer with a hardware-composer handle, pick its release
// fence from the fence map (defaulting to NoFence), merge it with the
// client-target-acquire fence when client composition happened this
// frame, and notify its front end.  the merge uses the
// *current* frame's client-target-acquire fence, not the previous frame's
// — preserved here even though the upstream design calls it suboptimal.
func DistributeReleaseFences(layers []*outputlayer.OutputLayer, frontEnds map[uint64]ReleaseTarget, fences FrameFences, usedClientComposition bool) {
	for _, ol := range layers {
		if !ol.HasHW() {
			continue
		}
		fe, found := frontEnds[uint64(ol.LayerID)]
		if !found {
			continue
		}
		release := fences.LayerReleaseFences[ol.HW]
		if !release.IsValid() {
			release = NoFence
		}
		if usedClientComposition {
			release = Merge(release, fences.ClientTargetAcquireFence)
		}
		fe.OnLayerDisplayed(release)
	}
}

// NotifyReleased delivers the present fence to every layer front end that
// was visible last frame but is not anymore (the "released layers" set,
// ). Promotion failures (a front end that no longer exists) are
// silently skipped; the caller is responsible for clearing the set
// afterward.
func NotifyReleased(released []ReleaseTarget, presentFence Fence) {
	for _, fe := range released {
		if fe == nil {
			continue
		}
		fe.OnLayerDisplayed(presentFence)
	}
}
