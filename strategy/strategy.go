// Package strategy selects, once per frame, whether an output needs
// client composition, device composition, or both, by consulting the
// hardware composer for per-layer composition-type changes and requests.
package strategy

import "github.com/gogpu/compose/outputlayer"

// DisplayRequestBits is a bitset of display-level requests returned
// alongside per-layer changes.
type DisplayRequestBits uint32

const (
	// FlipClientTarget asks the caller to present the client target even
	// if no layer used client composition this frame.
	FlipClientTarget DisplayRequestBits = 1 << iota
)

// LayerRequestBits is a bitset of per-layer requests.
type LayerRequestBits uint32

const (
	// ClearClientTarget asks the client-composition pipeline to paint
	// this layer's region with a transparent clear instead of drawing
	// its content, because the hardware composer will blend a
	// differently-scanned-out plane underneath.
	ClearClientTarget LayerRequestBits = 1 << iota
)

// DeviceCompositionChanges is what the hardware composer reports for one
// query: which layers changed composition type, display-level requests,
// and per-layer requests ("getDeviceCompositionChanges").
type DeviceCompositionChanges struct {
	ChangedTypes    map[outputlayer.HWHandle]outputlayer.DeviceCompositionType
	DisplayRequests DisplayRequestBits
	LayerRequests   map[outputlayer.HWHandle]LayerRequestBits
}

// HardwareComposer is the per-display device-composition contract
// consumed by the strategy selector.
type HardwareComposer interface {
	// GetDeviceCompositionChanges asks the hardware composer to validate
	// the current layer set. needsClientComposition is true if any layer
	// has already been forced into client composition (e.g. by
	// devOptForceClientComposition); ok is false on query failure.
	GetDeviceCompositionChanges(displayID uint64, needsClientComposition bool) (changes DeviceCompositionChanges, ok bool)
}

// Result is the outcome of ChooseCompositionStrategy: whether the output
// needs client composition, device composition, and whether the client
// target should be flipped even with no client-composed layer.
type Result struct {
	UsesClientComposition bool
	UsesDeviceComposition bool
	FlipClientTarget      bool
}

// anyRequiresClient reports whether any output-layer is presently flagged
// for client composition.
func anyRequiresClient(layers []*outputlayer.OutputLayer) bool {
	for _, ol := range layers {
		if ol.CompositionType == outputlayer.Client || ol.ForceClientComposition {
			return true
		}
	}
	return false
}

func allRequireClient(layers []*outputlayer.OutputLayer) bool {
	for _, ol := range layers {
		if ol.CompositionType != outputlayer.Client && !ol.ForceClientComposition {
			return false
		}
	}
	return true
}

// ChooseCompositionStrategy. hwc is nil for displays
// with no bound hardware composer (e.g. virtual displays), in which case
// the default usesClient=true/usesDevice=false stands.
func ChooseCompositionStrategy(displayID uint64, hwc HardwareComposer, layers []*outputlayer.OutputLayer) Result {
	result := Result{UsesClientComposition: true, UsesDeviceComposition: false}
	if hwc == nil {
		return result
	}

	byHandle := make(map[outputlayer.HWHandle]*outputlayer.OutputLayer, len(layers))
	for _, ol := range layers {
		ol.ResetRequestFlags()
		if ol.HasHW() {
			byHandle[ol.HW] = ol
		}
	}

	changes, ok := hwc.GetDeviceCompositionChanges(displayID, anyRequiresClient(layers))
	if !ok {
		return result
	}

	for handle, newType := range changes.ChangedTypes {
		if ol, found := byHandle[handle]; found {
			ol.CompositionType = newType
		}
	}
	if changes.DisplayRequests&FlipClientTarget != 0 {
		result.FlipClientTarget = true
	}
	for handle, req := range changes.LayerRequests {
		ol, found := byHandle[handle]
		if !found {
			continue
		}
		if req&ClearClientTarget != 0 {
			ol.ClearClientTarget = true
		}
	}

	result.UsesClientComposition = anyRequiresClient(layers)
	result.UsesDeviceComposition = !allRequireClient(layers)
	return result
}
