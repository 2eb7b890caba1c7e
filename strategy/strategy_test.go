package strategy

import (
	"testing"

	"github.com/gogpu/compose/outputlayer"
)

type fakeHWC struct {
	changes DeviceCompositionChanges
	ok      bool
}

func (f fakeHWC) GetDeviceCompositionChanges(displayID uint64, needsClient bool) (DeviceCompositionChanges, bool) {
	return f.changes, f.ok
}

func TestChooseCompositionStrategyNoHWC(t *testing.T) {
	layers := []*outputlayer.OutputLayer{outputlayer.NewOutputLayer(1)}
	result := ChooseCompositionStrategy(0, nil, layers)
	if !result.UsesClientComposition || result.UsesDeviceComposition {
		t.Errorf("result = %+v, want client-only default", result)
	}
}

func TestChooseCompositionStrategyQueryFailureKeepsDefault(t *testing.T) {
	layers := []*outputlayer.OutputLayer{outputlayer.NewOutputLayer(1)}
	result := ChooseCompositionStrategy(0, fakeHWC{ok: false}, layers)
	if !result.UsesClientComposition || result.UsesDeviceComposition {
		t.Errorf("result = %+v, want client-only default on query failure", result)
	}
}

func TestChooseCompositionStrategyAppliesChangedTypes(t *testing.T) {
	ol := outputlayer.NewOutputLayer(1)
	ol.HW = 42
	ol.CompositionType = outputlayer.Client

	hwc := fakeHWC{
		ok: true,
		changes: DeviceCompositionChanges{
			ChangedTypes: map[outputlayer.HWHandle]outputlayer.DeviceCompositionType{
				42: outputlayer.Device,
			},
		},
	}
	result := ChooseCompositionStrategy(0, hwc, []*outputlayer.OutputLayer{ol})

	if ol.CompositionType != outputlayer.Device {
		t.Errorf("CompositionType = %v, want Device after applying change", ol.CompositionType)
	}
	if result.UsesClientComposition {
		t.Error("UsesClientComposition should be false when all layers are device-composed")
	}
	if !result.UsesDeviceComposition {
		t.Error("UsesDeviceComposition should be true")
	}
}

func TestChooseCompositionStrategyLayerRequestSetsClearClientTarget(t *testing.T) {
	ol := outputlayer.NewOutputLayer(1)
	ol.HW = 7
	hwc := fakeHWC{
		ok: true,
		changes: DeviceCompositionChanges{
			LayerRequests: map[outputlayer.HWHandle]LayerRequestBits{7: ClearClientTarget},
		},
	}
	ChooseCompositionStrategy(0, hwc, []*outputlayer.OutputLayer{ol})
	if !ol.ClearClientTarget {
		t.Error("ClearClientTarget should be set from layerRequests")
	}
}

func TestChooseCompositionStrategyResetsFlagsEachCall(t *testing.T) {
	ol := outputlayer.NewOutputLayer(1)
	ol.HW = 7
	ol.ClearClientTarget = true
	hwc := fakeHWC{ok: true, changes: DeviceCompositionChanges{}}
	ChooseCompositionStrategy(0, hwc, []*outputlayer.OutputLayer{ol})
	if ol.ClearClientTarget {
		t.Error("ClearClientTarget should reset when no matching layerRequest arrives")
	}
}
