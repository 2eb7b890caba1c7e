package present

import (
	"testing"

	"github.com/gogpu/compose/layer"
	"github.com/gogpu/compose/outputlayer"
)

func TestFenceMergeBothSignaled(t *testing.T) {
	merged := Merge(NoFence, NoFence)
	if !merged.Wait(1) {
		t.Error("merge of two signaled fences should be signaled")
	}
}

func TestFenceMergeWaitsForBoth(t *testing.T) {
	a, signalA := NewFence()
	b, signalB := NewFence()
	merged := Merge(a, b)

	if merged.Signaled() {
		t.Error("merged fence should not be signaled before either input fires")
	}
	signalA()
	signalB()
	if !merged.Wait(1000) {
		t.Error("merged fence should signal once both inputs do")
	}
}

func TestDistributeReleaseFencesSkipsLayersWithoutHW(t *testing.T) {
	ol := outputlayer.NewOutputLayer(1)
	fe := layer.NewFake(1)
	frontEnds := map[uint64]ReleaseTarget{1: adaptFake{fe}}
	DistributeReleaseFences([]*outputlayer.OutputLayer{ol}, frontEnds, FrameFences{}, false)
	if len(fe.Displayed) != 0 {
		t.Error("output-layer without a hardware handle should not receive a release fence")
	}
}

func TestDistributeReleaseFencesMergesClientTarget(t *testing.T) {
	ol := outputlayer.NewOutputLayer(1)
	ol.HW = 5
	fe := layer.NewFake(1)
	frontEnds := map[uint64]ReleaseTarget{1: adaptFake{fe}}

	clientFence, signal := NewFence()
	signal()
	fences := FrameFences{
		ClientTargetAcquireFence: clientFence,
		LayerReleaseFences:       map[outputlayer.HWHandle]Fence{5: NoFence},
	}
	DistributeReleaseFences([]*outputlayer.OutputLayer{ol}, frontEnds, fences, true)
	if len(fe.Displayed) != 1 {
		t.Fatalf("Displayed = %v, want 1 fence", fe.Displayed)
	}
}

func TestNotifyReleasedSkipsNil(t *testing.T) {
	fe := layer.NewFake(1)
	NotifyReleased([]ReleaseTarget{adaptFake{fe}, nil}, NoFence)
	if len(fe.Displayed) != 1 {
		t.Errorf("Displayed = %v, want exactly 1", fe.Displayed)
	}
}

// adaptFake adapts layer.Fake (whose OnLayerDisplayed takes a layer.Fence)
// to present.ReleaseTarget.
type adaptFake struct {
	fe *layer.Fake
}

func (a adaptFake) OnLayerDisplayed(f Fence) {
	a.fe.OnLayerDisplayed(f)
}
