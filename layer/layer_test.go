package layer

import "testing"

func TestFakeLatchBasicGeometry(t *testing.T) {
	f := NewFake(42)
	f.State.IsVisible = true
	f.State.Z = 3

	var st FrontEndState
	f.LatchCompositionState(&st, BasicGeometry)

	if st.ID != 42 || !st.IsVisible || st.Z != 3 {
		t.Errorf("latched state = %+v", st)
	}
	if st.IsOpaque {
		t.Error("BasicGeometry subset should not latch content fields")
	}
}

func TestFakeLatchGeometryAndContent(t *testing.T) {
	f := NewFake(1)
	f.State.IsOpaque = true
	f.State.Dataspace = DataspaceDisplayP3

	var st FrontEndState
	f.LatchCompositionState(&st, GeometryAndContent)

	if !st.IsOpaque || st.Dataspace != DataspaceDisplayP3 {
		t.Errorf("latched state = %+v", st)
	}
}

func TestDataspaceHDR(t *testing.T) {
	if !DataspaceBT2020PQ.IsHDR() {
		t.Error("BT2020_PQ should be HDR")
	}
	if DataspaceSRGB.IsHDR() {
		t.Error("sRGB should not be HDR")
	}
	if !DataspaceDisplayP3.IsWideGamut() {
		t.Error("Display P3 should be wide gamut")
	}
	if DataspaceSRGB.IsWideGamut() {
		t.Error("sRGB should not be wide gamut")
	}
}

func TestFakeOnLayerDisplayedRecords(t *testing.T) {
	f := NewFake(1)
	f.OnLayerDisplayed(nil)
	if len(f.Displayed) != 1 {
		t.Errorf("Displayed = %v, want 1 entry", f.Displayed)
	}
}
