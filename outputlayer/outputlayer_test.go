package outputlayer

import "testing"

func TestNewOutputLayerDefaults(t *testing.T) {
	ol := NewOutputLayer(7)
	if ol.LayerID != 7 {
		t.Errorf("LayerID = %d, want 7", ol.LayerID)
	}
	if ol.HasHW() {
		t.Error("new output-layer should have no hardware handle")
	}
	if ol.CompositionType != Client {
		t.Errorf("CompositionType = %v, want Client", ol.CompositionType)
	}
}

func TestResetRequestFlags(t *testing.T) {
	ol := NewOutputLayer(1)
	ol.ClearClientTarget = true
	ol.ResetRequestFlags()
	if ol.ClearClientTarget {
		t.Error("ResetRequestFlags should clear ClearClientTarget")
	}
}

func TestRequiresClientComposition(t *testing.T) {
	ol := NewOutputLayer(1)
	if !ol.RequiresClientComposition() {
		t.Error("a new output-layer defaults to Client composition")
	}

	ol.CompositionType = Device
	if ol.RequiresClientComposition() {
		t.Error("a layer assigned Device composition should not require client composition")
	}

	ol.ForceClientComposition = true
	if !ol.RequiresClientComposition() {
		t.Error("ForceClientComposition should override a Device assignment")
	}
}
