package layer

// Fake is an in-memory FrontEnd test double. It plays back a fixed
// FrontEndState on latch, records displayed fences, and optionally
// returns a draw spec from PrepareClientComposition.
type Fake struct {
	State   FrontEndState
	Draw    DrawSpec
	HasDraw bool

	Displayed []Fence
}

// NewFake returns a Fake with the given id and otherwise zero state.
func NewFake(id ID) *Fake {
	return &Fake{State: FrontEndState{ID: id}}
}

func (f *Fake) ID() ID { return f.State.ID }

func (f *Fake) LatchCompositionState(state *FrontEndState, subset LatchSubset) {
	switch subset {
	case BasicGeometry:
		state.ID = f.State.ID
		state.Bounds = f.State.Bounds
		state.Transform = f.State.Transform
		state.LayerStackID = f.State.LayerStackID
		state.InternalOnly = f.State.InternalOnly
		state.Z = f.State.Z
		state.IsVisible = f.State.IsVisible
	case Content:
		state.Dataspace = f.State.Dataspace
		state.IsOpaque = f.State.IsOpaque
		state.TransparentRegionHint = f.State.TransparentRegionHint
		state.ContentDirty = f.State.ContentDirty
		state.ForceClientComposition = f.State.ForceClientComposition
		state.HasProtectedContent = f.State.HasProtectedContent
		state.NeedsFiltering = f.State.NeedsFiltering
	case GeometryAndContent:
		f.LatchCompositionState(state, BasicGeometry)
		f.LatchCompositionState(state, Content)
	}
}

func (f *Fake) PrepareClientComposition(settings ClientTargetSettings) (DrawSpec, bool) {
	return f.Draw, f.HasDraw
}

func (f *Fake) OnLayerDisplayed(fence Fence) {
	f.Displayed = append(f.Displayed, fence)
}

var _ FrontEnd = (*Fake)(nil)
