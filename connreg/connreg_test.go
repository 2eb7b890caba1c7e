package connreg

import (
	"testing"
	"time"
)

type fakeThread struct {
	hotplug       []bool
	acquired      int
	released      int
	configChanges []int
	phaseOffset   time.Duration
	dumpText      string
}

func (f *fakeThread) OnHotplug(connected bool)        { f.hotplug = append(f.hotplug, connected) }
func (f *fakeThread) OnScreenAcquired()                { f.acquired++ }
func (f *fakeThread) OnScreenReleased()                { f.released++ }
func (f *fakeThread) OnConfigChanged(configID int)     { f.configChanges = append(f.configChanges, configID) }
func (f *fakeThread) SetPhaseOffset(offset time.Duration) { f.phaseOffset = offset }
func (f *fakeThread) Dump() string                     { return f.dumpText }

func TestRegisterAllocatesDistinctHandles(t *testing.T) {
	r := NewRegistry()
	h1 := r.Register("conn1", &fakeThread{})
	h2 := r.Register("conn2", &fakeThread{})
	if h1 == h2 {
		t.Errorf("h1 == h2 == %v, want distinct handles", h1)
	}
	if h1 == 0 || h2 == 0 {
		t.Error("handles should never be the zero value")
	}
}

func TestForwardingReachesTheRightThread(t *testing.T) {
	r := NewRegistry()
	ft := &fakeThread{}
	h := r.Register("conn", ft)

	r.OnHotplug(h, true)
	r.OnScreenAcquired(h)
	r.OnScreenReleased(h)
	r.OnConfigChanged(h, 3)
	r.SetPhaseOffset(h, 5*time.Millisecond)
	ft.dumpText = "status ok"

	if len(ft.hotplug) != 1 || !ft.hotplug[0] {
		t.Errorf("hotplug = %v, want [true]", ft.hotplug)
	}
	if ft.acquired != 1 || ft.released != 1 {
		t.Errorf("acquired=%d released=%d, want 1/1", ft.acquired, ft.released)
	}
	if len(ft.configChanges) != 1 || ft.configChanges[0] != 3 {
		t.Errorf("configChanges = %v, want [3]", ft.configChanges)
	}
	if ft.phaseOffset != 5*time.Millisecond {
		t.Errorf("phaseOffset = %v, want 5ms", ft.phaseOffset)
	}
	if got := r.Dump(h); got != "status ok" {
		t.Errorf("Dump() = %q, want %q", got, "status ok")
	}
}

func TestUnknownHandleDumpReturnsEmptyString(t *testing.T) {
	r := NewRegistry()
	if got := r.Dump(Handle(999)); got != "" {
		t.Errorf("Dump() for unknown handle = %q, want empty", got)
	}
}

func TestUnknownHandleOperationsAreNoOps(t *testing.T) {
	r := NewRegistry()
	// None of these should panic on a handle that was never registered.
	r.OnHotplug(Handle(42), true)
	r.OnScreenAcquired(Handle(42))
	r.OnScreenReleased(Handle(42))
	r.OnConfigChanged(Handle(42), 1)
	r.SetPhaseOffset(Handle(42), time.Second)
}

func TestUnregisterRemovesTheHandle(t *testing.T) {
	r := NewRegistry()
	ft := &fakeThread{}
	h := r.Register("conn", ft)
	r.Unregister(h)

	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after Unregister", r.Len())
	}
	r.OnScreenAcquired(h)
	if ft.acquired != 0 {
		t.Error("forwarding to an unregistered handle should be a no-op")
	}
}
