// Package connreg hands out opaque handles to vsync-event subscribers and
// forwards hotplug/power/config events to the subscriber bound to each
// handle.
package connreg

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/compose"
)

// Handle is an opaque, monotonically allocated identifier for one
// registered (connection, event-thread) pair. The zero value never
// refers to a real registration.
type Handle uint64

// EventThread is the per-connection event sink a Handle forwards to: the
// hotplug/power/config notifications and phase-offset/dump requests a
// display connection's event thread receives.
type EventThread interface {
	OnHotplug(connected bool)
	OnScreenAcquired()
	OnScreenReleased()
	OnConfigChanged(configID int)
	SetPhaseOffset(offset time.Duration)
	Dump() string
}

type entry struct {
	connection string
	thread     EventThread
}

// Registry maps opaque handles to (connection, event-thread) pairs and
// forwards operations to the matching event thread, grounded on the
// teacher's backend.Register/Unregister/Available RWMutex-guarded map
// registry (backend/registry.go), with string names swapped for
// monotonically increasing Handles.
type Registry struct {
	mu      sync.RWMutex
	nextID  atomic.Uint64
	entries map[Handle]entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Handle]entry)}
}

// Register allocates a new Handle for (connection, thread) and returns it.
// connection is a human-readable label used only for logging and dump
// output.
func (r *Registry) Register(connection string, thread EventThread) Handle {
	id := r.nextID.Add(1)
	h := Handle(id)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[h] = entry{connection: connection, thread: thread}
	return h
}

// Unregister drops h. Forwarding operations on h afterward log and return
// a typed default, the same as for a handle that was never registered.
func (r *Registry) Unregister(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, h)
}

// Len reports the number of currently registered handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) lookup(h Handle) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[h]
	return e, ok
}

func (r *Registry) unknownHandle(op string, h Handle) {
	compose.Logger().Warn("connreg: unknown connection handle", "op", op, "handle", uint64(h))
}

// OnHotplug forwards a hotplug notification to h's event thread.
func (r *Registry) OnHotplug(h Handle, connected bool) {
	e, ok := r.lookup(h)
	if !ok {
		r.unknownHandle("onHotplug", h)
		return
	}
	e.thread.OnHotplug(connected)
}

// OnScreenAcquired forwards a screen-acquired notification to h's event
// thread.
func (r *Registry) OnScreenAcquired(h Handle) {
	e, ok := r.lookup(h)
	if !ok {
		r.unknownHandle("onScreenAcquired", h)
		return
	}
	e.thread.OnScreenAcquired()
}

// OnScreenReleased forwards a screen-released notification to h's event
// thread.
func (r *Registry) OnScreenReleased(h Handle) {
	e, ok := r.lookup(h)
	if !ok {
		r.unknownHandle("onScreenReleased", h)
		return
	}
	e.thread.OnScreenReleased()
}

// OnConfigChanged forwards a display-config change to h's event thread.
func (r *Registry) OnConfigChanged(h Handle, configID int) {
	e, ok := r.lookup(h)
	if !ok {
		r.unknownHandle("onConfigChanged", h)
		return
	}
	e.thread.OnConfigChanged(configID)
}

// SetPhaseOffset forwards a vsync phase-offset change to h's event
// thread.
func (r *Registry) SetPhaseOffset(h Handle, offset time.Duration) {
	e, ok := r.lookup(h)
	if !ok {
		r.unknownHandle("setPhaseOffset", h)
		return
	}
	e.thread.SetPhaseOffset(offset)
}

// Dump returns h's event thread's debug dump, or "" (the typed default)
// if h is unknown.
func (r *Registry) Dump(h Handle) string {
	e, ok := r.lookup(h)
	if !ok {
		r.unknownHandle("dump", h)
		return ""
	}
	return e.thread.Dump()
}
