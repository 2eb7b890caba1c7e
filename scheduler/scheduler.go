// Package scheduler selects, per display, between a DEFAULT and
// PERFORMANCE refresh rate from idle/touch/display-power debounce timers
// and layer-derived content-rate estimates, and drives hardware-vsync
// resynchronization.
package scheduler

import (
	"math"
	"sync"
	"time"

	"github.com/gogpu/compose/layer"
	"github.com/gogpu/compose/present"
)

// RefreshRateType is the coarse refresh-rate mode the scheduler selects.
type RefreshRateType int

const (
	Default RefreshRateType = iota
	Performance
)

func (t RefreshRateType) String() string {
	switch t {
	case Default:
		return "Default"
	case Performance:
		return "Performance"
	default:
		return "RefreshRateType(?)"
	}
}

// Event qualifies a refresh-rate change notification: whether it was
// triggered by a content-related signal or is a silent idle-timer
// transition.
type Event int

const (
	EventNone Event = iota
	EventChanged
)

// TimerState is the debounced state of the idle and display-power timers.
type TimerState int

const (
	Reset TimerState = iota
	Expired
)

// TouchState is whether touch input is currently considered active.
type TouchState int

const (
	Inactive TouchState = iota
	Active
)

// FeatureState is the refresh-rate feature-selection input, guarded by a
// single mutex (featureMu).
type FeatureState struct {
	ContentRefreshRate        float64
	IsHDRContent              bool
	ContentDetectionOn        bool
	IdleTimer                 TimerState
	Touch                     TouchState
	DisplayPowerTimer         TimerState
	IsDisplayPowerStateNormal bool
	RefreshRateType           RefreshRateType
}

// RateMapEntry is one entry of the display's supported-refresh-rate map,
// ordered ascending by FPS.
type RateMapEntry struct {
	Type RefreshRateType
	FPS  float64
}

// ChangeCallback is invoked whenever the scheduler's computed
// RefreshRateType changes.
type ChangeCallback func(t RefreshRateType, event Event)

// Config configures a Scheduler at construction. Fields are immutable for
// the Scheduler's lifetime except where noted.
type Config struct {
	SwitchingSupported     bool
	ForceHDRToDefault      bool
	SupportKernelIdleTimer bool

	RateMap []RateMapEntry

	IdleTimeout         time.Duration
	TouchTimeout        time.Duration
	DisplayPowerTimeout time.Duration

	// ResyncDebounce is the minimum interval between Resync calls that
	// actually resync to hardware vsync. Defaults to 750ms if zero.
	ResyncDebounce time.Duration

	DispSync     DispSync
	EventControl EventControl

	// Now overrides time.Now, for tests. Defaults to time.Now if nil.
	Now func() time.Time
}

// Scheduler selects a refresh-rate type per display and drives the
// hardware-vsync resync logic.
type Scheduler struct {
	cfg Config
	now func() time.Time

	featureMu sync.Mutex
	feature   FeatureState

	callbackMu sync.Mutex
	callback   ChangeCallback

	idleTimer  *oneShotTimer
	touchTimer *oneShotTimer
	powerTimer *oneShotTimer

	history *history

	vsyncMu     sync.Mutex
	hwVsyncOn   bool
	vsyncPeriod time.Duration
	lastResync  time.Time
}

// New returns a ready Scheduler. callback may be nil; set or replace it
// later with SetCallback.
func New(cfg Config, callback ChangeCallback) *Scheduler {
	if cfg.ResyncDebounce <= 0 {
		cfg.ResyncDebounce = 750 * time.Millisecond
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	s := &Scheduler{cfg: cfg, now: now, callback: callback, history: newHistory()}
	s.feature.ContentDetectionOn = true
	s.feature.IsDisplayPowerStateNormal = true
	s.feature.DisplayPowerTimer = Expired
	s.feature.RefreshRateType = Default

	s.idleTimer = newOneShotTimer(cfg.IdleTimeout, s.onIdleExpired)
	s.touchTimer = newOneShotTimer(cfg.TouchTimeout, s.onTouchExpired)
	s.powerTimer = newOneShotTimer(cfg.DisplayPowerTimeout, s.onPowerExpired)
	return s
}

// SetCallback replaces the change-refresh-rate callback. Guarded
// separately from feature state (callbackMu); never called
// while featureMu is held.
func (s *Scheduler) SetCallback(cb ChangeCallback) {
	s.callbackMu.Lock()
	defer s.callbackMu.Unlock()
	s.callback = cb
}

func (s *Scheduler) invokeCallback(t RefreshRateType, event Event) {
	s.callbackMu.Lock()
	cb := s.callback
	s.callbackMu.Unlock()
	if cb != nil {
		cb(t, event)
	}
}

// FeatureState returns a snapshot of the current feature state.
func (s *Scheduler) FeatureState() FeatureState {
	s.featureMu.Lock()
	defer s.featureMu.Unlock()
	return s.feature
}

// Stop stops all debounce timers.
func (s *Scheduler) Stop() {
	s.idleTimer.stop()
	s.touchTimer.stop()
	s.powerTimer.stop()
}

// computeTypeLocked implements the ordered refresh-rate decision
// procedure; featureMu must be held.
func (s *Scheduler) computeTypeLocked() RefreshRateType {
	f := &s.feature
	if !s.cfg.SwitchingSupported {
		return Default
	}
	if s.cfg.ForceHDRToDefault && f.IsHDRContent {
		return Default
	}
	if !f.IsDisplayPowerStateNormal || f.DisplayPowerTimer == Reset {
		return Performance
	}
	if f.Touch == Active {
		return Performance
	}
	if f.IdleTimer == Expired {
		return Default
	}
	if !f.ContentDetectionOn {
		return Performance
	}
	return s.matchContentRateLocked()
}

func nearIntegerRatio(fps, contentRate float64) bool {
	if contentRate <= 0 || fps <= 0 {
		return false
	}
	ratio := fps / contentRate
	return math.Abs(ratio-math.Round(ratio)) <= 0.05
}

func closestRateIndex(rateMap []RateMapEntry, rate float64) int {
	best := 0
	bestDiff := math.Abs(rateMap[0].FPS - rate)
	for i := 1; i < len(rateMap); i++ {
		if d := math.Abs(rateMap[i].FPS - rate); d < bestDiff {
			bestDiff = d
			best = i
		}
	}
	return best
}

// matchContentRateLocked picks the rate-map entry whose fps is closest to
// the current content refresh rate, preferring a later entry with a
// near-integer fps ratio over the closest-by-distance one.
func (s *Scheduler) matchContentRateLocked() RefreshRateType {
	rateMap := s.cfg.RateMap
	if len(rateMap) == 0 || s.feature.ContentRefreshRate <= 0 {
		return Default
	}
	rate := s.feature.ContentRefreshRate
	idx := closestRateIndex(rateMap, rate)
	if nearIntegerRatio(rateMap[idx].FPS, rate) {
		return rateMap[idx].Type
	}
	for i := idx + 1; i < len(rateMap); i++ {
		if nearIntegerRatio(rateMap[i].FPS, rate) {
			return rateMap[i].Type
		}
	}
	return rateMap[idx].Type
}

// recompute recomputes the refresh-rate type and, if it changed, invokes
// the callback outside featureMu. eligibleForChanged marks whether the
// trigger is content-related or a display-activity timer transition
// (touch, display-power); idle-timer transitions always pass false.
func (s *Scheduler) recompute(eligibleForChanged bool) {
	s.featureMu.Lock()
	next := s.computeTypeLocked()
	changed := next != s.feature.RefreshRateType
	if changed {
		s.feature.RefreshRateType = next
	}
	contentDetectionOn := s.feature.ContentDetectionOn
	s.featureMu.Unlock()

	if !changed {
		return
	}
	event := EventNone
	if eligibleForChanged && contentDetectionOn {
		event = EventChanged
	}
	s.invokeCallback(next, event)
}

// NotifyContentUpdate records a content update for layer id (for the
// content-rate history) and resets the idle timer.
func (s *Scheduler) NotifyContentUpdate(id layer.ID, isHDR bool, liveLayerIDs []layer.ID) {
	now := s.now()
	s.history.recordUpdate(id, now, isHDR)
	rate, hdr := s.history.estimate(liveLayerIDs)

	s.featureMu.Lock()
	s.feature.ContentRefreshRate = rate
	s.feature.IsHDRContent = hdr
	s.feature.IdleTimer = Reset
	currentType := s.feature.RefreshRateType
	s.featureMu.Unlock()

	s.idleTimer.reset()

	if s.cfg.SupportKernelIdleTimer {
		if currentType == Performance {
			s.resyncToHardwareVsync(true, s.currentVsyncPeriod())
		}
		return
	}
	s.recompute(true)
}

func (s *Scheduler) onIdleExpired() {
	s.featureMu.Lock()
	s.feature.IdleTimer = Expired
	currentType := s.feature.RefreshRateType
	s.featureMu.Unlock()

	if s.cfg.SupportKernelIdleTimer {
		if currentType != Performance {
			s.disableHardwareVsync(false)
		}
		return
	}
	s.recompute(false)
}

// NotifyTouch reports a change in touch-active state.
func (s *Scheduler) NotifyTouch(active bool) {
	s.featureMu.Lock()
	if active {
		s.feature.Touch = Active
	} else {
		s.feature.Touch = Inactive
	}
	s.featureMu.Unlock()

	if active {
		s.touchTimer.reset()
	}
	s.recompute(true)
}

func (s *Scheduler) onTouchExpired() {
	s.featureMu.Lock()
	s.feature.Touch = Inactive
	s.featureMu.Unlock()
	s.recompute(true)
}

// NotifyDisplayPowerState reports whether the display's power state is
// currently "normal" (fully on).
func (s *Scheduler) NotifyDisplayPowerState(normal bool) {
	s.featureMu.Lock()
	s.feature.IsDisplayPowerStateNormal = normal
	s.feature.DisplayPowerTimer = Reset
	s.featureMu.Unlock()

	s.powerTimer.reset()
	s.recompute(true)
}

func (s *Scheduler) onPowerExpired() {
	s.featureMu.Lock()
	s.feature.DisplayPowerTimer = Expired
	s.featureMu.Unlock()
	s.recompute(true)
}

// SetContentDetection enables or disables content-rate-driven selection
// (rule 6: off forces PERFORMANCE).
func (s *Scheduler) SetContentDetection(on bool) {
	s.featureMu.Lock()
	s.feature.ContentDetectionOn = on
	s.featureMu.Unlock()
	s.recompute(false)
}

func (s *Scheduler) currentVsyncPeriod() time.Duration {
	s.vsyncMu.Lock()
	defer s.vsyncMu.Unlock()
	return s.vsyncPeriod
}

// Resync is the debounced hardware-vsync resync entry point: calls within
// ResyncDebounce of the last one are ignored.
func (s *Scheduler) Resync(currentVsyncPeriod time.Duration) {
	s.vsyncMu.Lock()
	now := s.now()
	if !s.lastResync.IsZero() && now.Sub(s.lastResync) < s.cfg.ResyncDebounce {
		s.vsyncMu.Unlock()
		return
	}
	s.lastResync = now
	s.vsyncMu.Unlock()

	s.resyncToHardwareVsync(false, currentVsyncPeriod)
}

// resyncToHardwareVsync sets the vsync period and enables hardware vsync
// delivery (vsyncMu).
func (s *Scheduler) resyncToHardwareVsync(makeAvailable bool, period time.Duration) {
	s.vsyncMu.Lock()
	s.vsyncPeriod = period
	s.hwVsyncOn = true
	s.vsyncMu.Unlock()

	if s.cfg.DispSync != nil {
		s.cfg.DispSync.SetPeriod(period)
	}
	if s.cfg.EventControl != nil {
		s.cfg.EventControl.SetVsyncEnabled(true)
	}
}

// disableHardwareVsync turns off hardware vsync delivery. makeUnavailable
// additionally marks the DispSync model itself as unusable until the next
// resync; not modeled further here since DispSync's internal availability
// bookkeeping is out of scope.
func (s *Scheduler) disableHardwareVsync(makeUnavailable bool) {
	s.vsyncMu.Lock()
	s.hwVsyncOn = false
	s.vsyncMu.Unlock()

	if s.cfg.EventControl != nil {
		s.cfg.EventControl.SetVsyncEnabled(false)
	}
}

// HardwareVsyncEnabled reports whether hardware vsync delivery is
// currently considered on.
func (s *Scheduler) HardwareVsyncEnabled() bool {
	s.vsyncMu.Lock()
	defer s.vsyncMu.Unlock()
	return s.hwVsyncOn
}

// AddResyncSample forwards a hardware vsync timestamp to DispSync iff
// hardware vsync is currently on, and enables/disables it based on the
// result.
func (s *Scheduler) AddResyncSample(timestamp time.Time) {
	s.vsyncMu.Lock()
	on := s.hwVsyncOn
	ds := s.cfg.DispSync
	s.vsyncMu.Unlock()
	if !on || ds == nil {
		return
	}
	_, enable := ds.AddResyncSample(timestamp)
	if enable {
		s.resyncToHardwareVsync(false, s.currentVsyncPeriod())
	} else {
		s.disableHardwareVsync(false)
	}
}

// AddPresentFence forwards a present fence to DispSync as an alternate
// vsync signal source, the same way AddResyncSample does.
func (s *Scheduler) AddPresentFence(fence present.Fence) {
	s.vsyncMu.Lock()
	on := s.hwVsyncOn
	ds := s.cfg.DispSync
	s.vsyncMu.Unlock()
	if !on || ds == nil {
		return
	}
	if ds.AddPresentFence(fence) {
		s.resyncToHardwareVsync(false, s.currentVsyncPeriod())
	} else {
		s.disableHardwareVsync(false)
	}
}
