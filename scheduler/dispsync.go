package scheduler

import (
	"time"

	"github.com/gogpu/compose/present"
)

// DispSync is the hardware-vsync model resync drives: it tracks the
// display's actual vsync period against the composition thread's model of
// it, consuming resync samples and present fences, and reporting whether
// hardware vsync delivery should be enabled or disabled.
type DispSync interface {
	SetPeriod(period time.Duration)
	// AddResyncSample reports a hardware vsync timestamp; periodFlushed
	// reports whether the period changed. The return value is whether
	// hardware vsync should remain/become enabled.
	AddResyncSample(timestamp time.Time) (periodFlushed bool, enableHWVsync bool)
	// AddPresentFence reports a present fence as an alternate vsync
	// signal source. The return value is whether hardware vsync should
	// remain/become enabled.
	AddPresentFence(fence present.Fence) (enableHWVsync bool)
}

// EventControl toggles vsync delivery at the display driver.
type EventControl interface {
	SetVsyncEnabled(enabled bool)
}
