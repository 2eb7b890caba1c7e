package scheduler

import (
	"time"

	"github.com/gogpu/compose/cache"
	"github.com/gogpu/compose/layer"
)

// historySamples is the number of recent update timestamps kept per layer
// for the content-rate estimate.
const historySamples = 8

type layerSample struct {
	timestamps [historySamples]time.Time
	count      int // number of valid entries, saturates at historySamples
	next       int // ring-buffer write position
	isHDR      bool
}

func (s *layerSample) record(now time.Time, isHDR bool) {
	s.timestamps[s.next] = now
	s.next = (s.next + 1) % historySamples
	if s.count < historySamples {
		s.count++
	}
	s.isHDR = isHDR
}

// fps returns the layer's estimated content refresh rate from the mean
// interval between its last recorded updates, or 0 if too few samples
// exist yet.
func (s *layerSample) fps() float64 {
	if s.count < 2 {
		return 0
	}
	// The two oldest-to-newest entries among the valid ones: walk back
	// count-1 steps from next.
	newestIdx := (s.next - 1 + historySamples) % historySamples
	oldestIdx := (s.next - s.count + historySamples) % historySamples
	span := s.timestamps[newestIdx].Sub(s.timestamps[oldestIdx])
	if span <= 0 {
		return 0
	}
	intervals := float64(s.count - 1)
	return intervals / span.Seconds()
}

// history estimates each layer's content refresh rate from its recent
// update timestamps, sharded by layer.ID to avoid one lock contending
// across every layer on the system (backed by cache.ShardedCache, whose
// API is trimmed to the Get/Set/NewSharded surface used here).
type history struct {
	samples *cache.ShardedCache[layer.ID, *layerSample]
}

func newHistory() *history {
	return &history{
		samples: cache.NewSharded[layer.ID, *layerSample](cache.DefaultCapacity, func(id layer.ID) uint64 {
			return cache.Uint64Hasher(uint64(id))
		}),
	}
}

// recordUpdate registers a content update for id at now.
func (h *history) recordUpdate(id layer.ID, now time.Time, isHDR bool) {
	sample, ok := h.samples.Get(id)
	if !ok {
		sample = &layerSample{}
	}
	sample.record(now, isHDR)
	h.samples.Set(id, sample)
}

// estimate aggregates the content refresh rate and HDR-ness across the
// given layer ids: the highest estimated fps among them (the fastest
// layer sets the pace other layers must keep up with), and whether any is
// HDR.
func (h *history) estimate(ids []layer.ID) (fps float64, isHDR bool) {
	for _, id := range ids {
		sample, ok := h.samples.Get(id)
		if !ok {
			continue
		}
		if f := sample.fps(); f > fps {
			fps = f
		}
		if sample.isHDR {
			isHDR = true
		}
	}
	return fps, isHDR
}
