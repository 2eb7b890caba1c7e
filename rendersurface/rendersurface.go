// Package rendersurface is the render-surface contract the per-frame
// driver drives: dequeuing and queuing buffers, flipping, and reporting
// size, modeled as a narrow buffer-queue abstraction ("render-surface contract").
package rendersurface

import (
	"image"

	"github.com/gogpu/compose/layer"
	"github.com/gogpu/compose/present"
)

// RenderSurface is the buffer-queue contract a per-output render surface
// implements.
type RenderSurface interface {
	SetDisplaySize(width, height int)
	GetSize() (width, height int)
	SetBufferDataspace(ds layer.Dataspace)

	BeginFrame(mustRecompose bool) (recompose bool)
	PrepareFrame(useClient, useDevice bool)

	// DequeueBuffer returns the next buffer to draw into, or ok=false if
	// none is currently available ("dequeue failure").
	DequeueBuffer() (buf *image.RGBA, acquireFence present.Fence, ok bool)
	// QueueBuffer submits the buffer most recently returned by
	// DequeueBuffer, ready once fence signals.
	QueueBuffer(fence present.Fence)
	Flip()

	OnPresentDisplayCompleted()
	GetClientTargetAcquireFence() present.Fence

	SetProtected(protected bool)
	IsProtected() bool
}

// Factory creates a new RenderSurface with the given initial size.
type Factory func(width, height int) (RenderSurface, error)
