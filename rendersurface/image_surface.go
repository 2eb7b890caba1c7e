package rendersurface

import (
	"image"
	"sync"

	"github.com/gogpu/compose/layer"
	"github.com/gogpu/compose/present"
)

// ImageSurface is an in-memory RenderSurface backed by a small ring of
// *image.RGBA buffers. It has no real display to flip to; Flip only swaps
// the front and back buffers. It is the default backend for
// virtual displays and the one used by tests.
type ImageSurface struct {
	mu sync.Mutex

	width, height int
	dataspace     layer.Dataspace
	protected     bool

	buffers  []*image.RGBA
	dequeued int // index into buffers currently checked out, -1 if none
}

// NewImageSurface returns a double-buffered ImageSurface of the given
// size.
func NewImageSurface(width, height int) (RenderSurface, error) {
	return &ImageSurface{
		width: width, height: height,
		buffers: []*image.RGBA{
			image.NewRGBA(image.Rect(0, 0, width, height)),
			image.NewRGBA(image.Rect(0, 0, width, height)),
		},
		dequeued: -1,
	}, nil
}

func (s *ImageSurface) SetDisplaySize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	for i := range s.buffers {
		s.buffers[i] = image.NewRGBA(image.Rect(0, 0, width, height))
	}
}

func (s *ImageSurface) GetSize() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *ImageSurface) SetBufferDataspace(ds layer.Dataspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataspace = ds
}

func (s *ImageSurface) BeginFrame(mustRecompose bool) bool {
	return mustRecompose
}

func (s *ImageSurface) PrepareFrame(useClient, useDevice bool) {}

func (s *ImageSurface) DequeueBuffer() (*image.RGBA, present.Fence, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dequeued != -1 {
		return nil, present.Fence{}, false
	}
	// buffers[0] is the front (last-flipped, possibly still being
	// scanned out) buffer; draw into the back buffer.
	s.dequeued = 1
	return s.buffers[1], present.NoFence, true
}

func (s *ImageSurface) QueueBuffer(fence present.Fence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fence.Wait(0)
	s.dequeued = -1
}

func (s *ImageSurface) Flip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.buffers) > 1 {
		s.buffers[0], s.buffers[1] = s.buffers[1], s.buffers[0]
	}
}

func (s *ImageSurface) OnPresentDisplayCompleted() {}

func (s *ImageSurface) GetClientTargetAcquireFence() present.Fence {
	return present.NoFence
}

func (s *ImageSurface) SetProtected(protected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.protected = protected
}

func (s *ImageSurface) IsProtected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.protected
}

// Snapshot returns a copy of the front (most recently flipped) buffer's
// contents, for tests to inspect.
func (s *ImageSurface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.buffers[0]
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

var _ RenderSurface = (*ImageSurface)(nil)
