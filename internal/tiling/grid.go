// Package tiling accelerates dirty-region bookkeeping by tracking damage at
// tile granularity instead of per-pixel-rect. The visibility & coverage pass
// reports damage as a free-form region.Region; Grid buckets that damage into
// fixed-size tiles backed by a lock-free atomic bitmap, which keeps
// per-frame damage tracking cheap even when a layer reports many small,
// scattered updates.
package tiling

import (
	"math/bits"
	"sync/atomic"

	"github.com/gogpu/compose/region"
)

// TileSize is the edge length, in pixels, of one tile. Chosen to match a
// typical GPU tile/cacheline granularity.
const TileSize = 64

// Grid tracks dirty tiles over a width x height pixel surface using one bit
// per tile packed into atomic.Uint64 words. All methods are safe for
// concurrent use without external synchronization.
type Grid struct {
	words  []atomic.Uint64
	tilesX int
	tilesY int
	width  int
	height int
}

// NewGrid returns a Grid covering a width x height surface, with no tiles
// marked dirty. Returns nil if the dimensions are non-positive.
func NewGrid(width, height int) *Grid {
	if width <= 0 || height <= 0 {
		return nil
	}
	tilesX := (width + TileSize - 1) / TileSize
	tilesY := (height + TileSize - 1) / TileSize
	numWords := (tilesX*tilesY + 63) / 64
	return &Grid{
		words:  make([]atomic.Uint64, numWords),
		tilesX: tilesX,
		tilesY: tilesY,
		width:  width,
		height: height,
	}
}

func (g *Grid) mark(tx, ty int) {
	if tx < 0 || tx >= g.tilesX || ty < 0 || ty >= g.tilesY {
		return
	}
	idx := ty*g.tilesX + tx
	g.words[idx/64].Or(1 << uint(idx&63))
}

// Mark marks every tile intersecting r as dirty.
func (g *Grid) Mark(r region.Rect) {
	if r.IsEmpty() {
		return
	}
	tx1 := max(r.Left/TileSize, 0)
	ty1 := max(r.Top/TileSize, 0)
	tx2 := min((r.Right-1)/TileSize, g.tilesX-1)
	ty2 := min((r.Bottom-1)/TileSize, g.tilesY-1)
	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			g.mark(tx, ty)
		}
	}
}

// MarkRegion marks every tile intersecting any rect of reg as dirty.
func (g *Grid) MarkRegion(reg region.Region) {
	for _, r := range reg.Rects() {
		g.Mark(r)
	}
}

// MarkAll marks every tile in the grid as dirty, e.g. after a resize or a
// full-screen invalidation.
func (g *Grid) MarkAll() {
	total := g.tilesX * g.tilesY
	fullWords := total / 64
	for i := range fullWords {
		g.words[i].Store(^uint64(0))
	}
	if rem := total % 64; rem > 0 {
		g.words[fullWords].Store((uint64(1) << rem) - 1)
	}
}

// Clear marks every tile as clean without returning the prior state.
func (g *Grid) Clear() {
	for i := range g.words {
		g.words[i].Store(0)
	}
}

// IsEmpty reports whether no tile is marked dirty.
func (g *Grid) IsEmpty() bool {
	for i := range g.words {
		if g.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of tiles currently marked dirty.
func (g *Grid) Count() int {
	count := 0
	for i := range g.words {
		count += bits.OnesCount64(g.words[i].Load())
	}
	return count
}

func (g *Grid) tileRect(tx, ty int) region.Rect {
	left := tx * TileSize
	top := ty * TileSize
	right := min(left+TileSize, g.width)
	bottom := min(top+TileSize, g.height)
	return region.Rectangle(left, top, right, bottom)
}

// Snapshot returns the dirty tiles as a region.Region without clearing
// them.
func (g *Grid) Snapshot() region.Region {
	var rects []region.Rect
	total := g.tilesX * g.tilesY
	for wordIdx := range g.words {
		word := g.words[wordIdx].Load()
		for word != 0 {
			bitIdx := bits.TrailingZeros64(word)
			word &= word - 1
			tileIdx := wordIdx*64 + bitIdx
			if tileIdx >= total {
				break
			}
			tx, ty := tileIdx%g.tilesX, tileIdx/g.tilesX
			rects = append(rects, g.tileRect(tx, ty))
		}
	}
	return region.New(rects...)
}

// TakeDirty atomically returns the dirty tiles as a region.Region and
// clears them, word by word. This is the usual way a frame consumes
// accumulated damage: whatever Mark calls land after TakeDirty starts
// reading are preserved for the next frame rather than lost.
func (g *Grid) TakeDirty() region.Region {
	var rects []region.Rect
	total := g.tilesX * g.tilesY
	for wordIdx := range g.words {
		word := g.words[wordIdx].Swap(0)
		for word != 0 {
			bitIdx := bits.TrailingZeros64(word)
			word &= word - 1
			tileIdx := wordIdx*64 + bitIdx
			if tileIdx >= total {
				break
			}
			tx, ty := tileIdx%g.tilesX, tileIdx/g.tilesX
			rects = append(rects, g.tileRect(tx, ty))
		}
	}
	return region.New(rects...)
}

// Resize changes the grid's covered dimensions. Existing dirty state is
// discarded and the whole new surface starts dirty, mirroring a
// freshly-reallocated render target.
func (g *Grid) Resize(width, height int) *Grid {
	if width == g.width && height == g.height {
		return g
	}
	ng := NewGrid(width, height)
	if ng != nil {
		ng.MarkAll()
	}
	return ng
}
