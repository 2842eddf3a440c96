package texture

import (
	"image"
	"math/bits"
	"sync/atomic"
)

// TileSize is the edge length in pixels of one dirty-tracking tile.
const TileSize = 32

// dirtyTiles tracks which tiles of a texture changed since the last flush
// using an atomic bitmap, one bit per tile in row-major order.
type dirtyTiles struct {
	words  []atomic.Uint64
	tilesX int
	tilesY int
}

func newDirtyTiles(width, height int) *dirtyTiles {
	tilesX := (width + TileSize - 1) / TileSize
	tilesY := (height + TileSize - 1) / TileSize
	return &dirtyTiles{
		words:  make([]atomic.Uint64, (tilesX*tilesY+63)/64),
		tilesX: tilesX,
		tilesY: tilesY,
	}
}

func (d *dirtyTiles) mark(tx, ty int) {
	idx := ty*d.tilesX + tx
	d.words[idx/64].Or(1 << (idx & 63))
}

// markRect marks every tile touched by the pixel rectangle. The rectangle
// is clamped to the grid.
func (d *dirtyTiles) markRect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	tx1 := max(x/TileSize, 0)
	ty1 := max(y/TileSize, 0)
	tx2 := min((x+w-1)/TileSize, d.tilesX-1)
	ty2 := min((y+h-1)/TileSize, d.tilesY-1)
	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			d.mark(tx, ty)
		}
	}
}

func (d *dirtyTiles) markAll() {
	total := d.tilesX * d.tilesY
	for i := range d.words {
		n := min(total-i*64, 64)
		if n == 64 {
			d.words[i].Store(^uint64(0))
		} else {
			d.words[i].Store(uint64(1)<<n - 1)
		}
	}
}

func (d *dirtyTiles) count() int {
	n := 0
	for i := range d.words {
		n += bits.OnesCount64(d.words[i].Load())
	}
	return n
}

func (d *dirtyTiles) empty() bool {
	for i := range d.words {
		if d.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// take clears the bitmap and returns the dirty tiles as row spans: runs of
// horizontally adjacent dirty tiles are merged into one rectangle, in
// tile units.
func (d *dirtyTiles) take() []image.Rectangle {
	set := make([]bool, d.tilesX*d.tilesY)
	found := false
	for w := range d.words {
		word := d.words[w].Swap(0)
		for word != 0 {
			b := bits.TrailingZeros64(word)
			if idx := w*64 + b; idx < len(set) {
				set[idx] = true
				found = true
			}
			word &^= 1 << b
		}
	}
	if !found {
		return nil
	}

	var spans []image.Rectangle
	for ty := range d.tilesY {
		row := set[ty*d.tilesX : (ty+1)*d.tilesX]
		for tx := 0; tx < d.tilesX; {
			if !row[tx] {
				tx++
				continue
			}
			start := tx
			for tx < d.tilesX && row[tx] {
				tx++
			}
			spans = append(spans, image.Rect(start, ty, tx, ty+1))
		}
	}
	return spans
}
