package font

// shelfPacker packs glyph bitmaps into horizontal shelves. A shelf is as
// tall as its tallest glyph; glyphs are placed left to right and a new
// shelf opens below when none fits. Space is never reclaimed.
type shelfPacker struct {
	width, height int
	padding       int
	shelves       []shelfRow
	used          int
}

type shelfRow struct {
	y, height, x int
}

func newShelfPacker(width, height, padding int) *shelfPacker {
	return &shelfPacker{width: width, height: height, padding: padding}
}

// pack reserves a w*h cell and returns its top-left corner. Cells start at
// padding so no glyph touches the atlas edge.
func (p *shelfPacker) pack(w, h int) (x, y int, ok bool) {
	pw, ph := w+p.padding, h+p.padding
	if pw+p.padding > p.width {
		return 0, 0, false
	}

	// tightest shelf that fits without growing, else grow the last one
	best := -1
	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+pw > p.width || h > s.height {
			continue
		}
		if best < 0 || s.height < p.shelves[best].height {
			best = i
		}
	}
	if n := len(p.shelves); best < 0 && n > 0 {
		s := &p.shelves[n-1]
		if s.x+pw <= p.width && s.y+ph <= p.height {
			best = n - 1
		}
	}
	if best >= 0 {
		s := &p.shelves[best]
		s.height = max(s.height, h)
		x, y = s.x, s.y
		s.x += pw
		p.used += w * h
		return x, y, true
	}

	top := p.padding
	if n := len(p.shelves); n > 0 {
		top = p.shelves[n-1].y + p.shelves[n-1].height + p.padding
	}
	if top+ph > p.height {
		return 0, 0, false
	}
	p.shelves = append(p.shelves, shelfRow{y: top, height: h, x: p.padding + pw})
	p.used += w * h
	return p.padding, top, true
}

func (p *shelfPacker) reset() {
	p.shelves = p.shelves[:0]
	p.used = 0
}

// utilization returns the packed fraction of the atlas area.
func (p *shelfPacker) utilization() float64 {
	return float64(p.used) / float64(p.width*p.height)
}
