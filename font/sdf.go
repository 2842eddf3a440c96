package font

import (
	"image"
	"math"
)

// distanceField converts a coverage bitmap into a signed distance field.
// Each output pixel encodes its distance to the nearest edge, clamped to
// spread: 128 on the edge, 255 deep inside and 0 far outside. src must be
// padded by at least spread pixels.
func distanceField(src *image.Alpha, spread float32) *image.Alpha {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	radius := int(math.Ceil(float64(spread)))
	inside := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return src.Pix[y*src.Stride+x] >= 128
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			in := inside(x, y)
			best := float64(spread) + 0.5
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if inside(x+dx, y+dy) == in {
						continue
					}
					if d := math.Hypot(float64(dx), float64(dy)); d < best {
						best = d
					}
				}
			}
			// the edge lies half a pixel before the nearest opposite pixel
			dist := best - 0.5
			if !in {
				dist = -dist
			}
			v := 0.5 + dist/(2*float64(spread))
			dst.Pix[y*dst.Stride+x] = uint8(math.Round(min(max(v, 0), 1) * 255))
		}
	}
	return dst
}
