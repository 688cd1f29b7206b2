package preprocess

import (
	"image"
	"math"
)

const (
	claheClipLimit = 1.5
	claheTilesX    = 8
	claheTilesY    = 8
)

// EqualizeAdaptive performs contrast limited adaptive histogram equalization
// (CLAHE) on an 8x8 tile grid. Each tile histogram is clipped and the excess
// redistributed before building its mapping; pixels are remapped by bilinear
// interpolation between the four nearest tile centres. Images whose size is
// not a multiple of the grid are extended with reflected borders.
func EqualizeAdaptive(src *image.Gray) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w == 0 || h == 0 {
		return src
	}

	tw := (w + claheTilesX - 1) / claheTilesX
	th := (h + claheTilesY - 1) / claheTilesY
	tileArea := tw * th

	clip := int(claheClipLimit * float64(tileArea) / 256)
	if clip < 1 {
		clip = 1
	}
	lutScale := 255.0 / float64(tileArea)

	luts := make([][256]uint8, claheTilesX*claheTilesY)
	for ty := 0; ty < claheTilesY; ty++ {
		for tx := 0; tx < claheTilesX; tx++ {
			var hist [256]int
			for y := ty * th; y < (ty+1)*th; y++ {
				row := src.Pix[reflect101(y, h)*src.Stride:]
				for x := tx * tw; x < (tx+1)*tw; x++ {
					hist[row[reflect101(x, w)]]++
				}
			}
			clipHistogram(&hist, clip)

			lut := &luts[ty*claheTilesX+tx]
			sum := 0
			for i := range hist {
				sum += hist[i]
				lut[i] = clampUint8(float64(sum) * lutScale)
			}
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	invTW, invTH := 1/float64(tw), 1/float64(th)
	for y := 0; y < h; y++ {
		ty1, ty2, ya := tileNeighbours(float64(y)*invTH-0.5, claheTilesY)
		row := src.Pix[y*src.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < w; x++ {
			tx1, tx2, xa := tileNeighbours(float64(x)*invTW-0.5, claheTilesX)
			v := row[x]
			top := float64(luts[ty1*claheTilesX+tx1][v])*(1-xa) + float64(luts[ty1*claheTilesX+tx2][v])*xa
			bottom := float64(luts[ty2*claheTilesX+tx1][v])*(1-xa) + float64(luts[ty2*claheTilesX+tx2][v])*xa
			dst[x] = clampUint8(top*(1-ya) + bottom*ya)
		}
	}
	return out
}

func clipHistogram(hist *[256]int, clip int) {
	clipped := 0
	for i := range hist {
		if hist[i] > clip {
			clipped += hist[i] - clip
			hist[i] = clip
		}
	}

	batch := clipped / 256
	residual := clipped - batch*256
	for i := range hist {
		hist[i] += batch
	}
	if residual > 0 {
		step := 256 / residual
		if step < 1 {
			step = 1
		}
		for i := 0; i < 256 && residual > 0; i += step {
			hist[i]++
			residual--
		}
	}
}

// tileNeighbours returns the two tile indices surrounding position f (in tile
// units, centred) and the interpolation weight of the second one.
func tileNeighbours(f float64, tiles int) (int, int, float64) {
	lo := int(math.Floor(f))
	frac := f - float64(lo)
	hi := lo + 1
	if lo < 0 {
		lo = 0
	}
	if hi >= tiles {
		hi = tiles - 1
	}
	return lo, hi, frac
}
