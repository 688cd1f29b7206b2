package preprocess

import (
	"image"
	"math"
)

const (
	nlmStrength    = 10.0
	templateRadius = 3  // 7x7 patches
	searchRadius   = 10 // 21x21 search window
)

// Weights below exp(-6.9) (~0.001) are dropped
var nlmWeights = buildNLMWeights()

func buildNLMWeights() []float32 {
	h2 := nlmStrength * nlmStrength
	n := int(h2*6.9) + 1
	lut := make([]float32, n)
	for d := range lut {
		lut[d] = float32(math.Exp(-float64(d) / h2))
	}
	return lut
}

// Denoise applies non-local means filtering to a grayscale image.
//
// Patch distances are computed per search offset with an integral image of
// squared differences, so each offset costs O(w*h) regardless of the patch
// size. Borders are reflected.
func Denoise(src *image.Gray) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w == 0 || h == 0 {
		return src
	}

	pad := searchRadius + templateRadius
	pw, ph := w+2*pad, h+2*pad
	padded := make([]int32, pw*ph)
	for y := 0; y < ph; y++ {
		sy := reflect101(y-pad, h)
		row := src.Pix[sy*src.Stride:]
		for x := 0; x < pw; x++ {
			padded[y*pw+x] = int32(row[reflect101(x-pad, w)])
		}
	}

	// Region covering every pixel plus its template neighbourhood
	rw, rh := w+2*templateRadius, h+2*templateRadius
	iw := rw + 1
	integral := make([]int64, iw*(rh+1))

	acc := make([]float32, w*h)
	wsum := make([]float32, w*h)

	const side = 2*templateRadius + 1
	const area = side * side

	for dy := -searchRadius; dy <= searchRadius; dy++ {
		for dx := -searchRadius; dx <= searchRadius; dx++ {
			for ry := 0; ry < rh; ry++ {
				py := ry + searchRadius
				base := py*pw + searchRadius
				other := (py+dy)*pw + searchRadius + dx
				var rowSum int64
				cur := (ry + 1) * iw
				prev := ry * iw
				for rx := 0; rx < rw; rx++ {
					d := padded[base+rx] - padded[other+rx]
					rowSum += int64(d * d)
					integral[cur+rx+1] = integral[prev+rx+1] + rowSum
				}
			}

			for y := 0; y < h; y++ {
				top := y * iw
				bottom := (y + side) * iw
				off := (y+pad+dy)*pw + pad + dx
				for x := 0; x < w; x++ {
					dist := integral[bottom+x+side] - integral[top+x+side] - integral[bottom+x] + integral[top+x]
					idx := int(dist / area)
					if idx >= len(nlmWeights) {
						continue
					}
					wt := nlmWeights[idx]
					acc[y*w+x] += wt * float32(padded[off+x])
					wsum[y*w+x] += wt
				}
			}
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			out.Pix[y*out.Stride+x] = clampUint8(float64(acc[i] / wsum[i]))
		}
	}
	return out
}
