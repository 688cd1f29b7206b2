package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register webp decoder
)

const (
	minWidth       = 800
	maxWidth       = 2000
	downscaleWidth = 1200

	// Weight of the sharpened layer in the final blend (0.7 enhanced / 0.3 sharpened)
	sharpenOpacity = 0.3

	// MaxSourcePixels bounds the image Normalize is willing to decode
	MaxSourcePixels = 40_000_000
	// MaxOutputPixels bounds the resized image fed to denoising. Only the
	// width is fixed by TargetSize, so a tall, narrow input would otherwise
	// grow without limit.
	MaxOutputPixels = 12_000_000
)

// ErrDecode is returned when the input bytes are not a decodable image
var ErrDecode = errors.New("image decode failed")

var sharpenKernel = [9]float64{
	-1, -1, -1,
	-1, 9, -1,
	-1, -1, -1,
}

// Normalize prepares an ID document photo for OCR.
//
// The pipeline is fixed: decode, bound the width, convert to luminance,
// non-local means denoising, CLAHE, unsharp blend and expansion back to a
// three channel buffer. The result is an opaque NRGBA image with R=G=B.
//
// Images over MaxSourcePixels, or whose resized size would exceed
// MaxOutputPixels, are rejected with ErrDecode.
func Normalize(data []byte) (*image.NRGBA, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width*cfg.Height > MaxSourcePixels {
		return nil, fmt.Errorf("%w: %dx%d image exceeds %d pixels", ErrDecode, cfg.Width, cfg.Height, MaxSourcePixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	// EXIF orientation may swap the axes, so the budget is checked on the decoded bounds
	b := img.Bounds()
	if w, h := TargetSize(b.Dx(), b.Dy()); w*h > MaxOutputPixels {
		return nil, fmt.Errorf("%w: %dx%d image would resize to %dx%d, over %d pixels", ErrDecode, b.Dx(), b.Dy(), w, h, MaxOutputPixels)
	}

	rgb := opaque(imaging.Clone(img))
	rgb = resizeForOCR(rgb)

	gray := luminance(rgb)
	gray = Denoise(gray)
	gray = EqualizeAdaptive(gray)

	return sharpenBlend(gray), nil
}

// TargetSize returns the dimensions Normalize resizes a w×h image to
func TargetSize(w, h int) (int, int) {
	var target int
	switch {
	case w < minWidth:
		target = minWidth
	case w > maxWidth:
		target = downscaleWidth
	default:
		return w, h
	}

	scale := float64(target) / float64(w)
	nh := int(float64(h) * scale)
	if nh < 1 {
		nh = 1
	}
	return target, nh
}

func resizeForOCR(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	nw, nh := TargetSize(b.Dx(), b.Dy())
	if nw == b.Dx() && nh == b.Dy() {
		return img
	}
	return imaging.Resize(img, nw, nh, imaging.Linear)
}

// opaque drops the alpha channel the way a plain BGR decode would
func opaque(img *image.NRGBA) *image.NRGBA {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func luminance(img *image.NRGBA) *image.Gray {
	g := imaging.Grayscale(img)
	b := g.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := g.Pix[y*g.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return out
}

func sharpenBlend(gray *image.Gray) *image.NRGBA {
	enhanced := imaging.Clone(gray)
	sharpened := imaging.Convolve3x3(enhanced, sharpenKernel, nil)
	out := imaging.Overlay(enhanced, sharpened, image.Pt(0, 0), sharpenOpacity)
	return opaque(out)
}

func clampUint8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// reflect101 maps an out-of-range index back into [0, n) mirroring around the
// edge pixel without repeating it (gfedcb|abcdefgh|gfedcba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}
