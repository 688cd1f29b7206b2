package preprocess

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func isGrayscale(img *image.NRGBA) bool {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if img.Pix[i] != img.Pix[i+1] || img.Pix[i] != img.Pix[i+2] || img.Pix[i+3] != 0xff {
			return false
		}
	}
	return true
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{name: "small is upscaled", w: 400, h: 100, wantW: 800, wantH: 200},
		{name: "just below minimum", w: 799, h: 101, wantW: 800, wantH: 101},
		{name: "minimum untouched", w: 800, h: 500, wantW: 800, wantH: 500},
		{name: "mid range untouched", w: 1500, h: 900, wantW: 1500, wantH: 900},
		{name: "maximum untouched", w: 2000, h: 1000, wantW: 2000, wantH: 1000},
		{name: "large is downscaled", w: 3000, h: 2000, wantW: 1200, wantH: 800},
		{name: "height truncates", w: 2400, h: 1001, wantW: 1200, wantH: 500},
		{name: "never zero height", w: 4000, h: 1, wantW: 1200, wantH: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := TargetSize(tt.w, tt.h)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("TargetSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNormalizeResizes(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{name: "upscale", w: 200, h: 40, wantW: 800, wantH: 160},
		{name: "untouched", w: 1000, h: 60, wantW: 1000, wantH: 60},
		{name: "downscale", w: 2500, h: 100, wantW: 1200, wantH: 48},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := imaging.New(tt.w, tt.h, color.NRGBA{R: 200, G: 180, B: 160, A: 255})
			out, err := Normalize(encodePNG(t, src))
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			b := out.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNormalizeRejectsUndecodableInput(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Normalize() error = %v, want ErrDecode", err)
	}

	_, err = Normalize(nil)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Normalize(nil) error = %v, want ErrDecode", err)
	}
}

func TestNormalizeRejectsOversizedOutput(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		// 4x120 upscales to 800x24000
		{name: "tall narrow strip", w: 4, h: 120},
		{name: "just over budget", w: 400, h: 7501},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := imaging.New(tt.w, tt.h, color.White)
			start := time.Now()
			_, err := Normalize(encodePNG(t, src))
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("Normalize() error = %v, want ErrDecode", err)
			}
			if took := time.Since(start); took > 5*time.Second {
				t.Errorf("rejection took %v", took)
			}
		})
	}
}

func TestTargetSizeWithinBudget(t *testing.T) {
	// 400x7500 upscales to exactly the budget and is still accepted
	w, h := TargetSize(400, 7500)
	if w*h != MaxOutputPixels {
		t.Fatalf("TargetSize(400, 7500) = %dx%d, want %d pixels", w, h, MaxOutputPixels)
	}
}

func TestNormalizeProducesOpaqueGrayscale(t *testing.T) {
	src := imaging.New(820, 60, color.NRGBA{R: 255, G: 255, B: 255, A: 128})
	for x := 0; x < 820; x += 40 {
		for y := 10; y < 50; y++ {
			src.Set(x, y, color.NRGBA{R: 220, G: 20, B: 40, A: 255})
			src.Set(x+1, y, color.NRGBA{R: 10, G: 90, B: 200, A: 255})
		}
	}

	out, err := Normalize(encodePNG(t, src))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if !isGrayscale(out) {
		t.Fatal("expected an opaque image with equal color channels")
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	src := imaging.New(300, 40, color.White)
	for x := 20; x < 280; x += 7 {
		for y := 12; y < 28; y++ {
			src.Set(x, y, color.Black)
		}
	}
	data := encodePNG(t, src)

	first, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	second, err := Normalize(data)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Fatal("Normalize() is not deterministic")
	}
}

func uniformGray(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func grayRange(img *image.Gray) (uint8, uint8) {
	lo, hi := uint8(255), uint8(0)
	for _, v := range img.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func TestDenoiseKeepsUniformImage(t *testing.T) {
	out := Denoise(uniformGray(30, 20, 128))
	for i, v := range out.Pix {
		if v != 128 {
			t.Fatalf("pixel %d = %d, want 128", i, v)
		}
	}
}

func TestDenoiseSmoothsLowAmplitudeNoise(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if (x+y)%2 == 0 {
				src.Pix[y*src.Stride+x] = 124
			} else {
				src.Pix[y*src.Stride+x] = 132
			}
		}
	}

	out := Denoise(src)
	lo, hi := grayRange(out)
	if hi-lo >= 8 {
		t.Fatalf("range after denoise = %d..%d, want narrower than 124..132", lo, hi)
	}
	if lo < 124 || hi > 132 {
		t.Fatalf("denoised values %d..%d escaped the input range", lo, hi)
	}
}

func TestDenoiseTinyImage(t *testing.T) {
	out := Denoise(uniformGray(1, 1, 77))
	if out.Pix[0] != 77 {
		t.Fatalf("pixel = %d, want 77", out.Pix[0])
	}
}

func TestEqualizeAdaptiveUniformStaysUniform(t *testing.T) {
	out := EqualizeAdaptive(uniformGray(64, 48, 90))
	lo, hi := grayRange(out)
	if lo != hi {
		t.Fatalf("uniform input produced range %d..%d", lo, hi)
	}
	if out.Rect.Dx() != 64 || out.Rect.Dy() != 48 {
		t.Fatalf("size changed to %v", out.Rect)
	}
}

func TestEqualizeAdaptiveOddSizes(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 13, 5))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 3)
	}
	out := EqualizeAdaptive(src)
	if out.Rect.Dx() != 13 || out.Rect.Dy() != 5 {
		t.Fatalf("size changed to %v", out.Rect)
	}
}

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{i: -1, n: 5, want: 1},
		{i: -2, n: 5, want: 2},
		{i: 5, n: 5, want: 3},
		{i: 6, n: 5, want: 2},
		{i: 2, n: 5, want: 2},
		{i: -7, n: 3, want: 1},
		{i: 9, n: 1, want: 0},
	}
	for _, tt := range tests {
		if got := reflect101(tt.i, tt.n); got != tt.want {
			t.Errorf("reflect101(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}
