//go:build !gosseract

package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrGosseractUnavailable is returned when the binary was built without the
// gosseract tag (libtesseract headers are needed at build time)
var ErrGosseractUnavailable = errors.New("built without gosseract support, rebuild with -tags gosseract")

// GosseractProvider is unavailable in this build
type GosseractProvider struct{}

// NewGosseractProvider always fails in builds without the gosseract tag
func NewGosseractProvider(language string, size int) (*GosseractProvider, error) {
	return nil, ErrGosseractUnavailable
}

func (p *GosseractProvider) Recognize(ctx context.Context, img image.Image) ([]Line, error) {
	return nil, ErrGosseractUnavailable
}

func (p *GosseractProvider) GetProviderName() string {
	return "Tesseract (libtesseract)"
}

func (p *GosseractProvider) Close() error { return nil }
