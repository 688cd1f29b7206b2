package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// Provider interface for OCR engines
type Provider interface {
	// Recognize returns the text lines found in img, in the engine's
	// top-to-bottom / left-to-right scan order
	Recognize(ctx context.Context, img image.Image) ([]Line, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// Line is a single detection reported by an engine
type Line struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0-1
}

// Service wraps the OCR provider and bounds how many recognitions may run at
// once. Most engines are not reentrant, so the default is a single slot.
type Service struct {
	provider Provider
	slots    chan struct{}
}

// NewService creates a new OCR service with the given provider and number of
// concurrent recognition slots
func NewService(provider Provider, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		provider: provider,
		slots:    make(chan struct{}, concurrency),
	}
}

// Recognize runs the provider once a slot is free or fails when ctx ends first
func (s *Service) Recognize(ctx context.Context, img image.Image) ([]Line, error) {
	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for OCR engine: %w", ctx.Err())
	}
	defer func() { <-s.slots }()

	return s.provider.Recognize(ctx, img)
}

// GetProviderName returns the name of the current provider
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}

// Close releases engine resources held by the provider, if any
func (s *Service) Close() error {
	if c, ok := s.provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// encodePNG serializes img for engines that take encoded files
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
