//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// GosseractProvider runs Tesseract in-process through libtesseract.
// Clients are not safe for concurrent use, so a fixed pool is kept and each
// recognition borrows one.
type GosseractProvider struct {
	language string
	pool     chan *gosseract.Client
}

// NewGosseractProvider creates a provider backed by size libtesseract clients
func NewGosseractProvider(language string, size int) (*GosseractProvider, error) {
	if language == "" {
		language = "eng"
	}
	if size < 1 {
		size = 1
	}

	p := &GosseractProvider{
		language: language,
		pool:     make(chan *gosseract.Client, size),
	}
	for i := 0; i < size; i++ {
		c := gosseract.NewClient()
		if err := c.SetLanguage(language); err != nil {
			c.Close()
			p.Close()
			return nil, fmt.Errorf("set languages: %w", err)
		}
		if err := c.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
			c.Close()
			p.Close()
			return nil, fmt.Errorf("set page segmentation mode: %w", err)
		}
		p.pool <- c
	}
	return p, nil
}

// Recognize performs line-level OCR on img
func (p *GosseractProvider) Recognize(ctx context.Context, img image.Image) ([]Line, error) {
	var c *gosseract.Client
	select {
	case c = <-p.pool:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { p.pool <- c }()

	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	lines := make([]Line, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		lines = append(lines, Line{Text: text, Confidence: clampConfidence(b.Confidence / 100.0)})
	}
	return lines, nil
}

// GetProviderName returns the name of the provider
func (p *GosseractProvider) GetProviderName() string {
	return "Tesseract (libtesseract)"
}

// Close releases every pooled client
func (p *GosseractProvider) Close() error {
	for {
		select {
		case c := <-p.pool:
			c.Close()
		default:
			return nil
		}
	}
}
