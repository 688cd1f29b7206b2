package ocr

import (
	"fmt"

	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/shared/config"
	"github.com/rs/zerolog/log"
)

// NewProvider builds the OCR engine selected by OCR_PROVIDER
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.OCRProvider {
	case "tesseract":
		return NewTesseractProvider(cfg.TesseractPath, cfg.TesseractLanguage), nil

	case "gosseract":
		return NewGosseractProvider(cfg.TesseractLanguage, cfg.OCRConcurrency)

	case "google_vision", "google":
		if cfg.GoogleVisionAPIKey == "" {
			return nil, fmt.Errorf("GOOGLE_VISION_API_KEY is required for the google_vision provider")
		}
		return NewGoogleVisionProvider(cfg.GoogleVisionAPIKey), nil

	case "ocrspace":
		if cfg.OCRSpaceAPIKey == "" {
			return nil, fmt.Errorf("OCRSPACE_API_KEY is required for the ocrspace provider")
		}
		return NewOCRSpaceProvider(cfg.OCRSpaceAPIKey), nil

	default:
		log.Warn().Str("provider", cfg.OCRProvider).Msg("⚠️ Unknown OCR provider, defaulting to tesseract")
		return NewTesseractProvider(cfg.TesseractPath, cfg.TesseractLanguage), nil
	}
}
