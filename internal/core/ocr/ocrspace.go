package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const ocrSpaceEndpoint = "https://api.ocr.space/parse/image"

// OCR.space doesn't provide confidence scores
const ocrSpaceDefaultConfidence = 0.85

// OCRSpaceProvider implements OCR using OCR.space API
type OCRSpaceProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewOCRSpaceProvider creates a new OCR.space provider
func NewOCRSpaceProvider(apiKey string) *OCRSpaceProvider {
	return &OCRSpaceProvider{
		apiKey:   apiKey,
		endpoint: ocrSpaceEndpoint,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// GetProviderName returns the provider name
func (p *OCRSpaceProvider) GetProviderName() string {
	return "OCR.space"
}

// OCR.space API response structure
type ocrSpaceResponse struct {
	ParsedResults []struct {
		TextOverlay struct {
			Lines []struct {
				LineText string `json:"LineText"`
			} `json:"Lines"`
		} `json:"TextOverlay"`
		ParsedText        string `json:"ParsedText"`
		FileParseExitCode int    `json:"FileParseExitCode"`
	} `json:"ParsedResults"`
	OCRExitCode           int      `json:"OCRExitCode"`
	IsErroredOnProcessing bool     `json:"IsErroredOnProcessing"`
	ErrorMessage          []string `json:"ErrorMessage,omitempty"`
}

// Recognize extracts text lines from image using OCR.space API
func (p *OCRSpaceProvider) Recognize(ctx context.Context, img image.Image) ([]Line, error) {
	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	fields := map[string]string{
		"apikey":            p.apiKey,
		"language":          "eng",
		"isOverlayRequired": "true",
		"scale":             "false",
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", k, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocrspace request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocrspace error (status: %d): %s", resp.StatusCode, string(body))
	}

	var ocrResp ocrSpaceResponse
	if err := json.Unmarshal(body, &ocrResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if ocrResp.IsErroredOnProcessing {
		errMsg := "unknown error"
		if len(ocrResp.ErrorMessage) > 0 {
			errMsg = ocrResp.ErrorMessage[0]
		}
		return nil, fmt.Errorf("ocrspace processing error: %s", errMsg)
	}

	if ocrResp.OCRExitCode != 1 {
		return nil, fmt.Errorf("ocrspace exit code: %d", ocrResp.OCRExitCode)
	}

	lines := []Line{}
	for _, result := range ocrResp.ParsedResults {
		if len(result.TextOverlay.Lines) > 0 {
			for _, l := range result.TextOverlay.Lines {
				lines = append(lines, Line{Text: l.LineText, Confidence: ocrSpaceDefaultConfidence})
			}
			continue
		}
		// Overlay missing: fall back to the flat text, one line per row
		for _, text := range strings.Split(result.ParsedText, "\n") {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			lines = append(lines, Line{Text: text, Confidence: ocrSpaceDefaultConfidence})
		}
	}

	return lines, nil
}
