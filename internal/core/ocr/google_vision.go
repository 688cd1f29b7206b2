package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleVisionEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// Vision rarely reports scores for plain text annotations
const googleVisionDefaultConfidence = 0.95

// GoogleVisionProvider implements OCR using Google Cloud Vision API
type GoogleVisionProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewGoogleVisionProvider creates a new Google Vision OCR provider
func NewGoogleVisionProvider(apiKey string) *GoogleVisionProvider {
	return &GoogleVisionProvider{
		apiKey:   apiKey,
		endpoint: googleVisionEndpoint,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// GetProviderName returns the provider name
func (p *GoogleVisionProvider) GetProviderName() string {
	return "Google Cloud Vision"
}

// Google Vision API request/response structures
type visionRequest struct {
	Requests []visionRequestItem `json:"requests"`
}

type visionRequestItem struct {
	Image        visionImage        `json:"image"`
	Features     []visionFeature    `json:"features"`
	ImageContext visionImageContext `json:"imageContext"`
}

type visionImage struct {
	Content string `json:"content"` // base64 encoded image
}

type visionFeature struct {
	Type string `json:"type"`
}

type visionImageContext struct {
	LanguageHints []string `json:"languageHints,omitempty"`
}

type visionSymbol struct {
	Text     string `json:"text"`
	Property *struct {
		DetectedBreak *struct {
			Type string `json:"type"`
		} `json:"detectedBreak,omitempty"`
	} `json:"property,omitempty"`
}

type visionWord struct {
	Confidence float64        `json:"confidence"`
	Symbols    []visionSymbol `json:"symbols"`
}

type visionResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		FullTextAnnotation *struct {
			Pages []struct {
				Blocks []struct {
					Paragraphs []struct {
						Words []visionWord `json:"words"`
					} `json:"paragraphs"`
				} `json:"blocks"`
			} `json:"pages"`
		} `json:"fullTextAnnotation,omitempty"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error,omitempty"`
	} `json:"responses"`
}

// Recognize extracts text lines from image using Google Cloud Vision API
func (p *GoogleVisionProvider) Recognize(ctx context.Context, img image.Image) ([]Line, error) {
	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	reqBody := visionRequest{
		Requests: []visionRequestItem{
			{
				Image:        visionImage{Content: base64.StdEncoding.EncodeToString(data)},
				Features:     []visionFeature{{Type: "DOCUMENT_TEXT_DETECTION"}},
				ImageContext: visionImageContext{LanguageHints: []string{"en"}},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := p.endpoint + "?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google vision request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google vision error (status: %d): %s", resp.StatusCode, string(body))
	}

	var visionResp visionResponse
	if err := json.Unmarshal(body, &visionResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(visionResp.Responses) == 0 {
		return nil, fmt.Errorf("no response from Google Vision")
	}

	first := visionResp.Responses[0]
	if first.Error != nil {
		return nil, fmt.Errorf("google vision API error: %s", first.Error.Message)
	}

	if first.FullTextAnnotation != nil {
		var words []visionWord
		for _, page := range first.FullTextAnnotation.Pages {
			for _, block := range page.Blocks {
				for _, para := range block.Paragraphs {
					words = append(words, para.Words...)
				}
			}
		}
		if len(words) > 0 {
			return visionLines(words), nil
		}
	}

	// Plain annotations: the first one holds the full text
	if len(first.TextAnnotations) == 0 {
		return []Line{}, nil
	}
	var lines []Line
	for _, text := range strings.Split(first.TextAnnotations[0].Description, "\n") {
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, Line{Text: text, Confidence: googleVisionDefaultConfidence})
	}
	return lines, nil
}

// visionLines rebuilds text lines from symbol break markers. A line ends on
// EOL_SURE_SPACE or LINE_BREAK; its confidence is the mean of its words.
func visionLines(words []visionWord) []Line {
	var (
		lines []Line
		sb    strings.Builder
		conf  float64
		count int
	)

	flush := func() {
		text := strings.TrimSpace(sb.String())
		if text != "" && count > 0 {
			lines = append(lines, Line{Text: text, Confidence: clampConfidence(conf / float64(count))})
		}
		sb.Reset()
		conf, count = 0, 0
	}

	for _, w := range words {
		conf += w.Confidence
		count++
		lineEnded := false
		for _, s := range w.Symbols {
			sb.WriteString(s.Text)
			if s.Property == nil || s.Property.DetectedBreak == nil {
				continue
			}
			switch s.Property.DetectedBreak.Type {
			case "SPACE", "SURE_SPACE":
				sb.WriteByte(' ')
			case "HYPHEN":
				sb.WriteByte('-')
				lineEnded = true
			case "EOL_SURE_SPACE", "LINE_BREAK":
				lineEnded = true
			}
		}
		if lineEnded {
			flush()
		}
	}
	flush()

	return lines
}
