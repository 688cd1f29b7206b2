package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/nid"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/storage"
	"github.com/gofiber/fiber/v2"
)

// cardProvider returns the front lines on its first call and the back lines after
type cardProvider struct {
	calls int
	front []ocr.Line
	back  []ocr.Line
}

func (p *cardProvider) Recognize(ctx context.Context, img image.Image) ([]ocr.Line, error) {
	p.calls++
	if p.calls == 1 {
		return p.front, nil
	}
	return p.back, nil
}

func (p *cardProvider) GetProviderName() string {
	return "Fake OCR"
}

func stubNormalize(data []byte) (image.Image, error) {
	if string(data) == "garbage" {
		return nil, errors.New("unknown format")
	}
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

func newTestApp(t *testing.T, provider ocr.Provider) (*fiber.App, string) {
	t.Helper()
	dir := t.TempDir()

	ocrService := ocr.NewService(provider, 1)
	storageService := storage.NewService(storage.NewLocalProvider(dir))
	extractor := nid.NewExtractor(ocrService, storageService, nid.WithNormalizer(stubNormalize))

	app := fiber.New()
	app.Post("/ocr/nid", NewOCRHandler(extractor, "", 1024).ExtractNID)
	app.Get("/health", NewHealthHandler(ocrService, storageService).GetHealth)
	return app, dir
}

type part struct {
	field, filename string
	data            []byte
}

func multipartRequest(t *testing.T, target string, parts ...part) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range parts {
		fw, err := w.CreateFormFile(p.field, p.filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(p.data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
}

func TestExtractNID(t *testing.T) {
	provider := &cardProvider{
		front: []ocr.Line{
			{Text: "Name: JOHN DOE", Confidence: 0.9},
			{Text: "Date of Birth: 01 Jan 1990", Confidence: 0.8},
		},
		back: []ocr.Line{{Text: "ID NO: 1234567890", Confidence: 0.7}},
	}
	app, dir := newTestApp(t, provider)

	req := multipartRequest(t, "/ocr/nid?user_id=42",
		part{field: "nid_front", filename: "front.jpg", data: []byte("front")},
		part{field: "nid_back", filename: "back.jpg", data: []byte("back")},
	)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}

	var got nid.Result
	decodeBody(t, resp, &got)

	want := nid.ExtractedInfo{IDNumber: "1234567890", Name: "JOHN DOE", DateOfBirth: "01 Jan 1990", ConfidenceScore: 0.8}
	if !got.Success || got.ExtractedInfo != want {
		t.Fatalf("result = %+v, want info %+v", got, want)
	}
	if got.UserID != "42" || got.Used != "Fake OCR" {
		t.Errorf("userId = %q used = %q", got.UserID, got.Used)
	}

	wantPath := filepath.Join(dir, "42_nid_extraction_results.json")
	if got.JSONPath != wantPath {
		t.Errorf("jsonPath = %q, want %q", got.JSONPath, wantPath)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Errorf("artifact not written: %v", err)
	}
}

func TestExtractNIDUserIDFromFilename(t *testing.T) {
	app, _ := newTestApp(t, &cardProvider{})

	req := multipartRequest(t, "/ocr/nid",
		part{field: "nid_front", filename: "777_front.jpg", data: []byte("front")},
		part{field: "nid_back", filename: "back.jpg", data: []byte("back")},
	)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	var got nid.Result
	decodeBody(t, resp, &got)
	if got.UserID != "777" {
		t.Fatalf("userId = %q, want 777", got.UserID)
	}
	if got.ExtractedInfo.Name != nid.NotFound {
		t.Errorf("name = %q, want %q", got.ExtractedInfo.Name, nid.NotFound)
	}
}

func TestExtractNIDBadRequests(t *testing.T) {
	tests := []struct {
		name  string
		parts []part
	}{
		{
			name:  "missing back",
			parts: []part{{field: "nid_front", filename: "f.jpg", data: []byte("front")}},
		},
		{
			name:  "missing front",
			parts: []part{{field: "nid_back", filename: "b.jpg", data: []byte("back")}},
		},
		{
			name: "file too large",
			parts: []part{
				{field: "nid_front", filename: "f.jpg", data: bytes.Repeat([]byte("x"), 2048)},
				{field: "nid_back", filename: "b.jpg", data: []byte("back")},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t, &cardProvider{})
			resp, err := app.Test(multipartRequest(t, "/ocr/nid", tt.parts...), -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			var got nid.Failure
			decodeBody(t, resp, &got)
			if got.Success || got.Error == "" {
				t.Errorf("body = %+v, want a failure with a message", got)
			}
		})
	}
}

func TestExtractNIDPipelineFailure(t *testing.T) {
	app, _ := newTestApp(t, &cardProvider{})

	req := multipartRequest(t, "/ocr/nid?user_id=1",
		part{field: "nid_front", filename: "f.jpg", data: []byte("garbage")},
		part{field: "nid_back", filename: "b.jpg", data: []byte("garbage")},
	)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got nid.Failure
	decodeBody(t, resp, &got)
	if got.Success || got.Error == "" {
		t.Fatalf("body = %+v, want a failure", got)
	}
}

func TestGetHealth(t *testing.T) {
	app, _ := newTestApp(t, &cardProvider{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	var got map[string]string
	decodeBody(t, resp, &got)
	want := map[string]string{
		"status":           "ok",
		"service":          "nid-ocr-service",
		"ocr_provider":     "Fake OCR",
		"storage_provider": "Local Storage",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}
