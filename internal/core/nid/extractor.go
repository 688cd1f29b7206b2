package nid

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/preprocess"
	"github.com/rs/zerolog"
)

// UnknownUserID is used when a request carries no user id
const UnknownUserID = "unknown"

// TextRecognizer runs OCR on a normalized image
type TextRecognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]ocr.Line, error)
	GetProviderName() string
}

// ArtifactStore persists the extraction artifact and returns its location
type ArtifactStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// NormalizeFunc turns uploaded bytes into an OCR-ready image
type NormalizeFunc func(data []byte) (image.Image, error)

// Extractor runs the two-sided NID extraction pipeline
type Extractor struct {
	recognizer TextRecognizer
	store      ArtifactStore
	normalize  NormalizeFunc
}

// Option configures an Extractor
type Option func(*Extractor)

// WithNormalizer replaces the default image preprocessing
func WithNormalizer(fn NormalizeFunc) Option {
	return func(e *Extractor) {
		e.normalize = fn
	}
}

// NewExtractor creates an extractor backed by the given engine and store
func NewExtractor(recognizer TextRecognizer, store ArtifactStore, opts ...Option) *Extractor {
	e := &Extractor{
		recognizer: recognizer,
		store:      store,
		normalize:  normalizeImage,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func normalizeImage(data []byte) (image.Image, error) {
	img, err := preprocess.Normalize(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// ExtractSide normalizes and recognizes one side, keeping only detections
// that pass Accept. On error the returned result is empty but usable.
func (e *Extractor) ExtractSide(ctx context.Context, raw RawImage) (ExtractionResult, error) {
	result := NewExtractionResult()

	img, err := e.normalize(raw.Data)
	if err != nil {
		return result, fmt.Errorf("%w (%s side): %w", ErrImageDecode, raw.Side, err)
	}

	lines, err := e.recognizer.Recognize(ctx, img)
	if err != nil {
		return result, fmt.Errorf("%w (%s side): %w", ErrRecognition, raw.Side, err)
	}

	for _, line := range lines {
		if !Accept(line.Text, line.Confidence) {
			continue
		}
		result.ExtractedText = append(result.ExtractedText, Detection{
			Text:       CleanText(line.Text),
			Confidence: roundTo(clampUnit(line.Confidence), 3),
			Side:       raw.Side,
		})
	}

	return result, nil
}

// Extract processes both sides of a card, persists the artifact and returns
// the structured result.
//
// A side that fails degrades to an empty result so the other side can still
// fill the fields. Only when both sides fail does the request fail, with
// ErrNoReadableSide.
func (e *Extractor) Extract(ctx context.Context, req Request) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %v", ErrUnhandled, r)
		}
	}()

	logger := zerolog.Ctx(ctx)

	userID := SanitizeUserID(req.UserID)
	if userID == "" {
		userID = UnknownUserID
	}

	start := time.Now()
	logger.Info().Str("user_id", userID).Str("engine", e.recognizer.GetProviderName()).Msg("🔍 Starting NID extraction")

	// Sides run one after the other; the engine serves one image at a time
	front, frontErr := e.ExtractSide(ctx, RawImage{Side: SideFront, Data: req.Front})
	if frontErr != nil {
		logger.Warn().Err(frontErr).Str("user_id", userID).Msg("⚠️ Front side unreadable, continuing with back")
	}
	back, backErr := e.ExtractSide(ctx, RawImage{Side: SideBack, Data: req.Back})
	if backErr != nil {
		logger.Warn().Err(backErr).Str("user_id", userID).Msg("⚠️ Back side unreadable")
	}

	if frontErr != nil && backErr != nil {
		return nil, fmt.Errorf("%w: front: %w; back: %w", ErrNoReadableSide, frontErr, backErr)
	}

	artifact := Assemble(front, back)

	data, err := artifact.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactWrite, err)
	}

	path, err := e.store.Save(ctx, ArtifactName(userID), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactWrite, err)
	}

	info := artifact.ExtractedInfo()

	logger.Info().
		Str("user_id", userID).
		Int("front_detections", len(front.ExtractedText)).
		Int("back_detections", len(back.ExtractedText)).
		Float64("confidence", info.ConfidenceScore).
		Dur("took", time.Since(start)).
		Str("artifact", path).
		Msg("✅ NID extraction completed")

	return &Result{
		Success:         true,
		FrontText:       front.JoinedText(),
		BackText:        back.JoinedText(),
		ExtractedInfo:   info,
		ConfidenceScore: info.ConfidenceScore,
		JSONPath:        path,
		UserID:          userID,
		Used:            e.recognizer.GetProviderName(),
	}, nil
}
