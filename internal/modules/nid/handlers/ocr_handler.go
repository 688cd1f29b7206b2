package handlers

import (
	"fmt"
	"io"

	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/nid"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	frontField = "nid_front"
	backField  = "nid_back"
)

// OCRHandler handles NID extraction requests
type OCRHandler struct {
	extractor     *nid.Extractor
	defaultUserID string
	maxUploadSize int64
}

// NewOCRHandler creates a new OCR handler
func NewOCRHandler(extractor *nid.Extractor, defaultUserID string, maxUploadSize int64) *OCRHandler {
	return &OCRHandler{
		extractor:     extractor,
		defaultUserID: defaultUserID,
		maxUploadSize: maxUploadSize,
	}
}

type upload struct {
	filename string
	data     []byte
}

// ExtractNID godoc
// @Summary Extract fields from a national ID card
// @Description Upload both sides of an NID card. Text is recognized on each side, the Name, Date of Birth and ID NO fields are resolved and an extraction artifact is stored.
// @Tags OCR
// @Accept multipart/form-data
// @Produce json
// @Param nid_front formData file true "Front side image"
// @Param nid_back formData file true "Back side image"
// @Param user_id query string false "User ID used to name the artifact"
// @Success 200 {object} nid.Result
// @Failure 400 {object} nid.Failure
// @Router /ocr/nid [post]
func (h *OCRHandler) ExtractNID(c *fiber.Ctx) error {
	requestID := uuid.NewString()
	c.Set("X-Request-ID", requestID)

	front, err := h.readUpload(c, frontField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(nid.NewFailure(err))
	}
	back, err := h.readUpload(c, backField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(nid.NewFailure(err))
	}

	userID := nid.ResolveUserID(c.Query("user_id"), []string{front.filename, back.filename}, h.defaultUserID)

	logger := log.With().Str("request_id", requestID).Logger()
	logger.Info().
		Str("user_id", userID).
		Float64("front_kb", float64(len(front.data))/1024).
		Float64("back_kb", float64(len(back.data))/1024).
		Msg("📸 Processing NID images")

	result, err := h.extractor.Extract(logger.WithContext(c.UserContext()), nid.Request{
		Front:  front.data,
		Back:   back.data,
		UserID: userID,
	})
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Msg("❌ NID extraction failed")
		// Pipeline failures keep a 200 status; callers branch on success
		return c.JSON(nid.NewFailure(err))
	}

	return c.JSON(result)
}

func (h *OCRHandler) readUpload(c *fiber.Ctx, field string) (upload, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return upload{}, fmt.Errorf("%s image file is required", field)
	}

	if h.maxUploadSize > 0 && file.Size > h.maxUploadSize {
		return upload{}, fmt.Errorf("%s must be smaller than %d MB", field, h.maxUploadSize/(1024*1024))
	}

	fileHandle, err := file.Open()
	if err != nil {
		return upload{}, fmt.Errorf("failed to read %s: %w", field, err)
	}
	defer fileHandle.Close()

	data, err := io.ReadAll(fileHandle)
	if err != nil {
		return upload{}, fmt.Errorf("failed to read %s: %w", field, err)
	}

	return upload{filename: file.Filename, data: data}, nil
}
