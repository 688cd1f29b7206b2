package nid

import "strings"

// Side identifies which face of the ID card an image shows
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

// RawImage is an uploaded photo of one side of the card
type RawImage struct {
	Side Side
	Data []byte
}

// Detection is one accepted OCR hit
type Detection struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Side       Side    `json:"-"`
}

// ExtractionResult holds the accepted detections of one side in scan order
type ExtractionResult struct {
	ExtractedText []Detection `json:"extracted_text"`
}

// NewExtractionResult returns an empty result that serializes as [] rather than null
func NewExtractionResult() ExtractionResult {
	return ExtractionResult{ExtractedText: []Detection{}}
}

// Texts returns the detection texts in order
func (r ExtractionResult) Texts() []string {
	texts := make([]string, 0, len(r.ExtractedText))
	for _, d := range r.ExtractedText {
		texts = append(texts, d.Text)
	}
	return texts
}

// JoinedText returns the detection texts separated by newlines
func (r ExtractionResult) JoinedText() string {
	return strings.Join(r.Texts(), "\n")
}

// FieldSummary is the resolved field set. JSON keys keep the label spelling
// (trailing colon included) expected by consumers of the artifact.
type FieldSummary struct {
	Name        string `json:"Name:"`
	DateOfBirth string `json:"Date of Birth:"`
	IDNumber    string `json:"ID NO:"`
}

// ExtractedInfo is the structured result returned to callers
type ExtractedInfo struct {
	IDNumber        string  `json:"idNumber"`
	Name            string  `json:"name"`
	DateOfBirth     string  `json:"dateOfBirth"`
	ConfidenceScore float64 `json:"confidenceScore"`
}

// Request carries both card images and the caller's user id
type Request struct {
	Front  []byte
	Back   []byte
	UserID string
}

// Result is the successful response payload
type Result struct {
	Success         bool          `json:"success"`
	FrontText       string        `json:"frontText"`
	BackText        string        `json:"backText"`
	ExtractedInfo   ExtractedInfo `json:"extractedInfo"`
	ConfidenceScore float64       `json:"confidenceScore"`
	JSONPath        string        `json:"jsonPath"`
	UserID          string        `json:"userId"`
	Used            string        `json:"used"`
}

// Failure is the response payload when a request cannot be completed
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewFailure wraps err into a failure payload
func NewFailure(err error) Failure {
	return Failure{Success: false, Error: err.Error()}
}
