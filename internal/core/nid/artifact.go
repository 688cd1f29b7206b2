package nid

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const artifactSuffix = "_nid_extraction_results.json"

// Artifact is the persisted audit record of one request. Field order and
// JSON keys are a compatibility surface for downstream readers.
type Artifact struct {
	Front   ExtractionResult `json:"nid_image_1.jpg"`
	Back    ExtractionResult `json:"nid_image_2.jpg"`
	Summary FieldSummary     `json:"summary"`
}

// Assemble builds the artifact from both sides. Fields are resolved over the
// front detections followed by the back ones.
func Assemble(front, back ExtractionResult) Artifact {
	if front.ExtractedText == nil {
		front = NewExtractionResult()
	}
	if back.ExtractedText == nil {
		back = NewExtractionResult()
	}

	texts := append(front.Texts(), back.Texts()...)
	return Artifact{
		Front:   front,
		Back:    back,
		Summary: Summarize(texts),
	}
}

// Detections returns every accepted detection, front first
func (a Artifact) Detections() []Detection {
	all := make([]Detection, 0, len(a.Front.ExtractedText)+len(a.Back.ExtractedText))
	all = append(all, a.Front.ExtractedText...)
	return append(all, a.Back.ExtractedText...)
}

// ExtractedInfo maps the summary onto the response fields
func (a Artifact) ExtractedInfo() ExtractedInfo {
	return ExtractedInfo{
		IDNumber:        a.Summary.IDNumber,
		Name:            a.Summary.Name,
		DateOfBirth:     a.Summary.DateOfBirth,
		ConfidenceScore: AggregateConfidence(a.Detections()),
	}
}

// Marshal renders the artifact as indented UTF-8 JSON without HTML escaping
func (a Artifact) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return nil, fmt.Errorf("failed to encode artifact: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ArtifactName returns the storage name of a user's artifact
func ArtifactName(userID string) string {
	return userID + artifactSuffix
}
