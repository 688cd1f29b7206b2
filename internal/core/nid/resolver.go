package nid

import "strings"

// Field labels as printed on the card
const (
	LabelName        = "Name"
	LabelDateOfBirth = "Date of Birth"
	LabelIDNumber    = "ID NO"
)

// NotFound marks a field that could not be resolved
const NotFound = "Not found"

func labelVariants(label string) []string {
	upper, lower := strings.ToUpper(label), strings.ToLower(label)
	return []string{
		label + ":", label + " :",
		upper + ":", upper + " :",
		lower + ":", lower + " :",
	}
}

// ResolveField finds the value printed after label in texts.
//
// Only the first entry mentioning the label is considered. The value is the
// text after its first colon when that is non-empty, otherwise the following
// entry. An empty string means the field was not resolved.
func ResolveField(label string, texts []string) string {
	variants := labelVariants(label)

	for i, text := range texts {
		if !containsAny(text, variants) {
			continue
		}

		if _, after, ok := strings.Cut(text, ":"); ok {
			if value := strings.TrimSpace(after); value != "" {
				return value
			}
		}
		if i+1 < len(texts) {
			return strings.TrimSpace(texts[i+1])
		}
		return ""
	}
	return ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Summarize resolves every field over texts, which must be the front side
// detections followed by the back side ones
func Summarize(texts []string) FieldSummary {
	return FieldSummary{
		Name:        orNotFound(ResolveField(LabelName, texts)),
		DateOfBirth: orNotFound(ResolveField(LabelDateOfBirth, texts)),
		IDNumber:    orNotFound(ResolveField(LabelIDNumber, texts)),
	}
}

func orNotFound(v string) string {
	if v == "" {
		return NotFound
	}
	return v
}
