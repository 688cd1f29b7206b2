package nid

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	filenameUserID = regexp.MustCompile(`^(\d+)[-_]`)
	unsafeUserID   = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// ResolveUserID picks the user id for a request: the explicit value, then
// leading digits of an uploaded filename ("123_front.jpg"), then fallback,
// then UnknownUserID. The result is safe to embed in a file name.
func ResolveUserID(explicit string, filenames []string, fallback string) string {
	if id := SanitizeUserID(explicit); id != "" {
		return id
	}
	for _, name := range filenames {
		if m := filenameUserID.FindStringSubmatch(filepath.Base(name)); m != nil {
			return m[1]
		}
	}
	if id := SanitizeUserID(fallback); id != "" {
		return id
	}
	return UnknownUserID
}

// SanitizeUserID replaces characters outside [A-Za-z0-9._-] with underscores
func SanitizeUserID(id string) string {
	return unsafeUserID.ReplaceAllString(strings.TrimSpace(id), "_")
}
