package fhir

import (
	"fmt"
	"strings"
)

// FormatReference creates a FHIR reference string like "Patient/123".
func FormatReference(resourceType, id string) string {
	return fmt.Sprintf("%s/%s", resourceType, id)
}

// ParseReference splits "Type/id" into its parts. It reports false when the
// reference has no type prefix or an empty id.
func ParseReference(ref string) (resourceType, id string, ok bool) {
	parts := strings.SplitN(ref, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
