package entities

import (
	"fmt"
	"regexp"
	"strings"
)

// LocalPatch is one local-NNN-<desc>.patch sidecar: a unified diff applied
// as one deterministic commit on top of the recorded/replayed merges.
type LocalPatch struct {
	Number      int
	Description string
	Diff        string
}

var descSanitizer = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SanitizeDescription collapses a free-form description into the
// [A-Za-z0-9_-]+ charset required for local patch filenames, falling back
// to "local" when nothing usable remains.
func SanitizeDescription(desc string) string {
	cleaned := descSanitizer.ReplaceAllString(desc, "-")
	cleaned = strings.Trim(cleaned, "-_")
	for strings.Contains(cleaned, "--") {
		cleaned = strings.ReplaceAll(cleaned, "--", "-")
	}
	if cleaned == "" {
		return "local"
	}
	return cleaned
}

// LocalPatchFileName builds the "local-NNN-<desc>.patch" filename for a
// patch, zero-padding the number to 3 digits.
func LocalPatchFileName(number int, desc string) string {
	return fmt.Sprintf("local-%03d-%s.patch", number, SanitizeDescription(desc))
}
