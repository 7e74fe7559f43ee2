package cash

import (
	"strings"
	"unicode"
)

const maxReasonLength = 200

// SanitizeReason strips control characters, trims surrounding whitespace
// and truncates to 200 characters. It returns nil when nothing is left.
func SanitizeReason(s string) *string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}

		return r
	}, s)

	clean = strings.TrimSpace(clean)

	if runes := []rune(clean); len(runes) > maxReasonLength {
		clean = strings.TrimSpace(string(runes[:maxReasonLength]))
	}

	if clean == "" {
		return nil
	}

	return &clean
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return &s
}
