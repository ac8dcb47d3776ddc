package model

import "strings"

// TruncateString cuts s down to maxLength bytes when it is longer.
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength]
}

// NormalizeText makes blank and whitespace-only values indistinguishable from absent ones.
func NormalizeText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// IsBlank reports whether s carries no visible text.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
