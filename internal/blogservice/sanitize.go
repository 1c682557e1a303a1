package blogservice

import (
	"regexp"
	"strings"
)

var scriptTagRX = regexp.MustCompile(`(?is)<\s*script[^>]*>.*?<\s*/\s*script\s*>`)

// sanitizeText drops script elements and surrounding whitespace.
func sanitizeText(s string) string {
	return strings.TrimSpace(scriptTagRX.ReplaceAllString(s, ""))
}

func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}

	clean := sanitizeText(*s)
	return &clean
}
