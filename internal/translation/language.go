package translation

import (
	"fmt"
	"strings"
)

// Language codes understood by the fallback rules
const (
	Chinese  = "zh"
	English  = "en"
	Japanese = "jp"
)

// FallbackSource is used when the service cannot recognise the language
const FallbackSource = Chinese

var languageNames = map[string]string{
	"chinese":  Chinese,
	"english":  English,
	"japanese": Japanese,
}

// TargetFor derives the target language from a source language
func TargetFor(source string) string {
	switch source {
	case Chinese:
		return English
	case English, Japanese:
		return Chinese
	default:
		return English
	}
}

// ParseLanguage accepts a language name (chinese, english, japanese) or a
// code and returns the code. The empty string means no override.
func ParseLanguage(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if code, ok := languageNames[strings.ToLower(s)]; ok {
		return code, nil
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && r != '-' {
			return "", fmt.Errorf("invalid language %q", s)
		}
	}
	return s, nil
}
