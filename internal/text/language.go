package text

import (
	"strings"

	appErr "github.com/xxxsen/transcript-analytics/internal/pkg/errors"
)

type Language string

const (
	Italian Language = "italian"
	English Language = "english"
)

var Languages = []Language{Italian, English}

// ParseLanguage accepts the full name or the ISO 639-1 code. Empty input
// resolves to def.
func ParseLanguage(raw string, def Language) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		if def == "" {
			return Italian, nil
		}
		return def, nil
	case "italian", "it", "italiano":
		return Italian, nil
	case "english", "en":
		return English, nil
	default:
		return "", appErr.UnsupportedLanguage("language '" + raw + "' not supported, use italian or english")
	}
}

func (l Language) String() string {
	return string(l)
}
