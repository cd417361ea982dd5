package transcription

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// englishVariants maps regions to the only regional codes AssemblyAI accepts.
var englishVariants = map[string]string{
	"US": "en_us",
	"GB": "en_uk",
	"AU": "en_au",
}

// NormalizeLanguage converts a BCP 47 style tag ("en-US", "pt_BR", "fr") into
// the lowercase code AssemblyAI expects. Regions are kept only for the
// English variants the API knows (en_us, en_uk, en_au); any other region
// falls back to the base language, so "de-DE" becomes "de".
func NormalizeLanguage(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", value, err)
	}
	base, _ := tag.Base()
	code := strings.ToLower(base.String())
	if code != "en" {
		return code, nil
	}
	if region, confidence := tag.Region(); confidence == language.Exact {
		if variant, ok := englishVariants[region.String()]; ok {
			return variant, nil
		}
	}
	return code, nil
}
