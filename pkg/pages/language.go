package pages

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// detectorLanguages is the fixed candidate set. Keeping it small bounds
// model loading; these cover the locales documentation sites commonly
// ship.
var detectorLanguages = []lingua.Language{
	lingua.English,
	lingua.Chinese,
	lingua.Japanese,
	lingua.Korean,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Portuguese,
	lingua.Russian,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectLang returns the lowercase ISO 639-1 code of the language the
// text is most likely written in, or "" when detection is inconclusive.
// The detector builds lazily on first use since loading language models
// is expensive.
func DetectLang(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectorLanguages...).
			Build()
	})
	lang, ok := detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
