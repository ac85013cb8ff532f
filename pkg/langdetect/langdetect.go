// Package langdetect provides the language-detection capability on top of
// lingua-go, mapping text to a lowercase ISO 639-1 code.
package langdetect

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	contractx "github.com/amilie-studio/inbox-agent/agent/contract"
)

type Detector struct {
	detector lingua.LanguageDetector
}

var _ contractx.LanguageDetector = (*Detector)(nil)

// New builds a detector over the language set the business actually sees.
// A narrow set keeps short-message detection reliable.
func New() *Detector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Spanish,
		lingua.French,
		lingua.German,
		lingua.Italian,
		lingua.Portuguese,
		lingua.Arabic,
		lingua.Chinese,
		lingua.Japanese,
		lingua.Korean,
		lingua.Hindi,
		lingua.Russian,
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// Detect returns the ISO 639-1 code, or the unknown sentinel when the text
// is empty or no language is confidently detected.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return contractx.LanguageUnknown
	}

	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return contractx.LanguageUnknown
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
