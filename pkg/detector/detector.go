// Package detector guesses the language of record text when the catalog
// data does not state one.
package detector

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// minTextLength is the shortest text, in runes, that detection runs on.
const minTextLength = 12

// Languages the detector chooses between.
var Languages = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Latin,
	lingua.Russian,
	lingua.Chinese,
	lingua.Japanese,
	lingua.Arabic,
	lingua.Hebrew,
}

// bibliographicCodes maps Languages to the ISO 639-2/B codes LibraryCloud
// uses in languageTerm where they differ from ISO 639-3.
var bibliographicCodes = map[lingua.Language]string{
	lingua.French:  "fre",
	lingua.German:  "ger",
	lingua.Dutch:   "dut",
	lingua.Chinese: "chi",
}

// Result is a detected language.
type Result struct {
	// Code is the ISO 639-2/B code, as in MODS languageTerm.
	Code       string
	Confidence float64
}

// Detector wraps a lingua detector limited to Languages.
type Detector struct {
	lingua        lingua.LanguageDetector
	minConfidence float64
}

// New builds a detector. Guesses below minConfidence are discarded.
func New(minConfidence float64) *Detector {
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(Languages...).
		WithMinimumRelativeDistance(0.1).
		Build()
	return &Detector{lingua: d, minConfidence: minConfidence}
}

// Detect returns the language of text, or false when text is too short or
// no language is confident enough.
func (d *Detector) Detect(text string) (Result, bool) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < minTextLength {
		return Result{}, false
	}
	lang, ok := d.lingua.DetectLanguageOf(text)
	if !ok {
		return Result{}, false
	}
	conf := d.lingua.ComputeLanguageConfidence(text, lang)
	if conf < d.minConfidence {
		return Result{}, false
	}
	return Result{Code: Code(lang), Confidence: conf}, true
}

// Code returns the ISO 639-2/B code for lang.
func Code(lang lingua.Language) string {
	if code, ok := bibliographicCodes[lang]; ok {
		return code
	}
	return strings.ToLower(lang.IsoCode639_3().String())
}
