// Package lang validates and normalizes ISO 639-1 language codes used
// for summary output and dub target languages, and maps them to display
// names for generation prompts ("Respond in Urdu", "translate to
// Spanish").
package lang

import (
	"fmt"
	"strings"
)

// validLanguages contains ISO 639-1 language codes accepted for output
// and dubbing. Not exhaustive; covers the languages the translation and
// speech services handle well.
var validLanguages = map[string]bool{
	"ar": true, // Arabic
	"bn": true, // Bengali
	"de": true, // German
	"en": true, // English
	"es": true, // Spanish
	"fa": true, // Persian
	"fr": true, // French
	"gu": true, // Gujarati
	"hi": true, // Hindi
	"id": true, // Indonesian
	"it": true, // Italian
	"ja": true, // Japanese
	"ko": true, // Korean
	"ml": true, // Malayalam
	"mr": true, // Marathi
	"ms": true, // Malay
	"nl": true, // Dutch
	"pa": true, // Punjabi
	"pl": true, // Polish
	"pt": true, // Portuguese
	"ru": true, // Russian
	"sw": true, // Swahili
	"ta": true, // Tamil
	"te": true, // Telugu
	"th": true, // Thai
	"tr": true, // Turkish
	"uk": true, // Ukrainian
	"ur": true, // Urdu
	"vi": true, // Vietnamese
	"zh": true, // Chinese
}

// displayNames maps normalized codes and locales to human-readable
// names. The names feed directly into prompts, so they use the plain
// English exonym.
var displayNames = map[string]string{
	"ar":    "Arabic",
	"bn":    "Bengali",
	"de":    "German",
	"en":    "English",
	"en-gb": "British English",
	"en-us": "American English",
	"es":    "Spanish",
	"fa":    "Persian",
	"fr":    "French",
	"gu":    "Gujarati",
	"hi":    "Hindi",
	"id":    "Indonesian",
	"it":    "Italian",
	"ja":    "Japanese",
	"ko":    "Korean",
	"ml":    "Malayalam",
	"mr":    "Marathi",
	"ms":    "Malay",
	"nl":    "Dutch",
	"pa":    "Punjabi",
	"pl":    "Polish",
	"pt":    "Portuguese",
	"pt-br": "Brazilian Portuguese",
	"ru":    "Russian",
	"sw":    "Swahili",
	"ta":    "Tamil",
	"te":    "Telugu",
	"th":    "Thai",
	"tr":    "Turkish",
	"uk":    "Ukrainian",
	"ur":    "Urdu",
	"vi":    "Vietnamese",
	"zh":    "Chinese",
	"zh-cn": "Simplified Chinese",
	"zh-tw": "Traditional Chinese",
}

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", "pt-br" -> "pt-br"
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, "_", "-"))
}

// Validate checks if the language code is valid.
// Accepts ISO 639-1 codes (e.g., "en", "ur") and locales (e.g., "pt-BR").
// Empty string is valid and means "use the default".
// Returns ErrInvalid if the base language is not recognized.
func Validate(code string) error {
	if code == "" {
		return nil
	}

	if !validLanguages[BaseCode(code)] {
		return fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'en', 'ur', 'pt-BR'): %w",
			code, ErrInvalid)
	}
	return nil
}

// BaseCode extracts the ISO 639-1 base language code from a locale.
// Examples: "pt-BR" -> "pt", "zh-CN" -> "zh", "en" -> "en"
func BaseCode(code string) string {
	normalized := Normalize(code)
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}

// IsEnglish returns true if the code represents English.
// Used to skip translation and output-language prompt instructions,
// since prompts and source transcripts are native English.
func IsEnglish(code string) bool {
	if code == "" {
		return false
	}
	return BaseCode(code) == "en"
}

// DisplayName returns a human-readable name for a language code or
// locale, falling back to the base language and finally to the code
// itself for unknown input.
func DisplayName(code string) string {
	normalized := Normalize(code)
	if name, ok := displayNames[normalized]; ok {
		return name
	}
	if name, ok := displayNames[BaseCode(code)]; ok {
		return name
	}
	return code
}
