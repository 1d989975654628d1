package domain

import "strings"

// Language is one of the supported locales.
type Language string

const (
	LanguageDE Language = "de"
	LanguageEN Language = "en"
	LanguageTR Language = "tr"
)

// SupportedLanguages lists the locales in display order.
var SupportedLanguages = []Language{LanguageDE, LanguageEN, LanguageTR}

// ParseLanguage maps a language code or tag ("en-GB") to a supported locale.
func ParseLanguage(raw string, fallback Language) Language {
	code := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	for _, l := range SupportedLanguages {
		if string(l) == code {
			return l
		}
	}
	return fallback
}

// LicenseClasses is the catalog of license codes offered to drivers.
var LicenseClasses = []string{
	"B", "BE",
	"C1", "C1E", "C", "CE",
	"D1", "D1E", "D", "DE",
	"Fahrerkarte", "Code 95",
}
