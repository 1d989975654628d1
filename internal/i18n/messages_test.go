package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

func TestThankYouFallbackPerLocale(t *testing.T) {
	assert.Equal(t, "Thank you, Jane Doe. Your voice matters!", ThankYou(domain.LanguageEN, " Jane Doe "))
	assert.Equal(t, "Vielen Dank, Jane. Ihre Stimme zählt!", ThankYou(domain.LanguageDE, "Jane"))
	assert.Equal(t, "Teşekkürler, Jane. Sesiniz bizim için önemli!", ThankYou(domain.LanguageTR, "Jane"))
}

func TestForUnknownLanguageUsesGerman(t *testing.T) {
	assert.Equal(t, For(domain.LanguageDE), For(domain.Language("fr")))
}

func TestEveryLocaleIsComplete(t *testing.T) {
	for _, lang := range domain.SupportedLanguages {
		m := For(lang)
		for name, val := range map[string]string{
			"required":        m.Required,
			"invalidEmail":    m.InvalidEmail,
			"invalidDate":     m.InvalidDate,
			"privacyRequired": m.PrivacyRequired,
			"duplicate":       m.Duplicate,
			"thankYou":        m.ThankYou,
		} {
			assert.NotEmpty(t, val, "%s/%s", lang, name)
		}
		assert.Contains(t, m.ThankYou, "{name}")
	}
}
