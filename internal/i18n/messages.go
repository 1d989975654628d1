package i18n

import (
	"strings"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

// Messages holds the user-facing strings of one locale.
type Messages struct {
	Required        string
	InvalidEmail    string
	InvalidDate     string
	PrivacyRequired string
	Duplicate       string
	SubmitFailed    string
	InProgress      string
	Success         string
	ShareMessage    string
	AccessDenied    string
	LoginError      string
	// ThankYou is the fallback thank-you template; {name} is replaced.
	ThankYou string
}

var catalog = map[domain.Language]Messages{
	domain.LanguageDE: {
		Required:        "Dieses Feld ist erforderlich.",
		InvalidEmail:    "Bitte geben Sie eine gültige E-Mail-Adresse ein.",
		InvalidDate:     "Bitte geben Sie ein gültiges Datum ein.",
		PrivacyRequired: "Bitte stimmen Sie den Datenschutzbestimmungen zu.",
		Duplicate:       "Sie haben diese Petition bereits unterschrieben. Vielen Dank für Ihre Unterstützung!",
		SubmitFailed:    "Ein Fehler ist aufgetreten. Bitte versuchen Sie es später erneut.",
		InProgress:      "Ihre Unterschrift wird bereits verarbeitet.",
		Success:         "Vielen Dank für Ihre Unterstützung!",
		ShareMessage:    "Ich habe unterschrieben! Mehrsprachige IHK-Prüfungen für Berufskraftfahrer jetzt! #InitiativeBKD",
		AccessDenied:    "Zugriff verweigert: Ihre E-Mail-Adresse ist nicht berechtigt.",
		LoginError:      "Anmeldung fehlgeschlagen.",
		ThankYou:        "Vielen Dank, {name}. Ihre Stimme zählt!",
	},
	domain.LanguageEN: {
		Required:        "This field is required.",
		InvalidEmail:    "Please enter a valid email address.",
		InvalidDate:     "Please enter a valid date.",
		PrivacyRequired: "You must agree to the privacy policy.",
		Duplicate:       "You have already signed this petition. Thank you for your support!",
		SubmitFailed:    "An error occurred. Please try again later.",
		InProgress:      "Your signature is already being processed.",
		Success:         "Thank you for your support!",
		ShareMessage:    "I signed! Multilingual IHK exams for professional drivers now! #InitiativeBKD",
		AccessDenied:    "Access denied: your email is not authorized.",
		LoginError:      "Login failed.",
		ThankYou:        "Thank you, {name}. Your voice matters!",
	},
	domain.LanguageTR: {
		Required:        "Bu alan zorunludur.",
		InvalidEmail:    "Lütfen geçerli bir e-posta adresi giriniz.",
		InvalidDate:     "Lütfen geçerli bir tarih giriniz.",
		PrivacyRequired: "Gizlilik politikasını kabul etmelisiniz.",
		Duplicate:       "Bu dilekçeyi zaten imzaladınız. Desteğiniz için teşekkürler!",
		SubmitFailed:    "Bir hata oluştu. Lütfen daha sonra tekrar deneyin.",
		InProgress:      "İmzanız şu anda işleniyor.",
		Success:         "Desteğiniz için teşekkür ederiz!",
		ShareMessage:    "İmzaladım! Profesyonel sürücüler için çok dilli IHK sınavları hemen şimdi! #InitiativeBKD",
		AccessDenied:    "Erişim reddedildi: e-posta adresiniz yetkili değil.",
		LoginError:      "Giriş başarısız.",
		ThankYou:        "Teşekkürler, {name}. Sesiniz bizim için önemli!",
	},
}

// For returns the messages of lang, falling back to German.
func For(lang domain.Language) Messages {
	if m, ok := catalog[lang]; ok {
		return m
	}
	return catalog[domain.LanguageDE]
}

// ThankYou renders the fallback thank-you message for name.
func ThankYou(lang domain.Language, name string) string {
	return strings.ReplaceAll(For(lang).ThankYou, "{name}", strings.TrimSpace(name))
}
