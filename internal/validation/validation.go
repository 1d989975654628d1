// Package validation checks driver and company submissions field by field.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/i18n"
)

// ErrorCode identifies why a field failed.
type ErrorCode string

const (
	CodeRequired        ErrorCode = "required"
	CodeInvalidEmail    ErrorCode = "invalidEmail"
	CodeInvalidDate     ErrorCode = "invalidDate"
	CodePrivacyRequired ErrorCode = "privacyRequired"
)

// Errors maps a field name to its failure. Empty means submittable.
type Errors map[string]ErrorCode

// Localize renders every failure in lang.
func (e Errors) Localize(lang domain.Language) map[string]string {
	msgs := i18n.For(lang)
	out := make(map[string]string, len(e))
	for field, code := range e {
		switch code {
		case CodeRequired:
			out[field] = msgs.Required
		case CodeInvalidEmail:
			out[field] = msgs.InvalidEmail
		case CodeInvalidDate:
			out[field] = msgs.InvalidDate
		case CodePrivacyRequired:
			out[field] = msgs.PrivacyRequired
		default:
			out[field] = string(code)
		}
	}
	return out
}

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneStripper = regexp.MustCompile(`[^0-9+\-()\s]`)
	minBirthDate  = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// SanitizePhone strips everything except digits, '+', '-', parentheses and whitespace.
func SanitizePhone(raw string) string {
	return phoneStripper.ReplaceAllString(raw, "")
}

// ValidEmail reports whether s has a local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validator applies the field rules. The clock decides what "today" is.
type Validator struct {
	now func() time.Time
}

// New returns a validator; a nil clock means time.Now.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// Normalize sanitizes a draft in place: trims free text, strips illegal phone
// characters and removes empty or repeated license classes.
func Normalize(data domain.SignatureData) {
	switch d := data.(type) {
	case *domain.DriverForm:
		d.FullName = strings.TrimSpace(d.FullName)
		d.BirthDate = strings.TrimSpace(d.BirthDate)
		d.Street = strings.TrimSpace(d.Street)
		d.ZipCode = strings.TrimSpace(d.ZipCode)
		d.City = strings.TrimSpace(d.City)
		d.Email = strings.TrimSpace(d.Email)
		d.PhoneNumber = strings.TrimSpace(SanitizePhone(d.PhoneNumber))
		d.LicenseClass = uniqueLicenses(d.LicenseClass)
	case *domain.CompanyForm:
		d.OwnerName = strings.TrimSpace(d.OwnerName)
		d.OwnerBirthDate = strings.TrimSpace(d.OwnerBirthDate)
		d.CompanyName = strings.TrimSpace(d.CompanyName)
		d.CompanyType = strings.TrimSpace(d.CompanyType)
		d.Street = strings.TrimSpace(d.Street)
		d.ZipCode = strings.TrimSpace(d.ZipCode)
		d.City = strings.TrimSpace(d.City)
		d.Email = strings.TrimSpace(d.Email)
		d.PhoneNumber = strings.TrimSpace(SanitizePhone(d.PhoneNumber))
	}
}

func uniqueLicenses(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, l := range in {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// Validate runs every rule for the variant and returns all failures.
func (v *Validator) Validate(data domain.SignatureData) Errors {
	errs := Errors{}
	switch d := data.(type) {
	case *domain.DriverForm:
		requireText(errs, "fullName", d.FullName)
		v.checkDate(errs, "birthDate", d.BirthDate)
		if len(uniqueLicenses(d.LicenseClass)) == 0 {
			errs["licenseClass"] = CodeRequired
		}
		if !d.Sector.Valid() {
			errs["sector"] = CodeRequired
		}
		requireText(errs, "street", d.Street)
		requireText(errs, "zipCode", d.ZipCode)
		requireText(errs, "city", d.City)
		checkEmail(errs, d.Email)
		checkPhone(errs, d.PhoneNumber)
		if !d.PrivacyAccepted {
			errs["privacyAccepted"] = CodePrivacyRequired
		}
	case *domain.CompanyForm:
		requireText(errs, "companyName", d.CompanyName)
		requireText(errs, "companyType", d.CompanyType)
		requireText(errs, "ownerName", d.OwnerName)
		v.checkDate(errs, "ownerBirthDate", d.OwnerBirthDate)
		requireText(errs, "street", d.Street)
		requireText(errs, "zipCode", d.ZipCode)
		requireText(errs, "city", d.City)
		if d.TruckCount < 0 {
			errs["truckCount"] = CodeRequired
		}
		if d.DriverDemand < 0 {
			errs["driverDemand"] = CodeRequired
		}
		checkEmail(errs, d.Email)
		checkPhone(errs, d.PhoneNumber)
		if !d.PrivacyAccepted {
			errs["privacyAccepted"] = CodePrivacyRequired
		}
	default:
		errs["type"] = CodeRequired
	}
	return errs
}

func requireText(errs Errors, field, val string) {
	if strings.TrimSpace(val) == "" {
		errs[field] = CodeRequired
	}
}

func checkEmail(errs Errors, email string) {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		errs["email"] = CodeRequired
	case !ValidEmail(email):
		errs["email"] = CodeInvalidEmail
	}
}

func checkPhone(errs Errors, phone string) {
	if strings.TrimSpace(SanitizePhone(phone)) == "" {
		errs["phoneNumber"] = CodeRequired
	}
}

func (v *Validator) checkDate(errs Errors, field, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs[field] = CodeRequired
		return
	}
	date, ok := parseCalendarDate(raw)
	if !ok {
		errs[field] = CodeInvalidDate
		return
	}
	now := v.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) || date.Before(minBirthDate) {
		errs[field] = CodeInvalidDate
	}
}

// parseCalendarDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns
// the calendar day at UTC midnight. Impossible days such as 2023-02-30 fail.
func parseCalendarDate(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
