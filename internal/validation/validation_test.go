package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/i18n"
)

var fixedNow = time.Date(2024, time.June, 15, 18, 30, 0, 0, time.UTC)

func newValidator() *Validator {
	return New(func() time.Time { return fixedNow })
}

func validDriver() *domain.DriverForm {
	return &domain.DriverForm{
		FullName:        "Jane Doe",
		BirthDate:       "1990-01-01",
		LicenseClass:    []string{"B", "CE"},
		Sector:          domain.SectorFreight,
		Street:          "Hauptstr. 1",
		ZipCode:         "10115",
		City:            "Berlin",
		Email:           "jane@example.com",
		PhoneNumber:     "+49 170 1234567",
		PrivacyAccepted: true,
	}
}

func validCompany() *domain.CompanyForm {
	return &domain.CompanyForm{
		OwnerName:       "Max Mustermann",
		OwnerBirthDate:  "1975-05-20",
		CompanyName:     "Muster Logistik",
		CompanyType:     "GmbH",
		Street:          "Industriestr. 5",
		ZipCode:         "20095",
		City:            "Hamburg",
		TruckCount:      12,
		DriverDemand:    0,
		Email:           "info@muster.de",
		PhoneNumber:     "040 123456",
		PrivacyAccepted: true,
	}
}

func TestValidDraftsAreSubmittable(t *testing.T) {
	v := newValidator()
	assert.Empty(t, v.Validate(validDriver()))
	assert.Empty(t, v.Validate(validCompany()))
}

func TestMissingRequiredDriverFields(t *testing.T) {
	cases := map[string]func(d *domain.DriverForm){
		"fullName":     func(d *domain.DriverForm) { d.FullName = "   " },
		"birthDate":    func(d *domain.DriverForm) { d.BirthDate = "" },
		"licenseClass": func(d *domain.DriverForm) { d.LicenseClass = nil },
		"sector":       func(d *domain.DriverForm) { d.Sector = "" },
		"street":       func(d *domain.DriverForm) { d.Street = "" },
		"zipCode":      func(d *domain.DriverForm) { d.ZipCode = "\t" },
		"city":         func(d *domain.DriverForm) { d.City = "" },
		"email":        func(d *domain.DriverForm) { d.Email = " " },
		"phoneNumber":  func(d *domain.DriverForm) { d.PhoneNumber = "abc" },
	}
	v := newValidator()
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			d := validDriver()
			mutate(d)
			errs := v.Validate(d)
			require.Contains(t, errs, field)
			assert.Equal(t, CodeRequired, errs[field])
		})
	}
}

func TestMissingRequiredCompanyFields(t *testing.T) {
	cases := map[string]func(c *domain.CompanyForm){
		"ownerName":      func(c *domain.CompanyForm) { c.OwnerName = "" },
		"ownerBirthDate": func(c *domain.CompanyForm) { c.OwnerBirthDate = "" },
		"companyName":    func(c *domain.CompanyForm) { c.CompanyName = " " },
		"companyType":    func(c *domain.CompanyForm) { c.CompanyType = "" },
		"street":         func(c *domain.CompanyForm) { c.Street = "" },
		"zipCode":        func(c *domain.CompanyForm) { c.ZipCode = "" },
		"city":           func(c *domain.CompanyForm) { c.City = "" },
		"truckCount":     func(c *domain.CompanyForm) { c.TruckCount = -1 },
		"driverDemand":   func(c *domain.CompanyForm) { c.DriverDemand = -3 },
		"email":          func(c *domain.CompanyForm) { c.Email = "" },
		"phoneNumber":    func(c *domain.CompanyForm) { c.PhoneNumber = "" },
	}
	v := newValidator()
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			c := validCompany()
			mutate(c)
			errs := v.Validate(c)
			require.Contains(t, errs, field)
			assert.Equal(t, CodeRequired, errs[field])
		})
	}
}

func TestZeroCountsAreValid(t *testing.T) {
	c := validCompany()
	c.TruckCount = 0
	c.DriverDemand = 0
	assert.Empty(t, newValidator().Validate(c))
}

func TestEmailShape(t *testing.T) {
	v := newValidator()
	for _, bad := range []string{"a@b", "noat.com", "a b@c.de", "@example.com", "jane@.com@"} {
		d := validDriver()
		d.Email = bad
		assert.Equal(t, CodeInvalidEmail, v.Validate(d)["email"], bad)
	}
	for _, good := range []string{"a@b.com", "jane.doe+petition@example.co.uk"} {
		d := validDriver()
		d.Email = good
		assert.NotContains(t, v.Validate(d), "email", good)
	}
}

func TestDateBounds(t *testing.T) {
	v := newValidator()
	cases := []struct {
		date  string
		valid bool
	}{
		{"1900-01-01", true},
		{"2024-06-15", true},
		{"1899-12-31", false},
		{"2024-06-16", false},
		{"2023-02-30", false},
		{"15.06.1990", false},
		{"1990-01-01T10:00:00Z", true},
	}
	for _, tc := range cases {
		t.Run(tc.date, func(t *testing.T) {
			d := validDriver()
			d.BirthDate = tc.date
			c := validCompany()
			c.OwnerBirthDate = tc.date
			if tc.valid {
				assert.NotContains(t, v.Validate(d), "birthDate")
				assert.NotContains(t, v.Validate(c), "ownerBirthDate")
				return
			}
			assert.Equal(t, CodeInvalidDate, v.Validate(d)["birthDate"])
			assert.Equal(t, CodeInvalidDate, v.Validate(c)["ownerBirthDate"])
		})
	}
}

func TestEmptyLicenseClassAlwaysFails(t *testing.T) {
	d := validDriver()
	d.LicenseClass = []string{" ", ""}
	errs := newValidator().Validate(d)
	assert.Equal(t, Errors{"licenseClass": CodeRequired}, errs)
}

func TestPrivacyMustBeAccepted(t *testing.T) {
	d := validDriver()
	d.PrivacyAccepted = false
	assert.Equal(t, CodePrivacyRequired, newValidator().Validate(d)["privacyAccepted"])

	c := validCompany()
	c.PrivacyAccepted = false
	assert.Equal(t, CodePrivacyRequired, newValidator().Validate(c)["privacyAccepted"])
}

func TestAllFailuresAreReportedTogether(t *testing.T) {
	errs := newValidator().Validate(&domain.DriverForm{})
	assert.Len(t, errs, 10)
}

func TestNilPayloadRequiresType(t *testing.T) {
	assert.Equal(t, Errors{"type": CodeRequired}, newValidator().Validate(nil))
}

func TestSanitizePhone(t *testing.T) {
	assert.Equal(t, "+49 (170) 123-45", SanitizePhone("+49 (170) 123-45"))
	assert.Equal(t, "0301234", SanitizePhone("tel:030/1234"))
	assert.Equal(t, "", SanitizePhone("call me"))
}

func TestNormalize(t *testing.T) {
	d := validDriver()
	d.FullName = "  Jane Doe "
	d.Email = " jane@example.com "
	d.PhoneNumber = " +49#170 "
	d.LicenseClass = []string{"CE", " B", "CE", ""}
	Normalize(d)
	assert.Equal(t, "Jane Doe", d.FullName)
	assert.Equal(t, "jane@example.com", d.Email)
	assert.Equal(t, "+49170", d.PhoneNumber)
	assert.Equal(t, []string{"CE", "B"}, d.LicenseClass)
}

func TestLocalize(t *testing.T) {
	errs := Errors{"email": CodeInvalidEmail, "fullName": CodeRequired}
	msgs := errs.Localize(domain.LanguageEN)
	assert.Equal(t, i18n.For(domain.LanguageEN).InvalidEmail, msgs["email"])
	assert.Equal(t, i18n.For(domain.LanguageEN).Required, msgs["fullName"])
}
