package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SignerType discriminates the driver and company submission variants.
type SignerType string

const (
	SignerTypeDriver  SignerType = "driver"
	SignerTypeCompany SignerType = "company"
)

// Valid reports whether the signer type is known.
func (t SignerType) Valid() bool {
	return t == SignerTypeDriver || t == SignerTypeCompany
}

// Sector enumerates the transport sectors a driver works in.
type Sector string

const (
	SectorFreight   Sector = "freight"
	SectorPassenger Sector = "passenger"
	SectorBoth      Sector = "both"
)

// Valid reports whether the sector is known.
func (s Sector) Valid() bool {
	switch s {
	case SectorFreight, SectorPassenger, SectorBoth:
		return true
	}
	return false
}

// SignatureStatus enumerates moderation states for a signature.
type SignatureStatus string

const (
	StatusNew       SignatureStatus = "new"
	StatusVerified  SignatureStatus = "verified"
	StatusDuplicate SignatureStatus = "duplicate"
	StatusDeleted   SignatureStatus = "deleted"
)

// Valid reports whether the status is known.
func (s SignatureStatus) Valid() bool {
	switch s {
	case StatusNew, StatusVerified, StatusDuplicate, StatusDeleted:
		return true
	}
	return false
}

// SignatureData is the validated payload of a signature. It is implemented
// only by *DriverForm and *CompanyForm; consumers switch on the concrete type.
type SignatureData interface {
	SignerType() SignerType
	ContactEmail() string
	// DisplayName is the driver's full name or the company name.
	DisplayName() string
	// SignerName is the person addressed in the thank-you message.
	SignerName() string
	isSignatureData()
}

// DriverForm is the payload submitted by an individual driver.
type DriverForm struct {
	FullName        string   `json:"fullName"`
	BirthDate       string   `json:"birthDate"`
	LicenseClass    []string `json:"licenseClass"`
	Sector          Sector   `json:"sector"`
	Street          string   `json:"street"`
	ZipCode         string   `json:"zipCode"`
	City            string   `json:"city"`
	Email           string   `json:"email"`
	PhoneNumber     string   `json:"phoneNumber"`
	PrivacyAccepted bool     `json:"privacyAccepted"`
	EmailVerified   bool     `json:"emailVerified"`
}

func (*DriverForm) SignerType() SignerType { return SignerTypeDriver }
func (f *DriverForm) ContactEmail() string { return f.Email }
func (f *DriverForm) DisplayName() string  { return f.FullName }
func (f *DriverForm) SignerName() string   { return f.FullName }
func (*DriverForm) isSignatureData()       {}

// CompanyForm is the payload submitted by a company representative.
type CompanyForm struct {
	OwnerName       string `json:"ownerName"`
	OwnerBirthDate  string `json:"ownerBirthDate"`
	CompanyName     string `json:"companyName"`
	CompanyType     string `json:"companyType"`
	Street          string `json:"street"`
	ZipCode         string `json:"zipCode"`
	City            string `json:"city"`
	TruckCount      int    `json:"truckCount"`
	DriverDemand    int    `json:"driverDemand"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	PrivacyAccepted bool   `json:"privacyAccepted"`
	EmailVerified   bool   `json:"emailVerified"`
}

func (*CompanyForm) SignerType() SignerType { return SignerTypeCompany }
func (f *CompanyForm) ContactEmail() string { return f.Email }
func (f *CompanyForm) DisplayName() string  { return f.CompanyName }
func (f *CompanyForm) SignerName() string   { return f.OwnerName }
func (*CompanyForm) isSignatureData()       {}

// SignatureRecord is one stored submission.
type SignatureRecord struct {
	ID          string
	Type        SignerType
	SubmittedAt time.Time
	Status      SignatureStatus
	Data        SignatureData
}

// City returns the address city of either variant.
func (r *SignatureRecord) City() string {
	switch d := r.Data.(type) {
	case *DriverForm:
		return d.City
	case *CompanyForm:
		return d.City
	}
	return ""
}

// PhoneNumber returns the phone number of either variant.
func (r *SignatureRecord) PhoneNumber() string {
	switch d := r.Data.(type) {
	case *DriverForm:
		return d.PhoneNumber
	case *CompanyForm:
		return d.PhoneNumber
	}
	return ""
}

// Driver returns the driver payload when the record is a driver signature.
func (r *SignatureRecord) Driver() (*DriverForm, bool) {
	d, ok := r.Data.(*DriverForm)
	return d, ok
}

// EmailKey is the normalized form used for duplicate detection.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type signatureRecordJSON struct {
	ID     string          `json:"id"`
	Type   SignerType      `json:"type"`
	Date   time.Time       `json:"date"`
	Status SignatureStatus `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// MarshalJSON renders the record with the payload under "data".
func (r SignatureRecord) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(r.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(signatureRecordJSON{
		ID:     r.ID,
		Type:   r.Type,
		Date:   r.SubmittedAt,
		Status: r.Status,
		Data:   data,
	})
}

// UnmarshalJSON decodes the payload according to the record type.
func (r *SignatureRecord) UnmarshalJSON(b []byte) error {
	var raw signatureRecordJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	data, err := DecodeSignatureData(raw.Type, raw.Data)
	if err != nil {
		return err
	}
	*r = SignatureRecord{ID: raw.ID, Type: raw.Type, SubmittedAt: raw.Date, Status: raw.Status, Data: data}
	return nil
}

// DecodeSignatureData decodes a stored payload into the variant selected by t.
func DecodeSignatureData(t SignerType, raw []byte) (SignatureData, error) {
	switch t {
	case SignerTypeDriver:
		var d DriverForm
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode driver payload: %w", err)
		}
		return &d, nil
	case SignerTypeCompany:
		var c CompanyForm
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode company payload: %w", err)
		}
		return &c, nil
	default:
		return nil, fmt.Errorf("unknown signer type %q", t)
	}
}
