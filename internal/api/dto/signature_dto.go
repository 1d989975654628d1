package dto

import (
	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/share"
)

// SubmitSignatureRequest carries exactly one of Driver or Company, selected by Type.
type SubmitSignatureRequest struct {
	Type     domain.SignerType   `json:"type"`
	Language string              `json:"language"`
	Driver   *domain.DriverForm  `json:"driver,omitempty"`
	Company  *domain.CompanyForm `json:"company,omitempty"`
}

// Data returns the payload matching Type, or nil when it is missing.
func (r SubmitSignatureRequest) Data() domain.SignatureData {
	switch r.Type {
	case domain.SignerTypeDriver:
		if r.Driver != nil {
			return r.Driver
		}
	case domain.SignerTypeCompany:
		if r.Company != nil {
			return r.Company
		}
	}
	return nil
}

// SubmitSignatureResponse is returned after a successful submission.
type SubmitSignatureResponse struct {
	Signature *domain.SignatureRecord `json:"signature"`
	Message   string                  `json:"message"`
	ThankYou  string                  `json:"thankYou"`
	Share     share.Links             `json:"share"`
}

// CountResponse is the public supporter count.
type CountResponse struct {
	Count int `json:"count"`
}

// VisitRequest optionally tags the visit with a campaign reference.
type VisitRequest struct {
	Ref string `json:"ref"`
}
