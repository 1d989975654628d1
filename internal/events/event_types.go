package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/initiative-bkd/petition-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSignatureSubmitted     EventType = "signature_submitted"
	EventSignatureStatusChanged EventType = "signature_status_changed"
	EventSignatureDeleted       EventType = "signature_deleted"
	EventSignaturesPurged       EventType = "signatures_purged"
	EventAdminAdded             EventType = "admin_added"
	EventAdminRemoved           EventType = "admin_removed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id,omitempty"`
	// Actor is the admin email, empty for public submissions.
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// New stamps an event with a fresh id.
func New(t EventType, subjectID, actor string, at time.Time, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: at.UTC(),
		Payload:   payload,
	}
}

// SignatureSubmittedPayload payload. Contact details stay out of events.
type SignatureSubmittedPayload struct {
	SignerType domain.SignerType `json:"signer_type"`
	Language   domain.Language   `json:"language"`
	City       string            `json:"city"`
}

// SignatureStatusChangedPayload payload.
type SignatureStatusChangedPayload struct {
	OldStatus domain.SignatureStatus `json:"old_status"`
	NewStatus domain.SignatureStatus `json:"new_status"`
}

// SignaturesPurgedPayload payload.
type SignaturesPurgedPayload struct {
	Count int64 `json:"count"`
}

// AdminChangedPayload payload.
type AdminChangedPayload struct {
	Email string           `json:"email"`
	Role  domain.AdminRole `json:"role,omitempty"`
}
