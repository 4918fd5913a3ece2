package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered    EventType = "user_registered"
	EventProfileUpdated    EventType = "profile_updated"
	EventCompanyRegistered EventType = "company_registered"
	EventCompanyUpdated    EventType = "company_updated"
	EventAssetRelocated    EventType = "asset_relocated"
)

// Event is emitted by services after a record change has been committed.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, subjectID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ProfileUpdatedPayload payload.
type ProfileUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// CompanyPayload payload for company_registered and company_updated.
type CompanyPayload struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}

// AssetRelocatedPayload payload.
type AssetRelocatedPayload struct {
	Field     string `json:"field"`
	SecureURL string `json:"secure_url"`
}
