package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GuideSnapshot is the last guide view model built successfully for a trip.
type GuideSnapshot struct {
	Slug      string
	TripID    int64
	Status    string
	Payload   json.RawMessage
	FetchedAt time.Time
}

// VisitorPreference holds a visitor's collapsed itinerary days for one trip.
type VisitorPreference struct {
	VisitorID     uuid.UUID
	Slug          string
	CollapsedDays []string
	UpdatedAt     time.Time
}

// WizardDraft is an editor's unsaved wizard state.
type WizardDraft struct {
	SessionID string
	TripID    int64
	Step      string
	Payload   json.RawMessage
	UpdatedAt time.Time
}

type AuditEntry struct {
	ID        uuid.UUID
	Action    string
	Actor     string
	Target    string
	CreatedAt time.Time
}
