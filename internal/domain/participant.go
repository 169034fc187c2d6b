package domain

import (
	"context"
	"time"
)

// Participant binds one person (by email) to one event. At most one row may
// exist per (event_id, participant_email) pair.
// swagger:model Participant
type Participant struct {
	ID           string    `json:"participation_id"`
	EventID      string    `json:"event_id"`
	Name         string    `json:"participant_name"`
	Email        string    `json:"participant_email"`
	Phone        string    `json:"participant_phone"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewParticipant returns a Participant for the given event. ID is set by the
// repository on registration.
func NewParticipant(eventID, name, email, phone string, registeredAt time.Time) *Participant {
	return &Participant{
		EventID:      eventID,
		Name:         name,
		Email:        email,
		Phone:        phone,
		RegisteredAt: registeredAt,
	}
}

// ParticipantRepository defines storage operations for registrations.
// Register and Cancel are transactional: they lock the owning event row,
// enforce the capacity and uniqueness invariants, and keep the event's
// current_participants counter in sync with the participant rows.
type ParticipantRepository interface {
	// Register inserts p after verifying, under lock, that the event exists
	// and is ACTIVE, the email is not already registered, and capacity
	// remains. Fails with ErrNotFound, ErrEventNotActive,
	// ErrAlreadyRegistered, or ErrEventFull.
	Register(ctx context.Context, p *Participant) error
	// Cancel deletes the registration and resyncs the event counter.
	// Fails with ErrNotFound if the registration does not exist.
	Cancel(ctx context.Context, participationID string) error
	GetByID(ctx context.Context, participationID string) (*Participant, error)
	GetByEventAndEmail(ctx context.Context, eventID, email string) (*Participant, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Participant, error)
	ListByEmail(ctx context.Context, email string) ([]*Participant, error)
}

// RegistrationService mediates all state changes to the event-participant
// relationship.
type RegistrationService interface {
	Register(ctx context.Context, eventID, name, email, phone string) (*Participant, error)
	Cancel(ctx context.Context, participationID string) error
	CancelByEventAndEmail(ctx context.Context, eventID, email string) error
	ListByEvent(ctx context.Context, eventID string) ([]*Participant, error)
	ListByParticipant(ctx context.Context, email string) ([]*Participant, error)
}
