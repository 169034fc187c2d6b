package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventregistry/internal/domain"
)

type registrationService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	mailer          domain.Mailer
	logger          *slog.Logger
	contextTimeout  time.Duration
}

// NewRegistrationService creates a RegistrationService. The mailer is used
// for best-effort confirmation emails; pass a noop mailer to disable them.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	mailer domain.Mailer,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		mailer:          mailer,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *registrationService) Register(ctx context.Context, eventID, name, email, phone string) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, domain.ValidationError("participant name is required")
	}
	if email == "" {
		return nil, domain.ValidationError("participant email is required")
	}

	p := domain.NewParticipant(eventID, name, email, strings.TrimSpace(phone), time.Now())

	// The repository enforces existence, status, uniqueness, and capacity
	// under a row lock and resyncs the event counter in the same transaction.
	if err := s.participantRepo.Register(ctx, p); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrEventNotActive),
			errors.Is(err, domain.ErrAlreadyRegistered),
			errors.Is(err, domain.ErrEventFull):
			return nil, err
		}
		return nil, fmt.Errorf("register participant: %w", err)
	}

	s.sendConfirmation(ctx, p)
	return p, nil
}

func (s *registrationService) Cancel(ctx context.Context, participationID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.participantRepo.GetByID(ctx, participationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}

	if err := s.participantRepo.Cancel(ctx, participationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("cancel registration: %w", err)
	}

	s.sendCancellation(ctx, p)
	return nil
}

func (s *registrationService) CancelByEventAndEmail(ctx context.Context, eventID, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p, err := s.participantRepo.GetByEventAndEmail(ctx, eventID, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}
	return s.Cancel(ctx, p.ID)
}

func (s *registrationService) ListByEvent(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	participants, err := s.participantRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}
	return participants, nil
}

func (s *registrationService) ListByParticipant(ctx context.Context, email string) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Email is not a foreign key: an unknown address yields an empty list,
	// not an error.
	participants, err := s.participantRepo.ListByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}
	return participants, nil
}

// sendConfirmation emails the participant after a successful registration.
// Failures are logged and never surface to the caller.
func (s *registrationService) sendConfirmation(ctx context.Context, p *domain.Participant) {
	if s.mailer == nil {
		return
	}
	event, err := s.eventRepo.GetByID(ctx, p.EventID)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping confirmation email", "participation_id", p.ID, "err", err)
		return
	}
	subject := fmt.Sprintf("Registration confirmed: %s", event.Name)
	text := fmt.Sprintf(
		"Hi %s,\n\nYou are registered for %s on %s at %s.\n",
		p.Name, event.Name, event.StartDateTime.Format(time.RFC1123), event.Location,
	)
	if err := s.mailer.Send(ctx, p.Email, subject, "", text); err != nil {
		s.logger.WarnContext(ctx, "confirmation email failed", "participation_id", p.ID, "err", err)
	}
}

func (s *registrationService) sendCancellation(ctx context.Context, p *domain.Participant) {
	if s.mailer == nil {
		return
	}
	event, err := s.eventRepo.GetByID(ctx, p.EventID)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping cancellation email", "participation_id", p.ID, "err", err)
		return
	}
	subject := fmt.Sprintf("Registration cancelled: %s", event.Name)
	text := fmt.Sprintf("Hi %s,\n\nYour registration for %s has been cancelled.\n", p.Name, event.Name)
	if err := s.mailer.Send(ctx, p.Email, subject, "", text); err != nil {
		s.logger.WarnContext(ctx, "cancellation email failed", "participation_id", p.ID, "err", err)
	}
}
