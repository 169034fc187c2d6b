package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventregistry/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService with the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func validateEvent(e *domain.Event, now time.Time) error {
	if strings.TrimSpace(e.Name) == "" {
		return domain.ValidationError("event name is required")
	}
	if e.MaxParticipants <= 0 {
		return domain.ValidationError("max participants must be positive")
	}
	if !e.StartDateTime.Before(e.EndDateTime) {
		return domain.ValidationError("start date/time must be before end date/time")
	}
	if e.StartDateTime.Before(now) {
		return domain.ValidationError("start date/time must be in the future")
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := time.Now()
	if err := validateEvent(e, now); err != nil {
		return nil, err
	}

	e.Status = domain.StatusActive
	e.CurrentParticipants = 0
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, id string, in *domain.Event) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := time.Now()
	if err := validateEvent(in, now); err != nil {
		return nil, err
	}

	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.StartDateTime = in.StartDateTime
	existing.EndDateTime = in.EndDateTime
	existing.Location = in.Location
	existing.Organizer = in.Organizer
	existing.MaxParticipants = in.MaxParticipants
	existing.UpdatedAt = now

	if err := s.eventRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return existing, nil
}

func (s *eventService) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.Valid() {
		return nil, domain.ValidationError("status must be one of ACTIVE, COMPLETED, CANCELLED")
	}

	event, err := s.eventRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event status: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) Statistics(ctx context.Context) (*domain.EventStatistics, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	total, err := s.eventRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	active, err := s.eventRepo.CountByStatus(ctx, domain.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("count active events: %w", err)
	}
	completed, err := s.eventRepo.CountByStatus(ctx, domain.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("count completed events: %w", err)
	}
	cancelled, err := s.eventRepo.CountByStatus(ctx, domain.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("count cancelled events: %w", err)
	}

	return &domain.EventStatistics{
		TotalEvents:     total,
		ActiveEvents:    active,
		CompletedEvents: completed,
		CancelledEvents: cancelled,
	}, nil
}

func (s *eventService) Search(ctx context.Context, criteria domain.EventSearchCriteria) (*domain.EventSearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if criteria.Status != "" && !criteria.Status.Valid() {
		return nil, domain.ValidationError("status must be one of ACTIVE, COMPLETED, CANCELLED")
	}
	criteria.Normalize()

	events, total, err := s.eventRepo.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	return domain.NewEventSearchResult(events, total, criteria.Page, criteria.Size), nil
}
