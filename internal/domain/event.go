package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle state of an event. Only ACTIVE events accept
// registrations.
type EventStatus string

const (
	StatusActive    EventStatus = "ACTIVE"
	StatusCompleted EventStatus = "COMPLETED"
	StatusCancelled EventStatus = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Event represents a schedulable activity with a capacity and time window.
// CurrentParticipants is denormalized from the participants table and is
// recomputed inside the same transaction as every registration change, so it
// never observably disagrees with the true row count.
// swagger:model Event
type Event struct {
	ID                  string      `json:"event_id"`
	Name                string      `json:"event_name"`
	Description         string      `json:"description"`
	StartDateTime       time.Time   `json:"start_date_time"`
	EndDateTime         time.Time   `json:"end_date_time"`
	Location            string      `json:"location"`
	Organizer           string      `json:"organizer"`
	MaxParticipants     int         `json:"max_participants"`
	CurrentParticipants int         `json:"current_participants"`
	Status              EventStatus `json:"status"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// EventStatistics holds aggregate counts over the events table, computed at
// call time.
// swagger:model EventStatistics
type EventStatistics struct {
	TotalEvents     int `json:"total_events"`
	ActiveEvents    int `json:"active_events"`
	CompletedEvents int `json:"completed_events"`
	CancelledEvents int `json:"cancelled_events"`
}

// EventSearchCriteria are the combinable filters for Search. All supplied
// filters apply with AND semantics. Page is 0-based.
type EventSearchCriteria struct {
	Keyword       string
	Status        EventStatus
	Organizer     string
	Location      string
	StartDateFrom *time.Time
	StartDateTo   *time.Time
	EndDateFrom   *time.Time
	EndDateTo     *time.Time
	Page          int
	Size          int
	SortBy        string
	SortOrder     string
}

// Search pagination defaults and limits.
const (
	DefaultSearchPageSize = 10
	MaxSearchPageSize     = 100
)

// Normalize clamps pagination to valid ranges and fills in the default sort
// (created_at descending).
func (c *EventSearchCriteria) Normalize() {
	if c.Page < 0 {
		c.Page = 0
	}
	if c.Size < 1 {
		c.Size = DefaultSearchPageSize
	}
	if c.Size > MaxSearchPageSize {
		c.Size = MaxSearchPageSize
	}
	if c.SortBy == "" {
		c.SortBy = "createdAt"
	}
	if c.SortOrder == "" {
		c.SortOrder = "desc"
	}
}

// EventSearchResult is a page of matching events plus pagination metadata.
// swagger:model EventSearchResult
type EventSearchResult struct {
	Events        []*Event `json:"events"`
	TotalElements int      `json:"total_elements"`
	TotalPages    int      `json:"total_pages"`
	CurrentPage   int      `json:"current_page"`
	PageSize      int      `json:"page_size"`
	HasNext       bool     `json:"has_next"`
	HasPrevious   bool     `json:"has_previous"`
}

// NewEventSearchResult builds an EventSearchResult for a 0-based page.
// TotalPages is ceiling(total / pageSize).
func NewEventSearchResult(events []*Event, total, page, pageSize int) *EventSearchResult {
	if events == nil {
		events = []*Event{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return &EventSearchResult{
		Events:        events,
		TotalElements: total,
		TotalPages:    totalPages,
		CurrentPage:   page,
		PageSize:      pageSize,
		HasNext:       page < totalPages-1,
		HasPrevious:   page > 0,
	}
}

// EventRepository defines storage operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	UpdateStatus(ctx context.Context, id string, status EventStatus) (*Event, error)
	// Delete removes the event and all of its participant rows in one
	// transaction. Returns ErrNotFound if the event does not exist.
	Delete(ctx context.Context, id string) error
	// UpdateParticipantCount pushes a recomputed participant count onto the
	// event row. It is a no-op if the event no longer exists.
	UpdateParticipantCount(ctx context.Context, id string, count int) error
	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status EventStatus) (int, error)
	// Search returns one page of matching events and the total match count.
	Search(ctx context.Context, criteria EventSearchCriteria) ([]*Event, int, error)
}

// EventService defines the business logic for event lifecycle management.
type EventService interface {
	Create(ctx context.Context, event *Event) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, id string, event *Event) (*Event, error)
	UpdateStatus(ctx context.Context, id string, status EventStatus) (*Event, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (*EventStatistics, error)
	Search(ctx context.Context, criteria EventSearchCriteria) (*EventSearchResult, error)
}
