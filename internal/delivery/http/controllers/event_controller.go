package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// EventRequest is the request body for creating and updating events.
type EventRequest struct {
	EventName       string    `json:"event_name"`
	Description     string    `json:"description"`
	StartDateTime   time.Time `json:"start_date_time"`
	EndDateTime     time.Time `json:"end_date_time"`
	Location        string    `json:"location"`
	Organizer       string    `json:"organizer"`
	MaxParticipants int       `json:"max_participants"`
}

// Validate implements helpers.Validator.
func (e EventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(e.EventName) == "" {
		errs = append(errs, "event_name is required")
	}
	if e.StartDateTime.IsZero() {
		errs = append(errs, "start_date_time is required")
	}
	if e.EndDateTime.IsZero() {
		errs = append(errs, "end_date_time is required")
	}
	if e.MaxParticipants < 1 {
		errs = append(errs, "max_participants must be at least 1")
	}
	return errs
}

func (e EventRequest) toDomain() *domain.Event {
	return &domain.Event{
		Name:            strings.TrimSpace(e.EventName),
		Description:     e.Description,
		StartDateTime:   e.StartDateTime,
		EndDateTime:     e.EndDateTime,
		Location:        e.Location,
		Organizer:       e.Organizer,
		MaxParticipants: e.MaxParticipants,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event with status ACTIVE and zero participants. Start must be in the future and before end.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Service.Create(r.Context(), req.toDomain())
	if err != nil {
		respondServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, "event created successfully", event)
}

// ListEvents godoc
// @Summary List all events
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data is an array of events"
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.List(r.Context())
	if err != nil {
		respondServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "events retrieved successfully", events)
}

// GetEvent godoc
// @Summary Get one event
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !validID(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, "invalid eventID")
		return
	}

	event, err := c.Service.GetByID(r.Context(), eventID)
	if err != nil {
		respondServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "event retrieved successfully", event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Overwrites the event's mutable fields. Validation matches creation.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body EventRequest true "Event data"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !validID(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, "invalid eventID")
		return
	}

	var req EventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Service.Update(r.Context(), eventID, req.toDomain())
	if err != nil {
		respondServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "event updated successfully", event)
}

// EventStatusRequest is the request body for PATCH /api/events/{eventID}/status.
type EventStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements helpers.Validator.
func (e EventStatusRequest) Validate() []string {
	if !domain.EventStatus(e.Status).Valid() {
		return []string{"status must be one of ACTIVE, COMPLETED, CANCELLED"}
	}
	return nil
}

// UpdateEventStatus godoc
// @Summary Update an event's status
// @Description Sets the event status. Non-active events reject new registrations.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body EventStatusRequest true "Target status"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{eventID}/status [patch]
func (c *EventController) UpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !validID(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, "invalid eventID")
		return
	}

	var req EventStatusRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Service.UpdateStatus(r.Context(), eventID, domain.EventStatus(req.Status))
	if err != nil {
		respondServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "event status updated successfully", event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and all of its registrations.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !validID(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, "invalid eventID")
		return
	}

	if err := c.Service.Delete(r.Context(), eventID); err != nil {
		respondServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "event deleted successfully", nil)
}

// GetStatistics godoc
// @Summary Event statistics
// @Description Total, active, completed, and cancelled event counts, computed at call time.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the statistics"
// @Failure 401 {object} helpers.APIResponse
// @Failure 403 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/statistics [get]
func (c *EventController) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.Statistics(r.Context())
	if err != nil {
		respondServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "statistics retrieved successfully", stats)
}

// EventSearchRequest is the request body for POST /api/events/search.
// Page is 0-based; all supplied filters combine with AND.
type EventSearchRequest struct {
	Keyword       string     `json:"keyword"`
	Status        string     `json:"status"`
	Organizer     string     `json:"organizer"`
	Location      string     `json:"location"`
	StartDateFrom *time.Time `json:"start_date_from"`
	StartDateTo   *time.Time `json:"start_date_to"`
	EndDateFrom   *time.Time `json:"end_date_from"`
	EndDateTo     *time.Time `json:"end_date_to"`
	Page          int        `json:"page"`
	Size          int        `json:"size"`
	SortBy        string     `json:"sort_by"`
	SortOrder     string     `json:"sort_order"`
}

// Validate implements helpers.Validator.
func (s EventSearchRequest) Validate() []string {
	var errs []string
	if s.Page < 0 {
		errs = append(errs, "page must be non-negative")
	}
	if s.Status != "" && !domain.EventStatus(s.Status).Valid() {
		errs = append(errs, "status must be one of ACTIVE, COMPLETED, CANCELLED")
	}
	if o := strings.ToLower(s.SortOrder); o != "" && o != "asc" && o != "desc" {
		errs = append(errs, "sort_order must be \"asc\" or \"desc\"")
	}
	return errs
}

// SearchEvents godoc
// @Summary Search events
// @Description Search with keyword, status, organizer, location, and date-range filters, paginated and sorted.
// @Tags events
// @Accept json
// @Produce json
// @Param body body EventSearchRequest true "Search criteria"
// @Success 200 {object} helpers.APIResponse "data contains the paginated result"
// @Failure 400 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/search [post]
func (c *EventController) SearchEvents(w http.ResponseWriter, r *http.Request) {
	var req EventSearchRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.Service.Search(r.Context(), domain.EventSearchCriteria{
		Keyword:       strings.TrimSpace(req.Keyword),
		Status:        domain.EventStatus(req.Status),
		Organizer:     strings.TrimSpace(req.Organizer),
		Location:      strings.TrimSpace(req.Location),
		StartDateFrom: req.StartDateFrom,
		StartDateTo:   req.StartDateTo,
		EndDateFrom:   req.EndDateFrom,
		EndDateTo:     req.EndDateTo,
		Page:          req.Page,
		Size:          req.Size,
		SortBy:        req.SortBy,
		SortOrder:     req.SortOrder,
	})
	if err != nil {
		respondServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "search completed successfully", result)
}
