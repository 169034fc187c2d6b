package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	h "eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type ParticipantController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewParticipantController(logger *slog.Logger, svc domain.RegistrationService) *ParticipantController {
	return &ParticipantController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterRequest is the request body for POST /api/events/{eventID}/participants.
type RegisterRequest struct {
	ParticipantName  string `json:"participant_name"`
	ParticipantEmail string `json:"participant_email"`
	ParticipantPhone string `json:"participant_phone"`
}

// Validate implements helpers.Validator.
func (p RegisterRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.ParticipantName) == "" {
		errs = append(errs, "participant_name is required")
	}
	email := strings.ToLower(strings.TrimSpace(p.ParticipantEmail))
	if email == "" {
		errs = append(errs, "participant_email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid participant_email format")
	}
	return errs
}

// Register godoc
// @Summary Register a participant for an event
// @Description Registers the given email for the event. Fails when the event is missing, not ACTIVE, already has this email, or is fully booked. The event's participant count is updated in the same transaction.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body RegisterRequest true "Participant data"
// @Success 201 {object} helpers.APIResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "validation error, duplicate registration, event full, or non-active event"
// @Failure 401 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{eventID}/participants [post]
func (c *ParticipantController) Register(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !validID(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, "invalid eventID")
		return
	}

	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	participant, err := c.Service.Register(r.Context(), eventID, req.ParticipantName, req.ParticipantEmail, req.ParticipantPhone)
	if err != nil {
		respondServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, "participant registered successfully", participant)
}

// ListEventParticipants godoc
// @Summary List participants of an event
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data is an array of participants"
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{eventID}/participants [get]
func (c *ParticipantController) ListEventParticipants(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !validID(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, "invalid eventID")
		return
	}

	participants, err := c.Service.ListByEvent(r.Context(), eventID)
	if err != nil {
		respondServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "participants retrieved successfully", participants)
}

// CancelParticipation godoc
// @Summary Cancel a registration by participation ID
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param participationID path string true "Participation ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/participants/{participationID} [delete]
func (c *ParticipantController) CancelParticipation(w http.ResponseWriter, r *http.Request) {
	participationID := r.PathValue("participationID")
	if !validID(participationID) {
		h.WriteJSONError(w, http.StatusBadRequest, "invalid participationID")
		return
	}

	if err := c.Service.Cancel(r.Context(), participationID); err != nil {
		respondServiceError(w, r, c.Logger, err, "participation not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "participation cancelled successfully", nil)
}

// CancelByEventAndEmail godoc
// @Summary Cancel a registration by event and email
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param email path string true "Participant email"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/events/{eventID}/participants/{email} [delete]
func (c *ParticipantController) CancelByEventAndEmail(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !validID(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, "invalid eventID")
		return
	}
	email := strings.ToLower(strings.TrimSpace(r.PathValue("email")))
	if email == "" {
		h.WriteJSONError(w, http.StatusBadRequest, "missing email")
		return
	}

	if err := c.Service.CancelByEventAndEmail(r.Context(), eventID, email); err != nil {
		respondServiceError(w, r, c.Logger, err, "participation not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "participation cancelled successfully", nil)
}

// ListParticipantEvents godoc
// @Summary List registrations for an email across all events
// @Description Returns every registration recorded for the email. An unknown email yields an empty list.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param email query string true "Participant email"
// @Success 200 {object} helpers.APIResponse "data is an array of registrations"
// @Failure 400 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse
// @Failure 500 {object} helpers.APIResponse
// @Router /api/participants [get]
func (c *ParticipantController) ListParticipantEvents(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if email == "" {
		h.WriteJSONError(w, http.StatusBadRequest, "missing email query parameter")
		return
	}

	participants, err := c.Service.ListByParticipant(r.Context(), email)
	if err != nil {
		respondServiceError(w, r, c.Logger, err, "participation not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, "registrations retrieved successfully", participants)
}
