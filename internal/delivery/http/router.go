package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventregistry/internal/delivery/http/controllers"
	h "eventregistry/internal/delivery/http/helpers"
	"eventregistry/internal/delivery/http/middleware"
	"eventregistry/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Authorization is explicit per route: admin-only management routes wrap
// RequireRole(ADMIN) inside RequireAuth; registration routes require any
// authenticated user; event reads and search are public.
func NewRouter(
	eventController *controllers.EventController,
	participantController *controllers.ParticipantController,
	authController *controllers.AuthController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(next))
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		h.WriteJSONSuccess(w, http.StatusOK, "ok", nil)
	})

	// Auth
	mux.HandleFunc("POST /api/auth/register", authController.SignUp)
	mux.HandleFunc("POST /api/auth/login", authController.Login)
	mux.HandleFunc("GET /api/auth/me", auth(authController.Me))

	// Events
	mux.HandleFunc("GET /api/events", eventController.ListEvents)
	mux.HandleFunc("GET /api/events/statistics", admin(eventController.GetStatistics))
	mux.HandleFunc("GET /api/events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("POST /api/events", admin(eventController.CreateEvent))
	mux.HandleFunc("POST /api/events/search", eventController.SearchEvents)
	mux.HandleFunc("PUT /api/events/{eventID}", admin(eventController.UpdateEvent))
	mux.HandleFunc("PATCH /api/events/{eventID}/status", admin(eventController.UpdateEventStatus))
	mux.HandleFunc("DELETE /api/events/{eventID}", admin(eventController.DeleteEvent))

	// Registrations
	mux.HandleFunc("POST /api/events/{eventID}/participants", auth(participantController.Register))
	mux.HandleFunc("GET /api/events/{eventID}/participants", auth(participantController.ListEventParticipants))
	mux.HandleFunc("DELETE /api/events/{eventID}/participants/{email}", auth(participantController.CancelByEventAndEmail))
	mux.HandleFunc("DELETE /api/participants/{participationID}", auth(participantController.CancelParticipation))
	mux.HandleFunc("GET /api/participants", auth(participantController.ListParticipantEvents))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
