package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"teamhub/internal/delivery/http/controllers"
	"teamhub/internal/delivery/http/middleware"
	"teamhub/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Every event route requires a Bearer token; the token subject is the acting member.
func NewRouter(eventController *controllers.EventController, rosterController *controllers.RosterController,
	verifier domain.TokenVerifier, gatherer prometheus.Gatherer, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.GetEvent))
	mux.HandleFunc("PUT /events/{eventID}", auth(eventController.UpdateEvent))
	mux.HandleFunc("POST /events/{eventID}/cancel", auth(eventController.CancelEvent))

	// Invitations
	mux.HandleFunc("GET /events/{eventID}/invitations", auth(rosterController.ListInvitations))
	mux.HandleFunc("PATCH /events/{eventID}/invitations", auth(rosterController.UpdateInvitations))
	mux.HandleFunc("PUT /events/{eventID}/invitations/me", auth(rosterController.RespondInvitation))

	// Squad
	mux.HandleFunc("GET /events/{eventID}/squad", auth(rosterController.ListSquad))
	mux.HandleFunc("PATCH /events/{eventID}/squad", auth(rosterController.UpdateSquad))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Metrics
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return mux
}
