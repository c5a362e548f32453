package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"trip-guide/internal/config"
	"trip-guide/internal/middleware"
)

// Server bundles everything the router dispatches to.
type Server struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics middleware.HTTPRecorder
	// MetricsHandler serves GET /metrics when set.
	MetricsHandler http.Handler

	Auth   *AuthHandler
	Guide  *GuideHandler
	Admin  *AdminHandler
	Health *HealthHandler
}

type nopHTTPRecorder struct{}

func (nopHTTPRecorder) RecordHTTPRequest(string, string, string, float64) {}

// Routes builds the HTTP handler: request logging and the visitor cookie wrap
// every route, and each route records its own metrics.
func (s *Server) Routes() http.Handler {
	rec := s.Metrics
	if rec == nil {
		rec = nopHTTPRecorder{}
	}
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	secret := s.Config.SessionSecret

	mux := http.NewServeMux()
	handle := func(pattern, route string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.Metrics(h, route, rec))
	}
	page := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireAuth(h, secret)
	}
	editor := middleware.RequireRole(editorRoles, secret)
	admin := middleware.RequireRole(adminRoles, secret)

	if s.Config.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.Config.StaticDir))))
	}
	if s.MetricsHandler != nil {
		mux.Handle("GET /metrics", s.MetricsHandler)
	}
	handle("GET /healthz", "healthz", s.Health.Healthz)

	handle("GET /login", "login", s.Auth.LoginForm)
	handle("POST /login", "login", s.Auth.Login)
	handle("POST /logout", "logout", s.Auth.Logout)

	handle("GET /trips/{slug}", "guide_page", s.Guide.Page)
	handle("GET /trips/{slug}/calendar.ics", "guide_calendar", s.Guide.Calendar)
	handle("GET /api/guide/{slug}", "guide_json", s.Guide.JSON)
	handle("GET /api/guide/{slug}/schedule", "guide_schedule", middleware.OptionalAuth(s.Guide.Schedule, secret))
	handle("GET /api/guide/{slug}/collapsed", "guide_collapsed", s.Guide.GetCollapsed)
	handle("PUT /api/guide/{slug}/collapsed", "guide_collapsed", s.Guide.PutCollapsed)

	a := s.Admin
	handle("GET /admin", "admin_dashboard", page(a.Dashboard))
	handle("GET /admin/api/me", "admin_me", editor(a.Me))
	handle("GET /admin/api/audit", "admin_audit", editor(a.Audit))
	handle("GET /admin/api/lookups", "admin_lookups", editor(a.Lookups))

	handle("GET /admin/api/trips/{tripID}", "admin_trip", editor(a.TripContent))
	handle("POST /admin/api/trips/{tripID}/events", "admin_events", editor(a.SaveEvent))
	handle("PUT /admin/api/trips/{tripID}/events/{id}", "admin_events", editor(a.SaveEvent))
	handle("DELETE /admin/api/trips/{tripID}/events/{id}", "admin_events", editor(a.DeleteEvent))

	handle("GET /admin/api/trips/{tripID}/updates", "admin_updates", editor(a.Updates))
	handle("POST /admin/api/trips/{tripID}/updates", "admin_updates", editor(a.SaveUpdate))
	handle("PUT /admin/api/trips/{tripID}/updates/{id}", "admin_updates", editor(a.SaveUpdate))
	handle("POST /admin/api/trips/{tripID}/updates/move", "admin_updates_move", editor(a.MoveUpdate))
	handle("DELETE /admin/api/trips/{tripID}/updates/{id}", "admin_updates", editor(a.DeleteUpdate))

	handle("POST /admin/api/trips/{tripID}/itinerary", "admin_itinerary", editor(a.SaveItineraryDay))
	handle("PUT /admin/api/trips/{tripID}/itinerary/{id}", "admin_itinerary", editor(a.SaveItineraryDay))
	handle("DELETE /admin/api/trips/{tripID}/itinerary/{id}", "admin_itinerary", editor(a.DeleteItineraryDay))

	handle("POST /admin/api/trips/{tripID}/talent", "admin_talent", editor(a.AddTalent))
	handle("DELETE /admin/api/trips/{tripID}/talent/{id}", "admin_talent", editor(a.RemoveTalent))

	handle("GET /admin/api/trips/{tripID}/draft", "admin_draft", editor(a.GetDraft))
	handle("PUT /admin/api/trips/{tripID}/draft", "admin_draft", editor(a.PutDraft))
	handle("DELETE /admin/api/trips/{tripID}/draft", "admin_draft", editor(a.DiscardDraft))

	handle("POST /admin/api/party-themes", "admin_party_themes", editor(a.SavePartyTheme))
	handle("PUT /admin/api/party-themes/{id}", "admin_party_themes", editor(a.SavePartyTheme))
	handle("DELETE /admin/api/party-themes/{id}", "admin_party_themes", editor(a.DeletePartyTheme))

	handle("POST /admin/api/locations", "admin_locations", editor(a.CreateLocation))
	handle("GET /admin/api/{kind}/{id}/features", "admin_properties", editor(a.PropertyFeatures))
	handle("PUT /admin/api/{kind}/{id}/venues", "admin_properties", editor(a.SetPropertyVenues))
	handle("PUT /admin/api/{kind}/{id}/amenities", "admin_properties", editor(a.SetPropertyAmenities))

	handle("GET /admin/api/users", "admin_users", admin(a.Users))
	handle("POST /admin/api/users", "admin_users", admin(a.SaveUser))
	handle("PUT /admin/api/users/{id}", "admin_users", admin(a.SaveUser))
	handle("DELETE /admin/api/users/{id}", "admin_users", admin(a.DeleteUser))
	handle("PATCH /admin/api/users/{id}/status", "admin_users", admin(a.SetUserStatus))

	return middleware.Logging(middleware.Visitor(mux, s.Config.SecureCookies), logger)
}
