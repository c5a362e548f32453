package handlers

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trip-guide/internal/client"
	"trip-guide/internal/guide"
	"trip-guide/internal/middleware"
	"trip-guide/internal/models"
	"trip-guide/internal/schedule"
	"trip-guide/internal/util"
)

// carouselInterval is how long each hero image stays up, in seconds.
const carouselInterval = 5

// GuideService is the guide builder as the public pages use it.
type GuideService interface {
	Load(ctx context.Context, slug string) (*guide.Guide, error)
	Schedule(ctx context.Context, slug string, override schedule.TripStatus) ([]guide.ScheduleDay, schedule.TripStatus, error)
	Calendar(ctx context.Context, slug string) (string, error)
}

// PreferenceStore keeps each visitor's collapsed itinerary days.
type PreferenceStore interface {
	GetCollapsedDays(ctx context.Context, visitorID uuid.UUID, slug string) ([]string, error)
	SetCollapsedDays(ctx context.Context, p *models.VisitorPreference) error
}

type GuideHandler struct {
	guides GuideService
	prefs  PreferenceStore
	clock  func() time.Time
	logger *zap.Logger
}

func NewGuideHandler(guides GuideService, prefs PreferenceStore, logger *zap.Logger) *GuideHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuideHandler{guides: guides, prefs: prefs, clock: time.Now, logger: logger.Named("guide_http")}
}

// guideStatus maps a guide load failure onto an HTTP status and a message
// fit for visitors.
func guideStatus(err error) (int, string) {
	switch {
	case errors.Is(err, client.ErrNotFound):
		return http.StatusNotFound, "Trip not found"
	case client.IsUpstreamFailure(err):
		return http.StatusBadGateway, "This trip guide is temporarily unavailable. Please try again shortly."
	default:
		return http.StatusInternalServerError, "Something went wrong loading this trip guide"
	}
}

func (h *GuideHandler) logFailure(slug string, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.Warn("guide load failed", zap.String("slug", slug), zap.Int("status", status), zap.Error(err))
	}
}

// collapsed returns the visitor's collapsed days for slug. Lookup failures
// only cost the visitor their folding, so they are logged and ignored.
func (h *GuideHandler) collapsed(r *http.Request, slug string) guide.CollapsedDays {
	visitor := middleware.GetVisitorID(r)
	if visitor == uuid.Nil || h.prefs == nil {
		return guide.NewCollapsedDays(nil)
	}
	keys, err := h.prefs.GetCollapsedDays(r.Context(), visitor, slug)
	if err != nil {
		h.logger.Warn("load collapsed days", zap.String("slug", slug), zap.Error(err))
		return guide.NewCollapsedDays(nil)
	}
	return guide.NewCollapsedDays(keys)
}

// Page renders GET /trips/{slug}?tab=
func (h *GuideHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	g, err := h.guides.Load(r.Context(), slug)
	if err != nil {
		status, message := guideStatus(err)
		h.logFailure(slug, status, err)
		renderTemplate(w, r, status, "not_found.html", map[string]any{
			"Title":   "Trip Guide",
			"Heading": http.StatusText(status),
			"Message": message,
		})
		return
	}
	h.collapsed(r, slug).Apply(g.Itinerary)

	renderTemplate(w, r, http.StatusOK, "guide.html", map[string]any{
		"Title":     g.Trip.Name + " - Trip Guide",
		"Guide":     g,
		"Tab":       guide.ParseTab(r.URL.Query().Get("tab")),
		"Tabs":      guide.Tabs,
		"HeroIndex": guide.CarouselIndex(len(g.Hero), h.clock().Unix(), carouselInterval),
	})
}

// JSON serves GET /api/guide/{slug}
func (h *GuideHandler) JSON(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	g, err := h.guides.Load(r.Context(), slug)
	if err != nil {
		status, message := guideStatus(err)
		h.logFailure(slug, status, err)
		jsonError(w, status, message)
		return
	}
	h.collapsed(r, slug).Apply(g.Itinerary)
	jsonResponse(w, http.StatusOK, g)
}

// Schedule serves GET /api/guide/{slug}/schedule?status=
// Only editors may preview the schedule under another status.
func (h *GuideHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	var override schedule.TripStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		if !IsEditor(r) {
			jsonError(w, http.StatusForbidden, "Status preview requires an editor session")
			return
		}
		s, err := schedule.ParseTripStatus(raw)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "status must be one of upcoming, current or past")
			return
		}
		override = s
	}

	days, status, err := h.guides.Schedule(r.Context(), slug, override)
	if err != nil {
		code, message := guideStatus(err)
		h.logFailure(slug, code, err)
		jsonError(w, code, message)
		return
	}
	if days == nil {
		days = []guide.ScheduleDay{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"status": status,
		"days":   days,
	})
}

// Calendar serves GET /trips/{slug}/calendar.ics
func (h *GuideHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	ics, err := h.guides.Calendar(r.Context(), slug)
	if err != nil {
		status, message := guideStatus(err)
		h.logFailure(slug, status, err)
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": slug + ".ics"}))
	_, _ = w.Write([]byte(ics))
}

type collapsedRequest struct {
	// Days replaces the whole set when present.
	Days []string `json:"days"`
	// Toggle flips a single day.
	Toggle string `json:"toggle"`
}

// GetCollapsed serves GET /api/guide/{slug}/collapsed
func (h *GuideHandler) GetCollapsed(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string][]string{"days": h.collapsed(r, r.PathValue("slug")).Keys()})
}

// PutCollapsed serves PUT /api/guide/{slug}/collapsed
func (h *GuideHandler) PutCollapsed(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	visitor := middleware.GetVisitorID(r)
	if visitor == uuid.Nil || h.prefs == nil {
		jsonError(w, http.StatusBadRequest, "Visitor cookie required")
		return
	}

	var req collapsedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var set guide.CollapsedDays
	switch {
	case req.Toggle != "":
		if !util.IsDate(req.Toggle) {
			jsonError(w, http.StatusBadRequest, "toggle must be a YYYY-MM-DD date")
			return
		}
		set = h.collapsed(r, slug)
		set.Toggle(req.Toggle)
	case req.Days != nil:
		set = guide.NewCollapsedDays(req.Days)
	default:
		jsonError(w, http.StatusBadRequest, "Either days or toggle is required")
		return
	}

	pref := &models.VisitorPreference{VisitorID: visitor, Slug: slug, CollapsedDays: set.Keys()}
	if err := h.prefs.SetCollapsedDays(r.Context(), pref); err != nil {
		h.logger.Error("save collapsed days", zap.String("slug", slug), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}
	jsonResponse(w, http.StatusOK, map[string][]string{"days": pref.CollapsedDays})
}
