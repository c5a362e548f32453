package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trip-guide/internal/client"
	"trip-guide/internal/guide"
	"trip-guide/internal/middleware"
	"trip-guide/internal/models"
	"trip-guide/internal/wizard"
)

// Catalog is the CMS reference data the wizard pickers read.
type Catalog interface {
	Trips(ctx context.Context) ([]client.Trip, error)
	EventTypes(ctx context.Context) ([]client.EventType, error)
	LocationTypes(ctx context.Context) ([]client.LocationType, error)
	Locations(ctx context.Context, search string) ([]client.Location, error)
	VenueTypes(ctx context.Context) ([]client.VenueType, error)
	Venues(ctx context.Context) ([]client.Venue, error)
	Amenities(ctx context.Context) ([]client.Amenity, error)
	Ships(ctx context.Context) ([]client.Ship, error)
	Resorts(ctx context.Context) ([]client.Resort, error)
	PropertyVenues(ctx context.Context, kind client.PropertyKind, id int64) ([]client.Venue, error)
	PropertyAmenities(ctx context.Context, kind client.PropertyKind, id int64) ([]client.Amenity, error)
	PartyThemes(ctx context.Context) ([]client.PartyTheme, error)

	AdminTrip(ctx context.Context, tripID int64) (*client.Trip, error)
	AdminItinerary(ctx context.Context, tripID int64) ([]client.ItineraryDay, error)
	AdminEvents(ctx context.Context, tripID int64) ([]client.Event, error)
	AdminTalent(ctx context.Context, tripID int64) ([]client.Talent, error)
	Users(ctx context.Context) ([]client.User, error)
}

// AuditReader lists recent wizard writes.
type AuditReader interface {
	RecentAudit(ctx context.Context, limit int) ([]*models.AuditEntry, error)
}

type AdminHandler struct {
	editor   *wizard.Editor
	sessions *wizard.Sessions
	catalog  Catalog
	audit    AuditReader
	loc      *time.Location
	clock    func() time.Time
	logger   *zap.Logger
}

func NewAdminHandler(editor *wizard.Editor, sessions *wizard.Sessions, catalog Catalog, audit AuditReader, loc *time.Location, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &AdminHandler{
		editor:   editor,
		sessions: sessions,
		catalog:  catalog,
		audit:    audit,
		loc:      loc,
		clock:    time.Now,
		logger:   logger.Named("admin"),
	}
}

// actor names the signed-in editor in audit entries and draft keys.
func actor(r *http.Request) string {
	if email := middleware.GetUserEmail(r); email != "" {
		return email
	}
	return middleware.GetUserID(r)
}

// tripID reads {tripID}, answering 400 itself when it is malformed.
func tripID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := pathID(r, "tripID")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid trip ID")
	}
	return id, ok
}

func entityID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "Invalid ID")
	}
	return id, ok
}

// decodeForm reads the JSON body into form, answering 400 itself on failure.
func decodeForm(w http.ResponseWriter, r *http.Request, form any) bool {
	if err := decodeJSON(w, r, form); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func createdOr(isNew bool) int {
	if isNew {
		return http.StatusCreated
	}
	return http.StatusOK
}

// Dashboard renders GET /admin
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{"Title": "Admin - Trip Guide"}

	trips, err := h.catalog.Trips(r.Context())
	if err != nil {
		h.logger.Warn("list trips", zap.Error(err))
		data["TripsError"] = client.Message(err, "Trips could not be loaded")
	}
	now := h.clock().In(h.loc)
	for i := range trips {
		trips[i].Status = string(guide.TripStatus(trips[i], now))
	}
	data["Trips"] = trips

	if h.audit != nil {
		entries, err := h.audit.RecentAudit(r.Context(), 20)
		if err != nil {
			h.logger.Warn("recent audit", zap.Error(err))
		}
		data["Audit"] = entries
	}
	renderTemplate(w, r, http.StatusOK, "admin.html", data)
}

// Me serves GET /admin/api/me
func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"id":               middleware.GetUserID(r),
		"email":            middleware.GetUserEmail(r),
		"role":             middleware.GetUserRole(r),
		"can_manage_users": IsAdmin(r),
	})
}

// Audit serves GET /admin/api/audit?limit=
func (h *AdminHandler) Audit(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			jsonError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}
	entries, err := h.audit.RecentAudit(r.Context(), limit)
	if err != nil {
		h.logger.Error("recent audit", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "Failed to load audit log")
		return
	}
	if entries == nil {
		entries = []*models.AuditEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}

// Lookups serves GET /admin/api/lookups: every picker list in one round trip.
func (h *AdminHandler) Lookups(w http.ResponseWriter, r *http.Request) {
	var (
		eventTypes    []client.EventType
		locationTypes []client.LocationType
		locations     []client.Location
		venueTypes    []client.VenueType
		venues        []client.Venue
		amenities     []client.Amenity
		ships         []client.Ship
		resorts       []client.Resort
		themes        []client.PartyTheme
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) { eventTypes, err = h.catalog.EventTypes(ctx); return })
	g.Go(func() (err error) { locationTypes, err = h.catalog.LocationTypes(ctx); return })
	g.Go(func() (err error) { locations, err = h.catalog.Locations(ctx, r.URL.Query().Get("search")); return })
	g.Go(func() (err error) { venueTypes, err = h.catalog.VenueTypes(ctx); return })
	g.Go(func() (err error) { venues, err = h.catalog.Venues(ctx); return })
	g.Go(func() (err error) { amenities, err = h.catalog.Amenities(ctx); return })
	g.Go(func() (err error) { ships, err = h.catalog.Ships(ctx); return })
	g.Go(func() (err error) { resorts, err = h.catalog.Resorts(ctx); return })
	g.Go(func() (err error) { themes, err = h.catalog.PartyThemes(ctx); return })
	if err := g.Wait(); err != nil {
		h.logger.Warn("load lookups", zap.Error(err))
		jsonError(w, errorStatus(err), client.Message(err, "Failed to load lookup tables"))
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"event_types":    eventTypes,
		"location_types": locationTypes,
		"locations":      locations,
		"venue_types":    venueTypes,
		"venues":         venues,
		"amenities":      amenities,
		"ships":          ships,
		"resorts":        resorts,
		"party_themes":   mapForms(themes, wizard.FromPartyTheme),
	})
}

func mapForms[T, F any](items []T, from func(T) F) []F {
	out := make([]F, 0, len(items))
	for _, it := range items {
		out = append(out, from(it))
	}
	return out
}

// TripContent serves GET /admin/api/trips/{tripID}: the trip plus its
// itinerary, events and talent as prefilled wizard forms.
func (h *AdminHandler) TripContent(w http.ResponseWriter, r *http.Request) {
	id, ok := tripID(w, r)
	if !ok {
		return
	}
	var (
		trip      *client.Trip
		itinerary []client.ItineraryDay
		events    []client.Event
		talent    []client.Talent
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) { trip, err = h.catalog.AdminTrip(ctx, id); return })
	g.Go(func() (err error) { itinerary, err = h.catalog.AdminItinerary(ctx, id); return })
	g.Go(func() (err error) { events, err = h.catalog.AdminEvents(ctx, id); return })
	g.Go(func() (err error) { talent, err = h.catalog.AdminTalent(ctx, id); return })
	if err := g.Wait(); err != nil {
		h.logger.Warn("load trip content", zap.Int64("trip_id", id), zap.Error(err))
		jsonError(w, errorStatus(err), client.Message(err, "Failed to load trip"))
		return
	}
	trip.Status = string(guide.TripStatus(*trip, h.clock().In(h.loc)))
	jsonResponse(w, http.StatusOK, map[string]any{
		"trip":      trip,
		"itinerary": mapForms(itinerary, wizard.FromItineraryDay),
		"events":    mapForms(events, wizard.FromEvent),
		"talent":    mapForms(talent, wizard.FromTalent),
	})
}

// Users serves GET /admin/api/users
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.catalog.Users(r.Context())
	if err != nil {
		h.logger.Warn("list users", zap.Error(err))
		jsonError(w, errorStatus(err), client.Message(err, "Failed to load users"))
		return
	}
	jsonResponse(w, http.StatusOK, mapForms(users, wizard.FromUser))
}

// SaveEvent serves POST /admin/api/trips/{tripID}/events and PUT .../events/{id}
func (h *AdminHandler) SaveEvent(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	var form wizard.EventForm
	if !decodeForm(w, r, &form) {
		return
	}
	form.ID, _ = pathID(r, "id")
	out, toast, err := h.editor.SaveEvent(r.Context(), actor(r), trip, form)
	reply(w, h.logger, createdOr(form.ID == 0), toast, out, err)
}

func (h *AdminHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	toast, err := h.editor.DeleteEvent(r.Context(), actor(r), trip, id)
	reply(w, h.logger, http.StatusOK, toast, nil, err)
}

// Updates serves GET /admin/api/trips/{tripID}/updates
func (h *AdminHandler) Updates(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	board, err := h.editor.Board(r.Context(), trip)
	if err != nil {
		jsonError(w, errorStatus(err), client.Message(err, "Failed to load updates"))
		return
	}
	jsonResponse(w, http.StatusOK, board.Items())
}

func (h *AdminHandler) SaveUpdate(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	var form wizard.UpdateForm
	if !decodeForm(w, r, &form) {
		return
	}
	form.ID, _ = pathID(r, "id")
	out, toast, err := h.editor.SaveUpdate(r.Context(), actor(r), trip, form)
	reply(w, h.logger, createdOr(form.ID == 0), toast, out, err)
}

type moveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// MoveUpdate serves POST /admin/api/trips/{tripID}/updates/move. On failure
// the body still carries the list the editor should now display.
func (h *AdminHandler) MoveUpdate(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if !decodeForm(w, r, &req) {
		return
	}
	items, toast, err := h.editor.MoveUpdate(r.Context(), actor(r), trip, req.From, req.To)
	if err != nil && items != nil {
		jsonResponse(w, errorStatus(err), result{Toast: toast, Data: items})
		return
	}
	reply(w, h.logger, http.StatusOK, toast, items, err)
}

func (h *AdminHandler) DeleteUpdate(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	items, toast, err := h.editor.DeleteUpdate(r.Context(), actor(r), trip, id)
	if err != nil && items != nil {
		jsonResponse(w, errorStatus(err), result{Toast: toast, Data: items})
		return
	}
	reply(w, h.logger, http.StatusOK, toast, items, err)
}

func (h *AdminHandler) SaveItineraryDay(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	var form wizard.ItineraryDayForm
	if !decodeForm(w, r, &form) {
		return
	}
	form.ID, _ = pathID(r, "id")
	out, toast, err := h.editor.SaveItineraryDay(r.Context(), actor(r), trip, form)
	reply(w, h.logger, createdOr(form.ID == 0), toast, out, err)
}

func (h *AdminHandler) DeleteItineraryDay(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	toast, err := h.editor.DeleteItineraryDay(r.Context(), actor(r), trip, id)
	reply(w, h.logger, http.StatusOK, toast, nil, err)
}

func (h *AdminHandler) AddTalent(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	var form wizard.TalentForm
	if !decodeForm(w, r, &form) {
		return
	}
	out, toast, err := h.editor.AddTalent(r.Context(), actor(r), trip, form)
	reply(w, h.logger, http.StatusCreated, toast, out, err)
}

func (h *AdminHandler) RemoveTalent(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	toast, err := h.editor.RemoveTalent(r.Context(), actor(r), trip, id)
	reply(w, h.logger, http.StatusOK, toast, nil, err)
}

func (h *AdminHandler) SavePartyTheme(w http.ResponseWriter, r *http.Request) {
	var form wizard.PartyThemeForm
	if !decodeForm(w, r, &form) {
		return
	}
	form.ID, _ = pathID(r, "id")
	out, toast, err := h.editor.SavePartyTheme(r.Context(), actor(r), form)
	reply(w, h.logger, createdOr(form.ID == 0), toast, out, err)
}

func (h *AdminHandler) DeletePartyTheme(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	toast, err := h.editor.DeletePartyTheme(r.Context(), actor(r), id)
	reply(w, h.logger, http.StatusOK, toast, nil, err)
}

func (h *AdminHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var form wizard.LocationForm
	if !decodeForm(w, r, &form) {
		return
	}
	out, toast, err := h.editor.CreateLocation(r.Context(), actor(r), form)
	reply(w, h.logger, http.StatusCreated, toast, out, err)
}

// propertyKind reads {kind}, answering 404 itself for anything but ships and resorts.
func propertyKind(w http.ResponseWriter, r *http.Request) (client.PropertyKind, bool) {
	switch k := client.PropertyKind(r.PathValue("kind")); k {
	case client.PropertyShip, client.PropertyResort:
		return k, true
	default:
		jsonError(w, http.StatusNotFound, "Unknown property type")
		return "", false
	}
}

type idsRequest struct {
	IDs []int64 `json:"ids"`
}

// PropertyFeatures serves GET /admin/api/{kind}/{id}/features: the venues and
// amenities currently attached to a ship or resort.
func (h *AdminHandler) PropertyFeatures(w http.ResponseWriter, r *http.Request) {
	kind, ok := propertyKind(w, r)
	if !ok {
		return
	}
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	var (
		venues    []client.Venue
		amenities []client.Amenity
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) { venues, err = h.catalog.PropertyVenues(ctx, kind, id); return })
	g.Go(func() (err error) { amenities, err = h.catalog.PropertyAmenities(ctx, kind, id); return })
	if err := g.Wait(); err != nil {
		jsonError(w, errorStatus(err), client.Message(err, "Failed to load property"))
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"venues": venues, "amenities": amenities})
}

func (h *AdminHandler) SetPropertyVenues(w http.ResponseWriter, r *http.Request) {
	kind, ok := propertyKind(w, r)
	if !ok {
		return
	}
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	var req idsRequest
	if !decodeForm(w, r, &req) {
		return
	}
	toast, err := h.editor.SetPropertyVenues(r.Context(), actor(r), kind, id, req.IDs)
	reply(w, h.logger, http.StatusOK, toast, nil, err)
}

func (h *AdminHandler) SetPropertyAmenities(w http.ResponseWriter, r *http.Request) {
	kind, ok := propertyKind(w, r)
	if !ok {
		return
	}
	id, ok := entityID(w, r)
	if !ok {
		return
	}
	var req idsRequest
	if !decodeForm(w, r, &req) {
		return
	}
	toast, err := h.editor.SetPropertyAmenities(r.Context(), actor(r), kind, id, req.IDs)
	reply(w, h.logger, http.StatusOK, toast, nil, err)
}

func (h *AdminHandler) SaveUser(w http.ResponseWriter, r *http.Request) {
	var form wizard.UserForm
	if !decodeForm(w, r, &form) {
		return
	}
	if id := r.PathValue("id"); id != "" {
		form.ID = id
	}
	out, toast, err := h.editor.SaveUser(r.Context(), actor(r), form)
	reply(w, h.logger, createdOr(form.ID == ""), toast, out, err)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	toast, err := h.editor.DeleteUser(r.Context(), actor(r), r.PathValue("id"))
	reply(w, h.logger, http.StatusOK, toast, nil, err)
}

type statusRequest struct {
	IsActive *bool `json:"is_active"`
}

func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeForm(w, r, &req) {
		return
	}
	if req.IsActive == nil {
		jsonError(w, http.StatusBadRequest, "is_active is required")
		return
	}
	out, toast, err := h.editor.SetUserActive(r.Context(), actor(r), r.PathValue("id"), *req.IsActive)
	reply(w, h.logger, http.StatusOK, toast, out, err)
}

// GetDraft serves GET /admin/api/trips/{tripID}/draft
func (h *AdminHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	s, err := h.sessions.Get(r.Context(), actor(r), trip)
	if err != nil {
		h.logger.Error("load draft", zap.Int64("trip_id", trip), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "Failed to load draft")
		return
	}
	jsonResponse(w, http.StatusOK, s.Draft())
}

// PutDraft serves PUT /admin/api/trips/{tripID}/draft
func (h *AdminHandler) PutDraft(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	var draft wizard.Draft
	if !decodeForm(w, r, &draft) {
		return
	}
	if draft.Step == "" {
		draft.Step = wizard.StepBasics
	}
	if _, err := wizard.ParseStep(string(draft.Step)); err != nil {
		jsonError(w, http.StatusBadRequest, "Unknown wizard step")
		return
	}

	s, err := h.sessions.Get(r.Context(), actor(r), trip)
	if err != nil {
		h.logger.Error("load draft", zap.Int64("trip_id", trip), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "Failed to load draft")
		return
	}
	s.Edit(func(d *wizard.Draft) { *d = draft })
	if err := h.sessions.Save(r.Context(), s); err != nil {
		h.logger.Error("save draft", zap.Int64("trip_id", trip), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "Failed to save draft")
		return
	}
	jsonResponse(w, http.StatusOK, s.Draft())
}

// DiscardDraft serves DELETE /admin/api/trips/{tripID}/draft
func (h *AdminHandler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	trip, ok := tripID(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Discard(r.Context(), actor(r), trip); err != nil {
		h.logger.Error("discard draft", zap.Int64("trip_id", trip), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "Failed to discard draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
