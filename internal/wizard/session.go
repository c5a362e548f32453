package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"trip-guide/internal/models"
)

// Step is a page of the trip wizard.
type Step string

const (
	StepBasics    Step = "basics"
	StepItinerary Step = "itinerary"
	StepEvents    Step = "events"
	StepTalent    Step = "talent"
	StepUpdates   Step = "updates"
	StepReview    Step = "review"
)

var stepOrder = []Step{StepBasics, StepItinerary, StepEvents, StepTalent, StepUpdates, StepReview}

// ParseStep accepts any known step name.
func ParseStep(s string) (Step, error) {
	for _, st := range stepOrder {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown step %q", ErrValidation, s)
}

// Draft is the unsaved wizard state: the step the editor is on and any
// modal forms left half filled.
type Draft struct {
	Step   Step              `json:"step"`
	Event  *EventForm        `json:"event,omitempty"`
	Day    *ItineraryDayForm `json:"day,omitempty"`
	Update *UpdateForm       `json:"update,omitempty"`
	Theme  *PartyThemeForm   `json:"theme,omitempty"`
	Talent *TalentForm       `json:"talent,omitempty"`
}

func (d Draft) clone() Draft {
	raw, err := json.Marshal(d)
	if err != nil {
		return d
	}
	var out Draft
	if err := json.Unmarshal(raw, &out); err != nil {
		return d
	}
	return out
}

// Session is one editor's wizard state for one trip.
type Session struct {
	id     string
	tripID int64

	mu    sync.Mutex
	draft Draft
	dirty bool
}

func newSession(id string, tripID int64) *Session {
	return &Session{id: id, tripID: tripID, draft: Draft{Step: StepBasics}}
}

func (s *Session) ID() string    { return s.id }
func (s *Session) TripID() int64 { return s.tripID }

// Draft returns a deep copy of the current draft.
func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.clone()
}

// Edit applies fn to the draft and marks the session dirty.
func (s *Session) Edit(fn func(*Draft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.draft)
	s.dirty = true
}

func (s *Session) SetStep(step Step) {
	s.Edit(func(d *Draft) { d.Step = step })
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Session) snapshot() (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.clone(), s.dirty
}

func (s *Session) markSaved(saved Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if draftsEqual(s.draft, saved) {
		s.dirty = false
	}
}

func draftsEqual(a, b Draft) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ja) == string(jb)
}

// DraftStore persists drafts across restarts.
type DraftStore interface {
	SaveDraft(ctx context.Context, d *models.WizardDraft) error
	GetDraft(ctx context.Context, sessionID string, tripID int64) (*models.WizardDraft, error)
	DeleteDraft(ctx context.Context, sessionID string, tripID int64) error
}

type sessionKey struct {
	id     string
	tripID int64
}

// DefaultMaxSessions caps how many sessions stay in memory. Older ones
// are dropped and resume from the draft store on their next Get.
const DefaultMaxSessions = 1024

// Sessions owns the live wizard sessions.
type Sessions struct {
	live   *lru.Cache[sessionKey, *Session]
	max    int
	store  DraftStore
	logger *zap.Logger
}

type SessionsOption func(*Sessions)

// WithMaxSessions bounds the in-memory registry. Non-positive values keep
// the default.
func WithMaxSessions(n int) SessionsOption {
	return func(r *Sessions) {
		if n > 0 {
			r.max = n
		}
	}
}

func NewSessions(store DraftStore, logger *zap.Logger, opts ...SessionsOption) *Sessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Sessions{
		max:    DefaultMaxSessions,
		store:  store,
		logger: logger.Named("sessions"),
	}
	for _, opt := range opts {
		opt(r)
	}
	// only errors on a non-positive size
	r.live, _ = lru.NewWithEvict(r.max, r.evicted)
	return r
}

func (r *Sessions) evicted(key sessionKey, s *Session) {
	if s.Dirty() {
		r.logger.Warn("evicting unsaved session", zap.String("session", key.id), zap.Int64("trip_id", key.tripID))
	}
}

// Get returns the session for an editor and trip, resuming a stored draft
// the first time it is asked for.
func (r *Sessions) Get(ctx context.Context, sessionID string, tripID int64) (*Session, error) {
	key := sessionKey{sessionID, tripID}
	if s, ok := r.live.Get(key); ok {
		return s, nil
	}

	s := newSession(sessionID, tripID)
	if r.store != nil {
		stored, err := r.store.GetDraft(ctx, sessionID, tripID)
		switch {
		case errors.Is(err, models.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("resume draft: %w", err)
		default:
			var d Draft
			if err := json.Unmarshal(stored.Payload, &d); err != nil {
				r.logger.Warn("discarding unreadable draft", zap.String("session", sessionID), zap.Int64("trip_id", tripID), zap.Error(err))
			} else {
				s.draft = d
			}
		}
	}

	if existing, ok, _ := r.live.PeekOrAdd(key, s); ok {
		return existing, nil
	}
	return s, nil
}

// Save persists a dirty session. Clean sessions are not written.
func (r *Sessions) Save(ctx context.Context, s *Session) error {
	draft, dirty := s.snapshot()
	if !dirty || r.store == nil {
		return nil
	}
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	err = r.store.SaveDraft(ctx, &models.WizardDraft{
		SessionID: s.id,
		TripID:    s.tripID,
		Step:      string(draft.Step),
		Payload:   payload,
	})
	if err != nil {
		return err
	}
	s.markSaved(draft)
	return nil
}

// Discard drops the session and its stored draft.
func (r *Sessions) Discard(ctx context.Context, sessionID string, tripID int64) error {
	key := sessionKey{sessionID, tripID}
	if s, ok := r.live.Peek(key); ok {
		s.mu.Lock()
		s.dirty = false
		s.mu.Unlock()
	}
	r.live.Remove(key)
	if r.store == nil {
		return nil
	}
	return r.store.DeleteDraft(ctx, sessionID, tripID)
}

// Len reports how many sessions are live.
func (r *Sessions) Len() int {
	return r.live.Len()
}
