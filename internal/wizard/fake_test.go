package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"trip-guide/internal/client"
	"trip-guide/internal/models"
)

var errBoom = errors.New("boom")

// fakeCMS records calls and fails whichever operation is named in failOn.
type fakeCMS struct {
	mu      sync.Mutex
	calls   []string
	failOn  map[string]error
	updates []client.TripUpdate
	nextID  int64
	reorder [][]client.UpdateOrder
}

func newFakeCMS() *fakeCMS {
	return &fakeCMS{failOn: map[string]error{}, nextID: 100}
}

func (f *fakeCMS) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.failOn[op]
}

func (f *fakeCMS) id() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID
}

func (f *fakeCMS) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCMS) CreateEvent(_ context.Context, _ int64, in client.Event) (*client.Event, error) {
	if err := f.hit("CreateEvent"); err != nil {
		return nil, err
	}
	in.ID = f.id()
	return &in, nil
}

func (f *fakeCMS) UpdateEvent(_ context.Context, _, _ int64, in client.Event) (*client.Event, error) {
	if err := f.hit("UpdateEvent"); err != nil {
		return nil, err
	}
	return &in, nil
}

func (f *fakeCMS) DeleteEvent(context.Context, int64, int64) error { return f.hit("DeleteEvent") }

func (f *fakeCMS) CreateUpdate(_ context.Context, _ int64, in client.TripUpdate) (*client.TripUpdate, error) {
	if err := f.hit("CreateUpdate"); err != nil {
		return nil, err
	}
	in.ID = f.id()
	return &in, nil
}

func (f *fakeCMS) UpdateUpdate(_ context.Context, _ int64, in client.TripUpdate) (*client.TripUpdate, error) {
	if err := f.hit("UpdateUpdate"); err != nil {
		return nil, err
	}
	return &in, nil
}

func (f *fakeCMS) Updates(context.Context, int64) ([]client.TripUpdate, error) {
	if err := f.hit("Updates"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]client.TripUpdate(nil), f.updates...), nil
}

func (f *fakeCMS) ReorderUpdates(_ context.Context, _ int64, order []client.UpdateOrder) error {
	if err := f.hit("ReorderUpdates"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reorder = append(f.reorder, order)
	byID := map[int64]client.TripUpdate{}
	for _, u := range f.updates {
		byID[u.ID] = u
	}
	next := make([]client.TripUpdate, 0, len(order))
	for _, o := range order {
		u := byID[o.ID]
		u.OrderIndex = o.OrderIndex
		next = append(next, u)
	}
	f.updates = next
	return nil
}

func (f *fakeCMS) DeleteUpdate(_ context.Context, id int64) error {
	if err := f.hit("DeleteUpdate"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.updates[:0:0]
	for _, u := range f.updates {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	f.updates = kept
	return nil
}

func (f *fakeCMS) CreateItineraryDay(_ context.Context, _ int64, in client.ItineraryDay) (*client.ItineraryDay, error) {
	if err := f.hit("CreateItineraryDay"); err != nil {
		return nil, err
	}
	in.ID = f.id()
	return &in, nil
}

func (f *fakeCMS) UpdateItineraryDay(_ context.Context, _, _ int64, in client.ItineraryDay) (*client.ItineraryDay, error) {
	if err := f.hit("UpdateItineraryDay"); err != nil {
		return nil, err
	}
	return &in, nil
}

func (f *fakeCMS) DeleteItineraryDay(context.Context, int64, int64) error {
	return f.hit("DeleteItineraryDay")
}

func (f *fakeCMS) CreatePartyTheme(_ context.Context, in client.PartyTheme) (*client.PartyTheme, error) {
	if err := f.hit("CreatePartyTheme"); err != nil {
		return nil, err
	}
	in.ID = f.id()
	return &in, nil
}

func (f *fakeCMS) UpdatePartyTheme(_ context.Context, _ int64, in client.PartyTheme) (*client.PartyTheme, error) {
	if err := f.hit("UpdatePartyTheme"); err != nil {
		return nil, err
	}
	return &in, nil
}

func (f *fakeCMS) DeletePartyTheme(context.Context, int64) error { return f.hit("DeletePartyTheme") }

func (f *fakeCMS) AddTalent(_ context.Context, _ int64, in client.Talent) (*client.Talent, error) {
	if err := f.hit("AddTalent"); err != nil {
		return nil, err
	}
	in.ID = f.id()
	return &in, nil
}

func (f *fakeCMS) RemoveTalent(context.Context, int64, int64) error { return f.hit("RemoveTalent") }

func (f *fakeCMS) CreateLocation(_ context.Context, in client.Location) (*client.Location, error) {
	if err := f.hit("CreateLocation"); err != nil {
		return nil, err
	}
	in.ID = f.id()
	return &in, nil
}

func (f *fakeCMS) CreateUser(_ context.Context, in client.UserInput) (*client.User, error) {
	if err := f.hit("CreateUser"); err != nil {
		return nil, err
	}
	return &client.User{ID: "u-new", Email: in.Email, Role: in.Role, IsActive: in.IsActive}, nil
}

func (f *fakeCMS) UpdateUser(_ context.Context, id string, in client.UserInput) (*client.User, error) {
	if err := f.hit("UpdateUser"); err != nil {
		return nil, err
	}
	return &client.User{ID: id, Email: in.Email, Role: in.Role, IsActive: in.IsActive}, nil
}

func (f *fakeCMS) DeleteUser(context.Context, string) error { return f.hit("DeleteUser") }

func (f *fakeCMS) SetUserActive(_ context.Context, id string, active bool) (*client.User, error) {
	if err := f.hit("SetUserActive"); err != nil {
		return nil, err
	}
	return &client.User{ID: id, IsActive: active}, nil
}

type memoryAudit struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (f *fakeCMS) SetPropertyVenues(context.Context, client.PropertyKind, int64, []int64) error {
	return f.hit("SetPropertyVenues")
}

func (f *fakeCMS) SetPropertyAmenities(context.Context, client.PropertyKind, int64, []int64) error {
	return f.hit("SetPropertyAmenities")
}

func (m *memoryAudit) RecordAudit(_ context.Context, e *models.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memoryAudit) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Action
	}
	return out
}

type countingReverts struct{ n int }

func (c *countingReverts) RecordReorderRevert() { c.n++ }

type memoryDrafts struct {
	mu     sync.Mutex
	drafts map[string]*models.WizardDraft
	saves  int
}

func newMemoryDrafts() *memoryDrafts {
	return &memoryDrafts{drafts: map[string]*models.WizardDraft{}}
}

func draftKey(id string, tripID int64) string {
	return fmt.Sprintf("%s/%d", id, tripID)
}

func (m *memoryDrafts) SaveDraft(_ context.Context, d *models.WizardDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	cp := *d
	m.drafts[draftKey(d.SessionID, d.TripID)] = &cp
	return nil
}

func (m *memoryDrafts) GetDraft(_ context.Context, id string, tripID int64) (*models.WizardDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[draftKey(id, tripID)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return d, nil
}

func (m *memoryDrafts) DeleteDraft(_ context.Context, id string, tripID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, draftKey(id, tripID))
	return nil
}
