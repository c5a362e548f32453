package guide

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trip-guide/internal/client"
	"trip-guide/internal/models"
	"trip-guide/internal/schedule"
	"trip-guide/internal/util"
)

// Source is the CMS content a guide is built from.
type Source interface {
	TripBySlug(ctx context.Context, slug string) (*client.Trip, error)
	Itinerary(ctx context.Context, tripID int64) ([]client.ItineraryDay, error)
	Events(ctx context.Context, tripID int64) ([]client.Event, error)
	TripTalent(ctx context.Context, tripID int64) ([]client.Talent, error)
	InfoSections(ctx context.Context, tripID int64) ([]client.InfoSection, error)
	FAQs(ctx context.Context, tripID int64) ([]client.FAQ, error)
	PartyThemes(ctx context.Context) ([]client.PartyTheme, error)
}

// SnapshotStore keeps the last good guide per trip.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s *models.GuideSnapshot) error
	GetSnapshot(ctx context.Context, slug string) (*models.GuideSnapshot, error)
}

// Recorder receives build metrics.
type Recorder interface {
	RecordScheduleBuild(seconds float64, events int)
	RecordSnapshotFallback()
}

type nopRecorder struct{}

func (nopRecorder) RecordScheduleBuild(float64, int) {}
func (nopRecorder) RecordSnapshotFallback()          {}

// DefaultMaxMemos caps how many trips keep an expansion memo.
const DefaultMaxMemos = 64

type Options struct {
	Location    *time.Location
	DefaultHero string
	Clock       func() time.Time
	Logger      *zap.Logger
	Recorder    Recorder
	Snapshots   SnapshotStore
	MaxMemos    int
}

// Builder assembles guides. It is safe for concurrent use.
type Builder struct {
	src       Source
	loc       *time.Location
	hero      string
	clock     func() time.Time
	logger    *zap.Logger
	recorder  Recorder
	snapshots SnapshotStore

	memos *lru.Cache[string, *schedule.Memo]
}

func NewBuilder(src Source, opts Options) *Builder {
	b := &Builder{
		src:       src,
		loc:       opts.Location,
		hero:      opts.DefaultHero,
		clock:     opts.Clock,
		logger:    opts.Logger,
		recorder:  opts.Recorder,
		snapshots: opts.Snapshots,
	}
	size := opts.MaxMemos
	if size <= 0 {
		size = DefaultMaxMemos
	}
	b.memos, _ = lru.New[string, *schedule.Memo](size)
	if b.loc == nil {
		b.loc = time.Local
	}
	if b.clock == nil {
		b.clock = time.Now
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.recorder == nil {
		b.recorder = nopRecorder{}
	}
	b.logger = b.logger.Named("guide")
	return b
}

func (b *Builder) now() time.Time {
	return b.clock().In(b.loc)
}

func (b *Builder) memo(slug string) *schedule.Memo {
	if m, ok := b.memos.Get(slug); ok {
		return m
	}
	m := schedule.NewMemo(b.now)
	if prev, ok, _ := b.memos.PeekOrAdd(slug, m); ok {
		return prev
	}
	return m
}

type content struct {
	days   []client.ItineraryDay
	events []client.Event
	talent []client.Talent
	info   []client.InfoSection
	faqs   []client.FAQ
	themes []client.PartyTheme
}

// fetch loads every section of the trip concurrently. The first failure
// cancels the rest and is returned.
func (b *Builder) fetch(ctx context.Context, tripID int64) (*content, error) {
	var c content
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c.days, err = b.src.Itinerary(ctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		c.events, err = b.src.Events(ctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		c.talent, err = b.src.TripTalent(ctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		c.info, err = b.src.InfoSections(ctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		c.faqs, err = b.src.FAQs(ctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		c.themes, err = b.src.PartyThemes(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Build fetches the trip from the CMS and assembles its guide.
func (b *Builder) Build(ctx context.Context, slug string) (*Guide, error) {
	trip, err := b.src.TripBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load trip %s: %w", slug, err)
	}
	c, err := b.fetch(ctx, trip.ID)
	if err != nil {
		return nil, fmt.Errorf("load trip %s content: %w", slug, err)
	}
	return b.assemble(*trip, c), nil
}

func (b *Builder) assemble(trip client.Trip, c *content) *Guide {
	now := b.now()
	status := TripStatus(trip, now)

	g := &Guide{
		Trip:          trip,
		Status:        status,
		StatusDisplay: models.GetStatusDisplayInfo(string(status)),
		Info:          sortedInfo(c.info),
		FAQ:           sortedFAQs(c.faqs),
		GeneratedAt:   now,
		Talent:        groupTalent(c.talent),
	}
	if status == schedule.StatusUpcoming {
		g.StartsIn = StartsIn(trip.StartDate, now)
	}

	days := AssignDayNumbers(c.days, trip.StartDate, trip.EndDate)
	g.Hero = HeroImages(days, trip, b.hero)
	g.Itinerary = make([]DayView, len(days))
	for i, d := range days {
		g.Itinerary[i] = DayView{
			ItineraryDay: d,
			DayLabel:     DayLabel(d),
			DateLabel:    FormatDayLabel(d.Date),
			TypeDisplay:  models.GetDayTypeDisplayInfo(d.LocationType),
			Image:        DayImage(d, trip, b.hero),
		}
	}

	raw, err := RawSchedule(c.events, c.talent, trip, b.loc)
	if err != nil {
		b.logger.Warn("some recurring events could not be expanded", zap.String("slug", trip.Slug), zap.Error(err))
	}
	g.raw = raw
	g.Schedule = b.scheduleDays(trip.Slug, raw, status)
	g.Parties = parties(c.events, c.themes)
	return g
}

// TripStatus derives the trip's status from its dates.
func TripStatus(trip client.Trip, now time.Time) schedule.TripStatus {
	st, err := schedule.ParseTripStatus(util.TripStatusFor(trip.StartDate, trip.EndDate, now))
	if err != nil {
		return schedule.StatusUpcoming
	}
	return st
}

// RawSchedule converts CMS events into raw day buckets, expanding recurring
// events over the trip's dates.
func RawSchedule(events []client.Event, talent []client.Talent, trip client.Trip, loc *time.Location) ([]schedule.DailyBucket, error) {
	names := make(map[int64]string, len(talent))
	for _, t := range talent {
		names[t.ID] = t.Name
	}
	flat := make([]schedule.ScheduleEvent, 0, len(events))
	for _, e := range events {
		ev := schedule.ScheduleEvent{
			ID:          e.ID,
			Time:        e.Time,
			Title:       e.Title,
			Venue:       e.VenueName,
			Date:        e.Date,
			EventType:   e.Type,
			Description: e.Description,
			Recurrence:  e.Recurrence,
		}
		if e.PartyThemeID != nil {
			ev.PartyThemeID = *e.PartyThemeID
		}
		for _, id := range e.TalentIDs {
			if n, ok := names[id]; ok {
				ev.Talent = append(ev.Talent, schedule.TalentRef{Name: n})
			}
		}
		flat = append(flat, ev)
	}
	return schedule.ExpandRecurring(schedule.GroupByDate(flat), trip.StartDate, trip.EndDate, loc)
}

func (b *Builder) scheduleDays(slug string, raw []schedule.DailyBucket, status schedule.TripStatus) []ScheduleDay {
	started := time.Now()
	buckets := b.memo(slug).Get(raw, status)
	b.recorder.RecordScheduleBuild(time.Since(started).Seconds(), schedule.CountEvents(buckets))
	return ScheduleDays(buckets)
}

// ScheduleDays turns normalized buckets into the schedule tab view.
func ScheduleDays(buckets []schedule.DailyBucket) []ScheduleDay {
	out := make([]ScheduleDay, 0, len(buckets))
	for _, bk := range buckets {
		day := ScheduleDay{Key: bk.Key, Label: FormatDayLabel(bk.Key), Items: make([]ScheduleItem, 0, len(bk.Items))}
		for _, ev := range bk.Items {
			names := make([]string, 0, len(ev.Talent))
			for _, t := range ev.Talent {
				names = append(names, t.Name)
			}
			day.Items = append(day.Items, ScheduleItem{
				ID:           ev.ID,
				Time:         ev.Time,
				DisplayTime:  FormatClock(ev.Time),
				Title:        ev.Title,
				Venue:        ev.Venue,
				Talent:       strings.Join(names, ", "),
				Type:         ev.EventType,
				OriginalDate: ev.OriginalDate,
				LateNight:    ev.OriginalDate != bk.Key,
				PartyThemeID: ev.PartyThemeID,
			})
		}
		out = append(out, day)
	}
	return out
}

// Schedule returns the schedule tab, filtered as for status instead of the
// trip's own status when override is set.
func (b *Builder) Schedule(ctx context.Context, slug string, override schedule.TripStatus) ([]ScheduleDay, schedule.TripStatus, error) {
	g, err := b.Load(ctx, slug)
	if err != nil {
		return nil, "", err
	}
	if override == "" || override == g.Status {
		return g.Schedule, g.Status, nil
	}
	return ScheduleDays(schedule.Daily(g.raw, override, b.now())), override, nil
}

// Calendar renders the full schedule, without past-event filtering, as iCalendar.
func (b *Builder) Calendar(ctx context.Context, slug string) (string, error) {
	g, err := b.Load(ctx, slug)
	if err != nil {
		return "", err
	}
	all := schedule.Daily(g.raw, schedule.StatusUpcoming, b.now())
	return schedule.ICS(all, schedule.CalendarOptions{
		Name:     g.Trip.Name,
		Slug:     g.Trip.Slug,
		Location: b.loc,
		Stamp:    b.now(),
	}), nil
}

type snapshotPayload struct {
	Guide *Guide                 `json:"guide"`
	Raw   []schedule.DailyBucket `json:"raw"`
}

// Load builds the guide and stores it as the trip's snapshot. When the CMS
// cannot be reached the stored snapshot is served instead, with the
// schedule refiltered for the current time.
func (b *Builder) Load(ctx context.Context, slug string) (*Guide, error) {
	g, err := b.Build(ctx, slug)
	if err == nil {
		b.save(ctx, g)
		return g, nil
	}
	if b.snapshots == nil || !client.IsUpstreamFailure(err) {
		return nil, err
	}

	snap, snapErr := b.snapshots.GetSnapshot(ctx, slug)
	if snapErr != nil {
		if !errors.Is(snapErr, models.ErrNotFound) {
			b.logger.Warn("snapshot lookup failed", zap.String("slug", slug), zap.Error(snapErr))
		}
		return nil, err
	}
	restored, decodeErr := b.restore(snap)
	if decodeErr != nil {
		b.logger.Warn("snapshot unreadable", zap.String("slug", slug), zap.Error(decodeErr))
		return nil, err
	}
	b.recorder.RecordSnapshotFallback()
	b.logger.Info("serving stored guide", zap.String("slug", slug), zap.Time("fetched_at", snap.FetchedAt), zap.NamedError("cms_error", err))
	return restored, nil
}

// Refresh rebuilds and stores the snapshot for slug.
func (b *Builder) Refresh(ctx context.Context, slug string) (schedule.TripStatus, error) {
	g, err := b.Build(ctx, slug)
	if err != nil {
		return "", err
	}
	if b.snapshots != nil {
		if err := b.store(ctx, g); err != nil {
			return g.Status, err
		}
	}
	return g.Status, nil
}

func (b *Builder) save(ctx context.Context, g *Guide) {
	if b.snapshots == nil {
		return
	}
	if err := b.store(ctx, g); err != nil {
		b.logger.Warn("failed to store guide snapshot", zap.String("slug", g.Trip.Slug), zap.Error(err))
	}
}

func (b *Builder) store(ctx context.Context, g *Guide) error {
	payload, err := json.Marshal(snapshotPayload{Guide: g, Raw: g.raw})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return b.snapshots.SaveSnapshot(ctx, &models.GuideSnapshot{
		Slug:      g.Trip.Slug,
		TripID:    g.Trip.ID,
		Status:    string(g.Status),
		Payload:   payload,
		FetchedAt: g.GeneratedAt,
	})
}

func (b *Builder) restore(snap *models.GuideSnapshot) (*Guide, error) {
	var p snapshotPayload
	if err := json.Unmarshal(snap.Payload, &p); err != nil {
		return nil, err
	}
	if p.Guide == nil {
		return nil, errors.New("snapshot has no guide")
	}
	g := p.Guide
	now := b.now()
	g.raw = p.Raw
	g.Status = TripStatus(g.Trip, now)
	g.StatusDisplay = models.GetStatusDisplayInfo(string(g.Status))
	g.StartsIn = ""
	if g.Status == schedule.StatusUpcoming {
		g.StartsIn = StartsIn(g.Trip.StartDate, now)
	}
	g.Schedule = b.scheduleDays(g.Trip.Slug, g.raw, g.Status)
	g.Stale = true
	g.StaleSince = Since(snap.FetchedAt, now)
	return g, nil
}

func groupTalent(talent []client.Talent) []TalentGroup {
	byCat := make(map[string][]client.Talent)
	for _, t := range talent {
		cat := t.Category
		if cat == "" {
			cat = "Other"
		}
		byCat[cat] = append(byCat[cat], t)
	}
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	out := make([]TalentGroup, 0, len(cats))
	for _, c := range cats {
		members := byCat[c]
		sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })
		out = append(out, TalentGroup{Category: c, Members: members})
	}
	return out
}

// parties lists every event with a known party theme in schedule order.
func parties(events []client.Event, themes []client.PartyTheme) []PartyView {
	byID := make(map[int64]client.PartyTheme, len(themes))
	for _, t := range themes {
		byID[t.ID] = t
	}
	out := []PartyView{}
	for _, e := range events {
		if e.PartyThemeID == nil {
			continue
		}
		theme, ok := byID[*e.PartyThemeID]
		if !ok {
			continue
		}
		out = append(out, PartyView{Theme: theme, Date: schedule.ResolveDate(e.Date, e.Time), Time: e.Time, Venue: e.VenueName})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return schedule.AdjustedMinutes(out[i].Time) < schedule.AdjustedMinutes(out[j].Time)
	})
	return out
}

func sortedInfo(in []client.InfoSection) []client.InfoSection {
	out := append([]client.InfoSection{}, in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func sortedFAQs(in []client.FAQ) []client.FAQ {
	out := append([]client.FAQ{}, in...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}
