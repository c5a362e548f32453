// Package jobs runs the background work of the guide service.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trip-guide/internal/client"
	"trip-guide/internal/guide"
	"trip-guide/internal/schedule"
)

type TripLister interface {
	Trips(ctx context.Context) ([]client.Trip, error)
}

type GuideRefresher interface {
	Refresh(ctx context.Context, slug string) (schedule.TripStatus, error)
}

type StatusCounter interface {
	CountSnapshotsByStatus(ctx context.Context) (map[string]int, error)
}

// Recorder receives refresh outcomes.
type Recorder interface {
	RecordSnapshotRefresh(outcome string)
	SetTripsByStatus(counts map[string]int)
}

type Options struct {
	Location *time.Location
	Clock    func() time.Time
	Logger   *zap.Logger
	// Timeout bounds one whole refresh run.
	Timeout time.Duration
	// Workers is how many trips are refreshed at once.
	Workers int
}

// Refresher keeps guide snapshots of upcoming and current trips fresh, so a
// CMS outage serves recent content.
type Refresher struct {
	trips    TripLister
	guides   GuideRefresher
	counts   StatusCounter
	recorder Recorder

	loc     *time.Location
	clock   func() time.Time
	logger  *zap.Logger
	timeout time.Duration
	workers int

	mu   sync.Mutex
	cron *cron.Cron
}

func NewRefresher(trips TripLister, guides GuideRefresher, counts StatusCounter, recorder Recorder, opts Options) *Refresher {
	r := &Refresher{
		trips:    trips,
		guides:   guides,
		counts:   counts,
		recorder: recorder,
		loc:      opts.Location,
		clock:    opts.Clock,
		logger:   opts.Logger,
		timeout:  opts.Timeout,
		workers:  opts.Workers,
	}
	if r.loc == nil {
		r.loc = time.Local
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.timeout <= 0 {
		r.timeout = 5 * time.Minute
	}
	if r.workers <= 0 {
		r.workers = 4
	}
	r.logger = r.logger.Named("refresher")
	return r
}

// Result summarizes one run.
type Result struct {
	Refreshed int
	Failed    int
	Skipped   int
}

// RunOnce refreshes every trip that is upcoming or current. A failing trip
// is counted and logged; only a failure to list trips fails the run.
func (r *Refresher) RunOnce(ctx context.Context) (Result, error) {
	trips, err := r.trips.Trips(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list trips: %w", err)
	}

	now := r.clock().In(r.loc)
	var (
		mu  sync.Mutex
		res Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, trip := range trips {
		if guide.TripStatus(trip, now) == schedule.StatusPast {
			res.Skipped++
			continue
		}
		g.Go(func() error {
			_, err := r.guides.Refresh(gctx, trip.Slug)
			outcome := "ok"
			if err != nil {
				outcome = "error"
				r.logger.Warn("snapshot refresh failed", zap.String("slug", trip.Slug), zap.Error(err))
			}
			if r.recorder != nil {
				r.recorder.RecordSnapshotRefresh(outcome)
			}
			mu.Lock()
			if err != nil {
				res.Failed++
			} else {
				res.Refreshed++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	r.publishCounts(ctx)
	r.logger.Info("snapshot refresh finished",
		zap.Int("refreshed", res.Refreshed),
		zap.Int("failed", res.Failed),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

func (r *Refresher) publishCounts(ctx context.Context) {
	if r.counts == nil || r.recorder == nil {
		return
	}
	counts, err := r.counts.CountSnapshotsByStatus(ctx)
	if err != nil {
		r.logger.Warn("count snapshots", zap.Error(err))
		return
	}
	r.recorder.SetTripsByStatus(counts)
}

// Start schedules RunOnce on expr (robfig/cron syntax, descriptors such as
// "@every 15m" included). Overlapping runs are skipped.
func (r *Refresher) Start(expr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return fmt.Errorf("refresher already started")
	}

	logger := cronLogger{r.logger.Sugar()}
	c := cron.New(
		cron.WithLocation(r.loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(expr, r.run); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", expr, err)
	}
	c.Start()
	r.cron = c
	r.logger.Info("snapshot refresher started", zap.String("schedule", expr))
	return nil
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if _, err := r.RunOnce(ctx); err != nil {
		r.logger.Warn("snapshot refresh run failed", zap.Error(err))
	}
}

// Stop halts the schedule and waits for a running refresh, or for ctx.
func (r *Refresher) Stop(ctx context.Context) error {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c == nil {
		return nil
	}
	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
