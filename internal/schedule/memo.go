package schedule

import (
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Memo caches the result of Daily for a single input. It recomputes only when
// the raw buckets or the status change; for current trips the clock minute is
// part of the key since the filter depends on it.
//
// Returned slices are shared between callers and must not be modified.
type Memo struct {
	mu    sync.Mutex
	clock func() time.Time

	key   uint64
	valid bool
	out   []DailyBucket

	computations int
}

// NewMemo creates a Memo reading the current time from clock (time.Now if nil).
func NewMemo(clock func() time.Time) *Memo {
	if clock == nil {
		clock = time.Now
	}
	return &Memo{clock: clock}
}

// Get returns Daily(raw, status, now), reusing the previous result when the
// inputs are unchanged.
func (m *Memo) Get(raw []DailyBucket, status TripStatus) []DailyBucket {
	now := m.clock()
	key := fingerprint(raw, status, now)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.key == key {
		return m.out
	}
	m.out = Daily(raw, status, now)
	m.key = key
	m.valid = true
	m.computations++
	return m.out
}

// Computations reports how many times Daily actually ran.
func (m *Memo) Computations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.computations
}

func fingerprint(raw []DailyBucket, status TripStatus, now time.Time) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(string(status))
	if status == StatusCurrent {
		_, _ = d.WriteString(now.Format("2006-01-02T15:04"))
	}
	for _, b := range raw {
		_, _ = d.WriteString("\x00d" + b.Key)
		for _, ev := range b.Items {
			_, _ = d.WriteString("\x00e" + strconv.FormatInt(ev.ID, 10))
			_, _ = d.WriteString("\x1f" + ev.Time + "\x1f" + ev.Title + "\x1f" + ev.Venue)
			_, _ = d.WriteString("\x1f" + ev.EventType + "\x1f" + ev.Description + "\x1f" + ev.Recurrence)
			_, _ = d.WriteString("\x1f" + strconv.FormatInt(ev.PartyThemeID, 10))
			for _, t := range ev.Talent {
				_, _ = d.WriteString("\x1e" + t.Name)
			}
		}
	}
	return d.Sum64()
}
