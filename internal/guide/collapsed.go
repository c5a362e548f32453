package guide

import (
	"sort"

	"trip-guide/internal/util"
)

// CollapsedDays is the set of itinerary days a visitor has folded away.
type CollapsedDays map[string]struct{}

// NewCollapsedDays keeps only well-formed date keys.
func NewCollapsedDays(keys []string) CollapsedDays {
	c := make(CollapsedDays, len(keys))
	for _, k := range keys {
		if util.IsDate(k) {
			c[k] = struct{}{}
		}
	}
	return c
}

func (c CollapsedDays) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Toggle flips key and reports whether it is now collapsed.
func (c CollapsedDays) Toggle(key string) bool {
	if c.Has(key) {
		delete(c, key)
		return false
	}
	c[key] = struct{}{}
	return true
}

// Keys returns the collapsed days in ascending order.
func (c CollapsedDays) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply marks the matching itinerary days as collapsed.
func (c CollapsedDays) Apply(days []DayView) {
	for i := range days {
		days[i].Collapsed = c.Has(days[i].Date)
	}
}
