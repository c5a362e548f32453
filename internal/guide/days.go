package guide

import (
	"sort"
	"strconv"

	"trip-guide/internal/client"
	"trip-guide/internal/util"
)

const (
	dayTypePreTrip  = "pre_trip"
	dayTypePostTrip = "post_trip"
)

// AssignDayNumbers returns the days sorted by date and numbered relative to
// the trip: the start date is day 1 and later days count up, including days
// after the end date, which are typed post_trip. Days before the start are
// numbered -1, -2, ... going backwards and typed pre_trip. Days with an
// unparseable date keep their number and sort last.
func AssignDayNumbers(days []client.ItineraryDay, start, end string) []client.ItineraryDay {
	out := append([]client.ItineraryDay(nil), days...)
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := util.IsDate(out[i].Date), util.IsDate(out[j].Date)
		if vi != vj {
			return vi
		}
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].OrderIndex < out[j].OrderIndex
	})

	for i := range out {
		offset, err := util.DaysBetween(start, out[i].Date)
		if err != nil {
			continue
		}
		switch {
		case offset < 0:
			out[i].DayNumber = offset
			out[i].LocationType = dayTypePreTrip
		default:
			out[i].DayNumber = offset + 1
			if end != "" && out[i].Date > end {
				out[i].LocationType = dayTypePostTrip
			}
		}
	}
	return out
}

// DayLabel is the heading shown for a numbered day.
func DayLabel(d client.ItineraryDay) string {
	switch d.LocationType {
	case dayTypePreTrip:
		return "Pre-Trip"
	case dayTypePostTrip:
		return "Post-Trip"
	}
	return "Day " + strconv.Itoa(d.DayNumber)
}

// HeroImages picks one image per itinerary day, falling back from the day's
// own image to its location image, then the trip hero image, then the
// default. Duplicates are removed keeping first occurrence.
func HeroImages(days []client.ItineraryDay, trip client.Trip, fallback string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(img string) {
		if img == "" || seen[img] {
			return
		}
		seen[img] = true
		out = append(out, img)
	}
	for _, d := range days {
		add(DayImage(d, trip, fallback))
	}
	if len(out) == 0 {
		add(trip.HeroImageURL)
		add(fallback)
	}
	return out
}

// DayImage is the first non-empty image in the fallback chain for a day.
func DayImage(d client.ItineraryDay, trip client.Trip, fallback string) string {
	for _, img := range []string{d.ImageURL, d.LocationImageURL, trip.HeroImageURL, fallback} {
		if img != "" {
			return img
		}
	}
	return ""
}

// CarouselIndex picks the slide showing at now for a carousel of n images
// rotating every interval.
func CarouselIndex(n int, now int64, intervalSeconds int64) int {
	if n <= 0 || intervalSeconds <= 0 {
		return 0
	}
	idx := (now / intervalSeconds) % int64(n)
	if idx < 0 {
		idx += int64(n)
	}
	return int(idx)
}
