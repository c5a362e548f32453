// Package guide assembles the public trip guide from CMS content.
package guide

import (
	"time"

	"trip-guide/internal/client"
	"trip-guide/internal/models"
	"trip-guide/internal/schedule"
)

// Tab names, in display order.
const (
	TabItinerary = "itinerary"
	TabSchedule  = "schedule"
	TabParties   = "parties"
	TabTalent    = "talent"
	TabInfo      = "info"
	TabFAQ       = "faq"
)

var Tabs = []string{TabItinerary, TabSchedule, TabParties, TabTalent, TabInfo, TabFAQ}

// ParseTab returns tab when it names a known tab and the itinerary tab otherwise.
func ParseTab(tab string) string {
	for _, t := range Tabs {
		if t == tab {
			return t
		}
	}
	return TabItinerary
}

// Guide is the view model behind every tab of a trip guide.
type Guide struct {
	Trip          client.Trip              `json:"trip"`
	Status        schedule.TripStatus      `json:"status"`
	StatusDisplay models.StatusDisplayInfo `json:"status_display"`
	StartsIn      string                   `json:"starts_in,omitempty"`
	Hero          []string                 `json:"hero_images"`
	Itinerary     []DayView                `json:"itinerary"`
	Schedule      []ScheduleDay            `json:"schedule"`
	Parties       []PartyView              `json:"parties"`
	Talent        []TalentGroup            `json:"talent"`
	Info          []client.InfoSection     `json:"info"`
	FAQ           []client.FAQ             `json:"faq"`
	GeneratedAt   time.Time                `json:"generated_at"`
	// Stale is set when the CMS was unreachable and a stored copy is served.
	Stale      bool   `json:"stale,omitempty"`
	StaleSince string `json:"stale_since,omitempty"`

	raw []schedule.DailyBucket
}

// DayView is one itinerary day as displayed.
type DayView struct {
	client.ItineraryDay
	DayLabel    string                   `json:"day_label"`
	DateLabel   string                   `json:"date_label"`
	TypeDisplay models.StatusDisplayInfo `json:"type_display"`
	Image       string                   `json:"image,omitempty"`
	Collapsed   bool                     `json:"collapsed"`
}

// ScheduleDay is one bucket of the schedule tab.
type ScheduleDay struct {
	Key   string         `json:"key"`
	Label string         `json:"label"`
	Items []ScheduleItem `json:"items"`
}

type ScheduleItem struct {
	ID           int64  `json:"id,omitempty"`
	Time         string `json:"time"`
	DisplayTime  string `json:"display_time"`
	Title        string `json:"title"`
	Venue        string `json:"venue,omitempty"`
	Talent       string `json:"talent,omitempty"`
	Type         string `json:"type,omitempty"`
	OriginalDate string `json:"original_date"`
	// LateNight marks events listed under the previous evening.
	LateNight    bool  `json:"late_night"`
	PartyThemeID int64 `json:"party_theme_id,omitempty"`
}

// PartyView is a themed party on the trip.
type PartyView struct {
	Theme client.PartyTheme `json:"theme"`
	Date  string            `json:"date"`
	Time  string            `json:"time"`
	Venue string            `json:"venue,omitempty"`
}

// TalentGroup lists performers of one category.
type TalentGroup struct {
	Category string          `json:"category"`
	Members  []client.Talent `json:"members"`
}
