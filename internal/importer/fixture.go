// Package importer loads a trip's content from a YAML fixture into the CMS
// through the same forms the wizard uses.
package importer

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"trip-guide/internal/wizard"
)

// Fixture is one trip's content. Events reference themes and talent by
// name; itinerary days reference locations by name.
type Fixture struct {
	TripID      int64        `yaml:"trip_id"`
	Locations   []Location   `yaml:"locations"`
	PartyThemes []PartyTheme `yaml:"party_themes"`
	Itinerary   []Day        `yaml:"itinerary"`
	Talent      []Talent     `yaml:"talent"`
	Events      []Event      `yaml:"events"`
	Updates     []Update     `yaml:"updates"`
}

type Location struct {
	Name        string   `yaml:"name"`
	Country     string   `yaml:"country"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"image_url"`
	Latitude    *float64 `yaml:"latitude"`
	Longitude   *float64 `yaml:"longitude"`
}

func (l Location) form() wizard.LocationForm {
	return wizard.LocationForm{
		Name:        l.Name,
		Country:     l.Country,
		Description: l.Description,
		ImageURL:    l.ImageURL,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
	}
}

type PartyTheme struct {
	Name                  string `yaml:"name"`
	ShortDescription      string `yaml:"short_description"`
	LongDescription       string `yaml:"long_description"`
	CostumeIdeas          string `yaml:"costume_ideas"`
	ImageURL              string `yaml:"image_url"`
	AmazonShoppingListURL string `yaml:"amazon_shopping_list_url"`
}

func (p PartyTheme) form() wizard.PartyThemeForm {
	return wizard.PartyThemeForm{
		Name:                  p.Name,
		ShortDescription:      p.ShortDescription,
		LongDescription:       p.LongDescription,
		CostumeIdeas:          p.CostumeIdeas,
		ImageURL:              p.ImageURL,
		AmazonShoppingListURL: p.AmazonShoppingListURL,
	}
}

type Day struct {
	Date          string `yaml:"date"`
	Type          string `yaml:"type"`
	Location      string `yaml:"location"`
	ArrivalTime   string `yaml:"arrival"`
	DepartureTime string `yaml:"departure"`
	AllAboardTime string `yaml:"all_aboard"`
	Description   string `yaml:"description"`
	ImageURL      string `yaml:"image_url"`
}

func (d Day) form(order int, locations map[string]int64) wizard.ItineraryDayForm {
	f := wizard.ItineraryDayForm{
		Date:          d.Date,
		LocationName:  d.Location,
		LocationType:  d.Type,
		ArrivalTime:   d.ArrivalTime,
		DepartureTime: d.DepartureTime,
		AllAboardTime: d.AllAboardTime,
		Description:   d.Description,
		ImageURL:      d.ImageURL,
		OrderIndex:    order,
	}
	if id, ok := locations[d.Location]; ok {
		f.LocationID = &id
	}
	return f
}

type Talent struct {
	Name            string            `yaml:"name"`
	Category        string            `yaml:"category"`
	Bio             string            `yaml:"bio"`
	KnownFor        string            `yaml:"known_for"`
	ProfileImageURL string            `yaml:"profile_image_url"`
	SocialLinks     map[string]string `yaml:"social_links"`
}

func (t Talent) form() wizard.TalentForm {
	return wizard.TalentForm{
		Name:            t.Name,
		Category:        t.Category,
		Bio:             t.Bio,
		KnownFor:        t.KnownFor,
		ProfileImageURL: t.ProfileImageURL,
		SocialLinks:     t.SocialLinks,
	}
}

type Event struct {
	Date        string   `yaml:"date"`
	Time        string   `yaml:"time"`
	Title       string   `yaml:"title"`
	Type        string   `yaml:"type"`
	Venue       string   `yaml:"venue"`
	PartyTheme  string   `yaml:"party_theme"`
	Talent      []string `yaml:"talent"`
	Description string   `yaml:"description"`
	Recurrence  string   `yaml:"recurrence"`
}

func (e Event) form(themes, talent map[string]int64) (wizard.EventForm, error) {
	f := wizard.EventForm{
		Date:        e.Date,
		Time:        e.Time,
		Title:       e.Title,
		Type:        e.Type,
		VenueName:   e.Venue,
		Description: e.Description,
		Recurrence:  e.Recurrence,
	}
	if e.PartyTheme != "" {
		id, ok := themes[e.PartyTheme]
		if !ok {
			return f, fmt.Errorf("%w: party theme %q", ErrUnknownReference, e.PartyTheme)
		}
		f.PartyThemeID = &id
	}
	for _, name := range e.Talent {
		id, ok := talent[name]
		if !ok {
			return f, fmt.Errorf("%w: talent %q", ErrUnknownReference, name)
		}
		f.TalentIDs = append(f.TalentIDs, id)
	}
	return f, nil
}

type Update struct {
	Title          string `yaml:"title"`
	Description    string `yaml:"description"`
	Type           string `yaml:"type"`
	ShowOnHomepage bool   `yaml:"show_on_homepage"`
}

func (u Update) form() wizard.UpdateForm {
	return wizard.UpdateForm{
		Title:          u.Title,
		Description:    u.Description,
		UpdateType:     u.Type,
		ShowOnHomepage: u.ShowOnHomepage,
	}
}

var (
	ErrNoTrip           = errors.New("fixture has no trip_id")
	ErrUnknownReference = errors.New("unknown reference")
)

// Parse decodes a fixture, rejecting unknown keys.
func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if f.TripID <= 0 {
		return nil, ErrNoTrip
	}
	return &f, nil
}

// ItemError names the fixture entry that failed.
type ItemError struct {
	Section string
	Index   int
	Err     error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.Section, e.Index, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// placeholders stands in for ids the CMS has not assigned yet.
func placeholders(names []string) map[string]int64 {
	m := make(map[string]int64, len(names))
	for i, n := range names {
		m[n] = int64(i + 1)
	}
	return m
}

// Validate runs every form's validation without contacting the CMS and
// returns all failures.
func (f *Fixture) Validate() error {
	var errs []error
	add := func(section string, i int, err error) {
		if err != nil {
			errs = append(errs, &ItemError{Section: section, Index: i, Err: err})
		}
	}

	var locNames, themeNames, talentNames []string
	for i, l := range f.Locations {
		add("locations", i, l.form().Validate())
		locNames = append(locNames, l.Name)
	}
	for i, p := range f.PartyThemes {
		add("party_themes", i, p.form().Validate())
		themeNames = append(themeNames, p.Name)
	}
	locs := placeholders(locNames)
	for i, d := range f.Itinerary {
		add("itinerary", i, d.form(i, locs).Validate())
	}
	for i, t := range f.Talent {
		add("talent", i, t.form().Validate())
		talentNames = append(talentNames, t.Name)
	}
	themes, talent := placeholders(themeNames), placeholders(talentNames)
	for i, e := range f.Events {
		form, err := e.form(themes, talent)
		if err != nil {
			add("events", i, err)
			continue
		}
		add("events", i, form.Validate())
	}
	for i, u := range f.Updates {
		add("updates", i, u.form().Validate())
	}
	return errors.Join(errs...)
}
