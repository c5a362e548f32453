package wizard

import (
	"context"

	"github.com/go-playground/validator/v10"

	"trip-guide/internal/client"
)

// ItineraryDayForm backs the itinerary entry modal.
type ItineraryDayForm struct {
	ID            int64  `json:"id,omitempty"`
	Date          string `json:"date" validate:"date"`
	LocationID    *int64 `json:"location_id,omitempty"`
	LocationName  string `json:"location_name,omitempty"`
	LocationType  string `json:"location_type" validate:"oneof=embarkation disembarkation port overnight sea_day pre_trip post_trip"`
	ArrivalTime   string `json:"arrival_time,omitempty" validate:"omitempty,clock"`
	DepartureTime string `json:"departure_time,omitempty" validate:"omitempty,clock"`
	AllAboardTime string `json:"all_aboard_time,omitempty" validate:"omitempty,clock"`
	Description   string `json:"description,omitempty"`
	ImageURL      string `json:"image_url,omitempty" validate:"omitempty,httpurl"`
	OrderIndex    int    `json:"order_index" validate:"min=0"`
}

func FromItineraryDay(d client.ItineraryDay) ItineraryDayForm {
	return ItineraryDayForm{
		ID:            d.ID,
		Date:          d.Date,
		LocationID:    d.LocationID,
		LocationName:  d.LocationName,
		LocationType:  d.LocationType,
		ArrivalTime:   d.ArrivalTime,
		DepartureTime: d.DepartureTime,
		AllAboardTime: d.AllAboardTime,
		Description:   d.Description,
		ImageURL:      d.ImageURL,
		OrderIndex:    d.OrderIndex,
	}
}

var itineraryDayMessages = messages{
	"date":            "Date must be YYYY-MM-DD",
	"location_type":   "Choose a day type",
	"location":        "Location is required unless at sea",
	"arrival_time":    "Time must be HH:MM",
	"departure_time":  "Time must be HH:MM",
	"all_aboard_time": "Time must be HH:MM",
	"image_url":       "Image must be an http(s) URL",
	"order_index":     "Order cannot be negative",
}

func (f ItineraryDayForm) Validate() error {
	return check(f, itineraryDayMessages)
}

func itineraryDayRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(ItineraryDayForm)
	if f.LocationType != "sea_day" && f.LocationID == nil && f.LocationName == "" {
		sl.ReportError(f.LocationName, "location", "LocationName", "location", "")
	}
}

func (f ItineraryDayForm) Submit(ctx context.Context, w ItineraryWriter, tripID int64) (*client.ItineraryDay, Toast, error) {
	isNew := f.ID == 0
	in := client.ItineraryDay{
		ID:            f.ID,
		TripID:        tripID,
		Date:          f.Date,
		LocationID:    f.LocationID,
		LocationName:  f.LocationName,
		LocationType:  f.LocationType,
		ArrivalTime:   f.ArrivalTime,
		DepartureTime: f.DepartureTime,
		AllAboardTime: f.AllAboardTime,
		Description:   f.Description,
		ImageURL:      f.ImageURL,
		OrderIndex:    f.OrderIndex,
	}
	return submit(ctx, f,
		pick(isNew, "Itinerary day added", "Itinerary day updated"),
		pick(isNew, "Failed to add itinerary day", "Failed to update itinerary day"),
		func(ctx context.Context) (*client.ItineraryDay, error) {
			if isNew {
				return w.CreateItineraryDay(ctx, tripID, in)
			}
			return w.UpdateItineraryDay(ctx, tripID, f.ID, in)
		})
}
