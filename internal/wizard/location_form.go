package wizard

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"trip-guide/internal/client"
)

// LocationForm backs the new-location modal.
type LocationForm struct {
	Name           string   `json:"name" validate:"notblank,max=255"`
	Country        string   `json:"country,omitempty"`
	LocationTypeID *int64   `json:"location_type_id,omitempty"`
	Description    string   `json:"description,omitempty"`
	ImageURL       string   `json:"image_url,omitempty" validate:"omitempty,httpurl"`
	Latitude       *float64 `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude      *float64 `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}

var locationMessages = messages{
	"name.notblank": "Name is required",
	"image_url":     "Image must be an http(s) URL",
	"latitude":      "Latitude must be between -90 and 90",
	"longitude":     "Longitude must be between -180 and 180",
	"coordinates":   "Set both latitude and longitude",
}

func (f LocationForm) Validate() error {
	return check(f, locationMessages)
}

func locationRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(LocationForm)
	if (f.Latitude == nil) != (f.Longitude == nil) {
		sl.ReportError(f.Latitude, "coordinates", "Latitude", "coordinates", "")
	}
}

func (f LocationForm) Submit(ctx context.Context, w LocationWriter) (*client.Location, Toast, error) {
	in := client.Location{
		Name:           strings.TrimSpace(f.Name),
		Country:        f.Country,
		LocationTypeID: f.LocationTypeID,
		Description:    f.Description,
		ImageURL:       f.ImageURL,
		Latitude:       f.Latitude,
		Longitude:      f.Longitude,
	}
	return submit(ctx, f, "Location created", "Failed to create location",
		func(ctx context.Context) (*client.Location, error) {
			return w.CreateLocation(ctx, in)
		})
}
