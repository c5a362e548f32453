package wizard

import (
	"context"
	"strings"

	"trip-guide/internal/client"
)

// UpdateForm backs the trip update modal.
type UpdateForm struct {
	ID             int64  `json:"id,omitempty"`
	Title          string `json:"title" validate:"notblank,max=200"`
	Description    string `json:"description,omitempty" validate:"max=2000"`
	UpdateType     string `json:"update_type" validate:"omitempty,oneof=general new_cruise itinerary_change event_change party_theme talent announcement"`
	ShowOnHomepage bool   `json:"show_on_homepage"`
}

func FromUpdate(u client.TripUpdate) UpdateForm {
	return UpdateForm{
		ID:             u.ID,
		Title:          u.Title,
		Description:    u.Description,
		UpdateType:     u.UpdateType,
		ShowOnHomepage: u.ShowOnHomepage,
	}
}

var updateMessages = messages{
	"title.notblank": "Title is required",
	"update_type":    "Unknown update type",
}

func (f UpdateForm) Validate() error {
	return check(f, updateMessages)
}

func (f UpdateForm) Submit(ctx context.Context, w UpdateWriter, tripID int64) (*client.TripUpdate, Toast, error) {
	isNew := f.ID == 0
	in := client.TripUpdate{
		ID:             f.ID,
		TripID:         tripID,
		Title:          strings.TrimSpace(f.Title),
		Description:    f.Description,
		UpdateType:     f.UpdateType,
		ShowOnHomepage: f.ShowOnHomepage,
	}
	if in.UpdateType == "" {
		in.UpdateType = "general"
	}
	return submit(ctx, f,
		pick(isNew, "Update created successfully", "Update saved successfully"),
		pick(isNew, "Failed to create update", "Failed to save update"),
		func(ctx context.Context) (*client.TripUpdate, error) {
			if isNew {
				return w.CreateUpdate(ctx, tripID, in)
			}
			return w.UpdateUpdate(ctx, f.ID, in)
		})
}
