package wizard

import (
	"context"
	"strings"

	"trip-guide/internal/client"
)

// PartyThemeForm backs the party theme modal.
type PartyThemeForm struct {
	ID                    int64  `json:"id,omitempty"`
	Name                  string `json:"name" validate:"notblank,max=255"`
	ShortDescription      string `json:"short_description,omitempty" validate:"max=500"`
	LongDescription       string `json:"long_description,omitempty"`
	CostumeIdeas          string `json:"costume_ideas,omitempty"`
	ImageURL              string `json:"image_url,omitempty" validate:"omitempty,httpurl"`
	AmazonShoppingListURL string `json:"amazon_shopping_list_url,omitempty" validate:"omitempty,httpurl"`
}

func FromPartyTheme(p client.PartyTheme) PartyThemeForm {
	return PartyThemeForm(p)
}

var partyThemeMessages = messages{
	"name.notblank":            "Name is required",
	"image_url":                "Image must be an http(s) URL",
	"amazon_shopping_list_url": "Shopping list must be an http(s) URL",
}

func (f PartyThemeForm) Validate() error {
	return check(f, partyThemeMessages)
}

func (f PartyThemeForm) Submit(ctx context.Context, w PartyThemeWriter) (*client.PartyTheme, Toast, error) {
	isNew := f.ID == 0
	in := client.PartyTheme(f)
	in.Name = strings.TrimSpace(in.Name)
	return submit(ctx, f,
		pick(isNew, "Party theme created", "Party theme updated"),
		pick(isNew, "Failed to create party theme", "Failed to update party theme"),
		func(ctx context.Context) (*client.PartyTheme, error) {
			if isNew {
				return w.CreatePartyTheme(ctx, in)
			}
			return w.UpdatePartyTheme(ctx, f.ID, in)
		})
}
