package wizard

import (
	"context"
	"strings"

	"trip-guide/internal/client"
)

// TalentForm backs the add-talent modal.
type TalentForm struct {
	Name            string            `json:"name" validate:"notblank"`
	Category        string            `json:"category" validate:"notblank"`
	Bio             string            `json:"bio,omitempty"`
	KnownFor        string            `json:"known_for,omitempty"`
	ProfileImageURL string            `json:"profile_image_url,omitempty" validate:"omitempty,httpurl"`
	SocialLinks     map[string]string `json:"social_links,omitempty" validate:"dive,omitempty,httpurl"`
}

func FromTalent(t client.Talent) TalentForm {
	links := make(map[string]string, len(t.SocialLinks))
	for k, v := range t.SocialLinks {
		links[k] = v
	}
	return TalentForm{
		Name:            t.Name,
		Category:        t.Category,
		Bio:             t.Bio,
		KnownFor:        t.KnownFor,
		ProfileImageURL: t.ProfileImageURL,
		SocialLinks:     links,
	}
}

var talentMessages = messages{
	"name":              "Name is required",
	"category":          "Category is required",
	"profile_image_url": "Image must be an http(s) URL",
	"social_links":      "Invalid {key} link",
}

func (f TalentForm) Validate() error {
	return check(f, talentMessages)
}

func (f TalentForm) Submit(ctx context.Context, w TalentWriter, tripID int64) (*client.Talent, Toast, error) {
	in := client.Talent{
		Name:            strings.TrimSpace(f.Name),
		Category:        f.Category,
		Bio:             f.Bio,
		KnownFor:        f.KnownFor,
		ProfileImageURL: f.ProfileImageURL,
		SocialLinks:     f.SocialLinks,
	}
	return submit(ctx, f, "Talent added to trip", "Failed to add talent",
		func(ctx context.Context) (*client.Talent, error) {
			return w.AddTalent(ctx, tripID, in)
		})
}
