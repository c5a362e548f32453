package wizard

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"trip-guide/internal/client"
	"trip-guide/internal/schedule"
	"trip-guide/internal/util"
)

// validate checks every form. Field names in errors are the forms' json names.
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	custom := map[string]func(string) bool{
		"notblank": func(s string) bool { return strings.TrimSpace(s) != "" },
		"date":     util.IsDate,
		"clock":    client.IsClock,
		"rrule":    func(s string) bool { return schedule.ValidateRule(s) == nil },
		"httpurl":  isHTTPURL,
	}
	for tag, ok := range custom {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return ok(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	v.RegisterStructValidation(eventRules, EventForm{})
	v.RegisterStructValidation(itineraryDayRules, ItineraryDayForm{})
	v.RegisterStructValidation(locationRules, LocationForm{})
	v.RegisterStructValidation(userRules, UserForm{})
	return v
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// messages maps "field.tag" or "field" to the text shown to the editor.
// "{key}" is replaced by the map key of a failing map entry.
type messages map[string]string

func (m messages) lookup(field, key string, fe validator.FieldError) string {
	msg, ok := m[field+"."+fe.Tag()]
	if !ok {
		msg, ok = m[field]
	}
	switch {
	case ok:
		return strings.ReplaceAll(msg, "{key}", key)
	case fe.Tag() == "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	}
	return "Invalid value"
}

// check validates form and translates failures into a ValidationError
// holding the first message per field.
func check(form any, msgs messages) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return err
	}
	fields := make(map[string]string, len(failures))
	for _, fe := range failures {
		field, key := splitField(fe.Field())
		if _, seen := fields[field]; seen {
			continue
		}
		fields[field] = msgs.lookup(field, key, fe)
	}
	return &ValidationError{Fields: fields}
}

// splitField turns "social_links[instagram]" into ("social_links", "instagram").
func splitField(name string) (field, key string) {
	i := strings.IndexByte(name, '[')
	if i < 0 || !strings.HasSuffix(name, "]") {
		return name, ""
	}
	return name[:i], name[i+1 : len(name)-1]
}
