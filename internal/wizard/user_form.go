package wizard

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"trip-guide/internal/client"
)

// UserForm backs the user management modal. Password is required only
// when creating a user.
type UserForm struct {
	ID       string `json:"id,omitempty"`
	Email    string `json:"email" validate:"email"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role" validate:"oneof=super_admin admin content_editor viewer"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
	IsActive bool   `json:"is_active"`
}

func FromUser(u client.User) UserForm {
	return UserForm{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, IsActive: u.IsActive}
}

var userMessages = messages{
	"email":    "A valid email is required",
	"role":     "Choose a role",
	"password": "Password must be at least 8 characters",
}

func (f UserForm) Validate() error {
	return check(f, userMessages)
}

func userRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(UserForm)
	if f.ID == "" && f.Password == "" {
		sl.ReportError(f.Password, "password", "Password", "required", "")
	}
}

func (f UserForm) Submit(ctx context.Context, w UserWriter) (*client.User, Toast, error) {
	isNew := f.ID == ""
	in := client.UserInput{
		Email:    strings.ToLower(strings.TrimSpace(f.Email)),
		Name:     f.Name,
		Role:     f.Role,
		Password: f.Password,
		IsActive: f.IsActive,
	}
	return submit(ctx, f,
		pick(isNew, "User created", "User updated"),
		pick(isNew, "Failed to create user", "Failed to update user"),
		func(ctx context.Context) (*client.User, error) {
			if isNew {
				return w.CreateUser(ctx, in)
			}
			return w.UpdateUser(ctx, f.ID, in)
		})
}
