package handlers

import (
	"net/http"
	"slices"

	"trip-guide/internal/middleware"
)

// AdminRole is the role carried by the configured admin account.
const AdminRole = "super_admin"

// adminRoles may manage other CMS users.
var adminRoles = []string{AdminRole, "admin"}

// editorRoles may use the wizard.
var editorRoles = []string{AdminRole, "admin", "content_editor"}

// IsAdmin reports whether the current user may manage CMS users.
func IsAdmin(r *http.Request) bool {
	return slices.Contains(adminRoles, middleware.GetUserRole(r))
}

// IsEditor reports whether the current user may use the wizard.
func IsEditor(r *http.Request) bool {
	return slices.Contains(editorRoles, middleware.GetUserRole(r))
}
