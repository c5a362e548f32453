package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const VisitorIDKey contextKey = "visitorID"

// VisitorCookieName identifies an anonymous guide reader.
const VisitorCookieName = "trip_guide_visitor"

const visitorMaxAge = 365 * 24 * 60 * 60

// Visitor makes sure every request carries a visitor id, issuing a cookie
// for new or malformed ones.
func Visitor(next http.Handler, secure bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id uuid.UUID
		if c, err := r.Cookie(VisitorCookieName); err == nil {
			id, _ = uuid.Parse(c.Value)
		}
		if id == uuid.Nil {
			id = uuid.New()
			http.SetCookie(w, &http.Cookie{
				Name:     VisitorCookieName,
				Value:    id.String(),
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   visitorMaxAge,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), VisitorIDKey, id)))
	})
}

// GetVisitorID returns the visitor id set by Visitor, or uuid.Nil.
func GetVisitorID(r *http.Request) uuid.UUID {
	if id, ok := r.Context().Value(VisitorIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
