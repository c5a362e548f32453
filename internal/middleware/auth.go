package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type contextKey string

const UserIDKey contextKey = "userID"
const UserEmailKey contextKey = "userEmail"
const UserRoleKey contextKey = "userRole"

// SessionCookieName is the admin session cookie.
const SessionCookieName = "trip_guide_session"

// SessionMaxAge is how long an admin session stays valid.
const SessionMaxAge = 7 * 24 * time.Hour

func sign(value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

func CreateSessionCookie(userID, userEmail, userRole, secret string, secure bool) (*http.Cookie, error) {
	if strings.Contains(userID+userEmail+userRole, "|") {
		return nil, fmt.Errorf("session fields must not contain '|'")
	}
	value := fmt.Sprintf("%s|%s|%s|%d", userID, userEmail, userRole, time.Now().Unix())
	cookieValue := fmt.Sprintf("%s|%s", value, sign(value, secret))

	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    cookieValue,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionMaxAge.Seconds()),
	}

	return cookie, nil
}

// ClearSessionCookie expires the admin session cookie.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

func ValidateSessionCookie(cookie *http.Cookie, secret string) (userID, userEmail, userRole string, err error) {
	if cookie == nil {
		return "", "", "", fmt.Errorf("no session cookie")
	}

	parts := strings.Split(cookie.Value, "|")
	if len(parts) != 5 {
		return "", "", "", fmt.Errorf("invalid session format")
	}

	value := strings.Join(parts[:4], "|")
	if !hmac.Equal([]byte(parts[4]), []byte(sign(value, secret))) {
		return "", "", "", fmt.Errorf("invalid session signature")
	}

	issued, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid session timestamp")
	}
	if time.Since(time.Unix(issued, 0)) > SessionMaxAge {
		return "", "", "", fmt.Errorf("session expired")
	}

	return parts[0], parts[1], parts[2], nil
}

func withUser(r *http.Request, userID, userEmail, userRole string) *http.Request {
	ctx := context.WithValue(r.Context(), UserIDKey, userID)
	ctx = context.WithValue(ctx, UserEmailKey, userEmail)
	ctx = context.WithValue(ctx, UserRoleKey, userRole)
	return r.WithContext(ctx)
}

// RequireAuth redirects to the login page when there is no valid session.
func RequireAuth(next http.HandlerFunc, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		userID, userEmail, userRole, err := ValidateSessionCookie(cookie, secret)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		next(w, withUser(r, userID, userEmail, userRole))
	}
}

// RequireAPIAuth answers 401 with a JSON body when there is no valid session.
func RequireAPIAuth(next http.HandlerFunc, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err == nil {
			userID, userEmail, userRole, verr := ValidateSessionCookie(cookie, secret)
			if verr == nil {
				next(w, withUser(r, userID, userEmail, userRole))
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
	}
}

// OptionalAuth attaches the session user when the cookie is valid and
// otherwise serves the request anonymously.
func OptionalAuth(next http.HandlerFunc, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			if userID, userEmail, userRole, err := ValidateSessionCookie(cookie, secret); err == nil {
				r = withUser(r, userID, userEmail, userRole)
			}
		}
		next(w, r)
	}
}

func GetUserID(r *http.Request) string {
	if val, ok := r.Context().Value(UserIDKey).(string); ok {
		return val
	}
	return ""
}

func GetUserEmail(r *http.Request) string {
	if val, ok := r.Context().Value(UserEmailKey).(string); ok {
		return val
	}
	return ""
}

func GetUserRole(r *http.Request) string {
	if val, ok := r.Context().Value(UserRoleKey).(string); ok {
		return val
	}
	return ""
}

// RequireRole ensures the user has one of the specified roles
func RequireRole(allowedRoles []string, secret string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return RequireAPIAuth(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetUserRole(r)
			for _, role := range allowedRoles {
				if userRole == role {
					next(w, r)
					return
				}
			}
			http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
		}, secret)
	}
}
