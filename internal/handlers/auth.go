package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"trip-guide/internal/config"
	"trip-guide/internal/middleware"
)

type AuthHandler struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewAuthHandler(cfg *config.Config, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{cfg: cfg, logger: logger.Named("auth")}
}

// LoginForm renders the login page, or sends a signed-in editor on to /admin.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if _, _, _, err := middleware.ValidateSessionCookie(cookie, h.cfg.SessionSecret); err == nil {
			http.Redirect(w, r, "/admin", http.StatusFound)
			return
		}
	}
	renderTemplate(w, r, http.StatusOK, "login.html", map[string]any{
		"Title": "Login - Trip Guide",
		"Email": "",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	fail := func(status int, message string) {
		renderTemplate(w, r, status, "login.html", map[string]any{
			"Title": "Login - Trip Guide",
			"Error": message,
			"Email": email,
		})
	}

	if email == "" || password == "" {
		fail(http.StatusBadRequest, "Email and password are required")
		return
	}

	if h.cfg.AdminPasswordHash == "" || !strings.EqualFold(email, h.cfg.AdminEmail) {
		h.logger.Info("login rejected", zap.String("email", email))
		fail(http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(password)); err != nil {
		h.logger.Info("login rejected", zap.String("email", email))
		fail(http.StatusUnauthorized, "Invalid email or password")
		return
	}

	cookie, err := middleware.CreateSessionCookie("admin", h.cfg.AdminEmail, AdminRole, h.cfg.SessionSecret, h.cfg.SecureCookies)
	if err != nil {
		h.logger.Error("create session", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, cookie)
	h.logger.Info("admin signed in", zap.String("email", h.cfg.AdminEmail))
	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, middleware.ClearSessionCookie(h.cfg.SecureCookies))
	http.Redirect(w, r, "/login", http.StatusFound)
}
