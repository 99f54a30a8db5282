package handlers

import (
	"errors"
	"net/http"

	"github.com/herballink/herballink-be/internal/auth"
	"github.com/herballink/herballink-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles registration, login and logout.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles the registration form post. Validation failures redirect
// back to the form with a flash notice.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	fullname := r.FormValue("fullname")
	email := r.FormValue("email")
	password := r.FormValue("password")
	confirm := r.FormValue("confirmPassword")

	_, err := h.service.Register(fullname, email, password, confirm)
	switch {
	case err == nil:
		setFlash(w, "success", "Registration successful! Login now.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, services.ErrFieldsRequired):
		setFlash(w, "danger", "All fields required")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	case errors.Is(err, services.ErrPasswordMismatch):
		setFlash(w, "danger", "Passwords do not match")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	case errors.Is(err, services.ErrEmailTaken):
		setFlash(w, "warning", "Email already registered")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
	default:
		log.Error().Err(err).Str("email", email).Msg("Failed to register user")
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
	}
}

// Login handles the login form post and establishes the session cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.service.Authenticate(email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", email).Msg("Failed authentication attempt")
			setFlash(w, "danger", "Invalid credentials")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Login failed")
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	token, err := auth.GenerateToken(user)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to generate session token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	auth.SetSessionCookie(w, token)
	name := user.Fullname
	if name == "" {
		name = user.Email
	}
	setFlash(w, "success", "Welcome "+name)
	http.Redirect(w, r, "/scan_home", http.StatusSeeOther)
}

// Logout ends the session and returns to the landing page.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	setFlash(w, "info", "Logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
