package handlers

import (
	"log/slog"
	"net/http"

	"github.com/crucial707/web-planner/internal/auth"
	"github.com/crucial707/web-planner/internal/metrics"
)

// ==========================
// Auth Handler
// ==========================

// AuthHandler serves /auth. The operation is selected by the action query
// parameter: register and login and logout are POST, check is GET.
type AuthHandler struct {
	Auth    *auth.Service
	Cookies auth.CookieConfig
}

// Dispatch routes by action. Unknown actions answer with a failure envelope
// and the process carries on; only a method mismatch sets a non-200 status.
func (h *AuthHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	switch action {
	case "register":
		if r.Method != http.MethodPost {
			MethodNotAllowed(w)
			return
		}
		h.register(w, r)
	case "login":
		if r.Method != http.MethodPost {
			MethodNotAllowed(w)
			return
		}
		h.login(w, r)
	case "logout":
		if r.Method != http.MethodPost {
			MethodNotAllowed(w)
			return
		}
		h.logout(w, r)
	case "check":
		if r.Method != http.MethodGet {
			MethodNotAllowed(w)
			return
		}
		h.check(w, r)
	default:
		Fail(w, "Unknown action")
	}
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string  `json:"username" validate:"required"`
		Password string  `json:"password" validate:"required"`
		Email    *string `json:"email" validate:"omitempty,email"`
	}

	if err := DecodeStrict(r, &input); err != nil {
		Fail(w, "Invalid JSON data")
		return
	}
	if err := validate.Struct(input); err != nil {
		Fail(w, "Username and password are required")
		return
	}

	userID, err := h.Auth.Register(input.Username, input.Password, input.Email)
	if err == auth.ErrDuplicateUsername {
		Fail(w, "Username already exists")
		return
	}
	if err != nil {
		slog.Error("register failed", "error", err)
		Fail(w, ErrMessageStore)
		return
	}

	WriteJSON(w, Envelope{
		"success": true,
		"message": "User created successfully",
		"user_id": userID,
	})
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := DecodeStrict(r, &input); err != nil {
		Fail(w, "Invalid JSON data")
		return
	}

	// Either field works as the identifier; a single lookup matches both columns.
	identifier := input.Username
	if identifier == "" {
		identifier = input.Email
	}
	if identifier == "" || input.Password == "" {
		Fail(w, "Username/email and password are required")
		return
	}

	user, sess, err := h.Auth.Login(identifier, input.Password)
	if err == auth.ErrInvalidCredentials {
		metrics.RecordLogin(false)
		Fail(w, "Invalid username or password")
		return
	}
	if err != nil {
		slog.Error("login failed", "error", err)
		Fail(w, ErrMessageStore)
		return
	}

	metrics.RecordLogin(true)
	http.SetCookie(w, h.Cookies.NewSessionCookie(sess))

	WriteJSON(w, Envelope{
		"success":    true,
		"message":    "Login successful",
		"user":       user,
		"session_id": sess.ID,
	})
}

// ==========================
// Logout
// ==========================
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	sessionID := h.Cookies.SessionIDFromRequest(r)

	if err := h.Auth.Logout(sessionID); err != nil {
		slog.Error("logout failed", "error", err)
		Fail(w, ErrMessageStore)
		return
	}

	// Cookie is cleared whether or not a row was deleted; logout is idempotent.
	http.SetCookie(w, h.Cookies.DeleteSessionCookie())

	WriteJSON(w, Envelope{
		"success": true,
		"message": "Logged out successfully",
	})
}

// ==========================
// Check
// ==========================
func (h *AuthHandler) check(w http.ResponseWriter, r *http.Request) {
	sessionID := h.Cookies.SessionIDFromRequest(r)

	user, err := h.Auth.CurrentUser(sessionID)
	if err != nil {
		slog.Error("auth check failed", "error", err)
		Fail(w, ErrMessageStore)
		return
	}

	if user == nil {
		// Clear a dead cookie so the client does not keep retrying it.
		if sessionID != "" {
			http.SetCookie(w, h.Cookies.DeleteSessionCookie())
		}
		WriteJSON(w, Envelope{
			"success":       true,
			"authenticated": false,
			"message":       "Not authenticated",
		})
		return
	}

	WriteJSON(w, Envelope{
		"success":       true,
		"authenticated": true,
		"user":          user,
	})
}
