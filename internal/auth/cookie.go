package auth

import (
	"net/http"
	"time"

	"github.com/crucial707/web-planner/internal/models"
)

// CookieConfig describes how the session cookie is issued.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// NewSessionCookie builds the credential-bearing cookie for a fresh session.
// HttpOnly keeps the token away from scripts; SameSite=Lax still allows the
// cross-origin fetches the client makes with credentials included.
func (c CookieConfig) NewSessionCookie(session *models.Session) *http.Cookie {
	return &http.Cookie{
		Name:  c.Name,
		Value: session.ID,

		Path:    "/",
		Domain:  c.Domain,
		Expires: session.ExpiresAt,

		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// DeleteSessionCookie expires the cookie immediately. Used on logout and
// whenever a request arrives with a dead session, so clients stop retrying it.
func (c CookieConfig) DeleteSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:   c.Name,
		Value:  "",
		Path:   "/",
		Domain: c.Domain,

		Expires: time.Unix(0, 0),
		MaxAge:  -1,

		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionIDFromRequest extracts the session token from the request cookie.
// Empty string means no session.
func (c CookieConfig) SessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
