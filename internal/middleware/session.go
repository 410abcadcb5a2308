package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/crucial707/web-planner/internal/auth"
	"github.com/crucial707/web-planner/internal/repo"
)

type key string

// UserIDKey carries the authenticated user id resolved by Session.
const UserIDKey key = "user_id"

// SessionIDKey carries the raw session token for handlers that revoke it.
const SessionIDKey key = "session_id"

// UserID returns the authenticated user id placed in the context by Session.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}

// SessionID returns the session token placed in the context by Session.
func SessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok
}

// Session is the authorization gate for every resource route. It resolves the
// session cookie to a user id exactly once and threads that id through the
// request context; handlers never consult any ambient session state. Requests
// without a live session fail closed with an Authentication required envelope,
// and a dead cookie is cleared so clients do not retry it.
func Session(svc *auth.Service, cookies auth.CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := cookies.SessionIDFromRequest(r)

			userID, err := svc.CheckAuth(sessionID)
			if err == repo.ErrNoSession {
				if sessionID != "" {
					http.SetCookie(w, cookies.DeleteSessionCookie())
				}
				writeUnauthenticated(w)
				return
			}
			if err != nil {
				slog.Error("session check failed", "path", r.URL.Path, "error", err)
				writeStoreUnavailable(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, SessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logical failures ride the 200 + success:false envelope the client expects.

func writeUnauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Authentication required",
	})
}

func writeStoreUnavailable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Something went wrong. Please try again.",
	})
}
