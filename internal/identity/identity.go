// Package identity provides anonymous per-visitor identity for the web
// chat widget. Each browser gets a cookie-scoped chat session ref so
// its transcript is isolated like a phone call's.
package identity

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	ChatCookieName   = "voice_agent_chat_id"
	chatCookieMaxAge = 24 * time.Hour
)

type contextKey int

const chatSessionKey contextKey = iota

var chatIDPattern = regexp.MustCompile(`^web-[a-f0-9-]{36}$`)

// ChatSessionFromContext extracts the chat session ref from the request
// context.
func ChatSessionFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(chatSessionKey).(string); ok {
		return v
	}
	return ""
}

func newChatID() string {
	return "web-" + uuid.NewString()
}

// Middleware assigns (or restores) the visitor's chat session ref and
// places it on the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(ChatCookieName); err == nil && chatIDPattern.MatchString(cookie.Value) {
			id = cookie.Value
		}
		if id == "" {
			id = newChatID()
			http.SetCookie(w, &http.Cookie{
				Name:     ChatCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(chatCookieMaxAge.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), chatSessionKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
