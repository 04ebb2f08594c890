package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/souqhub/storefront/pkg/logger"
)

// SessionHeader carries the anonymous cart session id. Clients persist the
// value the server hands back and replay it on every request.
const SessionHeader = "X-Cart-Session"

type sessionCtxKey struct{}

// CartSession resolves the session id from the request header, minting a
// fresh one when the header is missing or malformed, and echoes it back so
// the client can store it.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
			if _, err := uuid.Parse(sessionID); err != nil {
				sessionID = uuid.NewString()
			}

			w.Header().Set(SessionHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSessionID stores the session id on the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sessionID)
}

// SessionID returns the session id set by CartSession, or empty when the
// middleware did not run.
func SessionID(ctx context.Context) string {
	if value, ok := ctx.Value(sessionCtxKey{}).(string); ok {
		return value
	}
	return ""
}
