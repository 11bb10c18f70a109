package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/segyhp/booking-engine/internal/domain"
	"github.com/segyhp/booking-engine/pkg/response"
)

type sessionKey struct{}

// WithSession stores the session on the context
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFrom returns the session stored by Authenticate, or nil
func SessionFrom(ctx context.Context) *domain.Session {
	session, _ := ctx.Value(sessionKey{}).(*domain.Session)
	return session
}

// Authenticate resolves the bearer token into a session once per request
func Authenticate(loader SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := loader.Load(r.Context(), bearerToken(r))
			if err != nil {
				response.BusinessError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
