package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// The core never resolves identity itself: upstream auth middleware
// (or the gateway) puts the already-authenticated user id into the
// X-User-Id header, and this package only carries it into the
// request context.

type ctxKey struct{}

const HeaderUserID = "X-User-Id"

// Middleware parses X-User-Id into the request context. Requests
// without the header pass through anonymously; handlers that need an
// acting user reject those with 401.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := r.Header.Get(HeaderUserID); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				r = r.WithContext(WithUserID(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// UserID returns the acting user's id, or uuid.Nil when the request
// carried none.
func UserID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ctxKey{}).(uuid.UUID)
	return id
}
