package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/foodmood/foodmood/internal/kv"
)

const CookieName = "fm_session"

type ctxKey struct{}

// Middleware resolves the session cookie, issuing a new session id when the
// cookie is missing or malformed, and stores the session State in the
// request context. The cookie is re-sent on every request so that it
// expires maxAge after the last visit, matching the idle expiry of the
// session stores.
func Middleware(store kv.Store, secure bool, maxAge time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(CookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(maxAge / time.Second),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := NewContext(r.Context(), NewState(store, id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func NewContext(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}

// FromContext returns the session State installed by Middleware.
func FromContext(ctx context.Context) *State {
	return ctx.Value(ctxKey{}).(*State)
}
