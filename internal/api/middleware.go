package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/01072k1anhCong2/kinhkong/internal/auth"
)

type ctxKey int

const (
	ctxKeySessionID ctxKey = iota
	ctxKeyIdentity
)

const (
	sessionCookie = "sid"
	tokenCookie   = "token"
)

// SessionMiddleware assigns every client a session ID cookie (the cart and
// checkout key) and resolves the auth token cookie, when present, to an
// identity.
func SessionMiddleware(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
				sessionID = c.Value
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), ctxKeySessionID, sessionID)

			if c, err := r.Cookie(tokenCookie); err == nil && c.Value != "" {
				if identity := svc.IdentityForToken(c.Value); identity != nil {
					ctx = context.WithValue(ctx, ctxKeyIdentity, identity)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards the back-office routes with the role gate.
func RequireAdmin(gate auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFromContext(r.Context())
			if !gate.Authenticated(identity) {
				respondError(w, http.StatusUnauthorized, "unauthenticated", "sign-in required")
				return
			}
			if !gate.IsAdmin(identity) {
				respondError(w, http.StatusForbidden, "forbidden", "administrator access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionIDFromContext(ctx context.Context) string {
	if sid, ok := ctx.Value(ctxKeySessionID).(string); ok {
		return sid
	}
	return ""
}

func identityFromContext(ctx context.Context) *auth.Identity {
	if identity, ok := ctx.Value(ctxKeyIdentity).(*auth.Identity); ok {
		return identity
	}
	return nil
}
