package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"blogapi/app/models"
)

// Realm is advertised in WWW-Authenticate challenges.
const Realm = "blogapi"

// Authenticator verifies a username and password.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, username, password string) (*models.User, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	return f(ctx, username, password)
}

// RequireAuth rejects requests without valid HTTP Basic credentials and
// stores the authenticated user in the request context. Errors for which
// isInvalid reports true answer 401; any other error answers 500.
func RequireAuth(auth Authenticator, isInvalid func(error) bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				challenge(w, "authentication required")
				return
			}

			user, err := auth.Authenticate(r.Context(), username, password)
			if err != nil {
				if isInvalid(err) {
					logger.Warn("rejected credentials",
						"username", username,
						"request_id", RequestIDFromContext(r.Context()),
					)
					challenge(w, "invalid credentials")
					return
				}
				logger.Error("authenticate", "error", err, "request_id", RequestIDFromContext(r.Context()))
				WriteError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the user stored by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

func challenge(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`", charset="UTF-8"`)
	WriteError(w, http.StatusUnauthorized, message)
}
