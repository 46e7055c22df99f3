package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ChillLP/traewelling/internal/domain"
)

// UserSource loads the acting user record for a validated token subject.
// repo.UserRepo satisfies it.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (domain.User, error)
}

// ctxKey is unexported so no other package can forge context values.
type ctxKey struct{}

// userKey stores the authenticated *domain.User in the request context.
var userKey = ctxKey{}

// Authenticator validates HS256 bearer tokens and resolves them to user
// records. It exposes three middleware variants: Require for protected
// routes, Optional for routes that serve anonymous callers a reduced view,
// and RequireAdmin for the moderation surface.
type Authenticator struct {
	secret string
	users  UserSource
}

// NewAuthenticator constructs an Authenticator with the given signing
// secret and user source.
func NewAuthenticator(secret string, users UserSource) *Authenticator {
	return &Authenticator{secret: secret, users: users}
}

// UserFromContext returns the authenticated user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userKey).(*domain.User)
	return user
}

// ContextWithUser returns a copy of ctx carrying user. Handler tests use it
// to skip token minting.
func ContextWithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// Require rejects requests without a valid bearer token with 401.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.authenticate(r)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// Optional lets unauthenticated requests through with no user in context.
// A present-but-invalid token is still rejected, so clients notice expired
// tokens instead of silently seeing the anonymous view.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, ok := a.authenticate(r)
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "unauthorized", "invalid bearer token")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// RequireAdmin builds on Require and additionally rejects non-admins with 403.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || !user.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// authenticate parses and validates the bearer token and loads the user record.
func (a *Authenticator) authenticate(r *http.Request) (*domain.User, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(a.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	// Numeric JSON claims decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, false
	}

	user, err := a.users.GetByID(r.Context(), int64(sub))
	if err != nil {
		return nil, false
	}
	return &user, true
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":{"code":"` + code + `","message":"` + message + `"}}`))
}
