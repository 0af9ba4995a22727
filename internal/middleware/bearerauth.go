// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/bookshelf/internal/common"
	"github.com/atinyakov/bookshelf/internal/models"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

type ctxKey string

const userKey ctxKey = "user"

// Messages written by BearerAuth.
const (
	MsgNoToken      = "Not authorized, no token"
	MsgTokenFailed  = "Not authorized, token failed"
	MsgUserNotFound = "Not authorized, user not found"
)

// UserResolver turns a bearer token into the user it was issued to.
// It returns common.ErrInvalidToken for a bad token and common.ErrNotFound
// when the user no longer exists.
type UserResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// BearerAuth is a middleware that enforces token authentication.
//
// It reads "Authorization: Bearer <token>", resolves the token to a user and
// stores that user in the request context for downstream handlers. Every
// request either gets exactly one error response or reaches next once.
func BearerAuth(resolver UserResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, r, MsgNoToken)
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				logger.Debug("malformed authorization header", zap.String("path", r.URL.Path))
				unauthorized(w, r, MsgNoToken)
				return
			}

			user, err := resolver.ResolveToken(r.Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, common.ErrInvalidToken):
				logger.Debug("token rejected", zap.Error(err))
				unauthorized(w, r, MsgTokenFailed)
				return
			case errors.Is(err, common.ErrNotFound):
				unauthorized(w, r, MsgUserNotFound)
				return
			default:
				logger.Error("resolve token", zap.Error(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, common.ErrorResponse{Message: "Server error", Kind: common.KindInternal})
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, common.ErrorResponse{Message: msg, Kind: common.KindUnauthenticated})
}

// UserFromContext returns the authenticated user, or nil outside BearerAuth.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// WithUser returns a copy of ctx carrying u, as BearerAuth does.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// GetUserIDFromContext extracts the authenticated user's ID from the
// request context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	if u := UserFromContext(ctx); u != nil {
		return u.ID
	}
	return ""
}
