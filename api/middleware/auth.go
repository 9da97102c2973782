package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/stockpulse/stockpulse-backend/api/responses"
	pkgAuth "github.com/stockpulse/stockpulse-backend/pkg/auth"
	"github.com/stockpulse/stockpulse-backend/pkg/config"
	"github.com/stockpulse/stockpulse-backend/pkg/db/models"
	pkgerrors "github.com/stockpulse/stockpulse-backend/pkg/errors"
	"github.com/stockpulse/stockpulse-backend/pkg/logger"
)

// UserLoader resolves the subject of a verified token to a live user record.
type UserLoader interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Auth validates a bearer token, loads the user it names, and seeds the
// request context. Token claims are never trusted for authorization data;
// the admin flag always comes from the database row.
func Auth(cfg config.JWTConfig, loader UserLoader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			user, err := loader.FindByUsername(r.Context(), claims.Username)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown user"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user"))
				return
			}
			if !user.IsActive {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account disabled"))
				return
			}

			ctx := WithUser(r.Context(), user)
			if logg != nil {
				ctx = logg.WithUsername(ctx, user.Username)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
