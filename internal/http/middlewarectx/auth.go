// Package middlewarectx содержит HTTP middleware: проверку JWT с передачей
// владельца запроса через контекст, ограничение частоты запросов и метрики.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

type principalKey struct{}

// Authenticator проверяет токен доступа и возвращает владельца запроса.
type Authenticator interface {
	ValidateToken(ctx context.Context, token string) (models.Principal, error)
}

// WithPrincipal возвращает контекст с владельцем запроса.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom извлекает владельца запроса из контекста.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(models.Principal)
	if !ok || p.UserID == "" {
		return models.Principal{}, false
	}
	return p, true
}

// JWTMiddleware проверяет Bearer-токен из заголовка Authorization и кладёт
// владельца запроса в контекст. При ошибке отвечает 401.
func JWTMiddleware(authenticator Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || strings.TrimSpace(tokenStr) == "" {
				log.Info("missing or invalid authorization header")
				response.WriteUnauthorized(w, r, "missing or invalid authorization header")
				return
			}

			principal, err := authenticator.ValidateToken(r.Context(), strings.TrimSpace(tokenStr))
			if err != nil {
				log.Info("invalid or expired token", sl.Err(err))
				response.WriteUnauthorized(w, r, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
