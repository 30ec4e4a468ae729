package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"gamyartha/pkg/utils"
)

// JWTMiddleware builds the auth middleware around the configured signing secret.
func JWTMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("Bearer")
			if err != nil {
				utils.WriteError(w, "Unauthorized: Missing Bearer token", http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(cookie.Value, "Bearer ")

			parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					utils.WriteError(w, "token expired", http.StatusUnauthorized)
					return
				}
				utils.WriteError(w, err.Error(), http.StatusUnauthorized)
				return
			}

			if !parsedToken.Valid {
				utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
				return
			}

			claims, ok := parsedToken.Claims.(jwt.MapClaims)
			if !ok {
				utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextKey("role"), claims["role"])
			ctx = context.WithValue(ctx, utils.ContextKey("expiresAt"), claims["exp"])
			ctx = context.WithValue(ctx, utils.ContextKey("username"), claims["user"])
			ctx = context.WithValue(ctx, utils.ContextKey("userId"), claims["uid"])

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MiddlewaresExcludePaths wraps a middleware so the listed paths bypass it.
func MiddlewaresExcludePaths(middleware func(http.Handler) http.Handler, excluded ...string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(excluded))
	for _, p := range excluded {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		wrapped := middleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
