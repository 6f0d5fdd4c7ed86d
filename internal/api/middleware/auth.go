package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/arsn/dossier-tracking/internal/core/domain"
)

// AccountLookup resolves the account behind a token subject.
// ports.UserRepository satisfies it.
type AccountLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Auth validates the JWT and injects claims into context: "user_id" (sub),
// "role" and "email". When accounts is non-nil the role and email are read
// from the stored account on every request, so a demotion or a deleted
// account takes effect before the token expires.
func Auth(jwtSecret string, accounts AccountLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims.GetSubject()
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}
			role, _ := claims["role"].(string)
			email, _ := claims["email"].(string)

			if accounts != nil {
				user, err := accounts.FindByID(c.Request().Context(), sub)
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
				}
				if err != nil {
					return fmt.Errorf("load account: %w", err)
				}
				role, email = string(user.Role), user.Email
			}

			c.Set("user_id", sub)
			c.Set("role", role)
			c.Set("email", email)

			return next(c)
		}
	}
}
