package middleware

import (
	"context"
	"net/http"
	"strings"

	"plan-marketplace/internal/model"

	"github.com/labstack/echo/v4"
)

const userKey = "user"

type TokenParser interface {
	Parse(token string) (string, error)
}

type UserLoader interface {
	Profile(ctx context.Context, id string) (*model.User, error)
}

// Authenticate requires a valid bearer token and stores the caller under
// the "user" context key.
func Authenticate(tokens TokenParser, users UserLoader) echo.MiddlewareFunc {
	return authenticate(tokens, users, false)
}

// OptionalAuthenticate lets anonymous requests through (guest checkout)
// but still rejects a token that is present and invalid.
func OptionalAuthenticate(tokens TokenParser, users UserLoader) echo.MiddlewareFunc {
	return authenticate(tokens, users, true)
}

func authenticate(tokens TokenParser, users UserLoader, optional bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request())
			if !ok {
				if optional {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, no token")
			}

			userID, err := tokens.Parse(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token failed")
			}

			user, err := users.Profile(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, user not found")
			}

			c.Set(userKey, user)
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// CurrentUser returns the authenticated caller, or nil for anonymous
// requests.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userKey).(*model.User)
	return user
}
