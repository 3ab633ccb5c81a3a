package middleware

import (
	"net/http"

	"plan-marketplace/internal/model"

	"github.com/labstack/echo/v4"
)

// Predicate decides whether a user may pass a route guard.
type Predicate func(u *model.User) bool

func HasRole(roles ...model.Role) Predicate {
	return func(u *model.User) bool {
		for _, r := range roles {
			if u.Role == r {
				return true
			}
		}
		return false
	}
}

// Approved passes users whose account status is approved. Admins always
// pass.
func Approved() Predicate {
	return func(u *model.User) bool {
		return u.IsAdmin() || u.Status == model.StatusApproved
	}
}

func AnyOf(preds ...Predicate) Predicate {
	return func(u *model.User) bool {
		for _, p := range preds {
			if p(u) {
				return true
			}
		}
		return false
	}
}

func AllOf(preds ...Predicate) Predicate {
	return func(u *model.User) bool {
		for _, p := range preds {
			if !p(u) {
				return false
			}
		}
		return true
	}
}

// Authorize runs after Authenticate; every predicate must hold.
func Authorize(preds ...Predicate) echo.MiddlewareFunc {
	guard := AllOf(preds...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
			}
			if !guard(user) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// AdminOnly is the common admin guard.
func AdminOnly() echo.MiddlewareFunc {
	return Authorize(HasRole(model.RoleAdmin))
}
