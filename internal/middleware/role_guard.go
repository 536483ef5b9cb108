package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
)

//contextに入っているroleが許可されたものか確認します。

func RoleGuard(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			for _, a := range allowed {
				if role == a {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
		}
	}
}
