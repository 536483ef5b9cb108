package server

import (
	"wbparser/internal/config"
	"wbparser/internal/handler"
	"wbparser/internal/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Products *handler.ProductHandler
	Parser   *handler.ParserHandler
	Health   *handler.HealthHandler
}

// /api 配下にまとめて登録する
func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	api := e.Group("/api")

	h.Health.RegisterRoutes(e, api)
	h.Products.RegisterRoutes(api)

	//JWT_SECRETがあるときだけ取り込みを保護
	var guards []echo.MiddlewareFunc
	if cfg.JWTSecret != "" {
		guards = append(guards,
			middleware.AuthJWT(cfg.JWTSecret),
			middleware.RoleGuard(middleware.RoleOperator, middleware.RoleAdmin),
		)
	}
	h.Parser.RegisterRoutes(api, guards...)
}
