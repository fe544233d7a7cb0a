package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/handler"
	"unimarket/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authHandler *handler.AuthHandler, authMiddleware *middleware.AuthMiddleware) {
	// The session fetch verifies the token itself; no middleware.
	e.GET("/v1/auth/session", authHandler.GetSession)

	authenticated := e.Group("/v1/auth")
	authenticated.Use(authMiddleware.Authenticate)
	authenticated.POST("/signout", authHandler.SignOut)
}
