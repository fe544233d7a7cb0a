package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/handler"
	"unimarket/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	// Public profile lookup
	e.GET("/v1/users/:userId", userHandler.GetProfile)

	authenticated := e.Group("/v1/me")
	authenticated.Use(authMiddleware.Authenticate)

	authenticated.GET("", userHandler.GetMe)
	authenticated.PUT("", userHandler.UpdateProfile)
	authenticated.POST("/avatar", userHandler.UploadAvatar)
}
