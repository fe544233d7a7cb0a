package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/handler"
	"unimarket/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, listingHandler *handler.ListingHandler, authMiddleware *middleware.AuthMiddleware) {
	// Public routes
	e.GET("/v1/listings", listingHandler.Browse)
	e.GET("/v1/listings/:listingId", listingHandler.GetDetail)
	e.GET("/v1/categories", listingHandler.ListCategories)

	// Protected routes (require authentication)
	authenticated := e.Group("")
	authenticated.Use(authMiddleware.Authenticate)

	authenticated.POST("/v1/listings", listingHandler.CreateListing)
	authenticated.PUT("/v1/listings/:listingId", listingHandler.UpdateListing)
	authenticated.DELETE("/v1/listings/:listingId", listingHandler.DeleteListing)
	authenticated.PATCH("/v1/listings/:listingId/images/:imageId/primary", listingHandler.SetPrimaryImage)
	authenticated.GET("/v1/my-listings", listingHandler.ListMine)
}
