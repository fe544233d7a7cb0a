package handler

import (
	"github.com/labstack/echo/v4"

	"unimarket/pkg/response"
)

type HealthHandler struct {
	environment string
}

func NewHealthHandler(environment string) *HealthHandler {
	return &HealthHandler{
		environment: environment,
	}
}

func (h *HealthHandler) Check(c echo.Context) error {
	return response.Success(c, map[string]string{
		"status":      "ok",
		"environment": h.environment,
	})
}
