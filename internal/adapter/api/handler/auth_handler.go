package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"unimarket/internal/usecase"
	"unimarket/pkg/errors"
	"unimarket/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// GetSession verifies the caller's token and returns the session with the
// profile attached when one exists. The token is read here rather than in the
// auth middleware because this endpoint is the session fetch itself.
func (h *AuthHandler) GetSession(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
	}

	session, err := h.authUseCase.GetCurrentSession(c.Request().Context(), parts[1])
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, session)
}

func (h *AuthHandler) SignOut(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.authUseCase.SignOut(c.Request().Context(), userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "signed_out"})
}
