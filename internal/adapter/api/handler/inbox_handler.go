package handler

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/usecase"
	"unimarket/pkg/response"
)

type InboxHandler struct {
	inboxUseCase *usecase.InboxUseCase
}

func NewInboxHandler(inboxUseCase *usecase.InboxUseCase) *InboxHandler {
	return &InboxHandler{
		inboxUseCase: inboxUseCase,
	}
}

// GetUnreadCount returns the badge number. The use case already swallows read
// failures into a zero count, so this endpoint never errors on reads.
func (h *InboxHandler) GetUnreadCount(c echo.Context) error {
	userID := c.Get("uid").(string)

	count := h.inboxUseCase.UnreadCount(c.Request().Context(), userID)

	return response.Success(c, map[string]int64{"count": count})
}

func (h *InboxHandler) ListConversations(c echo.Context) error {
	userID := c.Get("uid").(string)

	conversations, err := h.inboxUseCase.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversations)
}
