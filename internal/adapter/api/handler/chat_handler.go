package handler

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/usecase"
	"unimarket/pkg/errors"
	"unimarket/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createChatRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
}

func (h *ChatHandler) GetOrCreateChat(c echo.Context) error {
	userID := c.Get("uid").(string)

	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	chat, err := h.chatUseCase.GetOrCreateChat(c.Request().Context(), userID, req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chat)
}

func (h *ChatHandler) GetChatDetail(c echo.Context) error {
	userID := c.Get("uid").(string)
	chatID := c.Param("chatId")

	detail, err := h.chatUseCase.GetChatDetail(c.Request().Context(), userID, chatID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	chatID := c.Param("chatId")

	messages, err := h.chatUseCase.GetChatMessages(c.Request().Context(), userID, chatID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) MarkChatAsRead(c echo.Context) error {
	userID := c.Get("uid").(string)
	chatID := c.Param("chatId")

	if err := h.chatUseCase.MarkChatAsRead(c.Request().Context(), userID, chatID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "read"})
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	userID := c.Get("uid").(string)
	chatID := c.Param("chatId")

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, chatID, req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) SendMediaMessage(c echo.Context) error {
	userID := c.Get("uid").(string)
	chatID := c.Param("chatId")

	upload, err := uploadFromForm(c, "file")
	if err != nil {
		return response.Error(c, err)
	}
	defer upload.close()

	message, err := h.chatUseCase.SendMediaMessage(c.Request().Context(), userID, chatID, upload.MediaUpload)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) MarkSold(c echo.Context) error {
	userID := c.Get("uid").(string)
	chatID := c.Param("chatId")

	deal, err := h.chatUseCase.MarkSold(c.Request().Context(), userID, chatID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, deal)
}
