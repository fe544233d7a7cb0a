package router

import (
	"github.com/labstack/echo/v4"

	"unimarket/internal/adapter/api/handler"
	"unimarket/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, inboxHandler *handler.InboxHandler, authMiddleware *middleware.AuthMiddleware) {
	authenticated := e.Group("/v1")
	authenticated.Use(authMiddleware.Authenticate)

	authenticated.POST("/chats", chatHandler.GetOrCreateChat)
	authenticated.GET("/chats", inboxHandler.ListConversations)
	authenticated.GET("/chats/unread-count", inboxHandler.GetUnreadCount)
	authenticated.GET("/chats/:chatId", chatHandler.GetChatDetail)
	authenticated.GET("/chats/:chatId/messages", chatHandler.GetChatMessages)
	authenticated.POST("/chats/:chatId/messages", chatHandler.SendMessage)
	authenticated.POST("/chats/:chatId/media", chatHandler.SendMediaMessage)
	authenticated.POST("/chats/:chatId/read", chatHandler.MarkChatAsRead)
	authenticated.POST("/chats/:chatId/sold", chatHandler.MarkSold)
}
