package router

import (
	"github.com/labstack/echo/v4"

	"hashchat/internal/adapter/api/handler"
	"hashchat/internal/adapter/api/middleware"
)

// SetupChatRouter wires the REST chat surface (excluding WebSocket).
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/v1/chat")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.GET("/conversation", chatHandler.GetConversation) // GET /v1/chat/conversation?receiverId=
	chatGroup.GET("/users", chatHandler.ListUsers)              // GET /v1/chat/users
	chatGroup.GET("/users/search", chatHandler.SearchUsers)     // GET /v1/chat/users/search?q=
	chatGroup.GET("/tags/search", chatHandler.SearchTags)       // GET /v1/chat/tags/search?q=
	chatGroup.POST("/tags", chatHandler.CreateTag)              // POST /v1/chat/tags
}
