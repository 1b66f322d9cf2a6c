package router

import (
	"github.com/labstack/echo/v4"

	"hashchat/internal/adapter/api/handler"
)

// SetupWebSocketRouter exposes the realtime endpoint. Authentication
// happens inside the handler, during the handshake.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
