package handler

import (
	"net/http"

	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hashchat/internal/domain/service"
	ws "hashchat/internal/infrastructure/websocket"
)

type WebSocketHandler struct {
	wsManager   *ws.Manager
	authService service.AuthService
	logger      *zap.Logger
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // You should restrict this in production
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, authService service.AuthService, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:   wsManager,
		authService: authService,
		logger:      logger,
	}
}

// HandleWebSocket authenticates the handshake and hands the connection to
// the session coordinator. An invalid credential rejects the connection
// before any presence state is touched.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		// Fallback for clients that send the credential as a header.
		token = c.Request().Header.Get("Sec-WebSocket-Protocol")
	}

	userID, err := h.authService.Verify(c.Request().Context(), token)
	if err != nil {
		h.logger.Warn("websocket auth rejected", zap.Error(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication error")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return err
	}

	client := &ws.Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.wsManager.Register(client)

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
