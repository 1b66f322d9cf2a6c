package handler

import (
	"github.com/labstack/echo/v4"

	"hashchat/internal/usecase"
	"hashchat/pkg/response"
)

type ChatHandler struct {
	chatUseCase    *usecase.ChatUseCase
	hashtagUseCase *usecase.HashtagUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase, hashtagUseCase *usecase.HashtagUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase:    chatUseCase,
		hashtagUseCase: hashtagUseCase,
	}
}

type createTagRequest struct {
	Name string `json:"name" validate:"required"`
}

// GetConversation returns the discussions between the caller and the
// receiver given in the query string.
func (h *ChatHandler) GetConversation(c echo.Context) error {
	userID := c.Get("uid").(string)
	receiverID := c.QueryParam("receiverId")

	discussions, err := h.chatUseCase.GetConversation(c.Request().Context(), userID, receiverID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{"discussions": discussions})
}

// ListUsers returns every user except the caller.
func (h *ChatHandler) ListUsers(c echo.Context) error {
	userID := c.Get("uid").(string)

	users, err := h.chatUseCase.ListUsers(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}

// SearchUsers handles @mention lookups.
func (h *ChatHandler) SearchUsers(c echo.Context) error {
	userID := c.Get("uid").(string)

	users, err := h.chatUseCase.SearchUsers(c.Request().Context(), c.QueryParam("q"), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}

// CreateTag upserts a hashtag, creating it or incrementing its count.
func (h *ChatHandler) CreateTag(c echo.Context) error {
	var req createTagRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	hashtag, err := h.hashtagUseCase.CreateTag(c.Request().Context(), req.Name)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, hashtag)
}

// SearchTags returns hashtag suggestions ordered by usage.
func (h *ChatHandler) SearchTags(c echo.Context) error {
	tags, err := h.hashtagUseCase.SearchTags(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, tags)
}
