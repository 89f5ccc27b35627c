package messaging

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/middleware"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// Messenger defines the operations used by Handler.
type Messenger interface {
	SendMessage(cqrs.SendMessageCommand) (*models.Message, error)
	ListConversations(cqrs.ListConversationsQuery) ([]models.Conversation, error)
	ListMessages(cqrs.ListMessagesQuery) ([]models.Message, error)
	UnreadCount(cqrs.UnreadCountQuery) (int, error)
	MarkRead(cqrs.MarkReadCommand) (int64, error)
}

type Handler struct {
	service Messenger
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
	Content    string `json:"content" validate:"required,max=2000"`
}

type ListConversationsResponse struct {
	Conversations []models.Conversation `json:"conversations"`
}

type ListMessagesResponse struct {
	Messages []models.Message `json:"messages"`
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}

func NewHandler(service Messenger) *Handler {
	return &Handler{service: service}
}

func (h *Handler) SendMessage(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	msg, err := h.service.SendMessage(cqrs.SendMessageCommand{
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	})
	if err != nil {
		switch err.Error() {
		case "cannot message yourself", "message content required", "invalid receiver":
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid message")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to send message")
		}
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) ListConversations(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	convs, err := h.service.ListConversations(cqrs.ListConversationsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list conversations")
		return
	}

	c.JSON(http.StatusOK, ListConversationsResponse{Conversations: convs})
}

func (h *Handler) ListMessages(c *gin.Context) {
	conversationID := c.Param("conversationId")
	userID, _ := middleware.GetUserID(c)

	msgs, err := h.service.ListMessages(cqrs.ListMessagesQuery{
		ConversationID: conversationID,
		UserID:         userID,
	})
	if err != nil {
		if err.Error() == "forbidden" {
			middleware.RespondWithError(c, http.StatusForbidden, "You are not part of this conversation")
			return
		}
		middleware.RespondWithError(c, http.StatusNotFound, "Conversation not found")
		return
	}

	c.JSON(http.StatusOK, ListMessagesResponse{Messages: msgs})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	count, err := h.service.UnreadCount(cqrs.UnreadCountQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to count unread messages")
		return
	}

	c.JSON(http.StatusOK, UnreadCountResponse{Unread: count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	conversationID := c.Param("conversationId")
	userID, _ := middleware.GetUserID(c)

	marked, err := h.service.MarkRead(cqrs.MarkReadCommand{
		ConversationID: conversationID,
		UserID:         userID,
	})
	if err != nil {
		if err.Error() == "forbidden" {
			middleware.RespondWithError(c, http.StatusForbidden, "You are not part of this conversation")
			return
		}
		middleware.RespondWithError(c, http.StatusNotFound, "Conversation not found")
		return
	}

	c.JSON(http.StatusOK, MarkReadResponse{Marked: marked})
}
