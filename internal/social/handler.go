package social

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/middleware"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// Feeder defines the operations used by Handler.
type Feeder interface {
	CreatePost(cqrs.CreatePostCommand) (*models.Post, error)
	DeletePost(cqrs.DeletePostCommand) error
	LikePost(cqrs.LikePostCommand) error
	UnlikePost(cqrs.LikePostCommand) error
	Comment(cqrs.CommentCommand) (*models.PostComment, error)
	ListFeed(cqrs.ListFeedQuery) ([]models.Post, error)
	ListComments(cqrs.ListCommentsQuery) ([]models.PostComment, error)
}

type Handler struct {
	service Feeder
}

type CreatePostRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

type FeedResponse struct {
	Posts []models.Post `json:"posts"`
}

type CommentsResponse struct {
	Comments []models.PostComment `json:"comments"`
}

func NewHandler(service Feeder) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreatePost(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	post, err := h.service.CreatePost(cqrs.CreatePostCommand{UserID: userID, Content: req.Content})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *Handler) DeletePost(c *gin.Context) {
	postID := c.Param("postId")
	userID, _ := middleware.GetUserID(c)

	err := h.service.DeletePost(cqrs.DeletePostCommand{PostID: postID, UserID: userID})
	if err != nil {
		switch err.Error() {
		case "post not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Post not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You can only delete your own posts")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete post")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) LikePost(c *gin.Context) {
	postID := c.Param("postId")
	userID, _ := middleware.GetUserID(c)

	if err := h.service.LikePost(cqrs.LikePostCommand{PostID: postID, UserID: userID}); err != nil {
		if err.Error() == "post not found" {
			middleware.RespondWithError(c, http.StatusNotFound, "Post not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to like post")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) UnlikePost(c *gin.Context) {
	postID := c.Param("postId")
	userID, _ := middleware.GetUserID(c)

	if err := h.service.UnlikePost(cqrs.LikePostCommand{PostID: postID, UserID: userID}); err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to unlike post")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Comment(c *gin.Context) {
	postID := c.Param("postId")
	userID, _ := middleware.GetUserID(c)

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	comment, err := h.service.Comment(cqrs.CommentCommand{PostID: postID, UserID: userID, Content: req.Content})
	if err != nil {
		if err.Error() == "post not found" {
			middleware.RespondWithError(c, http.StatusNotFound, "Post not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) ListFeed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	posts, err := h.service.ListFeed(cqrs.ListFeedQuery{Limit: limit})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list feed")
		return
	}

	c.JSON(http.StatusOK, FeedResponse{Posts: posts})
}

func (h *Handler) ListComments(c *gin.Context) {
	postID := c.Param("postId")

	comments, err := h.service.ListComments(cqrs.ListCommentsQuery{PostID: postID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list comments")
		return
	}

	c.JSON(http.StatusOK, CommentsResponse{Comments: comments})
}
