package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/middleware"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// Commander defines the write-side operations used by Handler.
type Commander interface {
	Register(cqrs.RegisterCommand) (*models.Profile, error)
	UpdateProfile(cqrs.UpdateProfileCommand) (*models.ProfileView, error)
	DeleteProfile(cqrs.DeleteProfileCommand) error
}

// Querier defines the read-side operations used by Handler.
type Querier interface {
	GetProfile(cqrs.GetProfileQuery) (*models.ProfileView, error)
}

// Handler handles profile HTTP requests.
type Handler struct {
	commands Commander
	queries  Querier
}

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
}

type UpdateProfileRequest struct {
	FullName  string `json:"fullName" validate:"required"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
	Bio       string `json:"bio" validate:"max=500"`
	Location  string `json:"location" validate:"max=100"`
	Phone     string `json:"phone"`
}

func NewHandler(commands Commander, queries Querier) *Handler {
	return &Handler{commands: commands, queries: queries}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	profile, err := h.commands.Register(cqrs.RegisterCommand{
		FullName: req.FullName,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		if err.Error() == "email or username already exists" {
			middleware.RespondWithError(c, http.StatusConflict, "Email or username already exists")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to register")
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetProfile only serves the caller's own profile.
func (h *Handler) GetProfile(c *gin.Context) {
	requestedID := c.Param("userId")
	userID, _ := middleware.GetUserID(c)
	if requestedID != userID {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only access your own profile")
		return
	}

	view, err := h.queries.GetProfile(cqrs.GetProfileQuery{UserID: requestedID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusNotFound, "Profile not found")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	requestedID := c.Param("userId")
	userID, _ := middleware.GetUserID(c)
	if requestedID != userID {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only update your own profile")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.UpdateProfile(cqrs.UpdateProfileCommand{
		UserID:    userID,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
		Location:  req.Location,
		Phone:     req.Phone,
	})
	if err != nil {
		if err.Error() == "profile not found" {
			middleware.RespondWithError(c, http.StatusNotFound, "Profile not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) DeleteProfile(c *gin.Context) {
	requestedID := c.Param("userId")
	userID, _ := middleware.GetUserID(c)
	if requestedID != userID {
		middleware.RespondWithError(c, http.StatusForbidden, "You can only delete your own profile")
		return
	}

	if err := h.commands.DeleteProfile(cqrs.DeleteProfileCommand{UserID: userID}); err != nil {
		if err.Error() == "profile not found" {
			middleware.RespondWithError(c, http.StatusNotFound, "Profile not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	c.Status(http.StatusNoContent)
}
