package admin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/middleware"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// UserLister exposes the profile directory to the console.
type UserLister interface {
	ListAll() ([]models.Profile, error)
}

// AccountFreezer toggles the frozen flag on any account.
type AccountFreezer interface {
	FreezeAccount(cqrs.FreezeAccountCommand) error
}

// SecondFactor is the server-side admin 2FA session.
type SecondFactor interface {
	VerifyAdmin2FA(ctx context.Context, userID, code string) error
	HasAdmin2FA(ctx context.Context, userID string) bool
}

// ConsoleStore runs the admin-only aggregate queries.
type ConsoleStore interface {
	ListAccounts() ([]AccountRow, error)
	SystemTotals() (*Totals, error)
}

type Handler struct {
	users    UserLister
	accounts AccountFreezer
	store    ConsoleStore
	second   SecondFactor
}

type Verify2FARequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type FreezeRequest struct {
	Frozen bool `json:"frozen"`
}

func NewHandler(users UserLister, accounts AccountFreezer, store ConsoleStore, second SecondFactor) *Handler {
	return &Handler{users: users, accounts: accounts, store: store, second: second}
}

// Verify2FA establishes the second-factor session required by every
// other console endpoint. The caller already passed the role gate.
func (h *Handler) Verify2FA(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req Verify2FARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	if err := h.second.VerifyAdmin2FA(c.Request.Context(), userID, req.Code); err != nil {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid verification code")
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}

// Require2FA rejects console calls until the admin has verified a
// second factor this session.
func (h *Handler) Require2FA() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)
		if !h.second.HasAdmin2FA(c.Request.Context(), userID) {
			middleware.RespondWithError(c, http.StatusForbidden, "Two-factor verification required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	profiles, err := h.users.ListAll()
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": profiles, "count": len(profiles)})
}

func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.store.ListAccounts()
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts, "count": len(accounts)})
}

func (h *Handler) SetAccountFrozen(c *gin.Context) {
	accountID := c.Param("accountId")

	var req FreezeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.accounts.FreezeAccount(cqrs.FreezeAccountCommand{
		AccountID: accountID,
		Frozen:    req.Frozen,
	})
	if err != nil {
		if err.Error() == "account not found" {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update account")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accountId": accountID, "frozen": req.Frozen})
}

func (h *Handler) SystemTotals(c *gin.Context) {
	totals, err := h.store.SystemTotals()
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to compute totals")
		return
	}

	c.JSON(http.StatusOK, totals)
}
