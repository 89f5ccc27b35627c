package account

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/middleware"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// Commander defines the write-side operations used by Handler.
type Commander interface {
	CreateAccount(cqrs.CreateAccountCommand) (*models.BankAccount, error)
	UpdateAccount(cqrs.UpdateAccountCommand) (*models.AccountView, error)
	SetPrimaryAccount(cqrs.SetPrimaryAccountCommand) error
	DeleteAccount(cqrs.DeleteAccountCommand) error
}

// Querier defines the read-side operations used by Handler.
type Querier interface {
	GetAccount(cqrs.GetAccountQuery) (*models.AccountView, error)
	ListAccounts(cqrs.ListAccountsQuery) ([]models.AccountView, error)
}

// Handler handles bank-account HTTP requests.
type Handler struct {
	commands Commander
	queries  Querier
}

type CreateAccountRequest struct {
	AccountName string `json:"accountName" validate:"required"`
	AccountType string `json:"accountType" validate:"required,oneof=checking savings investment business"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
}

type UpdateAccountRequest struct {
	AccountName string `json:"accountName" validate:"required"`
	AccountType string `json:"accountType" validate:"required,oneof=checking savings investment business"`
}

type ListAccountsResponse struct {
	Accounts []models.AccountView `json:"accounts"`
}

func NewHandler(commands Commander, queries Querier) *Handler {
	return &Handler{commands: commands, queries: queries}
}

func (h *Handler) CreateAccount(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.commands.CreateAccount(cqrs.CreateAccountCommand{
		UserID:      userID,
		AccountName: req.AccountName,
		AccountType: req.AccountType,
		Currency:    req.Currency,
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *Handler) ListAccounts(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	views, err := h.queries.ListAccounts(cqrs.ListAccountsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, ListAccountsResponse{Accounts: views})
}

func (h *Handler) GetAccount(c *gin.Context) {
	accountID := c.Param("accountId")
	userID, _ := middleware.GetUserID(c)

	view, err := h.queries.GetAccount(cqrs.GetAccountQuery{
		AccountID:        accountID,
		RequestingUserID: userID,
	})
	if err != nil {
		if err.Error() == "forbidden" {
			middleware.RespondWithError(c, http.StatusForbidden, "You can only access your own accounts")
			return
		}
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	accountID := c.Param("accountId")
	userID, _ := middleware.GetUserID(c)

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.UpdateAccount(cqrs.UpdateAccountCommand{
		AccountID:        accountID,
		RequestingUserID: userID,
		AccountName:      req.AccountName,
		AccountType:      req.AccountType,
	})
	if err != nil {
		switch err.Error() {
		case "account not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You can only update your own accounts")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update account")
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) SetPrimaryAccount(c *gin.Context) {
	accountID := c.Param("accountId")
	userID, _ := middleware.GetUserID(c)

	err := h.commands.SetPrimaryAccount(cqrs.SetPrimaryAccountCommand{
		AccountID:        accountID,
		RequestingUserID: userID,
	})
	if err != nil {
		switch err.Error() {
		case "account not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You can only update your own accounts")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to set primary account")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	accountID := c.Param("accountId")
	userID, _ := middleware.GetUserID(c)

	err := h.commands.DeleteAccount(cqrs.DeleteAccountCommand{
		AccountID:        accountID,
		RequestingUserID: userID,
	})
	if err != nil {
		switch err.Error() {
		case "account not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You can only delete your own accounts")
		case "account balance must be zero":
			middleware.RespondWithError(c, http.StatusConflict, "Account balance must be zero before deletion")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete account")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
