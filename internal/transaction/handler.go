package transaction

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/middleware"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/utils"
)

// Commander defines the write-side operations used by Handler.
type Commander interface {
	CreateTransaction(cqrs.CreateTransactionCommand) (*models.Transaction, error)
	Transfer(cqrs.TransferCommand) (*models.Transaction, error)
}

// Querier defines the read-side operations used by Handler.
type Querier interface {
	GetTransaction(cqrs.GetTransactionQuery) (*models.TransactionView, error)
	ListTransactions(cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

// Handler handles ledger HTTP requests.
type Handler struct {
	commands Commander
	queries  Querier
}

type CreateTransactionRequest struct {
	Type        string  `json:"transactionType" validate:"required,oneof=deposit withdrawal"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"max=200"`
}

type TransferRequest struct {
	ToAccountID string  `json:"toAccountId" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"max=200"`
}

type ListTransactionsResponse struct {
	Transactions []models.TransactionView `json:"transactions"`
}

func NewHandler(commands Commander, queries Querier) *Handler {
	return &Handler{commands: commands, queries: queries}
}

// CreateTransaction accepts only deposit and withdrawal from the API; the
// other ledger types are written internally by their owning modules.
func (h *Handler) CreateTransaction(c *gin.Context) {
	accountID := c.Param("accountId")
	userID, _ := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	entry, err := h.commands.CreateTransaction(cqrs.CreateTransactionCommand{
		AccountID:   accountID,
		UserID:      userID,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) Transfer(c *gin.Context) {
	accountID := c.Param("accountId")
	userID, _ := middleware.GetUserID(c)

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	entry, err := h.commands.Transfer(cqrs.TransferCommand{
		FromAccountID: accountID,
		ToAccountID:   req.ToAccountID,
		UserID:        userID,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) GetTransaction(c *gin.Context) {
	accountID := c.Param("accountId")
	transactionID := c.Param("transactionId")
	userID, _ := middleware.GetUserID(c)

	// A malformed ID can never match a ledger entry; skip the lookup.
	if !utils.ValidateTransactionID(transactionID) {
		middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		return
	}

	view, err := h.queries.GetTransaction(cqrs.GetTransactionQuery{
		TransactionID: transactionID,
		AccountID:     accountID,
		UserID:        userID,
	})
	if err != nil {
		if err.Error() == "forbidden" {
			middleware.RespondWithError(c, http.StatusForbidden, "You can only access your own transactions")
			return
		}
		middleware.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) ListTransactions(c *gin.Context) {
	accountID := c.Param("accountId")
	userID, _ := middleware.GetUserID(c)

	views, err := h.queries.ListTransactions(cqrs.ListTransactionsQuery{
		AccountID: accountID,
		UserID:    userID,
	})
	if err != nil {
		if err.Error() == "forbidden" {
			middleware.RespondWithError(c, http.StatusForbidden, "You can only access your own transactions")
			return
		}
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}

	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: views})
}

// respondLedgerError maps ledger sentinel errors onto HTTP statuses. The
// insufficient-funds message is surfaced in Kreyòl, matching the product's
// user-facing language.
func respondLedgerError(c *gin.Context, err error) {
	switch err.Error() {
	case "insufficient funds":
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Balans ensifizan")
	case "account frozen":
		middleware.RespondWithError(c, http.StatusForbidden, "Account is frozen")
	case "forbidden":
		middleware.RespondWithError(c, http.StatusForbidden, "You can only transact on your own accounts")
	case "account not found":
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
	case "destination account not found":
		middleware.RespondWithError(c, http.StatusNotFound, "Destination account not found")
	case "cannot transfer to the same account":
		middleware.RespondWithError(c, http.StatusBadRequest, "Cannot transfer to the same account")
	case "amount must be greater than zero", "unknown transaction type":
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid transaction")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create transaction")
	}
}
