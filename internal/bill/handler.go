package bill

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/middleware"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// Payer defines the operations used by Handler.
type Payer interface {
	PayBill(cqrs.PayBillCommand) (*models.Bill, error)
	ListBills(cqrs.ListBillsQuery) ([]models.Bill, error)
}

type Handler struct {
	service Payer
}

type PayBillRequest struct {
	AccountID  string  `json:"accountId" validate:"required"`
	BillType   string  `json:"billType" validate:"required,oneof=electricity water rent internet"`
	BillNumber string  `json:"billNumber" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Provider   string  `json:"provider" validate:"required"`
}

type ListBillsResponse struct {
	Bills []models.Bill `json:"bills"`
}

func NewHandler(service Payer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) PayBill(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req PayBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	bill, err := h.service.PayBill(cqrs.PayBillCommand{
		UserID:     userID,
		AccountID:  req.AccountID,
		BillType:   req.BillType,
		BillNumber: req.BillNumber,
		Amount:     req.Amount,
		Provider:   req.Provider,
	})
	if err != nil {
		switch err.Error() {
		case "insufficient funds":
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Balans ensifizan")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You can only pay from your own accounts")
		case "account not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		case "account frozen":
			middleware.RespondWithError(c, http.StatusForbidden, "Account is frozen")
		case "amount must be greater than zero", "unknown bill type":
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid bill payment")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to pay bill")
		}
		return
	}

	c.JSON(http.StatusCreated, bill)
}

func (h *Handler) ListBills(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	bills, err := h.service.ListBills(cqrs.ListBillsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list bills")
		return
	}

	c.JSON(http.StatusOK, ListBillsResponse{Bills: bills})
}
