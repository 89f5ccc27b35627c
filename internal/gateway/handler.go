package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/middleware"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// Payer defines the gateway operations used by Handler.
type Payer interface {
	InitializePayment(cqrs.InitializePaymentCommand) (*models.GatewayPayment, error)
	VerifyPayment(cqrs.VerifyPaymentCommand) (*models.GatewayPayment, error)
	ListPayments(userID string) ([]*models.GatewayPayment, error)
}

type Handler struct {
	service Payer
}

type InitializePaymentRequest struct {
	AccountID   string  `json:"accountId" validate:"required"`
	Method      string  `json:"method" validate:"required,oneof=moncash natcash card bank_transfer"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Phone       string  `json:"phone,omitempty"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=200"`
}

func NewHandler(service Payer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) InitializePayment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	payment, err := h.service.InitializePayment(cqrs.InitializePaymentCommand{
		UserID:      userID,
		AccountID:   req.AccountID,
		Method:      req.Method,
		Amount:      req.Amount,
		Phone:       req.Phone,
		Description: req.Description,
	})
	if err != nil {
		switch err.Error() {
		case "unsupported payment method", "amount must be positive":
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to initialize payment")
		}
		return
	}

	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	paymentID := c.Param("paymentId")

	payment, err := h.service.VerifyPayment(cqrs.VerifyPaymentCommand{
		PaymentID: paymentID,
		UserID:    userID,
	})
	if err != nil {
		switch err.Error() {
		case "payment not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Payment not found")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You can only verify your own payments")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to verify payment")
		}
		return
	}

	c.JSON(http.StatusOK, payment)
}

func (h *Handler) ListPayments(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	payments, err := h.service.ListPayments(userID)
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list payments")
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments, "count": len(payments)})
}
