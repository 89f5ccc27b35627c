package trading

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/middleware"
)

// Trader defines the operations used by Handler.
type Trader interface {
	Buy(cqrs.TradeCommand) (*Position, error)
	Sell(cqrs.TradeCommand) (*Position, error)
	GetPortfolio(cqrs.PortfolioQuery) (*Portfolio, error)
	ListQuotes() map[string]string
}

type Handler struct {
	service Trader
}

type TradeRequest struct {
	AccountID string `json:"accountId" validate:"required"`
	Symbol    string `json:"symbol" validate:"required,uppercase"`
	Quantity  string `json:"quantity" validate:"required"`
}

func NewHandler(service Trader) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Buy(c *gin.Context) {
	h.trade(c, h.service.Buy)
}

func (h *Handler) Sell(c *gin.Context) {
	h.trade(c, h.service.Sell)
}

func (h *Handler) trade(c *gin.Context, execute func(cqrs.TradeCommand) (*Position, error)) {
	userID, _ := middleware.GetUserID(c)

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	position, err := execute(cqrs.TradeCommand{
		UserID:    userID,
		AccountID: req.AccountID,
		Symbol:    req.Symbol,
		Quantity:  req.Quantity,
	})
	if err != nil {
		switch err.Error() {
		case "insufficient funds":
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Balans ensifizan")
		case "insufficient shares":
			middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Not enough shares")
		case "unknown symbol", "invalid quantity":
			middleware.RespondWithError(c, http.StatusBadRequest, "Invalid order")
		case "forbidden":
			middleware.RespondWithError(c, http.StatusForbidden, "You can only trade from your own accounts")
		case "account not found":
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
		case "account frozen":
			middleware.RespondWithError(c, http.StatusForbidden, "Account is frozen")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to execute order")
		}
		return
	}

	c.JSON(http.StatusCreated, position)
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	portfolio, err := h.service.GetPortfolio(cqrs.PortfolioQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to load portfolio")
		return
	}

	c.JSON(http.StatusOK, portfolio)
}

func (h *Handler) ListQuotes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"quotes": h.service.ListQuotes()})
}
