package card

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/middleware"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// Manager defines the operations used by Handler.
type Manager interface {
	CreateCard(cqrs.CreateCardCommand) (*models.VirtualCard, error)
	ListCards(cqrs.ListCardsQuery) ([]models.VirtualCard, error)
	TopUpCard(cqrs.TopUpCardCommand) (*models.VirtualCard, error)
	SimulatePurchase(cqrs.CardPurchaseCommand) (*models.VirtualCard, error)
	DeactivateCard(cqrs.DeactivateCardCommand) error
}

type Handler struct {
	service Manager
}

type TopUpRequest struct {
	SourceAccountID string  `json:"sourceAccountId" validate:"required"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
}

type PurchaseRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"max=200"`
}

type ListCardsResponse struct {
	Cards []models.VirtualCard `json:"cards"`
}

func NewHandler(service Manager) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateCard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	card, err := h.service.CreateCard(cqrs.CreateCardCommand{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create card")
		return
	}

	c.JSON(http.StatusCreated, card)
}

func (h *Handler) ListCards(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	cards, err := h.service.ListCards(cqrs.ListCardsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to list cards")
		return
	}

	c.JSON(http.StatusOK, ListCardsResponse{Cards: cards})
}

func (h *Handler) TopUpCard(c *gin.Context) {
	cardID := c.Param("cardId")
	userID, _ := middleware.GetUserID(c)

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	card, err := h.service.TopUpCard(cqrs.TopUpCardCommand{
		CardID:          cardID,
		UserID:          userID,
		SourceAccountID: req.SourceAccountID,
		Amount:          req.Amount,
	})
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

func (h *Handler) SimulatePurchase(c *gin.Context) {
	cardID := c.Param("cardId")
	userID, _ := middleware.GetUserID(c)

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	card, err := h.service.SimulatePurchase(cqrs.CardPurchaseCommand{
		CardID:      cardID,
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

func (h *Handler) DeactivateCard(c *gin.Context) {
	cardID := c.Param("cardId")
	userID, _ := middleware.GetUserID(c)

	err := h.service.DeactivateCard(cqrs.DeactivateCardCommand{
		CardID: cardID,
		UserID: userID,
	})
	if err != nil {
		respondCardError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondCardError(c *gin.Context, err error) {
	switch err.Error() {
	case "insufficient funds":
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, "Balans ensifizan")
	case "forbidden":
		middleware.RespondWithError(c, http.StatusForbidden, "You can only use your own cards")
	case "card not found", "card not found or inactive":
		middleware.RespondWithError(c, http.StatusNotFound, "Card not found")
	case "account not found":
		middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
	case "account frozen":
		middleware.RespondWithError(c, http.StatusForbidden, "Account is frozen")
	case "card inactive":
		middleware.RespondWithError(c, http.StatusConflict, "Card is inactive")
	case "card expired":
		middleware.RespondWithError(c, http.StatusConflict, "Card is expired")
	case "amount must be greater than zero":
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid amount")
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, "Card operation failed")
	}
}
