package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	order, err := h.facade.Checkout(c.Request.Context(), CurrentActor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.CustomerOrders(c.Request.Context(), CurrentActor(c).UserID)
	respondOrders(c, orders, err)
}

// ArtistOrders handles GET /api/artist/orders.
func (h *OrderHandler) ArtistOrders(c *gin.Context) {
	orders, err := h.facade.ArtistOrders(c.Request.Context(), CurrentActor(c).UserID)
	respondOrders(c, orders, err)
}

// AllOrders handles GET /api/admin/orders.
func (h *OrderHandler) AllOrders(c *gin.Context) {
	orders, err := h.facade.AllOrders(c.Request.Context())
	respondOrders(c, orders, err)
}

func respondOrders(c *gin.Context, orders []model.Order, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponses(orders))
}

// Get handles GET /api/orders/:orderID.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := pathID(c, "orderID")
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), CurrentActor(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order))
}

// Cancel handles POST /api/orders/:orderID/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := pathID(c, "orderID")
	if !ok {
		return
	}
	order, err := h.facade.CancelOrder(c.Request.Context(), CurrentActor(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order))
}

// TransitionItem handles PATCH /api/orders/:orderID/items/:itemID.
func (h *OrderHandler) TransitionItem(c *gin.Context) {
	orderID, ok := pathID(c, "orderID")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemID")
	if !ok {
		return
	}
	var req dto.TransitionItemRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.facade.TransitionItem(
		c.Request.Context(),
		CurrentActor(c),
		orderID,
		itemID,
		model.ItemAction(req.Action),
		req.TrackingNumber,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(*order))
}
