package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
	"github.com/pharmakart/backend/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
	guard  port.AccessGuard
}

func NewOrderHandler(orders *service.OrderService, guard port.AccessGuard) *OrderHandler {
	return &OrderHandler{orders: orders, guard: guard}
}

type orderLineRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type createOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`

	// Items empty means checkout of the caller's cart.
	Items []orderLineRequest `json:"items"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	var (
		order domain.Order
		err   error
	)

	if len(req.Items) == 0 {
		order, err = h.orders.CreateOrderFromCart(c.Request.Context(), user.ID, req.ShippingAddress)
	} else {
		var lines []service.OrderLine
		for _, item := range req.Items {
			productID, parseErr := uuid.Parse(item.ProductID)
			if parseErr != nil {
				respondBadRequest(c, parseErr)
				return
			}
			lines = append(lines, service.OrderLine{ProductID: productID, Quantity: item.Quantity})
		}

		order, err = h.orders.CreateOrder(c.Request.Context(), user.ID, req.ShippingAddress, lines)
	}

	recordOrderOperation("create", err == nil)

	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	// Admins may list by status across owners, customers only see their own.
	if statusStr := c.Query("status"); statusStr != "" && user.IsAdmin() {
		status, err := domain.ToOrderStatus(statusStr)
		if err != nil {
			respondBadRequest(c, err)
			return
		}

		orders, err := h.orders.ListOrdersByStatus(ctx, status)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, lo.Map(orders, func(o domain.Order, _ int) orderResponse {
			return toOrderResponse(o)
		}))
		return
	}

	orders, err := h.orders.ListOrdersByOwner(ctx, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(orders, func(o domain.Order, _ int) orderResponse {
		return toOrderResponse(o)
	}))
}

func (h *OrderHandler) Get(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.guard.IsOwner(user, order.OwnerID) {
		respondForbidden(c)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !h.guard.IsOwner(user, order.OwnerID) {
		respondForbidden(c)
		return
	}

	cancelled, err := h.orders.CancelOrder(c.Request.Context(), orderID)

	recordOrderOperation("cancel", err == nil)

	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(cancelled))
}

// UpdateStatus is the admin path driving fulfilment transitions.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if !user.IsAdmin() {
		respondForbidden(c)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	status, err := domain.ToOrderStatus(req.Status)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), orderID, status)

	recordOrderOperation("update_status", err == nil)

	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) currentUser(c *gin.Context) (domain.UserRef, bool) {
	user, err := h.guard.CurrentUser(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return domain.UserRef{}, false
	}
	return user, true
}
