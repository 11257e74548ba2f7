package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
	"github.com/pharmakart/backend/internal/service"
)

type PaymentHandler struct {
	payments *service.PaymentService
	orders   *service.OrderService
	guard    port.AccessGuard
}

func NewPaymentHandler(payments *service.PaymentService, orders *service.OrderService, guard port.AccessGuard) *PaymentHandler {
	return &PaymentHandler{payments: payments, orders: orders, guard: guard}
}

type processPaymentRequest struct {
	Method         string `json:"method" binding:"required"`
	CardLastFour   string `json:"card_last_four"`
	CardHolderName string `json:"card_holder_name"`
}

type updatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *PaymentHandler) Process(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	var req processPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	method, err := domain.ToPaymentMethod(req.Method)
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

	var card *domain.CardMeta
	if req.CardLastFour != "" || req.CardHolderName != "" {
		card = &domain.CardMeta{LastFour: req.CardLastFour, HolderName: req.CardHolderName}
	}

	payment, err := h.payments.ProcessPayment(c.Request.Context(), orderID, method, card)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toPaymentResponse(payment))
}

func (h *PaymentHandler) GetByOrder(c *gin.Context) {
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

	payment, err := h.payments.GetPaymentByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// UpdateStatus is admin-only, used to settle, fail or refund a payment.
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if !user.IsAdmin() {
		respondForbidden(c)
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	var req updatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	status, err := domain.ToPaymentStatus(req.Status)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	payment, err := h.payments.UpdatePaymentStatus(c.Request.Context(), paymentID, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

func (h *PaymentHandler) currentUser(c *gin.Context) (domain.UserRef, bool) {
	user, err := h.guard.CurrentUser(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return domain.UserRef{}, false
	}
	return user, true
}
