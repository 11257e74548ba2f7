package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
	"github.com/pharmakart/backend/internal/service"
)

type CartHandler struct {
	carts *service.CartService
	guard port.AccessGuard
}

func NewCartHandler(carts *service.CartService, guard port.AccessGuard) *CartHandler {
	return &CartHandler{carts: carts, guard: guard}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Get(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondCart(c, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	cart, err := h.carts.AddItem(c.Request.Context(), user.ID, productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondCart(c, http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	cart, err := h.carts.UpdateItem(c.Request.Context(), user.ID, productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondCart(c, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	cart, err := h.carts.RemoveItem(c.Request.Context(), user.ID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondCart(c, http.StatusOK, cart)
}

func (h *CartHandler) Clear(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.carts.Clear(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CartHandler) currentUser(c *gin.Context) (domain.UserRef, bool) {
	user, err := h.guard.CurrentUser(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return domain.UserRef{}, false
	}
	return user, true
}

func (h *CartHandler) respondCart(c *gin.Context, status int, cart domain.Cart) {
	resp, err := toCartResponse(cart)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, resp)
}
