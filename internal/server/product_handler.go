package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
	"github.com/pharmakart/backend/internal/service"
)

type ProductHandler struct {
	products *service.ProductService
	guard    port.AccessGuard

	// unit is the single currency all prices are kept in.
	unit currency.Unit
}

func NewProductHandler(products *service.ProductService, guard port.AccessGuard, unit currency.Unit) *ProductHandler {
	return &ProductHandler{products: products, guard: guard, unit: unit}
}

type productRequest struct {
	Name                 string `json:"name" binding:"required"`
	Description          string `json:"description"`
	Category             string `json:"category"`
	Price                string `json:"price" binding:"required"`
	Currency             string `json:"currency"`
	Stock                int    `json:"stock" binding:"gte=0"`
	RequiresPrescription bool   `json:"requires_prescription"`
	ImageURL             string `json:"image_url"`
}

func (h *ProductHandler) List(c *gin.Context) {
	filter := domain.ProductFilter{
		Category:    c.Query("category"),
		NamePattern: c.Query("name"),
	}

	if rx := c.Query("requires_prescription"); rx != "" {
		filter.RequiresPrescription = lo.ToPtr(rx == "true")
	}

	products, err := h.products.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(products, func(p domain.Product, _ int) productResponse {
		return toProductResponse(p)
	}))
}

func (h *ProductHandler) Get(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) Create(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	product, ok := h.bindProduct(c)
	if !ok {
		return
	}

	created, err := h.products.CreateProduct(c.Request.Context(), product)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(created))
}

func (h *ProductHandler) Update(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	product, ok := h.bindProduct(c)
	if !ok {
		return
	}
	product.ID = productID

	updated, err := h.products.UpdateProduct(c.Request.Context(), product)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(updated))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) bindProduct(c *gin.Context) (domain.Product, bool) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return domain.Product{}, false
	}

	amount, err := decimal.NewFromString(req.Price)
	if err != nil {
		respondBadRequest(c, err)
		return domain.Product{}, false
	}

	// Omitting the currency means the configured one; anything else must
	// match it, prices in a second currency are rejected outright.
	unit := h.unit
	if req.Currency != "" {
		parsed, err := currency.ParseISO(req.Currency)
		if err != nil {
			respondBadRequest(c, err)
			return domain.Product{}, false
		}
		if parsed != h.unit {
			respondBadRequest(c, fmt.Errorf("currency %s is not accepted, prices are kept in %s", parsed, h.unit))
			return domain.Product{}, false
		}
		unit = parsed
	}

	return domain.Product{
		Name:                 req.Name,
		Description:          req.Description,
		Category:             req.Category,
		Price:                domain.NewMoney(amount, unit),
		Stock:                req.Stock,
		RequiresPrescription: req.RequiresPrescription,
		ImageURL:             req.ImageURL,
	}, true
}

func (h *ProductHandler) requireAdmin(c *gin.Context) bool {
	user, err := h.guard.CurrentUser(c.Request.Context())
	if err != nil || !user.IsAdmin() {
		respondForbidden(c)
		return false
	}
	return true
}
