package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/currency"

	"github.com/pharmakart/backend/internal/service"
)

type Services struct {
	Products      *service.ProductService
	Carts         *service.CartService
	Orders        *service.OrderService
	Payments      *service.PaymentService
	Prescriptions *service.PrescriptionService
}

// NewRouter wires all handlers. Everything under /api requires a valid
// bearer token; /health and /metrics stay open. unit is the currency all
// product prices are kept in.
func NewRouter(svc Services, jwtSecret string, unit currency.Unit) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), MetricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	guard := NewGuard()

	products := NewProductHandler(svc.Products, guard, unit)
	carts := NewCartHandler(svc.Carts, guard)
	orders := NewOrderHandler(svc.Orders, guard)
	payments := NewPaymentHandler(svc.Payments, svc.Orders, guard)
	prescriptions := NewPrescriptionHandler(svc.Prescriptions, guard)

	api := router.Group("/api", AuthMiddleware(jwtSecret))

	api.GET("/products", products.List)
	api.GET("/products/:id", products.Get)
	api.POST("/products", products.Create)
	api.PUT("/products/:id", products.Update)
	api.DELETE("/products/:id", products.Delete)

	api.GET("/cart", carts.Get)
	api.POST("/cart/items", carts.AddItem)
	api.PUT("/cart/items/:productId", carts.UpdateItem)
	api.DELETE("/cart/items/:productId", carts.RemoveItem)
	api.DELETE("/cart", carts.Clear)

	api.POST("/orders", orders.Create)
	api.GET("/orders", orders.List)
	api.GET("/orders/:id", orders.Get)
	api.POST("/orders/:id/cancel", orders.Cancel)
	api.PUT("/orders/:id/status", orders.UpdateStatus)

	api.POST("/orders/:id/payment", payments.Process)
	api.GET("/orders/:id/payment", payments.GetByOrder)
	api.PUT("/payments/:id/status", payments.UpdateStatus)

	api.POST("/prescriptions", prescriptions.Submit)
	api.GET("/prescriptions", prescriptions.List)
	api.GET("/prescriptions/:id", prescriptions.Get)
	api.PUT("/prescriptions/:id/review", prescriptions.Review)

	return router
}
