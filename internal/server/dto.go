package server

import (
	"time"

	"github.com/samber/lo"

	"github.com/pharmakart/backend/internal/domain"
)

type moneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func toMoneyResponse(m domain.Money) moneyResponse {
	return moneyResponse{
		Amount:   m.Amount.String(),
		Currency: m.Currency.String(),
	}
}

type productResponse struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Description          string        `json:"description"`
	Category             string        `json:"category"`
	Price                moneyResponse `json:"price"`
	Stock                int           `json:"stock"`
	RequiresPrescription bool          `json:"requires_prescription"`
	ImageURL             string        `json:"image_url,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:                   p.ID.String(),
		Name:                 p.Name,
		Description:          p.Description,
		Category:             p.Category,
		Price:                toMoneyResponse(p.Price),
		Stock:                p.Stock,
		RequiresPrescription: p.RequiresPrescription,
		ImageURL:             p.ImageURL,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

type cartItemResponse struct {
	ProductID string        `json:"product_id"`
	Name      string        `json:"name"`
	Quantity  int           `json:"quantity"`
	Price     moneyResponse `json:"price"`
	Subtotal  moneyResponse `json:"subtotal"`
}

type cartResponse struct {
	OwnerID string             `json:"owner_id"`
	Items   []cartItemResponse `json:"items"`
	Total   moneyResponse      `json:"total"`
}

func toCartResponse(cart domain.Cart) (cartResponse, error) {
	total, err := cart.Total()
	if err != nil {
		return cartResponse{}, err
	}

	items := lo.Map(cart.Items, func(item domain.CartItem, _ int) cartItemResponse {
		return cartItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     toMoneyResponse(item.Price),
			Subtotal:  toMoneyResponse(item.Subtotal()),
		}
	})

	return cartResponse{
		OwnerID: cart.OwnerID,
		Items:   items,
		Total:   toMoneyResponse(total),
	}, nil
}

type orderItemResponse struct {
	ProductID string        `json:"product_id"`
	Name      string        `json:"name"`
	Quantity  int           `json:"quantity"`
	Price     moneyResponse `json:"price"`
	Subtotal  moneyResponse `json:"subtotal"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	OwnerID         string              `json:"owner_id"`
	Status          string              `json:"status"`
	Total           moneyResponse       `json:"total"`
	ShippingAddress string              `json:"shipping_address"`
	Items           []orderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := lo.Map(order.Items, func(item domain.OrderItem, _ int) orderItemResponse {
		return orderItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     toMoneyResponse(item.Price),
			Subtotal:  toMoneyResponse(item.Subtotal()),
		}
	})

	return orderResponse{
		ID:              order.ID.String(),
		OwnerID:         order.OwnerID,
		Status:          string(order.Status),
		Total:           toMoneyResponse(order.Total),
		ShippingAddress: order.ShippingAddress,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// paymentResponse carries only the masked card metadata, nothing sensitive
// ever reaches the wire.
type paymentResponse struct {
	ID            string        `json:"id"`
	OrderID       string        `json:"order_id"`
	Amount        moneyResponse `json:"amount"`
	Method        string        `json:"method"`
	Status        string        `json:"status"`
	TransactionID string        `json:"transaction_id"`
	CardLastFour  string        `json:"card_last_four,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

func toPaymentResponse(payment domain.Payment) paymentResponse {
	return paymentResponse{
		ID:            payment.ID.String(),
		OrderID:       payment.OrderID.String(),
		Amount:        toMoneyResponse(payment.Amount),
		Method:        string(payment.Method),
		Status:        string(payment.Status),
		TransactionID: payment.TransactionID,
		CardLastFour:  payment.CardLastFour,
		CreatedAt:     payment.CreatedAt,
	}
}

type prescriptionResponse struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	ProductID  string    `json:"product_id"`
	Status     string    `json:"status"`
	DoctorName string    `json:"doctor_name"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toPrescriptionResponse(p domain.Prescription) prescriptionResponse {
	return prescriptionResponse{
		ID:         p.ID.String(),
		OwnerID:    p.OwnerID,
		ProductID:  p.ProductID.String(),
		Status:     string(p.Status),
		DoctorName: p.DoctorName,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
