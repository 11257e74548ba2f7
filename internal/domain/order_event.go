package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "created"
	OrderEventStatusUpdated OrderEventType = "status_updated"
	OrderEventCancelled     OrderEventType = "cancelled"
)

type OrderEvent struct {
	OrderID  uuid.UUID      `json:"order_id"`
	OwnerID  string         `json:"owner_id"`
	Type     OrderEventType `json:"type"`
	Status   OrderStatus    `json:"status"`
	Total    string         `json:"total"`
	Occurred time.Time      `json:"occurred"`
}
