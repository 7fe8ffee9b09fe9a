package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is the priced snapshot of one material line inside an order.
type OrderItem struct {
	MaterialId uuid.UUID `json:"materialId"`
	Name       string    `json:"name"`
	Quantity   float64   `json:"quantity"`
	UnitPrice  float64   `json:"unitPrice"`
	TotalPrice float64   `json:"totalPrice"`
}

// db model
type Order struct {
	Id              uuid.UUID   `db:"id"`
	JobId           uuid.UUID   `db:"job_id"`
	ClientId        uuid.UUID   `db:"client_id"`
	Items           []OrderItem `db:"items"`
	Subtotal        float64     `db:"subtotal"`
	Tax             float64     `db:"tax"`
	DeliveryFee     float64     `db:"delivery_fee"`
	Total           float64     `db:"total"`
	DeliveryAddress string      `db:"delivery_address"`
	DeliveryDate    *time.Time  `db:"delivery_date"`
	Notes           *string     `db:"notes"`
	Status          string      `db:"status"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

// service + repo input model
type CreateOrderInput struct {
	JobId           uuid.UUID
	ClientId        uuid.UUID
	Items           []OrderItem
	DeliveryAddress string
	DeliveryDate    *time.Time
	Notes           *string
	// computed by the service
	Subtotal    float64
	Tax         float64
	DeliveryFee float64
	Total       float64
	Status      string
}

// controller model
type OrderOutputModel struct {
	Id              string      `json:"id"`
	JobId           string      `json:"jobId"`
	ClientId        string      `json:"clientId"`
	Items           []OrderItem `json:"items"`
	Subtotal        float64     `json:"subtotal"`
	Tax             float64     `json:"tax"`
	DeliveryFee     float64     `json:"deliveryFee"`
	Total           float64     `json:"total"`
	DeliveryAddress string      `json:"deliveryAddress"`
	DeliveryDate    string      `json:"deliveryDate,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
	Status          string      `json:"status"`
	CreatedAt       string      `json:"createdAt"`
}
