package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model
type Material struct {
	Id         uuid.UUID `db:"id"`
	JobId      uuid.UUID `db:"job_id"`
	Name       string    `db:"name"`
	Unit       string    `db:"unit"`
	Quantity   float64   `db:"quantity"`
	UnitPrice  float64   `db:"unit_price"`
	TotalPrice float64   `db:"total_price"`
	IsRequired bool      `db:"is_required"`
	Source     string    `db:"source"`
	Notes      *string   `db:"notes"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// service + repo input model
type CreateMaterialInput struct {
	JobId      uuid.UUID
	Name       string
	Unit       string
	Quantity   float64
	UnitPrice  float64
	TotalPrice float64 // set by the service
	IsRequired bool
	Source     string
	Notes      *string
	Status     string // set by the service: "estimated"
}

// controller model
type MaterialOutputModel struct {
	Id         string  `json:"id"`
	JobId      string  `json:"jobId"`
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
	IsRequired bool    `json:"isRequired"`
	Source     string  `json:"source"`
	Notes      *string `json:"notes,omitempty"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"createdAt"`
}
