package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model
type Bid struct {
	Id                uuid.UUID  `db:"id"`
	JobId             uuid.UUID  `db:"job_id"`
	ProId             uuid.UUID  `db:"pro_id"`
	Amount            float64    `db:"amount"`
	EstimatedHours    float64    `db:"estimated_hours"`
	ProposedDate      *time.Time `db:"proposed_date"`
	ProposedTimeStart *string    `db:"proposed_time_start"`
	ProposedTimeEnd   *string    `db:"proposed_time_end"`
	Message           *string    `db:"message"`
	MaterialsIncluded bool       `db:"materials_included"`
	MaterialCost      *float64   `db:"material_cost"`
	Status            string     `db:"status"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

// Total is what the client owes if this bid wins. Material cost counts as zero
// when materials are not included.
func (b *Bid) Total() float64 {
	if !b.MaterialsIncluded || b.MaterialCost == nil {
		return b.Amount
	}

	return b.Amount + *b.MaterialCost
}

// service + repo input model
type CreateBidInput struct {
	JobId             uuid.UUID
	ProId             uuid.UUID
	Amount            float64
	EstimatedHours    float64
	ProposedDate      *time.Time
	ProposedTimeStart *string
	ProposedTimeEnd   *string
	Message           *string
	MaterialsIncluded bool
	MaterialCost      *float64
	// Status is set by the service: "pending"
	Status string
}

// controller model
type BidOutputModel struct {
	Id                string   `json:"id"`
	JobId             string   `json:"jobId"`
	Pro               ProRef   `json:"pro"`
	Amount            float64  `json:"amount"`
	EstimatedHours    float64  `json:"estimatedHours"`
	ProposedDate      string   `json:"proposedDate,omitempty"`
	ProposedTimeStart *string  `json:"proposedTimeStart,omitempty"`
	ProposedTimeEnd   *string  `json:"proposedTimeEnd,omitempty"`
	Message           *string  `json:"message,omitempty"`
	MaterialsIncluded bool     `json:"materialsIncluded"`
	MaterialCost      *float64 `json:"materialCost,omitempty"`
	Status            string   `json:"status"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

// ProRef is an opaque reference into the profile service.
type ProRef struct {
	Id string `json:"id"`
}
