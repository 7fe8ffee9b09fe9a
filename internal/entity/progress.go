package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model, append-only
type Progress struct {
	Id          uuid.UUID `db:"id"`
	JobId       uuid.UUID `db:"job_id"`
	ProId       uuid.UUID `db:"pro_id"`
	Type        string    `db:"type"`
	Description string    `db:"description"`
	Photos      []string  `db:"photos"`
	CreatedAt   time.Time `db:"created_at"`
}

// service + repo input model
type CreateProgressInput struct {
	JobId       uuid.UUID
	ProId       uuid.UUID
	Type        string
	Description string
	Photos      []string
}

// controller model
type ProgressOutputModel struct {
	Id          string   `json:"id"`
	JobId       string   `json:"jobId"`
	ProId       string   `json:"proId"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Photos      []string `json:"photos"`
	CreatedAt   string   `json:"createdAt"`
}
