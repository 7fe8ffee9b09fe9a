package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model
type Job struct {
	Id                 uuid.UUID      `db:"id"`
	ClientId           uuid.UUID      `db:"client_id"`
	CategoryId         string         `db:"category_id"`
	Title              string         `db:"title"`
	Description        string         `db:"description"`
	Address            string         `db:"address"`
	City               string         `db:"city"`
	PostalCode         string         `db:"postal_code"`
	Latitude           *float64       `db:"latitude"`
	Longitude          *float64       `db:"longitude"`
	ScheduledDate      *time.Time     `db:"scheduled_date"`
	ScheduledTimeStart *string        `db:"scheduled_time_start"`
	ScheduledTimeEnd   *string        `db:"scheduled_time_end"`
	IsUrgent           bool           `db:"is_urgent"`
	Details            map[string]any `db:"details"`
	Photos             []string       `db:"photos"`
	Status             string         `db:"status"`
	AcceptedBidId      *uuid.UUID     `db:"accepted_bid_id"`
	AssignedProId      *uuid.UUID     `db:"assigned_pro_id"`
	TotalCost          *float64       `db:"total_cost"`
	PlatformFee        *float64       `db:"platform_fee"`
	ProPayout          *float64       `db:"pro_payout"`
	StartedAt          *time.Time     `db:"started_at"`
	CompletedAt        *time.Time     `db:"completed_at"`
	CancelledAt        *time.Time     `db:"cancelled_at"`
	CancellationReason *string        `db:"cancellation_reason"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

// service + repo input model
type CreateJobInput struct {
	ClientId           uuid.UUID
	CategoryId         string
	Title              string
	Description        string
	Address            string
	City               string
	PostalCode         string
	Latitude           *float64
	Longitude          *float64
	ScheduledDate      *time.Time
	ScheduledTimeStart *string
	ScheduledTimeEnd   *string
	IsUrgent           bool
	Details            map[string]any
	Photos             []string
	// Status is set by the service: "posted"
	Status string
}

// UpdateJobInput is a patch: nil fields are left untouched.
type UpdateJobInput struct {
	Status             *string
	ScheduledDate      *time.Time
	ScheduledTimeStart *string
	ScheduledTimeEnd   *string
	IsUrgent           *bool
	Details            map[string]any
	Photos             []string
	CancellationReason *string
}

func (in *UpdateJobInput) Empty() bool {
	return in.Status == nil && in.ScheduledDate == nil && in.ScheduledTimeStart == nil &&
		in.ScheduledTimeEnd == nil && in.IsUrgent == nil && in.Details == nil &&
		in.Photos == nil && in.CancellationReason == nil
}

// controller model
type JobOutputModel struct {
	Id                 string         `json:"id"`
	ClientId           string         `json:"clientId"`
	Category           CategoryRef    `json:"category"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Address            string         `json:"address"`
	City               string         `json:"city"`
	PostalCode         string         `json:"postalCode"`
	Latitude           *float64       `json:"latitude,omitempty"`
	Longitude          *float64       `json:"longitude,omitempty"`
	ScheduledDate      string         `json:"scheduledDate,omitempty"`
	ScheduledTimeStart *string        `json:"scheduledTimeStart,omitempty"`
	ScheduledTimeEnd   *string        `json:"scheduledTimeEnd,omitempty"`
	IsUrgent           bool           `json:"isUrgent"`
	Details            map[string]any `json:"details"`
	Photos             []string       `json:"photos"`
	Status             string         `json:"status"`
	AcceptedBidId      string         `json:"acceptedBidId,omitempty"`
	AssignedProId      string         `json:"assignedProId,omitempty"`
	TotalCost          *float64       `json:"totalCost,omitempty"`
	PlatformFee        *float64       `json:"platformFee,omitempty"`
	ProPayout          *float64       `json:"proPayout,omitempty"`
	StartedAt          string         `json:"startedAt,omitempty"`
	CompletedAt        string         `json:"completedAt,omitempty"`
	CancelledAt        string         `json:"cancelledAt,omitempty"`
	CancellationReason *string        `json:"cancellationReason,omitempty"`
	CreatedAt          string         `json:"createdAt"`
	UpdatedAt          string         `json:"updatedAt"`
}

type CategoryRef struct {
	Id    string `json:"id"`
	Known bool   `json:"estimable"`
}
