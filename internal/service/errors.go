package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kinds. Every service error wraps exactly one of them.
var (
	ErrValidation   = errors.New("validation error")
	ErrPrecondition = errors.New("precondition failed")
	ErrNotFound     = errors.New("not found")
)

func kind(k error, msg string) error {
	return fmt.Errorf("%w: %s", k, msg)
}

var (
	ErrJobNotFound      = kind(ErrNotFound, "job not found")
	ErrBidNotFound      = kind(ErrNotFound, "bid not found")
	ErrMaterialNotFound = kind(ErrNotFound, "material not found")
	ErrOrderNotFound    = kind(ErrNotFound, "order not found")

	ErrMissingClient       = kind(ErrValidation, "client id is required")
	ErrMissingPro          = kind(ErrValidation, "pro id is required")
	ErrMissingCategory     = kind(ErrValidation, "job category is required")
	ErrMissingTitle        = kind(ErrValidation, "job title is required")
	ErrMissingAddress      = kind(ErrValidation, "job address is required")
	ErrBidAmountTooLow     = kind(ErrValidation, "bid amount is below the minimum")
	ErrInvalidHours        = kind(ErrValidation, "estimated hours must be positive")
	ErrNegativeMoney       = kind(ErrValidation, "money values must not be negative")
	ErrBidNotForJob        = kind(ErrValidation, "bid does not belong to job")
	ErrInvalidStatus       = kind(ErrValidation, "unknown status")
	ErrStatusNotPatchable  = kind(ErrValidation, "status can't be set by a generic update")
	ErrNoChanges           = kind(ErrValidation, "no new values")
	ErrInvalidProgressType = kind(ErrValidation, "unknown progress type")
	ErrInvalidQuantity     = kind(ErrValidation, "quantity must be positive")
	ErrMissingName         = kind(ErrValidation, "material name is required")
	ErrEmptyOrder          = kind(ErrValidation, "order has no items")
	ErrMaterialNotForJob   = kind(ErrValidation, "material does not belong to job")
	ErrMissingDelivery     = kind(ErrValidation, "delivery address is required")
	ErrUnknownCategory     = kind(ErrValidation, "category has no material template")

	ErrBidAlreadyAccepted = kind(ErrPrecondition, "bid is already accepted")
	ErrBidNotPending      = kind(ErrPrecondition, "bid is not pending")
	ErrJobAlreadyAccepted = kind(ErrPrecondition, "job already has an accepted bid")
	ErrJobNotOpenForBids  = kind(ErrPrecondition, "job is not open for bids")
	ErrNoAcceptedBid      = kind(ErrPrecondition, "job has no accepted bid")
	ErrInvalidTransition  = kind(ErrPrecondition, "status transition not allowed")
	ErrNotAssignedPro     = kind(ErrPrecondition, "only the assigned pro can do this")
	ErrNotBidAuthor       = kind(ErrPrecondition, "only the submitting pro can do this")
	ErrBidOnOwnJob        = kind(ErrPrecondition, "client can't bid on their own job")
	ErrDuplicateBid       = kind(ErrPrecondition, "pro already has a pending bid on this job")
	ErrJobNotActive       = kind(ErrPrecondition, "job is not accepted or in progress")
	ErrConcurrentUpdate   = kind(ErrPrecondition, "entity was changed by another request")
	ErrJobClosed          = kind(ErrPrecondition, "job is closed")
	ErrNotJobClient       = kind(ErrPrecondition, "only the job's client can do this")
	ErrMaterialsGenerated = kind(ErrPrecondition, "job materials were already generated")
)

// MaterialConfirmationError is returned together with a persisted order when some of
// its materials could not be moved to confirmed. ConfirmOrderMaterials retries them.
type MaterialConfirmationError struct {
	OrderId   uuid.UUID
	Remaining []uuid.UUID
	Err       error
}

func (e *MaterialConfirmationError) Error() string {
	ids := make([]string, 0, len(e.Remaining))
	for _, id := range e.Remaining {
		ids = append(ids, id.String())
	}

	return fmt.Sprintf("order %s: %d material(s) left unconfirmed [%s]: %v",
		e.OrderId, len(e.Remaining), strings.Join(ids, ", "), e.Err)
}

func (e *MaterialConfirmationError) Unwrap() error {
	return e.Err
}
