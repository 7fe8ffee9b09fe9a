package common

// job statuses
const (
	JobDraft      = "draft"
	JobPosted     = "posted"
	JobBidding    = "bidding"
	JobAccepted   = "accepted"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobCancelled  = "cancelled"
	JobDisputed   = "disputed"
)

// bid statuses
const (
	BidPending   = "pending"
	BidAccepted  = "accepted"
	BidRejected  = "rejected"
	BidWithdrawn = "withdrawn"
	BidExpired   = "expired"
)

// material statuses
const (
	MaterialEstimated = "estimated"
	MaterialConfirmed = "confirmed"
	MaterialPurchased = "purchased"
	MaterialUsed      = "used"
)

const (
	MaterialFromTemplate = "template"
	MaterialCustom       = "custom"
)

// order statuses
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// progress entry types
const (
	ProgressStarted      = "started"
	ProgressPhotoUpdate  = "photo_update"
	ProgressMilestone    = "milestone"
	ProgressMaterialUsed = "material_used"
	ProgressIssue        = "issue"
	ProgressCompleted    = "completed"
)

// OpenJobStatuses are the statuses in which a job accepts bids.
var OpenJobStatuses = []string{JobPosted, JobBidding}

// ActiveJobStatuses are the statuses of a job that has an engaged pro.
var ActiveJobStatuses = []string{JobAccepted, JobInProgress}

var jobTransitions = map[string][]string{
	JobDraft:      {JobPosted, JobCancelled},
	JobPosted:     {JobBidding, JobAccepted, JobCancelled, JobDisputed},
	JobBidding:    {JobAccepted, JobCancelled, JobDisputed},
	JobAccepted:   {JobInProgress, JobCompleted, JobCancelled, JobDisputed},
	JobInProgress: {JobCompleted, JobCancelled, JobDisputed},
}

var materialTransitions = map[string][]string{
	MaterialEstimated: {MaterialConfirmed},
	MaterialConfirmed: {MaterialPurchased},
	MaterialPurchased: {MaterialUsed},
}

var orderTransitions = map[string][]string{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered},
}

func CanTransitionJob(from, to string) bool {
	return allowed(jobTransitions, from, to)
}

func CanTransitionMaterial(from, to string) bool {
	return allowed(materialTransitions, from, to)
}

func CanTransitionOrder(from, to string) bool {
	return allowed(orderTransitions, from, to)
}

// IsTerminalJobStatus reports whether no further transition leaves status.
func IsTerminalJobStatus(status string) bool {
	_, ok := jobTransitions[status]
	return !ok
}

func IsOpenJobStatus(status string) bool {
	return status == JobPosted || status == JobBidding
}

func IsActiveJobStatus(status string) bool {
	return status == JobAccepted || status == JobInProgress
}

func IsProgressType(t string) bool {
	switch t {
	case ProgressStarted, ProgressPhotoUpdate, ProgressMilestone,
		ProgressMaterialUsed, ProgressIssue, ProgressCompleted:
		return true
	}

	return false
}

func allowed(table map[string][]string, from, to string) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}

	return false
}

func IsJobStatus(s string) bool {
	switch s {
	case JobDraft, JobPosted, JobBidding, JobAccepted, JobInProgress, JobCompleted, JobCancelled, JobDisputed:
		return true
	}

	return false
}

func IsBidStatus(s string) bool {
	switch s {
	case BidPending, BidAccepted, BidRejected, BidWithdrawn, BidExpired:
		return true
	}

	return false
}

func IsMaterialStatus(s string) bool {
	switch s {
	case MaterialEstimated, MaterialConfirmed, MaterialPurchased, MaterialUsed:
		return true
	}

	return false
}

func IsOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}

	return false
}
