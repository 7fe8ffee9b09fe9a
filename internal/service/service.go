package service

import (
	"context"

	"job-commerce-api/internal/config"
	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/estimator"
	"job-commerce-api/internal/notify"
	"job-commerce-api/internal/repo"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Job interface {
	CreateJob(ctx context.Context, input *entity.CreateJobInput) (*entity.JobOutputModel, error)
	GetJob(ctx context.Context, jobId uuid.UUID) (*entity.JobOutputModel, error)
	UpdateJob(ctx context.Context, jobId uuid.UUID, patch *entity.UpdateJobInput) (*entity.JobOutputModel, error)
	CancelJob(ctx context.Context, jobId uuid.UUID, reason string) (*entity.JobOutputModel, error)
	DisputeJob(ctx context.Context, jobId uuid.UUID) (*entity.JobOutputModel, error)
	CompleteJob(ctx context.Context, jobId uuid.UUID) (*entity.JobOutputModel, error)

	ListClientJobs(ctx context.Context, clientId uuid.UUID, status string, pg *entity.PaginationInput) ([]entity.JobOutputModel, error)
	ListOpenJobs(ctx context.Context, categoryId string, pg *entity.PaginationInput) ([]entity.JobOutputModel, error)
	ListProJobs(ctx context.Context, proId uuid.UUID, pg *entity.PaginationInput) ([]entity.JobOutputModel, error)
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error)
	GetBid(ctx context.Context, bidId uuid.UUID) (*entity.BidOutputModel, error)

	ListBidsForJob(ctx context.Context, jobId uuid.UUID, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
	ListBidsForPro(ctx context.Context, proId uuid.UUID, status string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)

	AcceptBid(ctx context.Context, bidId uuid.UUID, jobId uuid.UUID) (*entity.BidOutputModel, error)
	RejectBid(ctx context.Context, bidId uuid.UUID) (*entity.BidOutputModel, error)
	WithdrawBid(ctx context.Context, bidId uuid.UUID, proId uuid.UUID) (*entity.BidOutputModel, error)

	ExpireStaleBids(ctx context.Context) (int64, error)
}

type Progress interface {
	AddProgress(ctx context.Context, input *entity.CreateProgressInput) (*entity.ProgressOutputModel, error)
	ListProgress(ctx context.Context, jobId uuid.UUID) ([]entity.ProgressOutputModel, error)
}

type Material interface {
	EstimateMaterials(category string, details map[string]any) estimator.Lines
	EstimateTotalCost(category string, details map[string]any) float64

	GenerateJobMaterials(ctx context.Context, jobId uuid.UUID) ([]entity.MaterialOutputModel, error)
	AddMaterial(ctx context.Context, input *entity.CreateMaterialInput) (*entity.MaterialOutputModel, error)
	ListJobMaterials(ctx context.Context, jobId uuid.UUID) ([]entity.MaterialOutputModel, error)
	UpdateMaterialStatus(ctx context.Context, materialId uuid.UUID, newStatus string) (*entity.MaterialOutputModel, error)
}

type Order interface {
	CreateOrder(ctx context.Context, input *entity.CreateOrderInput) (*entity.OrderOutputModel, error)
	ConfirmOrderMaterials(ctx context.Context, orderId uuid.UUID) (*entity.OrderOutputModel, error)
	GetOrder(ctx context.Context, orderId uuid.UUID) (*entity.OrderOutputModel, error)
	ListOrders(ctx context.Context, clientId uuid.UUID, pg *entity.PaginationInput) ([]entity.OrderOutputModel, error)
	UpdateOrderStatus(ctx context.Context, orderId uuid.UUID, newStatus string) (*entity.OrderOutputModel, error)
}

type Services struct {
	Diagnostics Diagnostics
	Job         Job
	Bid         Bid
	Progress    Progress
	Material    Material
	Order       Order
}

func NewServices(repos *repo.Repositories, notifier notify.Notifier, commerce config.CommerceConfig, log logrus.FieldLogger) *Services {
	events := &eventEmitter{notifier: notifier, log: log}

	return &Services{
		Diagnostics: NewDiagnosticsService(repos, notifier),
		Job:         NewJobService(repos, events, commerce, log),
		Bid:         NewBidService(repos, events, commerce, log),
		Progress:    NewProgressService(repos, events, log),
		Material:    NewMaterialService(repos, log),
		Order:       NewOrderService(repos, events, commerce, log),
	}
}

// eventEmitter sends notifications on a best-effort basis: a failed publish is
// logged and never reaches the caller.
type eventEmitter struct {
	notifier notify.Notifier
	log      logrus.FieldLogger
}

func (e *eventEmitter) emit(ctx context.Context, event notify.Event) {
	if e == nil || e.notifier == nil {
		return
	}

	if err := e.notifier.Notify(ctx, event); err != nil {
		e.log.WithError(err).
			WithField("event", event.Type).
			WithField("job_id", event.JobId).
			Warn("notification failed")
	}
}

func recipients(ids ...*uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != nil && *id != uuid.Nil {
			out = append(out, id.String())
		}
	}

	return out
}
