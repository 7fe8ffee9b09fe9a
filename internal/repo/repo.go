package repo

import (
	"context"
	"time"

	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/repo/pgdb"
	"job-commerce-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Job interface {
	CreateJob(ctx context.Context, input *entity.CreateJobInput) (uuid.UUID, error)
	GetJobById(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	GetClientJobs(ctx context.Context, clientId uuid.UUID, status string, pg *entity.PaginationInput) ([]entity.Job, error)
	GetOpenJobs(ctx context.Context, categoryId string, pg *entity.PaginationInput) ([]entity.Job, error)
	GetProJobs(ctx context.Context, proId uuid.UUID, pg *entity.PaginationInput) ([]entity.Job, error)
	UpdateJob(ctx context.Context, id uuid.UUID, patch *entity.UpdateJobInput, expectedStatus string) error
	MarkBidding(ctx context.Context, id uuid.UUID) error
	CompleteJob(ctx context.Context, id uuid.UUID, platformFee float64, proPayout float64) error
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error)
	GetBidById(ctx context.Context, id uuid.UUID) (*entity.Bid, error)
	GetJobBids(ctx context.Context, jobId uuid.UUID, pg *entity.PaginationInput) ([]entity.Bid, error)
	GetProBids(ctx context.Context, proId uuid.UUID, status string, pg *entity.PaginationInput) ([]entity.Bid, error)
	UpdateBidStatus(ctx context.Context, id uuid.UUID, newStatus string, fromStatuses ...string) error
	AcceptBid(ctx context.Context, bidId uuid.UUID, jobId uuid.UUID, proId uuid.UUID, totalCost float64) error
	ExpireStaleBids(ctx context.Context, olderThan time.Time) (int64, error)
}

type Progress interface {
	CreateProgress(ctx context.Context, input *entity.CreateProgressInput) (uuid.UUID, error)
	GetProgressById(ctx context.Context, id uuid.UUID) (*entity.Progress, error)
	GetJobProgress(ctx context.Context, jobId uuid.UUID) ([]entity.Progress, error)
}

type Material interface {
	CreateMaterials(ctx context.Context, inputs []entity.CreateMaterialInput) ([]uuid.UUID, error)
	CreateTemplateMaterials(ctx context.Context, jobId uuid.UUID, inputs []entity.CreateMaterialInput) ([]uuid.UUID, error)
	GetMaterialById(ctx context.Context, id uuid.UUID) (*entity.Material, error)
	GetJobMaterials(ctx context.Context, jobId uuid.UUID) ([]entity.Material, error)
	UpdateMaterialStatus(ctx context.Context, id uuid.UUID, newStatus string, fromStatus string) error
}

type Order interface {
	CreateOrder(ctx context.Context, input *entity.CreateOrderInput) (uuid.UUID, error)
	GetOrderById(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetClientOrders(ctx context.Context, clientId uuid.UUID, pg *entity.PaginationInput) ([]entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, newStatus string, fromStatus string) error
}

type Repositories struct {
	Diagnostics
	Job
	Bid
	Progress
	Material
	Order
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		Job:         pgdb.NewJobRepo(p),
		Bid:         pgdb.NewBidRepo(p),
		Progress:    pgdb.NewProgressRepo(p),
		Material:    pgdb.NewMaterialRepo(p),
		Order:       pgdb.NewOrderRepo(p),
	}
}
