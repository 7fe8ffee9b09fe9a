package pgdb

import (
	"context"
	"encoding/json"

	"job-commerce-api/internal/common"
	"job-commerce-api/internal/entity"
	"job-commerce-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const jobColumns = "id, client_id, category_id, title, description, address, city, postal_code, " +
	"latitude, longitude, scheduled_date, scheduled_time_start, scheduled_time_end, is_urgent, details, photos, " +
	"status, accepted_bid_id, assigned_pro_id, total_cost, platform_fee, pro_payout, " +
	"started_at, completed_at, cancelled_at, cancellation_reason, created_at, updated_at"

type JobRepo struct {
	*postgres.Postgres
}

func NewJobRepo(pgdb *postgres.Postgres) *JobRepo {
	return &JobRepo{pgdb}
}

func scanJob(row rowScanner) (*entity.Job, error) {
	var job entity.Job
	var details []byte
	err := row.Scan(&job.Id, &job.ClientId, &job.CategoryId, &job.Title, &job.Description,
		&job.Address, &job.City, &job.PostalCode, &job.Latitude, &job.Longitude,
		&job.ScheduledDate, &job.ScheduledTimeStart, &job.ScheduledTimeEnd, &job.IsUrgent,
		&details, pq.Array(&job.Photos), &job.Status, &job.AcceptedBidId, &job.AssignedProId,
		&job.TotalCost, &job.PlatformFee, &job.ProPayout, &job.StartedAt, &job.CompletedAt,
		&job.CancelledAt, &job.CancellationReason, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}

	job.Details = map[string]any{}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &job.Details); err != nil {
			return nil, err
		}
	}

	return &job, nil
}

func (r *JobRepo) CreateJob(ctx context.Context, input *entity.CreateJobInput) (uuid.UUID, error) {
	details := input.Details
	if details == nil {
		details = map[string]any{}
	}
	rawDetails, err := marshalJSON(details)
	if err != nil {
		return uuid.Nil, err
	}

	photos := input.Photos
	if photos == nil {
		photos = []string{}
	}

	createJobSql, args, _ := r.SqlBuilder.
		Insert("job").
		Columns("client_id", "category_id", "title", "description", "address", "city", "postal_code",
			"latitude", "longitude", "scheduled_date", "scheduled_time_start", "scheduled_time_end",
			"is_urgent", "details", "photos", "status").
		Values(input.ClientId, input.CategoryId, input.Title, input.Description, input.Address, input.City,
			input.PostalCode, input.Latitude, input.Longitude, input.ScheduledDate, input.ScheduledTimeStart,
			input.ScheduledTimeEnd, input.IsUrgent, rawDetails, pq.Array(photos), input.Status).
		Suffix("RETURNING id").
		ToSql()

	var jobId uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createJobSql, args...).Scan(&jobId); err != nil {
		return uuid.Nil, err
	}

	return jobId, nil
}

func (r *JobRepo) GetJobById(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	getJobSql, args, _ := r.SqlBuilder.
		Select(jobColumns).
		From("job").
		Where("id = ?", id).
		ToSql()

	job, err := scanJob(r.Database.QueryRowContext(ctx, getJobSql, args...))
	if err != nil {
		return nil, notFound(err)
	}

	return job, nil
}

func (r *JobRepo) GetClientJobs(ctx context.Context, clientId uuid.UUID, status string, pg *entity.PaginationInput) ([]entity.Job, error) {
	builder := r.SqlBuilder.
		Select(jobColumns).
		From("job").
		Where("client_id = ?", clientId)

	if status != "" {
		builder = builder.Where("status = ?", status)
	}

	return r.queryJobs(ctx, builder.OrderBy("created_at DESC"), pg)
}

func (r *JobRepo) GetOpenJobs(ctx context.Context, categoryId string, pg *entity.PaginationInput) ([]entity.Job, error) {
	builder := r.SqlBuilder.
		Select(jobColumns).
		From("job").
		Where(squirrel.Eq{"status": common.OpenJobStatuses})

	if categoryId != "" {
		builder = builder.Where("category_id = ?", categoryId)
	}

	return r.queryJobs(ctx, builder.OrderBy("is_urgent DESC", "created_at DESC"), pg)
}

func (r *JobRepo) GetProJobs(ctx context.Context, proId uuid.UUID, pg *entity.PaginationInput) ([]entity.Job, error) {
	builder := r.SqlBuilder.
		Select(jobColumns).
		From("job").
		Where("assigned_pro_id = ?", proId).
		OrderBy("created_at DESC")

	return r.queryJobs(ctx, builder, pg)
}

func (r *JobRepo) queryJobs(ctx context.Context, builder squirrel.SelectBuilder, pg *entity.PaginationInput) ([]entity.Job, error) {
	limit, offset := pg.Bounds()
	sqlReq, args, _ := builder.Limit(limit).Offset(offset).ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]entity.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return jobs, err
		}
		jobs = append(jobs, *job)
	}
	if err = rows.Err(); err != nil {
		return jobs, err
	}

	return jobs, nil
}

// UpdateJob applies patch in a single statement, guarded on expectedStatus when it
// is not empty. Moving to cancelled always stamps cancelled_at in that same statement.
func (r *JobRepo) UpdateJob(ctx context.Context, id uuid.UUID, patch *entity.UpdateJobInput, expectedStatus string) error {
	builder := r.SqlBuilder.
		Update("job").
		Set("updated_at", squirrel.Expr("now()"))

	if patch.Status != nil {
		builder = builder.Set("status", *patch.Status)
		switch *patch.Status {
		case common.JobCancelled:
			builder = builder.Set("cancelled_at", squirrel.Expr("now()"))
		case common.JobInProgress:
			builder = builder.Set("started_at", squirrel.Expr("coalesce(started_at, now())"))
		}
	}
	if patch.ScheduledDate != nil {
		builder = builder.Set("scheduled_date", *patch.ScheduledDate)
	}
	if patch.ScheduledTimeStart != nil {
		builder = builder.Set("scheduled_time_start", *patch.ScheduledTimeStart)
	}
	if patch.ScheduledTimeEnd != nil {
		builder = builder.Set("scheduled_time_end", *patch.ScheduledTimeEnd)
	}
	if patch.IsUrgent != nil {
		builder = builder.Set("is_urgent", *patch.IsUrgent)
	}
	if patch.Details != nil {
		rawDetails, err := marshalJSON(patch.Details)
		if err != nil {
			return err
		}
		builder = builder.Set("details", rawDetails)
	}
	if patch.Photos != nil {
		builder = builder.Set("photos", pq.Array(patch.Photos))
	}
	if patch.CancellationReason != nil {
		builder = builder.Set("cancellation_reason", *patch.CancellationReason)
	}

	builder = builder.Where("id = ?", id)
	if expectedStatus != "" {
		builder = builder.Where("status = ?", expectedStatus)
	}

	updateSql, args, _ := builder.ToSql()
	res, err := r.Database.ExecContext(ctx, updateSql, args...)
	if err != nil {
		return err
	}

	return guardResult(ctx, r.Postgres, res, "job", id)
}

// MarkBidding moves a posted job to bidding. Jobs in any other status are left alone.
func (r *JobRepo) MarkBidding(ctx context.Context, id uuid.UUID) error {
	updateSql, args, _ := r.SqlBuilder.
		Update("job").
		Set("status", common.JobBidding).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", id).
		Where("status = ?", common.JobPosted).
		ToSql()

	_, err := r.Database.ExecContext(ctx, updateSql, args...)
	return err
}

func (r *JobRepo) CompleteJob(ctx context.Context, id uuid.UUID, platformFee float64, proPayout float64) error {
	completeSql, args, _ := r.SqlBuilder.
		Update("job").
		Set("status", common.JobCompleted).
		Set("completed_at", squirrel.Expr("now()")).
		Set("platform_fee", platformFee).
		Set("pro_payout", proPayout).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", id).
		Where(squirrel.Eq{"status": common.ActiveJobStatuses}).
		Where("accepted_bid_id IS NOT NULL").
		ToSql()

	res, err := r.Database.ExecContext(ctx, completeSql, args...)
	if err != nil {
		return err
	}

	return guardResult(ctx, r.Postgres, res, "job", id)
}
