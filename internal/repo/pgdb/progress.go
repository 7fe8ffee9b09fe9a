package pgdb

import (
	"context"

	"job-commerce-api/internal/entity"
	"job-commerce-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProgressRepo only inserts and reads: progress entries are never changed.
type ProgressRepo struct {
	*postgres.Postgres
}

func NewProgressRepo(pgdb *postgres.Postgres) *ProgressRepo {
	return &ProgressRepo{pgdb}
}

func scanProgress(row rowScanner) (*entity.Progress, error) {
	var p entity.Progress
	if err := row.Scan(&p.Id, &p.JobId, &p.ProId, &p.Type, &p.Description,
		pq.Array(&p.Photos), &p.CreatedAt); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *ProgressRepo) CreateProgress(ctx context.Context, input *entity.CreateProgressInput) (uuid.UUID, error) {
	photos := input.Photos
	if photos == nil {
		photos = []string{}
	}

	createSql, args, _ := r.SqlBuilder.
		Insert("job_progress").
		Columns("job_id", "pro_id", "type", "description", "photos").
		Values(input.JobId, input.ProId, input.Type, input.Description, pq.Array(photos)).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createSql, args...).Scan(&id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *ProgressRepo) GetProgressById(ctx context.Context, id uuid.UUID) (*entity.Progress, error) {
	getSql, args, _ := r.SqlBuilder.
		Select("id, job_id, pro_id, type, description, photos, created_at").
		From("job_progress").
		Where("id = ?", id).
		ToSql()

	p, err := scanProgress(r.Database.QueryRowContext(ctx, getSql, args...))
	if err != nil {
		return nil, notFound(err)
	}

	return p, nil
}

func (r *ProgressRepo) GetJobProgress(ctx context.Context, jobId uuid.UUID) ([]entity.Progress, error) {
	listSql, args, _ := r.SqlBuilder.
		Select("id, job_id, pro_id, type, description, photos, created_at").
		From("job_progress").
		Where("job_id = ?", jobId).
		OrderBy("created_at ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, listSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]entity.Progress, 0)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return entries, err
		}
		entries = append(entries, *p)
	}
	if err = rows.Err(); err != nil {
		return entries, err
	}

	return entries, nil
}
