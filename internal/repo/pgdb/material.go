package pgdb

import (
	"context"
	"database/sql"
	"errors"

	"job-commerce-api/internal/common"
	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/repo/repo_errors"
	"job-commerce-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const materialColumns = "id, job_id, name, unit, quantity, unit_price, total_price, is_required, " +
	"source, notes, status, created_at, updated_at"

type MaterialRepo struct {
	*postgres.Postgres
}

func NewMaterialRepo(pgdb *postgres.Postgres) *MaterialRepo {
	return &MaterialRepo{pgdb}
}

func scanMaterial(row rowScanner) (*entity.Material, error) {
	var m entity.Material
	if err := row.Scan(&m.Id, &m.JobId, &m.Name, &m.Unit, &m.Quantity, &m.UnitPrice, &m.TotalPrice,
		&m.IsRequired, &m.Source, &m.Notes, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}

	return &m, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// CreateMaterials inserts all lines in one statement and returns their ids in input order.
func (r *MaterialRepo) CreateMaterials(ctx context.Context, inputs []entity.CreateMaterialInput) ([]uuid.UUID, error) {
	return r.insertMaterials(ctx, r.Database, inputs)
}

// CreateTemplateMaterials stores a job's generated bill of materials. The job row is
// locked for the check, so a job gets its template lines at most once; a second
// call yields ErrDuplicate.
func (r *MaterialRepo) CreateTemplateMaterials(ctx context.Context, jobId uuid.UUID, inputs []entity.CreateMaterialInput) ([]uuid.UUID, error) {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	lockJobSql, args, _ := r.SqlBuilder.
		Select("1").
		From("job").
		Where("id = ?", jobId).
		Suffix("FOR UPDATE").
		ToSql()

	var one int
	if err := tx.QueryRowContext(ctx, lockJobSql, args...).Scan(&one); err != nil {
		return nil, rollback(tx, notFound(err))
	}

	existsSql, args, _ := r.SqlBuilder.
		Select("1").
		From("job_material").
		Where("job_id = ?", jobId).
		Where("source = ?", common.MaterialFromTemplate).
		Limit(1).
		ToSql()

	err = tx.QueryRowContext(ctx, existsSql, args...).Scan(&one)
	switch {
	case err == nil:
		return nil, rollback(tx, repo_errors.ErrDuplicate)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, rollback(tx, err)
	}

	ids, err := r.insertMaterials(ctx, tx, inputs)
	if err != nil {
		return nil, rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *MaterialRepo) insertMaterials(ctx context.Context, q queryer, inputs []entity.CreateMaterialInput) ([]uuid.UUID, error) {
	if len(inputs) == 0 {
		return []uuid.UUID{}, nil
	}

	builder := r.SqlBuilder.
		Insert("job_material").
		Columns("job_id", "name", "unit", "quantity", "unit_price", "total_price", "is_required",
			"source", "notes", "status")
	for _, in := range inputs {
		builder = builder.Values(in.JobId, in.Name, in.Unit, in.Quantity, in.UnitPrice, in.TotalPrice,
			in.IsRequired, in.Source, in.Notes, in.Status)
	}

	createSql, args, _ := builder.Suffix("RETURNING id").ToSql()
	rows, err := q.QueryContext(ctx, createSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, len(inputs))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return ids, err
	}

	return ids, nil
}

func (r *MaterialRepo) GetMaterialById(ctx context.Context, id uuid.UUID) (*entity.Material, error) {
	getSql, args, _ := r.SqlBuilder.
		Select(materialColumns).
		From("job_material").
		Where("id = ?", id).
		ToSql()

	m, err := scanMaterial(r.Database.QueryRowContext(ctx, getSql, args...))
	if err != nil {
		return nil, notFound(err)
	}

	return m, nil
}

func (r *MaterialRepo) GetJobMaterials(ctx context.Context, jobId uuid.UUID) ([]entity.Material, error) {
	listSql, args, _ := r.SqlBuilder.
		Select(materialColumns).
		From("job_material").
		Where("job_id = ?", jobId).
		OrderBy("is_required DESC", "created_at ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, listSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	materials := make([]entity.Material, 0)
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return materials, err
		}
		materials = append(materials, *m)
	}
	if err = rows.Err(); err != nil {
		return materials, err
	}

	return materials, nil
}

func (r *MaterialRepo) UpdateMaterialStatus(ctx context.Context, id uuid.UUID, newStatus string, fromStatus string) error {
	updateSql, args, _ := r.SqlBuilder.
		Update("job_material").
		Set("status", newStatus).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", id).
		Where("status = ?", fromStatus).
		ToSql()

	res, err := r.Database.ExecContext(ctx, updateSql, args...)
	if err != nil {
		return err
	}

	return guardResult(ctx, r.Postgres, res, "job_material", id)
}
