package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"job-commerce-api/internal/common"
	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/repo/repo_errors"
	"job-commerce-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const bidColumns = "id, job_id, pro_id, amount, estimated_hours, proposed_date, proposed_time_start, " +
	"proposed_time_end, message, materials_included, material_cost, status, created_at, updated_at"

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

func scanBid(row rowScanner) (*entity.Bid, error) {
	var bid entity.Bid
	err := row.Scan(&bid.Id, &bid.JobId, &bid.ProId, &bid.Amount, &bid.EstimatedHours,
		&bid.ProposedDate, &bid.ProposedTimeStart, &bid.ProposedTimeEnd, &bid.Message,
		&bid.MaterialsIncluded, &bid.MaterialCost, &bid.Status, &bid.CreatedAt, &bid.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &bid, nil
}

// CreateBid inserts a bid while holding a share lock on its job row, so it
// serialises with AcceptBid's claim on the same row. A job that is no longer
// open for bids yields ErrConflict and nothing is written.
func (r *BidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (uuid.UUID, error) {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}

	lockJobSql, args, _ := r.SqlBuilder.
		Select("1").
		From("job").
		Where("id = ?", input.JobId).
		Where(squirrel.Eq{"status": common.OpenJobStatuses}).
		Where("accepted_bid_id IS NULL").
		Suffix("FOR SHARE").
		ToSql()

	var one int
	if err := tx.QueryRowContext(ctx, lockJobSql, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = repo_errors.ErrConflict
		}

		return uuid.Nil, rollback(tx, err)
	}

	createBidSql, args, _ := r.SqlBuilder.
		Insert("bid").
		Columns("job_id", "pro_id", "amount", "estimated_hours", "proposed_date", "proposed_time_start",
			"proposed_time_end", "message", "materials_included", "material_cost", "status").
		Values(input.JobId, input.ProId, input.Amount, input.EstimatedHours, input.ProposedDate,
			input.ProposedTimeStart, input.ProposedTimeEnd, input.Message, input.MaterialsIncluded,
			input.MaterialCost, input.Status).
		Suffix("RETURNING id").
		ToSql()

	var bidId uuid.UUID
	if err := tx.QueryRowContext(ctx, createBidSql, args...).Scan(&bidId); err != nil {
		if isUniqueViolation(err) {
			err = repo_errors.ErrDuplicate
		}

		return uuid.Nil, rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return bidId, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	getBidSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("id = ?", id).
		ToSql()

	bid, err := scanBid(r.Database.QueryRowContext(ctx, getBidSql, args...))
	if err != nil {
		return nil, notFound(err)
	}

	return bid, nil
}

func (r *BidRepo) GetJobBids(ctx context.Context, jobId uuid.UUID, pg *entity.PaginationInput) ([]entity.Bid, error) {
	builder := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("job_id = ?", jobId).
		OrderBy("amount ASC", "created_at ASC")

	return r.queryBids(ctx, builder, pg)
}

func (r *BidRepo) GetProBids(ctx context.Context, proId uuid.UUID, status string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	builder := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where("pro_id = ?", proId)

	if status != "" {
		builder = builder.Where("status = ?", status)
	}

	return r.queryBids(ctx, builder.OrderBy("created_at DESC"), pg)
}

func (r *BidRepo) queryBids(ctx context.Context, builder squirrel.SelectBuilder, pg *entity.PaginationInput) ([]entity.Bid, error) {
	limit, offset := pg.Bounds()
	sqlReq, args, _ := builder.Limit(limit).Offset(offset).ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return bids, err
		}
		bids = append(bids, *bid)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}

// UpdateBidStatus sets newStatus only while the bid is in one of fromStatuses
// (any status when none are given).
func (r *BidRepo) UpdateBidStatus(ctx context.Context, id uuid.UUID, newStatus string, fromStatuses ...string) error {
	builder := r.SqlBuilder.
		Update("bid").
		Set("status", newStatus).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", id)

	if len(fromStatuses) > 0 {
		builder = builder.Where(squirrel.Eq{"status": fromStatuses})
	}

	updateStatusSql, args, _ := builder.ToSql()
	res, err := r.Database.ExecContext(ctx, updateStatusSql, args...)
	if err != nil {
		return err
	}

	return guardResult(ctx, r.Postgres, res, "bid", id)
}

// AcceptBid closes bidding on a job in one transaction. The job row is claimed
// first with a status-guarded update, which also serialises concurrent accepts on
// the same job; then pending siblings are rejected and the target bid accepted.
// Any guard that matches nothing rolls everything back with ErrConflict.
func (r *BidRepo) AcceptBid(ctx context.Context, bidId uuid.UUID, jobId uuid.UUID, proId uuid.UUID, totalCost float64) error {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	claimJobSql, args, _ := r.SqlBuilder.
		Update("job").
		Set("status", common.JobAccepted).
		Set("accepted_bid_id", bidId).
		Set("assigned_pro_id", proId).
		Set("total_cost", totalCost).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", jobId).
		Where(squirrel.Eq{"status": common.OpenJobStatuses}).
		Where("accepted_bid_id IS NULL").
		ToSql()

	res, err := tx.ExecContext(ctx, claimJobSql, args...)
	if err != nil {
		return rollback(tx, err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		if err == nil {
			err = repo_errors.ErrConflict
		}

		return rollback(tx, err)
	}

	rejectSiblingsSql, args, _ := r.SqlBuilder.
		Update("bid").
		Set("status", common.BidRejected).
		Set("updated_at", squirrel.Expr("now()")).
		Where("job_id = ?", jobId).
		Where("id <> ?", bidId).
		Where("status = ?", common.BidPending).
		ToSql()

	if _, err := tx.ExecContext(ctx, rejectSiblingsSql, args...); err != nil {
		return rollback(tx, err)
	}

	acceptSql, args, _ := r.SqlBuilder.
		Update("bid").
		Set("status", common.BidAccepted).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", bidId).
		Where("job_id = ?", jobId).
		Where("status = ?", common.BidPending).
		ToSql()

	res, err = tx.ExecContext(ctx, acceptSql, args...)
	if err != nil {
		return rollback(tx, err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		if err == nil {
			err = repo_errors.ErrConflict
		}

		return rollback(tx, err)
	}

	return tx.Commit()
}

func (r *BidRepo) ExpireStaleBids(ctx context.Context, olderThan time.Time) (int64, error) {
	expireSql, args, _ := r.SqlBuilder.
		Update("bid").
		Set("status", common.BidExpired).
		Set("updated_at", squirrel.Expr("now()")).
		Where("status = ?", common.BidPending).
		Where("created_at < ?", olderThan).
		ToSql()

	res, err := r.Database.ExecContext(ctx, expireSql, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
