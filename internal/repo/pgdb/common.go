package pgdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"job-commerce-api/internal/repo/repo_errors"
	"job-commerce-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type rowScanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// guardResult turns a status-guarded write that touched no row into ErrNotFound
// or ErrConflict, depending on whether the row exists at all.
func guardResult(ctx context.Context, p *postgres.Postgres, res sql.Result, table string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	existsSql, args, _ := p.SqlBuilder.
		Select("1").
		From(table).
		Where("id = ?", id).
		ToSql()

	var one int
	err = p.Database.QueryRowContext(ctx, existsSql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repo_errors.ErrNotFound
		}

		return err
	}

	return repo_errors.ErrConflict
}

func rollback(tx *sql.Tx, err error) error {
	if e := tx.Rollback(); e != nil && !errors.Is(e, sql.ErrTxDone) {
		return errors.Join(err, e)
	}

	return err
}

func marshalJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repo_errors.ErrNotFound
	}

	return err
}
