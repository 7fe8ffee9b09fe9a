package pgdb

import (
	"context"
	"encoding/json"

	"job-commerce-api/internal/entity"
	"job-commerce-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const orderColumns = "id, job_id, client_id, items, subtotal, tax, delivery_fee, total, " +
	"delivery_address, delivery_date, notes, status, created_at, updated_at"

type OrderRepo struct {
	*postgres.Postgres
}

func NewOrderRepo(pgdb *postgres.Postgres) *OrderRepo {
	return &OrderRepo{pgdb}
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var o entity.Order
	var items []byte
	if err := row.Scan(&o.Id, &o.JobId, &o.ClientId, &items, &o.Subtotal, &o.Tax, &o.DeliveryFee,
		&o.Total, &o.DeliveryAddress, &o.DeliveryDate, &o.Notes, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}

	o.Items = []entity.OrderItem{}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, err
		}
	}

	return &o, nil
}

func (r *OrderRepo) CreateOrder(ctx context.Context, input *entity.CreateOrderInput) (uuid.UUID, error) {
	rawItems, err := marshalJSON(input.Items)
	if err != nil {
		return uuid.Nil, err
	}

	createSql, args, _ := r.SqlBuilder.
		Insert("material_order").
		Columns("job_id", "client_id", "items", "subtotal", "tax", "delivery_fee", "total",
			"delivery_address", "delivery_date", "notes", "status").
		Values(input.JobId, input.ClientId, rawItems, input.Subtotal, input.Tax, input.DeliveryFee,
			input.Total, input.DeliveryAddress, input.DeliveryDate, input.Notes, input.Status).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createSql, args...).Scan(&id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *OrderRepo) GetOrderById(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	getSql, args, _ := r.SqlBuilder.
		Select(orderColumns).
		From("material_order").
		Where("id = ?", id).
		ToSql()

	o, err := scanOrder(r.Database.QueryRowContext(ctx, getSql, args...))
	if err != nil {
		return nil, notFound(err)
	}

	return o, nil
}

func (r *OrderRepo) GetClientOrders(ctx context.Context, clientId uuid.UUID, pg *entity.PaginationInput) ([]entity.Order, error) {
	limit, offset := pg.Bounds()
	listSql, args, _ := r.SqlBuilder.
		Select(orderColumns).
		From("material_order").
		Where("client_id = ?", clientId).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, listSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return orders, err
		}
		orders = append(orders, *o)
	}
	if err = rows.Err(); err != nil {
		return orders, err
	}

	return orders, nil
}

func (r *OrderRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, newStatus string, fromStatus string) error {
	updateSql, args, _ := r.SqlBuilder.
		Update("material_order").
		Set("status", newStatus).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", id).
		Where("status = ?", fromStatus).
		ToSql()

	res, err := r.Database.ExecContext(ctx, updateSql, args...)
	if err != nil {
		return err
	}

	return guardResult(ctx, r.Postgres, res, "material_order", id)
}
