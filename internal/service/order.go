package service

import (
	"context"
	"errors"
	"strings"

	"job-commerce-api/internal/common"
	"job-commerce-api/internal/config"
	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/notify"
	"job-commerce-api/internal/repo"
	"job-commerce-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type OrderTotals struct {
	Subtotal    float64
	Tax         float64
	DeliveryFee float64
	Total       float64
}

// ComputeOrderTotals prices a set of order lines. Delivery is free only when the
// subtotal is strictly above the threshold.
func ComputeOrderTotals(items []entity.OrderItem, commerce config.CommerceConfig) OrderTotals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.TotalPrice
	}
	subtotal = common.RoundMoney(subtotal)

	deliveryFee := commerce.FlatDeliveryFee
	if subtotal > commerce.FreeDeliveryThreshold {
		deliveryFee = 0
	}

	tax := common.RoundMoney(subtotal * commerce.MaterialTaxRate)

	return OrderTotals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: deliveryFee,
		Total:       common.RoundMoney(subtotal + tax + deliveryFee),
	}
}

type OrderService struct {
	orderRepo    repo.Order
	materialRepo repo.Material
	jobRepo      repo.Job
	events       *eventEmitter
	commerce     config.CommerceConfig
	log          logrus.FieldLogger
}

func NewOrderService(repos *repo.Repositories, events *eventEmitter, commerce config.CommerceConfig, log logrus.FieldLogger) *OrderService {
	return &OrderService{
		orderRepo:    repos.Order,
		materialRepo: repos.Material,
		jobRepo:      repos.Job,
		events:       events,
		commerce:     commerce,
		log:          log,
	}
}

func getOrder(ctx context.Context, orderRepo repo.Order, orderId uuid.UUID) (*entity.Order, error) {
	order, err := orderRepo.GetOrderById(ctx, orderId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrOrderNotFound
		}

		return nil, err
	}

	return order, nil
}

// CreateOrder persists a pending order and then confirms the job materials it
// references. If some of them can't be confirmed, the created order is returned
// together with a *MaterialConfirmationError.
func (s *OrderService) CreateOrder(ctx context.Context, input *entity.CreateOrderInput) (*entity.OrderOutputModel, error) {
	input.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)

	switch {
	case input.ClientId == uuid.Nil:
		return nil, ErrMissingClient
	case input.DeliveryAddress == "":
		return nil, ErrMissingDelivery
	case len(input.Items) == 0:
		return nil, ErrEmptyOrder
	}

	job, err := getJob(ctx, s.jobRepo, input.JobId)
	if err != nil {
		return nil, err
	}
	if job.ClientId != input.ClientId {
		return nil, ErrNotJobClient
	}

	items, err := s.priceItems(ctx, job.Id, input.Items)
	if err != nil {
		return nil, err
	}

	totals := ComputeOrderTotals(items, s.commerce)
	input.Items = items
	input.Subtotal = totals.Subtotal
	input.Tax = totals.Tax
	input.DeliveryFee = totals.DeliveryFee
	input.Total = totals.Total
	input.Status = common.OrderPending

	id, err := s.orderRepo.CreateOrder(ctx, input)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetOrderById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.WithField("order_id", order.Id).
		WithField("job_id", job.Id).
		WithField("total", order.Total).
		Info("order created")
	s.events.emit(ctx, notify.Event{
		Type:       notify.OrderCreated,
		JobId:      job.Id,
		OrderId:    &order.Id,
		Recipients: recipients(&job.ClientId, job.AssignedProId),
		Status:     order.Status,
	})

	if err := s.confirmMaterials(ctx, order); err != nil {
		return mapOrder(order), err
	}

	return mapOrder(order), nil
}

// priceItems checks every line and recomputes its total from quantity and unit price.
func (s *OrderService) priceItems(ctx context.Context, jobId uuid.UUID, items []entity.OrderItem) ([]entity.OrderItem, error) {
	priced := make([]entity.OrderItem, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)

		switch {
		case item.Quantity <= 0:
			return nil, ErrInvalidQuantity
		case item.UnitPrice < 0:
			return nil, ErrNegativeMoney
		}

		if item.MaterialId != uuid.Nil {
			material, err := getMaterial(ctx, s.materialRepo, item.MaterialId)
			if err != nil {
				return nil, err
			}
			if material.JobId != jobId {
				return nil, ErrMaterialNotForJob
			}
			if item.Name == "" {
				item.Name = material.Name
			}
		}
		if item.Name == "" {
			return nil, ErrMissingName
		}

		item.TotalPrice = common.RoundMoney(item.Quantity * item.UnitPrice)
		priced = append(priced, item)
	}

	return priced, nil
}

// confirmMaterials flips each referenced material from estimated to confirmed, one
// guarded write at a time. A material some other request already moved forward
// counts as done.
func (s *OrderService) confirmMaterials(ctx context.Context, order *entity.Order) error {
	seen := make(map[uuid.UUID]bool, len(order.Items))
	var remaining []uuid.UUID
	var errs []error

	for _, item := range order.Items {
		if item.MaterialId == uuid.Nil || seen[item.MaterialId] {
			continue
		}
		seen[item.MaterialId] = true

		err := s.materialRepo.UpdateMaterialStatus(ctx, item.MaterialId, common.MaterialConfirmed, common.MaterialEstimated)
		if err == nil {
			continue
		}

		if errors.Is(err, repo_errors.ErrConflict) {
			m, getErr := s.materialRepo.GetMaterialById(ctx, item.MaterialId)
			if getErr == nil && m.Status != common.MaterialEstimated {
				continue
			}
			if getErr != nil {
				err = getErr
			}
		}

		remaining = append(remaining, item.MaterialId)
		errs = append(errs, err)
	}

	if len(remaining) == 0 {
		return nil
	}

	s.log.WithField("order_id", order.Id).
		WithField("remaining", len(remaining)).
		Warn("order materials left unconfirmed")

	return &MaterialConfirmationError{
		OrderId:   order.Id,
		Remaining: remaining,
		Err:       errors.Join(errs...),
	}
}

// ConfirmOrderMaterials retries the material confirmation of an existing order.
func (s *OrderService) ConfirmOrderMaterials(ctx context.Context, orderId uuid.UUID) (*entity.OrderOutputModel, error) {
	order, err := getOrder(ctx, s.orderRepo, orderId)
	if err != nil {
		return nil, err
	}

	if order.Status == common.OrderCancelled {
		return nil, ErrInvalidTransition
	}

	if err := s.confirmMaterials(ctx, order); err != nil {
		return mapOrder(order), err
	}

	return mapOrder(order), nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderId uuid.UUID) (*entity.OrderOutputModel, error) {
	order, err := getOrder(ctx, s.orderRepo, orderId)
	if err != nil {
		return nil, err
	}

	return mapOrder(order), nil
}

func (s *OrderService) ListOrders(ctx context.Context, clientId uuid.UUID, pg *entity.PaginationInput) ([]entity.OrderOutputModel, error) {
	orders, err := s.orderRepo.GetClientOrders(ctx, clientId, pg)
	if err != nil {
		return nil, err
	}

	return mapOrders(orders), nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderId uuid.UUID, newStatus string) (*entity.OrderOutputModel, error) {
	if !common.IsOrderStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	order, err := getOrder(ctx, s.orderRepo, orderId)
	if err != nil {
		return nil, err
	}

	if order.Status == newStatus {
		return mapOrder(order), nil
	}
	if !common.CanTransitionOrder(order.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	err = s.orderRepo.UpdateOrderStatus(ctx, orderId, newStatus, order.Status)
	if err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrConcurrentUpdate
		}

		return nil, err
	}

	updated, err := s.orderRepo.GetOrderById(ctx, orderId)
	if err != nil {
		return nil, err
	}

	s.log.WithField("order_id", orderId).
		WithField("from", order.Status).
		WithField("to", updated.Status).
		Info("order status changed")
	s.events.emit(ctx, notify.Event{
		Type:       notify.OrderStatusChanged,
		JobId:      updated.JobId,
		OrderId:    &updated.Id,
		Recipients: recipients(&updated.ClientId),
		Status:     updated.Status,
	})

	return mapOrder(updated), nil
}
