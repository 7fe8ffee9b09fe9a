package controller

import (
	"errors"
	"net/http"

	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

type orderRoutesHandler struct {
	orderService service.Order
	validate     *validator.Validate
}

func newOrderRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *orderRoutesHandler {
	h := &orderRoutesHandler{orderService: services.Order, validate: v}
	outer.POST("/orders", h.PostOrder)
	outer.GET("/orders/:orderId", h.GetOrder)
	outer.PUT("/orders/:orderId/status", h.UpdateOrderStatus)
	outer.POST("/orders/:orderId/confirm-materials", h.ConfirmMaterials)

	outer.GET("/clients/:clientId/orders", h.GetClientOrders)

	return h
}

type orderItemInput struct {
	MaterialId string  `json:"materialId" validate:"omitempty,uuid"`
	Name       string  `json:"name" validate:"required_without=MaterialId,max=200"`
	Quantity   float64 `json:"quantity" validate:"gt=0"`
	UnitPrice  float64 `json:"unitPrice" validate:"gte=0"`
}

type postOrderInput struct {
	JobId           string           `json:"jobId" validate:"required,uuid"`
	ClientId        string           `json:"clientId" validate:"required,uuid"`
	Items           []orderItemInput `json:"items" validate:"required,min=1,max=200,dive"`
	DeliveryAddress string           `json:"deliveryAddress" validate:"required,max=300"`
	DeliveryDate    string           `json:"deliveryDate" validate:"omitempty,datetime=2006-01-02"`
	Notes           string           `json:"notes" validate:"max=1000"`
}

// partialOrderOutput is sent when the order exists but some of its materials are
// still estimated. POST /orders/:orderId/confirm-materials retries them.
type partialOrderOutput struct {
	Order                  *entity.OrderOutputModel `json:"order"`
	UnconfirmedMaterialIds []string                 `json:"unconfirmedMaterialIds"`
}

func respondOrder(c echo.Context, status int, order *entity.OrderOutputModel, err error) error {
	var confirmErr *service.MaterialConfirmationError
	if err != nil && errors.As(err, &confirmErr) && order != nil {
		ids := make([]string, 0, len(confirmErr.Remaining))
		for _, id := range confirmErr.Remaining {
			ids = append(ids, id.String())
		}

		if e := c.JSON(http.StatusAccepted, partialOrderOutput{Order: order, UnconfirmedMaterialIds: ids}); e != nil {
			return e
		}

		return err
	}
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, status, order)
}

// /orders
func (h *orderRoutesHandler) PostOrder(c echo.Context) error {
	var input postOrderInput
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	items := make([]entity.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		item := entity.OrderItem{Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
		if it.MaterialId != "" {
			item.MaterialId = uuid.MustParse(it.MaterialId)
		}
		items = append(items, item)
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), &entity.CreateOrderInput{
		JobId:           uuid.MustParse(input.JobId),
		ClientId:        uuid.MustParse(input.ClientId),
		Items:           items,
		DeliveryAddress: input.DeliveryAddress,
		DeliveryDate:    parseDate(input.DeliveryDate),
		Notes:           optionalString(input.Notes),
	})

	return respondOrder(c, http.StatusCreated, order, err)
}

// /orders/:orderId
func (h *orderRoutesHandler) GetOrder(c echo.Context) error {
	orderId, err := pathId(c, "orderId")
	if err != nil {
		return err
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), orderId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, order)
}

// /orders/:orderId/status
func (h *orderRoutesHandler) UpdateOrderStatus(c echo.Context) error {
	orderId, err := pathId(c, "orderId")
	if err != nil {
		return err
	}

	var input statusInput
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request().Context(), orderId, input.Status)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, order)
}

// /orders/:orderId/confirm-materials
func (h *orderRoutesHandler) ConfirmMaterials(c echo.Context) error {
	orderId, err := pathId(c, "orderId")
	if err != nil {
		return err
	}

	order, err := h.orderService.ConfirmOrderMaterials(c.Request().Context(), orderId)

	return respondOrder(c, http.StatusOK, order, err)
}

// /clients/:clientId/orders
func (h *orderRoutesHandler) GetClientOrders(c echo.Context) error {
	clientId, err := pathId(c, "clientId")
	if err != nil {
		return err
	}

	input := newPagination()
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	orders, err := h.orderService.ListOrders(c.Request().Context(), clientId, input.pagination())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, orders)
}
