package controller

import (
	"net/http"

	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

type bidRoutesHandler struct {
	bidService service.Bid
	validate   *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, validate: v}
	outer.POST("/jobs/:jobId/bids", h.PostBid)
	outer.GET("/jobs/:jobId/bids", h.GetJobBids)
	outer.POST("/jobs/:jobId/bids/:bidId/accept", h.AcceptBid)

	outer.GET("/pros/:proId/bids", h.GetProBids)

	outer.GET("/bids/:bidId", h.GetBid)
	outer.POST("/bids/:bidId/reject", h.RejectBid)
	outer.POST("/bids/:bidId/withdraw", h.WithdrawBid)
	outer.POST("/bids/expire", h.ExpireStaleBids)

	return h
}

type postBidInput struct {
	ProId             string   `json:"proId" validate:"required,uuid"`
	Amount            float64  `json:"amount" validate:"gt=0"`
	EstimatedHours    float64  `json:"estimatedHours" validate:"gt=0"`
	ProposedDate      string   `json:"proposedDate" validate:"omitempty,datetime=2006-01-02"`
	ProposedTimeStart string   `json:"proposedTimeStart" validate:"omitempty,datetime=15:04"`
	ProposedTimeEnd   string   `json:"proposedTimeEnd" validate:"omitempty,datetime=15:04"`
	Message           string   `json:"message" validate:"max=2000"`
	MaterialsIncluded bool     `json:"materialsIncluded"`
	MaterialCost      *float64 `json:"materialCost" validate:"omitempty,gte=0"`
}

// /jobs/:jobId/bids
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	var input postBidInput
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	model := &entity.CreateBidInput{
		JobId:             jobId,
		ProId:             uuid.MustParse(input.ProId),
		Amount:            input.Amount,
		EstimatedHours:    input.EstimatedHours,
		ProposedDate:      parseDate(input.ProposedDate),
		ProposedTimeStart: optionalString(input.ProposedTimeStart),
		ProposedTimeEnd:   optionalString(input.ProposedTimeEnd),
		Message:           optionalString(input.Message),
		MaterialsIncluded: input.MaterialsIncluded,
		MaterialCost:      input.MaterialCost,
	}

	bid, err := h.bidService.CreateBid(c.Request().Context(), model)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusCreated, bid)
}

// /jobs/:jobId/bids
func (h *bidRoutesHandler) GetJobBids(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	input := newPagination()
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	bids, err := h.bidService.ListBidsForJob(c.Request().Context(), jobId, input.pagination())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, bids)
}

type getProBidsInput struct {
	Pagination
	Status string `query:"status" validate:"omitempty,oneof=pending accepted rejected withdrawn expired"`
}

// /pros/:proId/bids
func (h *bidRoutesHandler) GetProBids(c echo.Context) error {
	proId, err := pathId(c, "proId")
	if err != nil {
		return err
	}

	input := getProBidsInput{Pagination: newPagination()}
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	bids, err := h.bidService.ListBidsForPro(c.Request().Context(), proId, input.Status, input.pagination())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, bids)
}

// /bids/:bidId
func (h *bidRoutesHandler) GetBid(c echo.Context) error {
	bidId, err := pathId(c, "bidId")
	if err != nil {
		return err
	}

	bid, err := h.bidService.GetBid(c.Request().Context(), bidId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, bid)
}

// /jobs/:jobId/bids/:bidId/accept
func (h *bidRoutesHandler) AcceptBid(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}
	bidId, err := pathId(c, "bidId")
	if err != nil {
		return err
	}

	bid, err := h.bidService.AcceptBid(c.Request().Context(), bidId, jobId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, bid)
}

// /bids/:bidId/reject
func (h *bidRoutesHandler) RejectBid(c echo.Context) error {
	bidId, err := pathId(c, "bidId")
	if err != nil {
		return err
	}

	bid, err := h.bidService.RejectBid(c.Request().Context(), bidId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, bid)
}

type withdrawBidInput struct {
	ProId string `json:"proId" validate:"required,uuid"`
}

// /bids/:bidId/withdraw
func (h *bidRoutesHandler) WithdrawBid(c echo.Context) error {
	bidId, err := pathId(c, "bidId")
	if err != nil {
		return err
	}

	var input withdrawBidInput
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	bid, err := h.bidService.WithdrawBid(c.Request().Context(), bidId, uuid.MustParse(input.ProId))
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, bid)
}

type expireBidsOutput struct {
	Expired int64 `json:"expired"`
}

// /bids/expire
func (h *bidRoutesHandler) ExpireStaleBids(c echo.Context) error {
	n, err := h.bidService.ExpireStaleBids(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, expireBidsOutput{Expired: n})
}
