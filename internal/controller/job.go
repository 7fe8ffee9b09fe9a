package controller

import (
	"net/http"

	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

type jobRoutesHandler struct {
	jobService service.Job
	validate   *validator.Validate
}

func newJobRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *jobRoutesHandler {
	h := &jobRoutesHandler{jobService: services.Job, validate: v}
	outer.POST("/jobs", h.PostJob)
	outer.GET("/jobs/open", h.GetOpenJobs)
	outer.GET("/jobs/:jobId", h.GetJob)
	outer.PATCH("/jobs/:jobId", h.PatchJob)
	outer.POST("/jobs/:jobId/cancel", h.CancelJob)
	outer.POST("/jobs/:jobId/dispute", h.DisputeJob)
	outer.POST("/jobs/:jobId/complete", h.CompleteJob)

	outer.GET("/clients/:clientId/jobs", h.GetClientJobs)
	outer.GET("/pros/:proId/jobs", h.GetProJobs)

	return h
}

type postJobInput struct {
	ClientId           string         `json:"clientId" validate:"required,uuid"`
	CategoryId         string         `json:"categoryId" validate:"required,max=50"`
	Title              string         `json:"title" validate:"required,max=200"`
	Description        string         `json:"description" validate:"max=5000"`
	Address            string         `json:"address" validate:"required,max=300"`
	City               string         `json:"city" validate:"max=100"`
	PostalCode         string         `json:"postalCode" validate:"max=20"`
	Latitude           *float64       `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude          *float64       `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	ScheduledDate      string         `json:"scheduledDate" validate:"omitempty,datetime=2006-01-02"`
	ScheduledTimeStart string         `json:"scheduledTimeStart" validate:"omitempty,datetime=15:04"`
	ScheduledTimeEnd   string         `json:"scheduledTimeEnd" validate:"omitempty,datetime=15:04"`
	IsUrgent           bool           `json:"isUrgent"`
	Details            map[string]any `json:"details"`
	Photos             []string       `json:"photos" validate:"max=20,dive,url"`
}

// /jobs
func (h *jobRoutesHandler) PostJob(c echo.Context) error {
	var input postJobInput
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	model := &entity.CreateJobInput{
		ClientId:           uuid.MustParse(input.ClientId),
		CategoryId:         input.CategoryId,
		Title:              input.Title,
		Description:        input.Description,
		Address:            input.Address,
		City:               input.City,
		PostalCode:         input.PostalCode,
		Latitude:           input.Latitude,
		Longitude:          input.Longitude,
		ScheduledDate:      parseDate(input.ScheduledDate),
		ScheduledTimeStart: optionalString(input.ScheduledTimeStart),
		ScheduledTimeEnd:   optionalString(input.ScheduledTimeEnd),
		IsUrgent:           input.IsUrgent,
		Details:            input.Details,
		Photos:             input.Photos,
	}

	job, err := h.jobService.CreateJob(c.Request().Context(), model)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusCreated, job)
}

// /jobs/:jobId
func (h *jobRoutesHandler) GetJob(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	job, err := h.jobService.GetJob(c.Request().Context(), jobId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, job)
}

type patchJobInput struct {
	Status             *string        `json:"status" validate:"omitempty,oneof=draft posted bidding in_progress cancelled disputed"`
	ScheduledDate      *string        `json:"scheduledDate" validate:"omitempty,datetime=2006-01-02"`
	ScheduledTimeStart *string        `json:"scheduledTimeStart" validate:"omitempty,datetime=15:04"`
	ScheduledTimeEnd   *string        `json:"scheduledTimeEnd" validate:"omitempty,datetime=15:04"`
	IsUrgent           *bool          `json:"isUrgent"`
	Details            map[string]any `json:"details"`
	Photos             []string       `json:"photos" validate:"omitempty,max=20,dive,url"`
	CancellationReason *string        `json:"cancellationReason" validate:"omitempty,max=500"`
}

// /jobs/:jobId
func (h *jobRoutesHandler) PatchJob(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	var input patchJobInput
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	patch := &entity.UpdateJobInput{
		Status:             input.Status,
		ScheduledTimeStart: input.ScheduledTimeStart,
		ScheduledTimeEnd:   input.ScheduledTimeEnd,
		IsUrgent:           input.IsUrgent,
		Details:            input.Details,
		Photos:             input.Photos,
		CancellationReason: input.CancellationReason,
	}
	if input.ScheduledDate != nil {
		patch.ScheduledDate = parseDate(*input.ScheduledDate)
	}

	job, err := h.jobService.UpdateJob(c.Request().Context(), jobId, patch)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, job)
}

type cancelJobInput struct {
	Reason string `json:"reason" validate:"max=500"`
}

// /jobs/:jobId/cancel
func (h *jobRoutesHandler) CancelJob(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	var input cancelJobInput
	if c.Request().ContentLength != 0 {
		if err := bind(c, h.validate, &input); err != nil {
			return err
		}
	}

	job, err := h.jobService.CancelJob(c.Request().Context(), jobId, input.Reason)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, job)
}

// /jobs/:jobId/dispute
func (h *jobRoutesHandler) DisputeJob(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	job, err := h.jobService.DisputeJob(c.Request().Context(), jobId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, job)
}

// /jobs/:jobId/complete
func (h *jobRoutesHandler) CompleteJob(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	job, err := h.jobService.CompleteJob(c.Request().Context(), jobId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, job)
}

type getClientJobsInput struct {
	Pagination
	Status string `query:"status" validate:"omitempty,oneof=draft posted bidding accepted in_progress completed cancelled disputed"`
}

// /clients/:clientId/jobs
func (h *jobRoutesHandler) GetClientJobs(c echo.Context) error {
	clientId, err := pathId(c, "clientId")
	if err != nil {
		return err
	}

	input := getClientJobsInput{Pagination: newPagination()}
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	jobs, err := h.jobService.ListClientJobs(c.Request().Context(), clientId, input.Status, input.pagination())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, jobs)
}

type getOpenJobsInput struct {
	Pagination
	CategoryId string `query:"categoryId" validate:"max=50"`
}

// /jobs/open
func (h *jobRoutesHandler) GetOpenJobs(c echo.Context) error {
	input := getOpenJobsInput{Pagination: newPagination()}
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	jobs, err := h.jobService.ListOpenJobs(c.Request().Context(), input.CategoryId, input.pagination())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, jobs)
}

// /pros/:proId/jobs
func (h *jobRoutesHandler) GetProJobs(c echo.Context) error {
	proId, err := pathId(c, "proId")
	if err != nil {
		return err
	}

	input := newPagination()
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	jobs, err := h.jobService.ListProJobs(c.Request().Context(), proId, input.pagination())
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, jobs)
}
