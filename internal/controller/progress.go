package controller

import (
	"net/http"

	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

type progressRoutesHandler struct {
	progressService service.Progress
	validate        *validator.Validate
}

func newProgressRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *progressRoutesHandler {
	h := &progressRoutesHandler{progressService: services.Progress, validate: v}
	outer.POST("/jobs/:jobId/progress", h.PostProgress)
	outer.GET("/jobs/:jobId/progress", h.GetProgress)

	return h
}

type postProgressInput struct {
	ProId       string   `json:"proId" validate:"required,uuid"`
	Type        string   `json:"type" validate:"required,oneof=started photo_update milestone material_used issue completed"`
	Description string   `json:"description" validate:"max=2000"`
	Photos      []string `json:"photos" validate:"max=20,dive,url"`
}

// /jobs/:jobId/progress
func (h *progressRoutesHandler) PostProgress(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	var input postProgressInput
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	entry, err := h.progressService.AddProgress(c.Request().Context(), &entity.CreateProgressInput{
		JobId:       jobId,
		ProId:       uuid.MustParse(input.ProId),
		Type:        input.Type,
		Description: input.Description,
		Photos:      input.Photos,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusCreated, entry)
}

// /jobs/:jobId/progress
func (h *progressRoutesHandler) GetProgress(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	entries, err := h.progressService.ListProgress(c.Request().Context(), jobId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, entries)
}
