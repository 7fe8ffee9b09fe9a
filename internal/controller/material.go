package controller

import (
	"net/http"

	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/estimator"
	"job-commerce-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type materialRoutesHandler struct {
	materialService service.Material
	validate        *validator.Validate
}

func newMaterialRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *materialRoutesHandler {
	h := &materialRoutesHandler{materialService: services.Material, validate: v}
	outer.GET("/estimates/categories", h.GetCategories)
	outer.POST("/estimates", h.PostEstimate)

	outer.GET("/jobs/:jobId/materials", h.GetJobMaterials)
	outer.POST("/jobs/:jobId/materials", h.PostMaterial)
	outer.POST("/jobs/:jobId/materials/generate", h.GenerateMaterials)
	outer.PUT("/materials/:materialId/status", h.UpdateMaterialStatus)

	return h
}

// /estimates/categories
func (h *materialRoutesHandler) GetCategories(c echo.Context) error {
	return respond(c, http.StatusOK, estimator.Categories())
}

type postEstimateInput struct {
	CategoryId string         `json:"categoryId" validate:"required,max=50"`
	Details    map[string]any `json:"details"`
}

type estimateOutput struct {
	CategoryId string          `json:"categoryId"`
	Lines      estimator.Lines `json:"lines"`
	TotalCost  float64         `json:"totalCost"`
}

// /estimates
func (h *materialRoutesHandler) PostEstimate(c echo.Context) error {
	var input postEstimateInput
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	lines := h.materialService.EstimateMaterials(input.CategoryId, input.Details)

	return respond(c, http.StatusOK, estimateOutput{
		CategoryId: input.CategoryId,
		Lines:      lines,
		TotalCost:  lines.TotalCost(),
	})
}

// /jobs/:jobId/materials
func (h *materialRoutesHandler) GetJobMaterials(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	materials, err := h.materialService.ListJobMaterials(c.Request().Context(), jobId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, materials)
}

type postMaterialInput struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Unit       string  `json:"unit" validate:"max=50"`
	Quantity   float64 `json:"quantity" validate:"gt=0"`
	UnitPrice  float64 `json:"unitPrice" validate:"gte=0"`
	IsRequired bool    `json:"isRequired"`
	Notes      string  `json:"notes" validate:"max=1000"`
}

// /jobs/:jobId/materials
func (h *materialRoutesHandler) PostMaterial(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	var input postMaterialInput
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	material, err := h.materialService.AddMaterial(c.Request().Context(), &entity.CreateMaterialInput{
		JobId:      jobId,
		Name:       input.Name,
		Unit:       input.Unit,
		Quantity:   input.Quantity,
		UnitPrice:  input.UnitPrice,
		IsRequired: input.IsRequired,
		Notes:      optionalString(input.Notes),
	})
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusCreated, material)
}

// /jobs/:jobId/materials/generate
func (h *materialRoutesHandler) GenerateMaterials(c echo.Context) error {
	jobId, err := pathId(c, "jobId")
	if err != nil {
		return err
	}

	materials, err := h.materialService.GenerateJobMaterials(c.Request().Context(), jobId)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusCreated, materials)
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

// /materials/:materialId/status
func (h *materialRoutesHandler) UpdateMaterialStatus(c echo.Context) error {
	materialId, err := pathId(c, "materialId")
	if err != nil {
		return err
	}

	var input statusInput
	if err := bind(c, h.validate, &input); err != nil {
		return err
	}

	material, err := h.materialService.UpdateMaterialStatus(c.Request().Context(), materialId, input.Status)
	if err != nil {
		return respondError(c, err)
	}

	return respond(c, http.StatusOK, material)
}
