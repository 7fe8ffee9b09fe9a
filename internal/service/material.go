package service

import (
	"context"
	"errors"
	"strings"

	"job-commerce-api/internal/common"
	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/estimator"
	"job-commerce-api/internal/repo"
	"job-commerce-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type MaterialService struct {
	materialRepo repo.Material
	jobRepo      repo.Job
	log          logrus.FieldLogger
}

func NewMaterialService(repos *repo.Repositories, log logrus.FieldLogger) *MaterialService {
	return &MaterialService{
		materialRepo: repos.Material,
		jobRepo:      repos.Job,
		log:          log,
	}
}

func (s *MaterialService) EstimateMaterials(category string, details map[string]any) estimator.Lines {
	return estimator.Estimate(category, details)
}

func (s *MaterialService) EstimateTotalCost(category string, details map[string]any) float64 {
	return estimator.EstimateTotalCost(category, details)
}

// GenerateJobMaterials stores the estimator's bill of materials for a job as
// estimated template lines. A job's template lines are generated once.
func (s *MaterialService) GenerateJobMaterials(ctx context.Context, jobId uuid.UUID) ([]entity.MaterialOutputModel, error) {
	job, err := getJob(ctx, s.jobRepo, jobId)
	if err != nil {
		return nil, err
	}

	if !estimator.Known(job.CategoryId) {
		return nil, ErrUnknownCategory
	}
	if common.IsTerminalJobStatus(job.Status) {
		return nil, ErrJobClosed
	}

	lines := estimator.Estimate(job.CategoryId, job.Details)
	inputs := make([]entity.CreateMaterialInput, 0, len(lines))
	for _, line := range lines {
		rationale := line.Rationale
		inputs = append(inputs, entity.CreateMaterialInput{
			JobId:      job.Id,
			Name:       line.Name,
			Unit:       line.Unit,
			Quantity:   float64(line.Quantity),
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.Cost,
			IsRequired: line.Required,
			Source:     common.MaterialFromTemplate,
			Notes:      &rationale,
			Status:     common.MaterialEstimated,
		})
	}

	if _, err := s.materialRepo.CreateTemplateMaterials(ctx, job.Id, inputs); err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrDuplicate):
			return nil, ErrMaterialsGenerated
		case errors.Is(err, repo_errors.ErrNotFound):
			return nil, ErrJobNotFound
		}

		return nil, err
	}

	s.log.WithField("job_id", job.Id).
		WithField("lines", len(inputs)).
		WithField("estimated_cost", lines.TotalCost()).
		Info("materials generated")

	return s.ListJobMaterials(ctx, job.Id)
}

func (s *MaterialService) AddMaterial(ctx context.Context, input *entity.CreateMaterialInput) (*entity.MaterialOutputModel, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Unit = strings.TrimSpace(input.Unit)

	switch {
	case input.Name == "":
		return nil, ErrMissingName
	case input.Quantity <= 0:
		return nil, ErrInvalidQuantity
	case input.UnitPrice < 0:
		return nil, ErrNegativeMoney
	}

	job, err := getJob(ctx, s.jobRepo, input.JobId)
	if err != nil {
		return nil, err
	}
	if common.IsTerminalJobStatus(job.Status) {
		return nil, ErrJobClosed
	}

	input.TotalPrice = common.RoundMoney(input.Quantity * input.UnitPrice)
	input.Source = common.MaterialCustom
	input.Status = common.MaterialEstimated

	ids, err := s.materialRepo.CreateMaterials(ctx, []entity.CreateMaterialInput{*input})
	if err != nil {
		return nil, err
	}
	if len(ids) != 1 {
		return nil, errors.New("material insert returned no id")
	}

	material, err := s.materialRepo.GetMaterialById(ctx, ids[0])
	if err != nil {
		return nil, err
	}

	return mapMaterial(material), nil
}

func (s *MaterialService) ListJobMaterials(ctx context.Context, jobId uuid.UUID) ([]entity.MaterialOutputModel, error) {
	if _, err := getJob(ctx, s.jobRepo, jobId); err != nil {
		return nil, err
	}

	materials, err := s.materialRepo.GetJobMaterials(ctx, jobId)
	if err != nil {
		return nil, err
	}

	return mapMaterials(materials), nil
}

func (s *MaterialService) UpdateMaterialStatus(ctx context.Context, materialId uuid.UUID, newStatus string) (*entity.MaterialOutputModel, error) {
	if !common.IsMaterialStatus(newStatus) {
		return nil, ErrInvalidStatus
	}

	material, err := getMaterial(ctx, s.materialRepo, materialId)
	if err != nil {
		return nil, err
	}

	if material.Status == newStatus {
		return mapMaterial(material), nil
	}
	if !common.CanTransitionMaterial(material.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	err = s.materialRepo.UpdateMaterialStatus(ctx, materialId, newStatus, material.Status)
	if err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrConcurrentUpdate
		}

		return nil, err
	}

	updated, err := s.materialRepo.GetMaterialById(ctx, materialId)
	if err != nil {
		return nil, err
	}

	return mapMaterial(updated), nil
}

func getMaterial(ctx context.Context, materialRepo repo.Material, materialId uuid.UUID) (*entity.Material, error) {
	material, err := materialRepo.GetMaterialById(ctx, materialId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrMaterialNotFound
		}

		return nil, err
	}

	return material, nil
}
