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

type JobService struct {
	jobRepo  repo.Job
	events   *eventEmitter
	commerce config.CommerceConfig
	log      logrus.FieldLogger
}

func NewJobService(repos *repo.Repositories, events *eventEmitter, commerce config.CommerceConfig, log logrus.FieldLogger) *JobService {
	return &JobService{
		jobRepo:  repos.Job,
		events:   events,
		commerce: commerce,
		log:      log,
	}
}

func getJob(ctx context.Context, jobRepo repo.Job, jobId uuid.UUID) (*entity.Job, error) {
	job, err := jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrJobNotFound
		}

		return nil, err
	}

	return job, nil
}

func (s *JobService) CreateJob(ctx context.Context, input *entity.CreateJobInput) (*entity.JobOutputModel, error) {
	input.CategoryId = strings.TrimSpace(input.CategoryId)
	input.Title = strings.TrimSpace(input.Title)
	input.Address = strings.TrimSpace(input.Address)

	switch {
	case input.ClientId == uuid.Nil:
		return nil, ErrMissingClient
	case input.CategoryId == "":
		return nil, ErrMissingCategory
	case input.Title == "":
		return nil, ErrMissingTitle
	case input.Address == "":
		return nil, ErrMissingAddress
	}

	input.Status = common.JobPosted
	id, err := s.jobRepo.CreateJob(ctx, input)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.GetJobById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.WithField("job_id", job.Id).WithField("category", job.CategoryId).Info("job posted")
	s.events.emit(ctx, notify.Event{
		Type:       notify.JobPosted,
		JobId:      job.Id,
		Recipients: recipients(&job.ClientId),
		Status:     job.Status,
	})

	return mapJob(job), nil
}

func (s *JobService) GetJob(ctx context.Context, jobId uuid.UUID) (*entity.JobOutputModel, error) {
	job, err := getJob(ctx, s.jobRepo, jobId)
	if err != nil {
		return nil, err
	}

	return mapJob(job), nil
}

// UpdateJob patches a job. Accepting and completing have their own operations and
// can't be reached through here. The write is guarded on the status the patch was
// validated against, so a concurrent change makes it fail instead of overwrite.
func (s *JobService) UpdateJob(ctx context.Context, jobId uuid.UUID, patch *entity.UpdateJobInput) (*entity.JobOutputModel, error) {
	if patch == nil || patch.Empty() {
		return nil, ErrNoChanges
	}

	job, err := getJob(ctx, s.jobRepo, jobId)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		newStatus := *patch.Status
		switch {
		case !common.IsJobStatus(newStatus):
			return nil, ErrInvalidStatus
		case newStatus == common.JobAccepted || newStatus == common.JobCompleted:
			return nil, ErrStatusNotPatchable
		case newStatus == job.Status:
			patch.Status = nil
		case !common.CanTransitionJob(job.Status, newStatus):
			return nil, ErrInvalidTransition
		}

		if patch.Empty() {
			return mapJob(job), nil
		}
	}

	if patch.Status == nil && common.IsTerminalJobStatus(job.Status) {
		return nil, ErrJobClosed
	}

	err = s.jobRepo.UpdateJob(ctx, jobId, patch, job.Status)
	if err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrNotFound):
			return nil, ErrJobNotFound
		case errors.Is(err, repo_errors.ErrConflict):
			return nil, ErrConcurrentUpdate
		}

		return nil, err
	}

	updated, err := s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		return nil, err
	}

	eventType := notify.JobUpdated
	switch updated.Status {
	case common.JobCancelled:
		eventType = notify.JobCancelled
	case common.JobDisputed:
		eventType = notify.JobDisputed
	}

	s.log.WithField("job_id", jobId).
		WithField("from", job.Status).
		WithField("to", updated.Status).
		Info("job updated")
	s.events.emit(ctx, notify.Event{
		Type:       eventType,
		JobId:      jobId,
		Recipients: recipients(&updated.ClientId, updated.AssignedProId),
		Status:     updated.Status,
	})

	return mapJob(updated), nil
}

func (s *JobService) CancelJob(ctx context.Context, jobId uuid.UUID, reason string) (*entity.JobOutputModel, error) {
	status := common.JobCancelled
	patch := &entity.UpdateJobInput{Status: &status}
	if reason = strings.TrimSpace(reason); reason != "" {
		patch.CancellationReason = &reason
	}

	return s.UpdateJob(ctx, jobId, patch)
}

// DisputeJob marks a job as disputed. Resolving the dispute happens outside this service.
func (s *JobService) DisputeJob(ctx context.Context, jobId uuid.UUID) (*entity.JobOutputModel, error) {
	status := common.JobDisputed

	return s.UpdateJob(ctx, jobId, &entity.UpdateJobInput{Status: &status})
}

// CompleteJob settles a job from its current total cost. A job without an accepted bid
// fails before anything is written.
func (s *JobService) CompleteJob(ctx context.Context, jobId uuid.UUID) (*entity.JobOutputModel, error) {
	job, err := getJob(ctx, s.jobRepo, jobId)
	if err != nil {
		return nil, err
	}

	if job.AcceptedBidId == nil {
		return nil, ErrNoAcceptedBid
	}
	if !common.IsActiveJobStatus(job.Status) {
		return nil, ErrJobNotActive
	}

	var total float64
	if job.TotalCost != nil {
		total = *job.TotalCost
	}
	fee, payout := Settle(total, s.commerce.PlatformFeePercent)

	err = s.jobRepo.CompleteJob(ctx, jobId, fee, payout)
	if err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrNotFound):
			return nil, ErrJobNotFound
		case errors.Is(err, repo_errors.ErrConflict):
			return nil, ErrConcurrentUpdate
		}

		return nil, err
	}

	completed, err := s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		return nil, err
	}

	s.log.WithField("job_id", jobId).
		WithField("total_cost", total).
		WithField("platform_fee", fee).
		WithField("pro_payout", payout).
		Info("job completed")
	s.events.emit(ctx, notify.Event{
		Type:       notify.JobCompleted,
		JobId:      jobId,
		Recipients: recipients(&completed.ClientId, completed.AssignedProId),
		Status:     completed.Status,
	})

	return mapJob(completed), nil
}

func (s *JobService) ListClientJobs(ctx context.Context, clientId uuid.UUID, status string, pg *entity.PaginationInput) ([]entity.JobOutputModel, error) {
	if status != "" && !common.IsJobStatus(status) {
		return nil, ErrInvalidStatus
	}

	jobs, err := s.jobRepo.GetClientJobs(ctx, clientId, status, pg)
	if err != nil {
		return nil, err
	}

	return mapJobs(jobs), nil
}

func (s *JobService) ListOpenJobs(ctx context.Context, categoryId string, pg *entity.PaginationInput) ([]entity.JobOutputModel, error) {
	jobs, err := s.jobRepo.GetOpenJobs(ctx, strings.TrimSpace(categoryId), pg)
	if err != nil {
		return nil, err
	}

	return mapJobs(jobs), nil
}

func (s *JobService) ListProJobs(ctx context.Context, proId uuid.UUID, pg *entity.PaginationInput) ([]entity.JobOutputModel, error) {
	jobs, err := s.jobRepo.GetProJobs(ctx, proId, pg)
	if err != nil {
		return nil, err
	}

	return mapJobs(jobs), nil
}
