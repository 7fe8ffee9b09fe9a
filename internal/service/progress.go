package service

import (
	"context"
	"errors"
	"strings"

	"job-commerce-api/internal/common"
	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/notify"
	"job-commerce-api/internal/repo"
	"job-commerce-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ProgressService struct {
	progressRepo repo.Progress
	jobRepo      repo.Job
	events       *eventEmitter
	log          logrus.FieldLogger
}

func NewProgressService(repos *repo.Repositories, events *eventEmitter, log logrus.FieldLogger) *ProgressService {
	return &ProgressService{
		progressRepo: repos.Progress,
		jobRepo:      repos.Job,
		events:       events,
		log:          log,
	}
}

// AddProgress appends a log entry written by the job's assigned pro. The first
// "started" entry moves an accepted job to in_progress.
func (s *ProgressService) AddProgress(ctx context.Context, input *entity.CreateProgressInput) (*entity.ProgressOutputModel, error) {
	input.Description = strings.TrimSpace(input.Description)

	switch {
	case input.ProId == uuid.Nil:
		return nil, ErrMissingPro
	case !common.IsProgressType(input.Type):
		return nil, ErrInvalidProgressType
	}

	job, err := getJob(ctx, s.jobRepo, input.JobId)
	if err != nil {
		return nil, err
	}

	if job.AssignedProId == nil || *job.AssignedProId != input.ProId {
		return nil, ErrNotAssignedPro
	}
	if !common.IsActiveJobStatus(job.Status) {
		return nil, ErrJobNotActive
	}

	id, err := s.progressRepo.CreateProgress(ctx, input)
	if err != nil {
		return nil, err
	}

	if input.Type == common.ProgressStarted && job.Status == common.JobAccepted {
		s.startJob(ctx, job.Id)
	}

	entry, err := s.progressRepo.GetProgressById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.WithField("job_id", job.Id).WithField("type", entry.Type).Info("progress added")
	s.events.emit(ctx, notify.Event{
		Type:       notify.ProgressAdded,
		JobId:      job.Id,
		Recipients: recipients(&job.ClientId),
		Status:     entry.Type,
	})

	return mapProgress(entry), nil
}

// startJob is best effort: the entry is already written, and a job some other request
// has moved on from accepted is left alone.
func (s *ProgressService) startJob(ctx context.Context, jobId uuid.UUID) {
	status := common.JobInProgress
	err := s.jobRepo.UpdateJob(ctx, jobId, &entity.UpdateJobInput{Status: &status}, common.JobAccepted)
	if err != nil && !errors.Is(err, repo_errors.ErrConflict) {
		s.log.WithError(err).WithField("job_id", jobId).Warn("can't move job to in_progress")
	}
}

func (s *ProgressService) ListProgress(ctx context.Context, jobId uuid.UUID) ([]entity.ProgressOutputModel, error) {
	if _, err := getJob(ctx, s.jobRepo, jobId); err != nil {
		return nil, err
	}

	entries, err := s.progressRepo.GetJobProgress(ctx, jobId)
	if err != nil {
		return nil, err
	}

	return mapProgressEntries(entries), nil
}
