package service

import (
	"context"
	"errors"
	"time"

	"job-commerce-api/internal/common"
	"job-commerce-api/internal/config"
	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/notify"
	"job-commerce-api/internal/repo"
	"job-commerce-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BidService struct {
	bidRepo  repo.Bid
	jobRepo  repo.Job
	events   *eventEmitter
	commerce config.CommerceConfig
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewBidService(repos *repo.Repositories, events *eventEmitter, commerce config.CommerceConfig, log logrus.FieldLogger) *BidService {
	return &BidService{
		bidRepo:  repos.Bid,
		jobRepo:  repos.Job,
		events:   events,
		commerce: commerce,
		log:      log,
		now:      time.Now,
	}
}

func getBid(ctx context.Context, bidRepo repo.Bid, bidId uuid.UUID) (*entity.Bid, error) {
	bid, err := bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	return bid, nil
}

func (s *BidService) CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error) {
	switch {
	case input.ProId == uuid.Nil:
		return nil, ErrMissingPro
	case input.Amount < s.commerce.MinimumBidAmount:
		return nil, ErrBidAmountTooLow
	case input.EstimatedHours <= 0:
		return nil, ErrInvalidHours
	case input.MaterialCost != nil && *input.MaterialCost < 0:
		return nil, ErrNegativeMoney
	}

	if !input.MaterialsIncluded {
		input.MaterialCost = nil
	}

	job, err := getJob(ctx, s.jobRepo, input.JobId)
	if err != nil {
		return nil, err
	}

	if !common.IsOpenJobStatus(job.Status) || job.AcceptedBidId != nil {
		return nil, ErrJobNotOpenForBids
	}
	if job.ClientId == input.ProId {
		return nil, ErrBidOnOwnJob
	}

	input.Status = common.BidPending
	id, err := s.bidRepo.CreateBid(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrDuplicate):
			return nil, ErrDuplicateBid
		case errors.Is(err, repo_errors.ErrConflict):
			// accepted or closed since the read above
			return nil, ErrJobNotOpenForBids
		}

		return nil, err
	}

	// the bid stands even if the job stays "posted"; the next bid retries the move
	if err := s.jobRepo.MarkBidding(ctx, job.Id); err != nil {
		s.log.WithError(err).WithField("job_id", job.Id).Warn("can't move job to bidding")
	}

	bid, err := s.bidRepo.GetBidById(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.WithField("job_id", job.Id).
		WithField("bid_id", bid.Id).
		WithField("amount", bid.Amount).
		Info("bid submitted")
	s.events.emit(ctx, notify.Event{
		Type:       notify.BidSubmitted,
		JobId:      job.Id,
		BidId:      &bid.Id,
		Recipients: recipients(&job.ClientId),
		Status:     bid.Status,
	})

	return mapBid(bid), nil
}

func (s *BidService) GetBid(ctx context.Context, bidId uuid.UUID) (*entity.BidOutputModel, error) {
	bid, err := getBid(ctx, s.bidRepo, bidId)
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

func (s *BidService) ListBidsForJob(ctx context.Context, jobId uuid.UUID, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	if _, err := getJob(ctx, s.jobRepo, jobId); err != nil {
		return nil, err
	}

	bids, err := s.bidRepo.GetJobBids(ctx, jobId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

func (s *BidService) ListBidsForPro(ctx context.Context, proId uuid.UUID, status string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	if status != "" && !common.IsBidStatus(status) {
		return nil, ErrInvalidStatus
	}

	bids, err := s.bidRepo.GetProBids(ctx, proId, status, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

// AcceptBid makes bidId the winning bid of jobId. Every precondition is checked
// against current state, so a retry after success fails instead of settling again.
func (s *BidService) AcceptBid(ctx context.Context, bidId uuid.UUID, jobId uuid.UUID) (*entity.BidOutputModel, error) {
	bid, err := getBid(ctx, s.bidRepo, bidId)
	if err != nil {
		return nil, err
	}

	if bid.JobId != jobId {
		return nil, ErrBidNotForJob
	}
	switch bid.Status {
	case common.BidPending:
	case common.BidAccepted:
		return nil, ErrBidAlreadyAccepted
	default:
		return nil, ErrBidNotPending
	}

	job, err := getJob(ctx, s.jobRepo, jobId)
	if err != nil {
		return nil, err
	}

	if job.AcceptedBidId != nil {
		return nil, ErrJobAlreadyAccepted
	}
	if !common.IsOpenJobStatus(job.Status) {
		return nil, ErrJobNotOpenForBids
	}

	total := common.RoundMoney(bid.Total())
	err = s.bidRepo.AcceptBid(ctx, bidId, jobId, bid.ProId, total)
	if err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, s.acceptConflict(ctx, bidId, jobId)
		}

		return nil, err
	}

	accepted, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		return nil, err
	}

	s.log.WithField("job_id", jobId).
		WithField("bid_id", bidId).
		WithField("total_cost", total).
		Info("bid accepted")
	s.events.emit(ctx, notify.Event{
		Type:       notify.BidAccepted,
		JobId:      jobId,
		BidId:      &bidId,
		Recipients: recipients(&job.ClientId, &accepted.ProId),
		Status:     accepted.Status,
	})

	return mapBid(accepted), nil
}

// acceptConflict explains why the accept transaction matched nothing.
func (s *BidService) acceptConflict(ctx context.Context, bidId uuid.UUID, jobId uuid.UUID) error {
	job, err := s.jobRepo.GetJobById(ctx, jobId)
	if err != nil {
		return err
	}

	if job.AcceptedBidId != nil {
		if *job.AcceptedBidId == bidId {
			return ErrBidAlreadyAccepted
		}

		return ErrJobAlreadyAccepted
	}
	if !common.IsOpenJobStatus(job.Status) {
		return ErrJobNotOpenForBids
	}

	return ErrBidNotPending
}

func (s *BidService) RejectBid(ctx context.Context, bidId uuid.UUID) (*entity.BidOutputModel, error) {
	bid, err := getBid(ctx, s.bidRepo, bidId)
	if err != nil {
		return nil, err
	}

	return s.closeBid(ctx, bid, common.BidRejected, notify.BidRejected)
}

func (s *BidService) WithdrawBid(ctx context.Context, bidId uuid.UUID, proId uuid.UUID) (*entity.BidOutputModel, error) {
	bid, err := getBid(ctx, s.bidRepo, bidId)
	if err != nil {
		return nil, err
	}

	if bid.ProId != proId {
		return nil, ErrNotBidAuthor
	}

	return s.closeBid(ctx, bid, common.BidWithdrawn, notify.BidWithdrawn)
}

// closeBid moves a pending bid to target. A bid already in target is returned as is.
func (s *BidService) closeBid(ctx context.Context, bid *entity.Bid, target string, eventType string) (*entity.BidOutputModel, error) {
	if bid.Status == target {
		return mapBid(bid), nil
	}
	if bid.Status != common.BidPending {
		return nil, ErrBidNotPending
	}

	err := s.bidRepo.UpdateBidStatus(ctx, bid.Id, target, common.BidPending)
	if err != nil && !errors.Is(err, repo_errors.ErrConflict) {
		return nil, err
	}

	updated, getErr := s.bidRepo.GetBidById(ctx, bid.Id)
	if getErr != nil {
		return nil, getErr
	}
	if err != nil {
		// lost a race; fine if the winner wanted the same thing
		if updated.Status == target {
			return mapBid(updated), nil
		}

		return nil, ErrBidNotPending
	}

	s.log.WithField("job_id", bid.JobId).
		WithField("bid_id", bid.Id).
		WithField("status", target).
		Info("bid closed")
	s.events.emit(ctx, notify.Event{
		Type:       eventType,
		JobId:      bid.JobId,
		BidId:      &bid.Id,
		Recipients: recipients(&bid.ProId),
		Status:     target,
	})

	return mapBid(updated), nil
}

// ExpireStaleBids expires pending bids older than the configured bid lifetime.
func (s *BidService) ExpireStaleBids(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.commerce.BidExpiry)
	n, err := s.bidRepo.ExpireStaleBids(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		s.log.WithField("count", n).WithField("cutoff", cutoff).Info("stale bids expired")
	}

	return n, nil
}
