package service_test

import (
	"context"
	"errors"
	"testing"

	"job-commerce-api/internal/config"
	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/logger"
	"job-commerce-api/internal/notify"
	"job-commerce-api/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memStore
	events   *notify.Recorder
	services *service.Services
	client   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, config.DefaultCommerce(), nil)
}

func newFixtureWith(t *testing.T, commerce config.CommerceConfig, notifier notify.Notifier) *fixture {
	t.Helper()

	store := newMemStore()
	rec := &notify.Recorder{}
	if notifier == nil {
		notifier = rec
	}

	return &fixture{
		store:    store,
		events:   rec,
		services: service.NewServices(store.repositories(), notifier, commerce, logger.Discard()),
		client:   uuid.New(),
	}
}

func (f *fixture) postJob(t *testing.T, category string, details map[string]any) uuid.UUID {
	t.Helper()

	job, err := f.services.Job.CreateJob(context.Background(), &entity.CreateJobInput{
		ClientId:   f.client,
		CategoryId: category,
		Title:      "Repaint the living room",
		Address:    "12 Elm Street",
		City:       "Toronto",
		Details:    details,
	})
	require.NoError(t, err)

	return uuid.MustParse(job.Id)
}

func (f *fixture) submitBid(t *testing.T, jobId uuid.UUID, proId uuid.UUID, amount float64, materialCost *float64) uuid.UUID {
	t.Helper()

	bid, err := f.services.Bid.CreateBid(context.Background(), &entity.CreateBidInput{
		JobId:             jobId,
		ProId:             proId,
		Amount:            amount,
		EstimatedHours:    8,
		MaterialsIncluded: materialCost != nil,
		MaterialCost:      materialCost,
	})
	require.NoError(t, err)

	return uuid.MustParse(bid.Id)
}

// acceptedJob returns a job with an accepted bid from pro.
func (f *fixture) acceptedJob(t *testing.T, pro uuid.UUID, amount float64) uuid.UUID {
	t.Helper()

	jobId := f.postJob(t, "painting", nil)
	bidId := f.submitBid(t, jobId, pro, amount, nil)
	_, err := f.services.Bid.AcceptBid(context.Background(), bidId, jobId)
	require.NoError(t, err)

	return jobId
}

func money(v float64) *float64 {
	return &v
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, notify.Event) error {
	return errors.New("redis down")
}
