package pgdb_test

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"job-commerce-api/internal/common"
	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/repo/pgdb"
	"job-commerce-api/internal/repo/repo_errors"
	"job-commerce-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "..", "migrations")
}

type repos struct {
	jobs      *pgdb.JobRepo
	bids      *pgdb.BidRepo
	materials *pgdb.MaterialRepo
	orders    *pgdb.OrderRepo
	progress  *pgdb.ProgressRepo
}

func setupTestDB(t *testing.T) repos {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("jobs_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := migrate.New("file://"+migrationsDir(), connStr)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	pg, err := postgres.NewDB(connStr, postgres.Options{MaxOpenConns: 10})
	require.NoError(t, err)
	t.Cleanup(func() { pg.Close() })

	return repos{
		jobs:      pgdb.NewJobRepo(pg),
		bids:      pgdb.NewBidRepo(pg),
		materials: pgdb.NewMaterialRepo(pg),
		orders:    pgdb.NewOrderRepo(pg),
		progress:  pgdb.NewProgressRepo(pg),
	}
}

func createJob(t *testing.T, r repos) uuid.UUID {
	t.Helper()

	id, err := r.jobs.CreateJob(context.Background(), &entity.CreateJobInput{
		ClientId:   uuid.New(),
		CategoryId: "painting",
		Title:      "Repaint living room",
		Address:    "1 King St",
		Details:    map[string]any{"total_sqft": 700, "wall_condition": "Poor"},
		Photos:     []string{"https://img.example.com/1.jpg"},
		Status:     common.JobPosted,
	})
	require.NoError(t, err)
	return id
}

func createBid(t *testing.T, r repos, jobId uuid.UUID, amount float64) (uuid.UUID, uuid.UUID) {
	t.Helper()

	proId := uuid.New()
	id, err := r.bids.CreateBid(context.Background(), &entity.CreateBidInput{
		JobId:          jobId,
		ProId:          proId,
		Amount:         amount,
		EstimatedHours: 8,
		Status:         common.BidPending,
	})
	require.NoError(t, err)
	return id, proId
}

func TestJobRepo_CreateAndGet(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	id := createJob(t, r)

	job, err := r.jobs.GetJobById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, common.JobPosted, job.Status)
	assert.Equal(t, 700.0, job.Details["total_sqft"])
	assert.Equal(t, []string{"https://img.example.com/1.jpg"}, job.Photos)
	assert.Nil(t, job.AcceptedBidId)

	_, err = r.jobs.GetJobById(ctx, uuid.New())
	assert.ErrorIs(t, err, repo_errors.ErrNotFound)

	open, err := r.jobs.GetOpenJobs(ctx, "painting", nil)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, id, open[0].Id)
}

func TestJobRepo_UpdateJobGuards(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	id := createJob(t, r)

	urgent := true
	err := r.jobs.UpdateJob(ctx, id, &entity.UpdateJobInput{IsUrgent: &urgent}, common.JobBidding)
	assert.ErrorIs(t, err, repo_errors.ErrConflict)

	err = r.jobs.UpdateJob(ctx, uuid.New(), &entity.UpdateJobInput{IsUrgent: &urgent}, common.JobPosted)
	assert.ErrorIs(t, err, repo_errors.ErrNotFound)

	cancelled, reason := common.JobCancelled, "changed plans"
	require.NoError(t, r.jobs.UpdateJob(ctx, id, &entity.UpdateJobInput{Status: &cancelled, CancellationReason: &reason}, common.JobPosted))

	job, err := r.jobs.GetJobById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, common.JobCancelled, job.Status)
	require.NotNil(t, job.CancelledAt)
	require.NotNil(t, job.CancellationReason)
	assert.Equal(t, reason, *job.CancellationReason)
}

func TestJobRepo_MarkBiddingOnlyFromPosted(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	id := createJob(t, r)

	require.NoError(t, r.jobs.MarkBidding(ctx, id))
	require.NoError(t, r.jobs.MarkBidding(ctx, id))

	job, err := r.jobs.GetJobById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, common.JobBidding, job.Status)
}

func TestBidRepo_OnePendingBidPerPro(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	jobId := createJob(t, r)
	_, proId := createBid(t, r, jobId, 500)

	_, err := r.bids.CreateBid(ctx, &entity.CreateBidInput{JobId: jobId, ProId: proId, Amount: 450, Status: common.BidPending})
	assert.ErrorIs(t, err, repo_errors.ErrDuplicate)
}

func TestBidRepo_CreateBidNeedsOpenJob(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	jobId := createJob(t, r)
	bidId, proId := createBid(t, r, jobId, 500)
	require.NoError(t, r.bids.AcceptBid(ctx, bidId, jobId, proId, 500))

	_, err := r.bids.CreateBid(ctx, &entity.CreateBidInput{JobId: jobId, ProId: uuid.New(), Amount: 450, Status: common.BidPending})
	assert.ErrorIs(t, err, repo_errors.ErrConflict)

	_, err = r.bids.CreateBid(ctx, &entity.CreateBidInput{JobId: uuid.New(), ProId: uuid.New(), Amount: 450, Status: common.BidPending})
	assert.ErrorIs(t, err, repo_errors.ErrConflict)

	bids, err := r.bids.GetJobBids(ctx, jobId, nil)
	require.NoError(t, err)
	assert.Len(t, bids, 1)
}

func TestBidRepo_CreateBidRacingAcceptLeavesNoPendingBid(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()

	for round := 0; round < 10; round++ {
		jobId := createJob(t, r)
		bidId, proId := createBid(t, r, jobId, 500)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.bids.AcceptBid(ctx, bidId, jobId, proId, 500))
		}()
		go func() {
			defer wg.Done()
			_, err := r.bids.CreateBid(ctx, &entity.CreateBidInput{JobId: jobId, ProId: uuid.New(), Amount: 450, Status: common.BidPending})
			if err != nil {
				assert.ErrorIs(t, err, repo_errors.ErrConflict)
			}
		}()
		wg.Wait()

		bids, err := r.bids.GetJobBids(ctx, jobId, nil)
		require.NoError(t, err)
		for _, b := range bids {
			assert.NotEqual(t, common.BidPending, b.Status, "round %d", round)
		}
	}
}

func TestBidRepo_AcceptBid(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	jobId := createJob(t, r)
	winner, proId := createBid(t, r, jobId, 500)
	loser, _ := createBid(t, r, jobId, 650)

	require.NoError(t, r.bids.AcceptBid(ctx, winner, jobId, proId, 500))

	job, err := r.jobs.GetJobById(ctx, jobId)
	require.NoError(t, err)
	assert.Equal(t, common.JobAccepted, job.Status)
	require.NotNil(t, job.AcceptedBidId)
	assert.Equal(t, winner, *job.AcceptedBidId)
	require.NotNil(t, job.AssignedProId)
	assert.Equal(t, proId, *job.AssignedProId)
	require.NotNil(t, job.TotalCost)
	assert.Equal(t, 500.0, *job.TotalCost)

	bid, err := r.bids.GetBidById(ctx, winner)
	require.NoError(t, err)
	assert.Equal(t, common.BidAccepted, bid.Status)

	bid, err = r.bids.GetBidById(ctx, loser)
	require.NoError(t, err)
	assert.Equal(t, common.BidRejected, bid.Status)

	err = r.bids.AcceptBid(ctx, loser, jobId, bid.ProId, 650)
	assert.ErrorIs(t, err, repo_errors.ErrConflict)
}

func TestBidRepo_AcceptBidRollsBackWhenBidIsNotPending(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	jobId := createJob(t, r)
	bidId, proId := createBid(t, r, jobId, 500)
	require.NoError(t, r.bids.UpdateBidStatus(ctx, bidId, common.BidWithdrawn, common.BidPending))

	err := r.bids.AcceptBid(ctx, bidId, jobId, proId, 500)
	assert.ErrorIs(t, err, repo_errors.ErrConflict)

	job, err := r.jobs.GetJobById(ctx, jobId)
	require.NoError(t, err)
	assert.Equal(t, common.JobPosted, job.Status)
	assert.Nil(t, job.AcceptedBidId)
}

func TestBidRepo_ConcurrentAcceptHasOneWinner(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	jobId := createJob(t, r)

	const n = 6
	type candidate struct{ bidId, proId uuid.UUID }
	candidates := make([]candidate, n)
	for i := range candidates {
		bidId, proId := createBid(t, r, jobId, float64(400+i*10))
		candidates[i] = candidate{bidId, proId}
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i, c := range candidates {
		i, c := i, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = r.bids.AcceptBid(ctx, c.bidId, jobId, c.proId, 500)
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, repo_errors.ErrConflict)
	}
	assert.Equal(t, 1, wins)

	accepted, err := r.bids.GetJobBids(ctx, jobId, nil)
	require.NoError(t, err)
	count := 0
	for _, b := range accepted {
		if b.Status == common.BidAccepted {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestBidRepo_ExpireStaleBids(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	jobId := createJob(t, r)
	createBid(t, r, jobId, 500)
	createBid(t, r, jobId, 550)

	n, err := r.bids.ExpireStaleBids(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = r.bids.ExpireStaleBids(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestJobRepo_CompleteJobRequiresAcceptedBid(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	jobId := createJob(t, r)

	err := r.jobs.CompleteJob(ctx, jobId, 50, 450)
	assert.ErrorIs(t, err, repo_errors.ErrConflict)

	bidId, proId := createBid(t, r, jobId, 500)
	require.NoError(t, r.bids.AcceptBid(ctx, bidId, jobId, proId, 500))
	require.NoError(t, r.jobs.CompleteJob(ctx, jobId, 50, 450))

	job, err := r.jobs.GetJobById(ctx, jobId)
	require.NoError(t, err)
	assert.Equal(t, common.JobCompleted, job.Status)
	require.NotNil(t, job.PlatformFee)
	assert.Equal(t, 50.0, *job.PlatformFee)
	require.NotNil(t, job.ProPayout)
	assert.Equal(t, 450.0, *job.ProPayout)
	assert.NotNil(t, job.CompletedAt)

	err = r.jobs.CompleteJob(ctx, jobId, 50, 450)
	assert.ErrorIs(t, err, repo_errors.ErrConflict)
}

func TestMaterialRepo_GuardedStatusFlip(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	jobId := createJob(t, r)

	ids, err := r.materials.CreateMaterials(ctx, []entity.CreateMaterialInput{
		{JobId: jobId, Name: "Interior Paint", Unit: "gallon", Quantity: 4, UnitPrice: 45, TotalPrice: 180,
			IsRequired: true, Source: common.MaterialFromTemplate, Status: common.MaterialEstimated},
		{JobId: jobId, Name: "Drop Cloths", Unit: "each", Quantity: 3, UnitPrice: 12, TotalPrice: 36,
			IsRequired: false, Source: common.MaterialFromTemplate, Status: common.MaterialEstimated},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	require.NoError(t, r.materials.UpdateMaterialStatus(ctx, ids[0], common.MaterialConfirmed, common.MaterialEstimated))
	err = r.materials.UpdateMaterialStatus(ctx, ids[0], common.MaterialConfirmed, common.MaterialEstimated)
	assert.ErrorIs(t, err, repo_errors.ErrConflict)

	m, err := r.materials.GetMaterialById(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, common.MaterialConfirmed, m.Status)
	assert.Equal(t, 180.0, m.TotalPrice)

	list, err := r.materials.GetJobMaterials(ctx, jobId)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].IsRequired)
}

func TestMaterialRepo_TemplateLinesOncePerJob(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	jobId := createJob(t, r)
	lines := []entity.CreateMaterialInput{
		{JobId: jobId, Name: "Primer", Unit: "gallon", Quantity: 3, UnitPrice: 32, TotalPrice: 96,
			IsRequired: true, Source: common.MaterialFromTemplate, Status: common.MaterialEstimated},
	}

	ids, err := r.materials.CreateTemplateMaterials(ctx, jobId, lines)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	_, err = r.materials.CreateTemplateMaterials(ctx, jobId, lines)
	assert.ErrorIs(t, err, repo_errors.ErrDuplicate)

	_, err = r.materials.CreateTemplateMaterials(ctx, uuid.New(), lines)
	assert.ErrorIs(t, err, repo_errors.ErrNotFound)

	list, err := r.materials.GetJobMaterials(ctx, jobId)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestOrderRepo_ItemsRoundTrip(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	jobId := createJob(t, r)
	clientId := uuid.New()
	materialId := uuid.New()

	id, err := r.orders.CreateOrder(ctx, &entity.CreateOrderInput{
		JobId:    jobId,
		ClientId: clientId,
		Items: []entity.OrderItem{
			{MaterialId: materialId, Name: "Interior Paint", Quantity: 2, UnitPrice: 45, TotalPrice: 90},
		},
		DeliveryAddress: "12 Elm Street",
		Subtotal:        90,
		Tax:             11.7,
		DeliveryFee:     15,
		Total:           116.7,
		Status:          common.OrderPending,
	})
	require.NoError(t, err)

	order, err := r.orders.GetOrderById(ctx, id)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, materialId, order.Items[0].MaterialId)
	assert.Equal(t, 116.7, order.Total)

	require.NoError(t, r.orders.UpdateOrderStatus(ctx, id, common.OrderConfirmed, common.OrderPending))
	err = r.orders.UpdateOrderStatus(ctx, id, common.OrderShipped, common.OrderPending)
	assert.ErrorIs(t, err, repo_errors.ErrConflict)

	orders, err := r.orders.GetClientOrders(ctx, clientId, nil)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestProgressRepo_ListsInOrder(t *testing.T) {
	r := setupTestDB(t)
	ctx := context.Background()
	jobId := createJob(t, r)
	proId := uuid.New()

	for _, kind := range []string{common.ProgressStarted, common.ProgressMilestone} {
		_, err := r.progress.CreateProgress(ctx, &entity.CreateProgressInput{JobId: jobId, ProId: proId, Type: kind, Description: kind})
		require.NoError(t, err)
	}

	entries, err := r.progress.GetJobProgress(ctx, jobId)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, common.ProgressStarted, entries[0].Type)
	assert.Empty(t, entries[1].Photos)
}
