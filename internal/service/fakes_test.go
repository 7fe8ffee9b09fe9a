package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"job-commerce-api/internal/common"
	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/repo"
	"job-commerce-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

var errStore = errors.New("store unavailable")

// memStore is an in-memory stand-in for every repository. Guarded writes follow
// the same rules as the SQL ones.
type memStore struct {
	mu        sync.Mutex
	jobs      map[uuid.UUID]*entity.Job
	bids      map[uuid.UUID]*entity.Bid
	progress  []entity.Progress
	materials map[uuid.UUID]*entity.Material
	orders    map[uuid.UUID]*entity.Order
	clock     time.Time

	pingErr          error
	failMaterialFlip map[uuid.UUID]error
	failCompleteJob  error
	failMarkBidding  error
	failAcceptBid    error
	jobWrites        int
}

func newMemStore() *memStore {
	return &memStore{
		jobs:             map[uuid.UUID]*entity.Job{},
		bids:             map[uuid.UUID]*entity.Bid{},
		materials:        map[uuid.UUID]*entity.Material{},
		orders:           map[uuid.UUID]*entity.Order{},
		clock:            time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		failMaterialFlip: map[uuid.UUID]error{},
	}
}

func (m *memStore) repositories() *repo.Repositories {
	return &repo.Repositories{
		Diagnostics: m,
		Job:         m,
		Bid:         m,
		Progress:    m,
		Material:    m,
		Order:       m,
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func page[T any](items []T, pg *entity.PaginationInput) []T {
	limit, offset := pg.Bounds()
	if offset >= uint64(len(items)) {
		return []T{}
	}
	end := min(offset+limit, uint64(len(items)))
	return items[offset:end]
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

// jobs

func (m *memStore) CreateJob(_ context.Context, in *entity.CreateJobInput) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.tick()
	job := &entity.Job{
		Id: uuid.New(), ClientId: in.ClientId, CategoryId: in.CategoryId, Title: in.Title,
		Description: in.Description, Address: in.Address, City: in.City, PostalCode: in.PostalCode,
		ScheduledDate: in.ScheduledDate, IsUrgent: in.IsUrgent, Details: in.Details, Photos: in.Photos,
		Status: in.Status, CreatedAt: now, UpdatedAt: now,
	}
	m.jobs[job.Id] = job
	return job.Id, nil
}

func (m *memStore) GetJobById(_ context.Context, id uuid.UUID) (*entity.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *memStore) listJobs(keep func(*entity.Job) bool, pg *entity.PaginationInput) []entity.Job {
	out := make([]entity.Job, 0)
	for _, j := range m.jobs {
		if keep(j) {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return page(out, pg)
}

func (m *memStore) GetClientJobs(_ context.Context, clientId uuid.UUID, status string, pg *entity.PaginationInput) ([]entity.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listJobs(func(j *entity.Job) bool {
		return j.ClientId == clientId && (status == "" || j.Status == status)
	}, pg), nil
}

func (m *memStore) GetOpenJobs(_ context.Context, categoryId string, pg *entity.PaginationInput) ([]entity.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listJobs(func(j *entity.Job) bool {
		return common.IsOpenJobStatus(j.Status) && (categoryId == "" || j.CategoryId == categoryId)
	}, pg), nil
}

func (m *memStore) GetProJobs(_ context.Context, proId uuid.UUID, pg *entity.PaginationInput) ([]entity.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listJobs(func(j *entity.Job) bool {
		return j.AssignedProId != nil && *j.AssignedProId == proId
	}, pg), nil
}

func (m *memStore) UpdateJob(_ context.Context, id uuid.UUID, patch *entity.UpdateJobInput, expectedStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if expectedStatus != "" && job.Status != expectedStatus {
		return repo_errors.ErrConflict
	}

	now := m.tick()
	if patch.Status != nil {
		job.Status = *patch.Status
		switch job.Status {
		case common.JobCancelled:
			job.CancelledAt = &now
		case common.JobInProgress:
			if job.StartedAt == nil {
				job.StartedAt = &now
			}
		}
	}
	if patch.ScheduledDate != nil {
		job.ScheduledDate = patch.ScheduledDate
	}
	if patch.IsUrgent != nil {
		job.IsUrgent = *patch.IsUrgent
	}
	if patch.Details != nil {
		job.Details = patch.Details
	}
	if patch.Photos != nil {
		job.Photos = patch.Photos
	}
	if patch.CancellationReason != nil {
		job.CancellationReason = patch.CancellationReason
	}
	job.UpdatedAt = now
	m.jobWrites++
	return nil
}

func (m *memStore) MarkBidding(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failMarkBidding != nil {
		return m.failMarkBidding
	}
	if job, ok := m.jobs[id]; ok && job.Status == common.JobPosted {
		job.Status = common.JobBidding
	}
	return nil
}

func (m *memStore) CompleteJob(_ context.Context, id uuid.UUID, fee float64, payout float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCompleteJob != nil {
		return m.failCompleteJob
	}
	job, ok := m.jobs[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if !common.IsActiveJobStatus(job.Status) || job.AcceptedBidId == nil {
		return repo_errors.ErrConflict
	}

	now := m.tick()
	job.Status = common.JobCompleted
	job.CompletedAt = &now
	job.PlatformFee = &fee
	job.ProPayout = &payout
	m.jobWrites++
	return nil
}

// bids

func (m *memStore) CreateBid(_ context.Context, in *entity.CreateBidInput) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[in.JobId]
	if !ok || !common.IsOpenJobStatus(job.Status) || job.AcceptedBidId != nil {
		return uuid.Nil, repo_errors.ErrConflict
	}

	for _, b := range m.bids {
		if b.JobId == in.JobId && b.ProId == in.ProId && b.Status == common.BidPending {
			return uuid.Nil, repo_errors.ErrDuplicate
		}
	}

	now := m.tick()
	bid := &entity.Bid{
		Id: uuid.New(), JobId: in.JobId, ProId: in.ProId, Amount: in.Amount,
		EstimatedHours: in.EstimatedHours, Message: in.Message, MaterialsIncluded: in.MaterialsIncluded,
		MaterialCost: in.MaterialCost, Status: in.Status, CreatedAt: now, UpdatedAt: now,
	}
	m.bids[bid.Id] = bid
	return bid.Id, nil
}

func (m *memStore) GetBidById(_ context.Context, id uuid.UUID) (*entity.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bid, ok := m.bids[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	cp := *bid
	return &cp, nil
}

func (m *memStore) listBids(keep func(*entity.Bid) bool, pg *entity.PaginationInput) []entity.Bid {
	out := make([]entity.Bid, 0)
	for _, b := range m.bids {
		if keep(b) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return page(out, pg)
}

func (m *memStore) GetJobBids(_ context.Context, jobId uuid.UUID, pg *entity.PaginationInput) ([]entity.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listBids(func(b *entity.Bid) bool { return b.JobId == jobId }, pg), nil
}

func (m *memStore) GetProBids(_ context.Context, proId uuid.UUID, status string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listBids(func(b *entity.Bid) bool {
		return b.ProId == proId && (status == "" || b.Status == status)
	}, pg), nil
}

func (m *memStore) UpdateBidStatus(_ context.Context, id uuid.UUID, newStatus string, fromStatuses ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bid, ok := m.bids[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if len(fromStatuses) > 0 {
		match := false
		for _, s := range fromStatuses {
			match = match || bid.Status == s
		}
		if !match {
			return repo_errors.ErrConflict
		}
	}
	bid.Status = newStatus
	bid.UpdatedAt = m.tick()
	return nil
}

// AcceptBid applies the whole accept under one lock, all or nothing.
func (m *memStore) AcceptBid(_ context.Context, bidId uuid.UUID, jobId uuid.UUID, proId uuid.UUID, totalCost float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAcceptBid != nil {
		return m.failAcceptBid
	}
	job, ok := m.jobs[jobId]
	if !ok || !common.IsOpenJobStatus(job.Status) || job.AcceptedBidId != nil {
		return repo_errors.ErrConflict
	}
	target, ok := m.bids[bidId]
	if !ok || target.JobId != jobId || target.Status != common.BidPending {
		return repo_errors.ErrConflict
	}

	now := m.tick()
	for _, b := range m.bids {
		if b.JobId == jobId && b.Id != bidId && b.Status == common.BidPending {
			b.Status = common.BidRejected
			b.UpdatedAt = now
		}
	}
	target.Status = common.BidAccepted
	target.UpdatedAt = now

	job.Status = common.JobAccepted
	job.AcceptedBidId = &bidId
	job.AssignedProId = &proId
	job.TotalCost = &totalCost
	m.jobWrites++
	return nil
}

func (m *memStore) ExpireStaleBids(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, b := range m.bids {
		if b.Status == common.BidPending && b.CreatedAt.Before(olderThan) {
			b.Status = common.BidExpired
			n++
		}
	}
	return n, nil
}

// progress

func (m *memStore) CreateProgress(_ context.Context, in *entity.CreateProgressInput) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := entity.Progress{
		Id: uuid.New(), JobId: in.JobId, ProId: in.ProId, Type: in.Type,
		Description: in.Description, Photos: in.Photos, CreatedAt: m.tick(),
	}
	m.progress = append(m.progress, entry)
	return entry.Id, nil
}

func (m *memStore) GetProgressById(_ context.Context, id uuid.UUID) (*entity.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.progress {
		if p.Id == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, repo_errors.ErrNotFound
}

func (m *memStore) GetJobProgress(_ context.Context, jobId uuid.UUID) ([]entity.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]entity.Progress, 0)
	for _, p := range m.progress {
		if p.JobId == jobId {
			out = append(out, p)
		}
	}
	return out, nil
}

// materials

func (m *memStore) CreateMaterials(_ context.Context, inputs []entity.CreateMaterialInput) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(inputs))
	for _, in := range inputs {
		now := m.tick()
		mat := &entity.Material{
			Id: uuid.New(), JobId: in.JobId, Name: in.Name, Unit: in.Unit, Quantity: in.Quantity,
			UnitPrice: in.UnitPrice, TotalPrice: in.TotalPrice, IsRequired: in.IsRequired,
			Source: in.Source, Notes: in.Notes, Status: in.Status, CreatedAt: now, UpdatedAt: now,
		}
		m.materials[mat.Id] = mat
		ids = append(ids, mat.Id)
	}
	return ids, nil
}

func (m *memStore) CreateTemplateMaterials(ctx context.Context, jobId uuid.UUID, inputs []entity.CreateMaterialInput) ([]uuid.UUID, error) {
	m.mu.Lock()
	if _, ok := m.jobs[jobId]; !ok {
		m.mu.Unlock()
		return nil, repo_errors.ErrNotFound
	}
	for _, mat := range m.materials {
		if mat.JobId == jobId && mat.Source == common.MaterialFromTemplate {
			m.mu.Unlock()
			return nil, repo_errors.ErrDuplicate
		}
	}
	m.mu.Unlock()

	return m.CreateMaterials(ctx, inputs)
}

func (m *memStore) GetMaterialById(_ context.Context, id uuid.UUID) (*entity.Material, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mat, ok := m.materials[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	cp := *mat
	return &cp, nil
}

func (m *memStore) GetJobMaterials(_ context.Context, jobId uuid.UUID) ([]entity.Material, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]entity.Material, 0)
	for _, mat := range m.materials {
		if mat.JobId == jobId {
			out = append(out, *mat)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out, nil
}

func (m *memStore) UpdateMaterialStatus(_ context.Context, id uuid.UUID, newStatus string, fromStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failMaterialFlip[id]; err != nil {
		return err
	}
	mat, ok := m.materials[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if mat.Status != fromStatus {
		return repo_errors.ErrConflict
	}
	mat.Status = newStatus
	mat.UpdatedAt = m.tick()
	return nil
}

// orders

func (m *memStore) CreateOrder(_ context.Context, in *entity.CreateOrderInput) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.tick()
	o := &entity.Order{
		Id: uuid.New(), JobId: in.JobId, ClientId: in.ClientId, Items: in.Items,
		Subtotal: in.Subtotal, Tax: in.Tax, DeliveryFee: in.DeliveryFee, Total: in.Total,
		DeliveryAddress: in.DeliveryAddress, DeliveryDate: in.DeliveryDate, Notes: in.Notes,
		Status: in.Status, CreatedAt: now, UpdatedAt: now,
	}
	m.orders[o.Id] = o
	return o.Id, nil
}

func (m *memStore) GetOrderById(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) GetClientOrders(_ context.Context, clientId uuid.UUID, pg *entity.PaginationInput) ([]entity.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]entity.Order, 0)
	for _, o := range m.orders {
		if o.ClientId == clientId {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return page(out, pg), nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, id uuid.UUID, newStatus string, fromStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if o.Status != fromStatus {
		return repo_errors.ErrConflict
	}
	o.Status = newStatus
	o.UpdatedAt = m.tick()
	return nil
}
