package service

import (
	"time"

	"job-commerce-api/internal/entity"
	"job-commerce-api/internal/estimator"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(dateLayout)
}

func formatId(id *uuid.UUID) string {
	if id == nil {
		return ""
	}

	return id.String()
}

func mapJob(j *entity.Job) *entity.JobOutputModel {
	details := j.Details
	if details == nil {
		details = map[string]any{}
	}
	photos := j.Photos
	if photos == nil {
		photos = []string{}
	}

	return &entity.JobOutputModel{
		Id:                 j.Id.String(),
		ClientId:           j.ClientId.String(),
		Category:           entity.CategoryRef{Id: j.CategoryId, Known: estimator.Known(j.CategoryId)},
		Title:              j.Title,
		Description:        j.Description,
		Address:            j.Address,
		City:               j.City,
		PostalCode:         j.PostalCode,
		Latitude:           j.Latitude,
		Longitude:          j.Longitude,
		ScheduledDate:      formatDate(j.ScheduledDate),
		ScheduledTimeStart: j.ScheduledTimeStart,
		ScheduledTimeEnd:   j.ScheduledTimeEnd,
		IsUrgent:           j.IsUrgent,
		Details:            details,
		Photos:             photos,
		Status:             j.Status,
		AcceptedBidId:      formatId(j.AcceptedBidId),
		AssignedProId:      formatId(j.AssignedProId),
		TotalCost:          j.TotalCost,
		PlatformFee:        j.PlatformFee,
		ProPayout:          j.ProPayout,
		StartedAt:          formatTime(j.StartedAt),
		CompletedAt:        formatTime(j.CompletedAt),
		CancelledAt:        formatTime(j.CancelledAt),
		CancellationReason: j.CancellationReason,
		CreatedAt:          formatTime(&j.CreatedAt),
		UpdatedAt:          formatTime(&j.UpdatedAt),
	}
}

func mapJobs(j []entity.Job) []entity.JobOutputModel {
	s := make([]entity.JobOutputModel, 0, len(j))
	for i := range j {
		s = append(s, *mapJob(&j[i]))
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:                b.Id.String(),
		JobId:             b.JobId.String(),
		Pro:               entity.ProRef{Id: b.ProId.String()},
		Amount:            b.Amount,
		EstimatedHours:    b.EstimatedHours,
		ProposedDate:      formatDate(b.ProposedDate),
		ProposedTimeStart: b.ProposedTimeStart,
		ProposedTimeEnd:   b.ProposedTimeEnd,
		Message:           b.Message,
		MaterialsIncluded: b.MaterialsIncluded,
		MaterialCost:      b.MaterialCost,
		Status:            b.Status,
		CreatedAt:         formatTime(&b.CreatedAt),
		UpdatedAt:         formatTime(&b.UpdatedAt),
	}
}

func mapBids(b []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0, len(b))
	for i := range b {
		s = append(s, *mapBid(&b[i]))
	}

	return s
}

func mapProgress(p *entity.Progress) *entity.ProgressOutputModel {
	photos := p.Photos
	if photos == nil {
		photos = []string{}
	}

	return &entity.ProgressOutputModel{
		Id:          p.Id.String(),
		JobId:       p.JobId.String(),
		ProId:       p.ProId.String(),
		Type:        p.Type,
		Description: p.Description,
		Photos:      photos,
		CreatedAt:   formatTime(&p.CreatedAt),
	}
}

func mapProgressEntries(p []entity.Progress) []entity.ProgressOutputModel {
	s := make([]entity.ProgressOutputModel, 0, len(p))
	for i := range p {
		s = append(s, *mapProgress(&p[i]))
	}

	return s
}

func mapMaterial(m *entity.Material) *entity.MaterialOutputModel {
	return &entity.MaterialOutputModel{
		Id:         m.Id.String(),
		JobId:      m.JobId.String(),
		Name:       m.Name,
		Unit:       m.Unit,
		Quantity:   m.Quantity,
		UnitPrice:  m.UnitPrice,
		TotalPrice: m.TotalPrice,
		IsRequired: m.IsRequired,
		Source:     m.Source,
		Notes:      m.Notes,
		Status:     m.Status,
		CreatedAt:  formatTime(&m.CreatedAt),
	}
}

func mapMaterials(m []entity.Material) []entity.MaterialOutputModel {
	s := make([]entity.MaterialOutputModel, 0, len(m))
	for i := range m {
		s = append(s, *mapMaterial(&m[i]))
	}

	return s
}

func mapOrder(o *entity.Order) *entity.OrderOutputModel {
	items := o.Items
	if items == nil {
		items = []entity.OrderItem{}
	}

	return &entity.OrderOutputModel{
		Id:              o.Id.String(),
		JobId:           o.JobId.String(),
		ClientId:        o.ClientId.String(),
		Items:           items,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		DeliveryFee:     o.DeliveryFee,
		Total:           o.Total,
		DeliveryAddress: o.DeliveryAddress,
		DeliveryDate:    formatDate(o.DeliveryDate),
		Notes:           o.Notes,
		Status:          o.Status,
		CreatedAt:       formatTime(&o.CreatedAt),
	}
}

func mapOrders(o []entity.Order) []entity.OrderOutputModel {
	s := make([]entity.OrderOutputModel, 0, len(o))
	for i := range o {
		s = append(s, *mapOrder(&o[i]))
	}

	return s
}
