package entity

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type PaginationInput struct {
	Limit  int
	Offset int
}

func NewPaginationInput(limit int, offset int) *PaginationInput {
	return &PaginationInput{
		Limit:  limit,
		Offset: offset,
	}
}

// Bounds returns the limit and offset to put in a query. A nil page is the first
// DefaultPageLimit rows.
func (p *PaginationInput) Bounds() (limit uint64, offset uint64) {
	if p == nil {
		return DefaultPageLimit, 0
	}

	l := p.Limit
	switch {
	case l <= 0:
		l = DefaultPageLimit
	case l > MaxPageLimit:
		l = MaxPageLimit
	}

	return uint64(l), uint64(max(p.Offset, 0))
}
