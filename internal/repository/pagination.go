package repository

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Pagination is a 1-based offset/limit window.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps the window to sane bounds.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Pagination) Skip() int64 {
	n := p.Normalize()
	return int64((n.Page - 1) * n.Limit)
}

// Pages returns how many pages total items span.
func (p Pagination) Pages(total int64) int {
	n := p.Normalize()
	if total == 0 {
		return 0
	}
	return int((total + int64(n.Limit) - 1) / int64(n.Limit))
}
