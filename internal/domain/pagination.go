package domain

// DefaultPageSize is the page size used when none is specified.
const DefaultPageSize = 100

// MaxPageSize is the maximum allowed page size.
const MaxPageSize = 1000

// PageRequest holds pagination parameters for list operations.
type PageRequest struct {
	Offset int
	Size   int
}

// Limit returns the effective page size, clamped to [1, MaxPageSize].
func (p PageRequest) Limit() int {
	if p.Size <= 0 {
		return DefaultPageSize
	}
	if p.Size > MaxPageSize {
		return MaxPageSize
	}
	return p.Size
}

// Start returns the effective offset, never negative.
func (p PageRequest) Start() int {
	if p.Offset < 0 {
		return 0
	}
	return p.Offset
}
