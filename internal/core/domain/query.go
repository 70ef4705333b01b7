package domain

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// ListFilter pages through entities in creation order. AfterID is an
// exclusive cursor; OwnerID narrows to a single owner when set.
type ListFilter struct {
	OwnerID int64
	AfterID int64
	Limit   int
}

func (f ListFilter) Validate() error {
	if f.OwnerID < 0 || f.AfterID < 0 {
		return ErrInvalidFilter
	}
	return nil
}

// Normalize clamps the limit into [1, MaxListLimit].
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	return f
}
