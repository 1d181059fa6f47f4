package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Page holds normalized limit/offset inputs for list queries.
type Page struct {
	Limit  int
	Offset int
}

// New clamps the raw inputs into a safe page.
func New(limit, offset int) Page {
	return Page{Limit: ClampLimit(limit), Offset: ClampOffset(offset)}
}

// ClampLimit enforces the configured default and maximum limits.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ClampOffset floors negative offsets at zero.
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
