package service

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// normalizePage clamps page to >= 1 and size to 1..MaxPageSize (0 picks the default),
// and returns the matching row offset.
func normalizePage(page, size int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size, (page - 1) * size
}
