package pagination

// DefaultSize is the standard page size when one is not provided.
const DefaultSize = 10

// MaxSize caps how many rows any page query can request.
const MaxSize = 100

// Params holds zero-indexed offset pagination inputs.
type Params struct {
	Page int
	Size int
}

// Normalize clamps the inputs to sane values: pages start at zero, a
// missing size becomes the default, oversized requests are capped.
func Normalize(page, size int) Params {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Params{Page: page, Size: size}
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return p.Page * p.Size
}
