package utils

import "strconv"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// ParsePage reads raw page/page_size query values. Anything unparsable or
// below 1 falls back to the default; size is capped at MaxPageSize.
func ParsePage(rawPage, rawSize string) Page {
	p := Page{Number: DefaultPage, Size: DefaultPageSize}
	if n, err := strconv.Atoi(rawPage); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(rawSize); err == nil && n > 0 {
		p.Size = min(n, MaxPageSize)
	}
	return p
}

// Normalize applies the same rules to an already-typed page.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = DefaultPage
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}
