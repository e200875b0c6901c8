package repository

import "strings"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pageable carries page index, size and sort for list queries. Page is
// zero-based to match the query parameters exposed at the HTTP boundary.
type Pageable struct {
	Page int
	Size int
	Sort string
	Desc bool
}

// normalized clamps page/size and keeps Sort only when it appears in allowed.
func (p Pageable) normalized(allowed ...string) Pageable {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	sort := ""
	for _, col := range allowed {
		if strings.EqualFold(p.Sort, col) {
			sort = col
			break
		}
	}
	p.Sort = sort
	return p
}

// order renders the ORDER BY clause, falling back to def when no sort column
// survived normalization.
func (p Pageable) order(def string) string {
	col := p.Sort
	if col == "" {
		col = def
	}
	if p.Desc {
		return col + " DESC"
	}
	return col + " ASC"
}

func (p Pageable) offset() int {
	return p.Page * p.Size
}
