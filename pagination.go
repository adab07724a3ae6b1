package sqlkit

import (
	"fmt"
	"math"
)

// pageBounds turns a 1-based page number into LIMIT and OFFSET. Page 0 and
// page size 0 are invalid rather than silently clamped.
func pageBounds(page, pageSize uint64) (limit, offset int64, err error) {
	if page == 0 {
		return 0, 0, fmt.Errorf("%w: page numbers start at 1", ErrInvalidPage)
	}
	if pageSize == 0 {
		return 0, 0, fmt.Errorf("%w: page size must be positive", ErrInvalidPage)
	}
	if pageSize > math.MaxInt64 || page-1 > (math.MaxInt64)/pageSize {
		return 0, 0, fmt.Errorf("%w: page %d with size %d overflows", ErrInvalidPage, page, pageSize)
	}
	return int64(pageSize), int64(page-1) * int64(pageSize), nil
}

// PaginatedResult is one page of rows plus the counts needed to render a
// pager. TotalPages is derived from Total and PageSize, rounding up.
type PaginatedResult[T any] struct {
	Items      []T
	Total      int64
	Page       uint64
	PageSize   uint64
	TotalPages uint64
}

func newPaginatedResult[T any](items []T, total int64, page, pageSize uint64) PaginatedResult[T] {
	pages := uint64(0)
	if total > 0 {
		pages = (uint64(total) + pageSize - 1) / pageSize
	}
	return PaginatedResult[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
	}
}

// Cursor describes keyset pagination over one strictly monotonic column.
// After is exclusive: rows with Column equal to After are not returned, so
// the column must be unique across the ordered set or rows will be skipped.
type Cursor struct {
	Column   string
	Desc     bool
	PageSize uint64
	After    interface{}
}

func (c Cursor) validate() error {
	if c.Column == "" {
		return fmt.Errorf("%w: cursor column is required", ErrInvalidPage)
	}
	if c.PageSize == 0 || c.PageSize > math.MaxInt64-1 {
		return fmt.Errorf("%w: cursor page size %d", ErrInvalidPage, c.PageSize)
	}
	return nil
}

// apply narrows a SELECT to the next cursor page. One extra row is fetched so
// the caller can tell whether more pages exist.
func (c Cursor) apply(s *SelectSQL) *SelectSQL {
	if err := c.validate(); err != nil {
		s.setErr(err)
		return s
	}
	dir := "ASC"
	op := ">"
	if c.Desc {
		dir = "DESC"
		op = "<"
	}
	if c.After != nil {
		s.AndWhere(c.Column+" "+op+" ?", c.After)
	}
	return s.OrderBy(c.Column + " " + dir).Limit(int64(c.PageSize) + 1)
}

// CursorResult is one keyset page. NextCursor is the cursor column's value in
// the last returned row, nil when the set is exhausted.
type CursorResult[T any] struct {
	Items      []T
	NextCursor interface{}
	HasMore    bool
}
