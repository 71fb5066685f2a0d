package query

import (
	"fmt"
	"math"
	"strings"

	dErrors "catalog/pkg/domain-errors"
)

const DefaultPageSize = 20

// Page selects a zero-based page of a sorted list.
type Page struct {
	Number int
	Size   int
	Sort   string
	Desc   bool
}

// NewPage validates paging input. size 0 means DefaultPageSize; maxSize 0 means
// unbounded. An empty sort uses the schema default.
func NewPage(schema *Schema, number, size int, sort string, desc bool, maxSize int) (Page, error) {
	if number < 0 {
		return Page{}, dErrors.New(dErrors.CodeValidation, "page must not be negative")
	}
	if size < 0 {
		return Page{}, dErrors.New(dErrors.CodeValidation, "size must not be negative")
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if maxSize > 0 && size > maxSize {
		return Page{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("size must be at most %d", maxSize))
	}
	if number > math.MaxInt/size {
		return Page{}, dErrors.New(dErrors.CodeValidation, "page is out of range")
	}
	if sort == "" {
		sort = schema.defaultSort
	}
	col, ok := schema.column(sort)
	if !ok || !col.Sortable {
		return Page{}, dErrors.New(dErrors.CodeValidation, "cannot sort by "+sort)
	}
	return Page{Number: number, Size: size, Sort: sort, Desc: desc}, nil
}

func (p Page) Offset() int { return p.Number * p.Size }

// OrderBy renders ORDER BY ... LIMIT/OFFSET for the page. Page must come from
// NewPage with the same schema.
func (s *Schema) OrderBy(p Page) string {
	col, _ := s.column(p.Sort)
	dir := "ASC"
	if p.Desc {
		dir = "DESC"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ORDER BY %s %s", col.Expr, dir)
	if s.tieBreaker != "" && s.tieBreaker != col.Expr {
		fmt.Fprintf(&b, ", %s %s", s.tieBreaker, dir)
	}
	fmt.Fprintf(&b, " LIMIT %d OFFSET %d", p.Size, p.Offset())
	return b.String()
}

// Result is one page of items plus totals.
type Result[T any] struct {
	Items         []T   `json:"content"`
	Page          int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func NewResult[T any](items []T, p Page, total int64) Result[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if p.Size > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return Result[T]{Items: items, Page: p.Number, Size: p.Size, TotalElements: total, TotalPages: pages}
}

// Slice applies the page window to an already filtered and sorted slice.
func Slice[T any](all []T, p Page) []T {
	start := p.Offset()
	if start < 0 || start >= len(all) {
		return []T{}
	}
	end := len(all)
	if p.Size < end-start {
		end = start + p.Size
	}
	return all[start:end]
}
