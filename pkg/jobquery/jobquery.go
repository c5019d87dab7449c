// Package jobquery turns job listing parameters into a parameterised SQL plan.
// It performs no I/O; the store executes the plan.
package jobquery

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/garnizeh/jobdesk/pkg/models"
)

const (
	DefaultSort      = "id"
	DefaultDirection = "asc"
	DefaultPerPage   = 10
)

// Label comparisons go through fold(), registered on every connection by
// internal/db. It lowercases with the same rules as strings.ToLower.
var sortColumns = map[string]string{
	"id":         "id",
	"label":      "fold(label)",
	"status":     "status",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// SortFields returns the accepted sort keys.
func SortFields() []string {
	out := make([]string, 0, len(sortColumns))
	for k := range sortColumns {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Params holds the caller supplied filters. Zero values select defaults.
type Params struct {
	BusinessID     int64
	Query          string
	Status         *models.JobStatus
	Sort           string
	Direction      string
	Page           int
	PerPage        int
	MatchCreatedAt bool
}

// Plan is a tenant scoped query ready for execution against the jobs table.
type Plan struct {
	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
	Page    int
}

// FieldError reports a parameter that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Build(p Params) (Plan, error) {
	if p.BusinessID <= 0 {
		return Plan{}, &FieldError{Field: "business_id", Message: "must be positive"}
	}

	sortKey := p.Sort
	if sortKey == "" {
		sortKey = DefaultSort
	}
	column, ok := sortColumns[sortKey]
	if !ok {
		return Plan{}, &FieldError{Field: "sort", Message: "must be one of " + strings.Join(SortFields(), ", ")}
	}

	dir := strings.ToLower(p.Direction)
	if dir == "" {
		dir = DefaultDirection
	}
	if dir != "asc" && dir != "desc" {
		return Plan{}, &FieldError{Field: "direction", Message: "must be asc or desc"}
	}

	page := p.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return Plan{}, &FieldError{Field: "page", Message: "must be at least 1"}
	}

	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if maxPage := MaxPage(perPage); page > maxPage {
		return Plan{}, &FieldError{Field: "page", Message: fmt.Sprintf("must not be greater than %d", maxPage)}
	}

	where := []string{"business_id = ?", "deleted_at IS NULL"}
	args := []any{p.BusinessID}

	if q := strings.TrimSpace(p.Query); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		if p.MatchCreatedAt {
			where = append(where, `(fold(label) LIKE ? ESCAPE '\' OR created_at LIKE ? ESCAPE '\')`)
			args = append(args, pattern, pattern)
		} else {
			where = append(where, `fold(label) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
	}

	if p.Status != nil {
		if !p.Status.Valid() {
			return Plan{}, &FieldError{Field: "status", Message: "is invalid"}
		}
		where = append(where, "status = ?")
		args = append(args, int(*p.Status))
	}

	orderBy := column + " " + strings.ToUpper(dir)
	if sortKey != "id" {
		orderBy += ", id ASC"
	}

	return Plan{
		Where:   strings.Join(where, " AND "),
		Args:    args,
		OrderBy: orderBy,
		Limit:   perPage,
		Offset:  (page - 1) * perPage,
		Page:    page,
	}, nil
}

// MaxPage is the largest page number whose offset fits in an int.
func MaxPage(perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return math.MaxInt / perPage
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Page is the pagination metadata for one page of results.
type Page struct {
	Total       int64
	PerPage     int
	CurrentPage int
	LastPage    int
	From        *int
	To          *int
}

// NewPage computes page metadata. From and To are nil when the page is empty.
func NewPage(total int64, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}

	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}

	p := Page{Total: total, PerPage: perPage, CurrentPage: page, LastPage: last}
	if total > 0 && page <= last {
		first := int64(page-1)*int64(perPage) + 1
		to := min(int64(page)*int64(perPage), total)
		from, upto := int(first), int(to)
		p.From, p.To = &from, &upto
	}
	return p
}
