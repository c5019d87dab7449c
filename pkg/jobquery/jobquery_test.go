package jobquery_test

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/garnizeh/jobdesk/pkg/jobquery"
	"github.com/garnizeh/jobdesk/pkg/models"
)

func mustBuild(t *testing.T, p jobquery.Params) jobquery.Plan {
	t.Helper()
	plan, err := jobquery.Build(p)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return plan
}

func TestBuild_Defaults(t *testing.T) {
	plan := mustBuild(t, jobquery.Params{BusinessID: 7})

	if plan.Where != "business_id = ? AND deleted_at IS NULL" {
		t.Fatalf("unexpected where %q", plan.Where)
	}
	if !reflect.DeepEqual(plan.Args, []any{int64(7)}) {
		t.Fatalf("unexpected args %#v", plan.Args)
	}
	if plan.OrderBy != "id ASC" {
		t.Fatalf("unexpected order by %q", plan.OrderBy)
	}
	if plan.Limit != jobquery.DefaultPerPage || plan.Offset != 0 || plan.Page != 1 {
		t.Fatalf("unexpected paging limit=%d offset=%d page=%d", plan.Limit, plan.Offset, plan.Page)
	}
}

func TestBuild_SortAndPaging(t *testing.T) {
	plan := mustBuild(t, jobquery.Params{BusinessID: 1, Sort: "label", Direction: "DESC", Page: 3, PerPage: 10})

	if plan.OrderBy != "fold(label) DESC, id ASC" {
		t.Fatalf("unexpected order by %q", plan.OrderBy)
	}
	if plan.Limit != 10 || plan.Offset != 20 {
		t.Fatalf("expected limit 10 offset 20, got %d %d", plan.Limit, plan.Offset)
	}
}

func TestBuild_QueryFilter(t *testing.T) {
	t.Run("WithCreatedAt", func(t *testing.T) {
		plan := mustBuild(t, jobquery.Params{BusinessID: 1, Query: "Roof", MatchCreatedAt: true})
		if !strings.Contains(plan.Where, "fold(label) LIKE ?") || !strings.Contains(plan.Where, "created_at LIKE ?") {
			t.Fatalf("unexpected where %q", plan.Where)
		}
		if !reflect.DeepEqual(plan.Args, []any{int64(1), "%roof%", "%roof%"}) {
			t.Fatalf("unexpected args %#v", plan.Args)
		}
	})

	t.Run("LabelOnly", func(t *testing.T) {
		plan := mustBuild(t, jobquery.Params{BusinessID: 1, Query: "roof"})
		if strings.Contains(plan.Where, "created_at LIKE") {
			t.Fatalf("created_at clause present: %q", plan.Where)
		}
		if !reflect.DeepEqual(plan.Args, []any{int64(1), "%roof%"}) {
			t.Fatalf("unexpected args %#v", plan.Args)
		}
	})

	t.Run("UnicodeLowered", func(t *testing.T) {
		plan := mustBuild(t, jobquery.Params{BusinessID: 1, Query: "ÉCOLE"})
		if plan.Args[1] != "%école%" {
			t.Fatalf("unexpected pattern %q", plan.Args[1])
		}
	})

	t.Run("EscapesWildcards", func(t *testing.T) {
		plan := mustBuild(t, jobquery.Params{BusinessID: 1, Query: "50%_off"})
		if plan.Args[1] != `%50\%\_off%` {
			t.Fatalf("unexpected pattern %q", plan.Args[1])
		}
	})

	t.Run("BlankIgnored", func(t *testing.T) {
		plan := mustBuild(t, jobquery.Params{BusinessID: 1, Query: "   "})
		if len(plan.Args) != 1 {
			t.Fatalf("expected only the tenant arg, got %#v", plan.Args)
		}
	})
}

func TestBuild_StatusFilter(t *testing.T) {
	st := models.StatusInvoicing
	plan := mustBuild(t, jobquery.Params{BusinessID: 1, Status: &st})
	if !strings.Contains(plan.Where, "status = ?") {
		t.Fatalf("missing status clause: %q", plan.Where)
	}
	if !reflect.DeepEqual(plan.Args, []any{int64(1), 3}) {
		t.Fatalf("unexpected args %#v", plan.Args)
	}
}

func TestBuild_Invalid(t *testing.T) {
	bad := models.JobStatus(9)
	tests := []struct {
		name  string
		p     jobquery.Params
		field string
	}{
		{"Tenant", jobquery.Params{}, "business_id"},
		{"Sort", jobquery.Params{BusinessID: 1, Sort: "password"}, "sort"},
		{"Direction", jobquery.Params{BusinessID: 1, Direction: "sideways"}, "direction"},
		{"Page", jobquery.Params{BusinessID: 1, Page: -2}, "page"},
		{"PageOverflow", jobquery.Params{BusinessID: 1, Page: 922337203685477582, PerPage: 10}, "page"},
		{"PageMaxInt", jobquery.Params{BusinessID: 1, Page: math.MaxInt}, "page"},
		{"Status", jobquery.Params{BusinessID: 1, Status: &bad}, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jobquery.Build(tt.p)
			var fe *jobquery.FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FieldError, got %v", err)
			}
			if fe.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, fe.Field)
			}
		})
	}
}

func TestBuild_MaxPage(t *testing.T) {
	last := jobquery.MaxPage(10)
	plan := mustBuild(t, jobquery.Params{BusinessID: 1, Page: last, PerPage: 10})
	if plan.Offset < 0 {
		t.Fatalf("offset overflowed: %d", plan.Offset)
	}
	if plan.Offset != (last-1)*10 {
		t.Fatalf("unexpected offset %d", plan.Offset)
	}
	if jobquery.MaxPage(0) != jobquery.MaxPage(jobquery.DefaultPerPage) {
		t.Fatalf("MaxPage(0) must use the default page size")
	}
}

func TestNewPage(t *testing.T) {
	p := jobquery.NewPage(25, 3, 10)
	if p.LastPage != 3 {
		t.Fatalf("expected last page 3, got %d", p.LastPage)
	}
	if p.From == nil || p.To == nil || *p.From != 21 || *p.To != 25 {
		t.Fatalf("unexpected from/to %v %v", p.From, p.To)
	}

	empty := jobquery.NewPage(0, 1, 10)
	if empty.LastPage != 1 || empty.From != nil || empty.To != nil {
		t.Fatalf("unexpected empty page %#v", empty)
	}

	if beyond := jobquery.NewPage(5, 4, 10); beyond.From != nil || beyond.To != nil {
		t.Fatalf("expected nil from/to beyond the last page, got %#v", beyond)
	}

	huge := jobquery.NewPage(25, jobquery.MaxPage(10), 10)
	if huge.From != nil || huge.To != nil {
		t.Fatalf("expected nil from/to for a huge page, got %v %v", huge.From, huge.To)
	}
	if huge.CurrentPage != jobquery.MaxPage(10) {
		t.Fatalf("current page must be reported as requested, got %d", huge.CurrentPage)
	}
}
