package listview

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/paracurve/claimdesk/internal/domain"
)

func claimView(pageSize int) *View[domain.Claim] {
	return New(Config[domain.Claim]{
		SearchFields: []func(domain.Claim) string{
			func(c domain.Claim) string { return c.Number },
			func(c domain.Claim) string { return c.Description },
			func(c domain.Claim) string { return c.EmployeeName },
		},
		FilterFields: map[string]func(domain.Claim) string{
			"status":     func(c domain.Claim) string { return string(c.Status) },
			"type":       func(c domain.Claim) string { return string(c.Type) },
			"department": func(c domain.Claim) string { return c.Department },
		},
		SortKey:  func(c domain.Claim) time.Time { return c.SubmittedAt },
		PageSize: pageSize,
	})
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC)
}

func fixtureClaims() []domain.Claim {
	return []domain.Claim{
		{ID: "1", Number: "CLM-001", Description: "Berlin conference travel", EmployeeName: "Ada", Department: "R&D", Type: domain.ClaimTypeTravel, Status: domain.StatusPendingManager, SubmittedAt: day(3)},
		{ID: "2", Number: "CLM-002", Description: "Team lunch", EmployeeName: "Ben", Department: "Sales", Type: domain.ClaimTypeMeal, Status: domain.StatusApproved, SubmittedAt: day(5)},
		{ID: "3", Number: "CLM-003", Description: "Hotel in berlin", EmployeeName: "Cleo", Department: "R&D", Type: domain.ClaimTypeAccommodation, Status: domain.StatusPendingManager, SubmittedAt: day(1)},
		{ID: "4", Number: "CLM-004", Description: "Standing desk", EmployeeName: "Ada", Department: "R&D", Type: domain.ClaimTypeEquipment, Status: domain.StatusRejected, SubmittedAt: day(5)},
	}
}

func ids(items []domain.Claim) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.ID
	}
	return out
}

func TestView_SearchIsCaseInsensitive(t *testing.T) {
	v := claimView(10)
	claims := fixtureClaims()

	res := v.Apply(claims, Query{Search: "BERLIN"})
	if got := ids(res.Items); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Errorf("search BERLIN = %v, want [1 3] (both descriptions mention berlin)", got)
	}

	res = v.Apply(claims, Query{Search: "clm-004"})
	if got := ids(res.Items); !reflect.DeepEqual(got, []string{"4"}) {
		t.Errorf("search clm-004 = %v, want [4] (number field searched)", got)
	}

	res = v.Apply(claims, Query{Search: "   "})
	if res.TotalItems != 4 {
		t.Errorf("blank search filtered to %d items, want all 4", res.TotalItems)
	}
}

func TestView_Filters(t *testing.T) {
	v := claimView(10)
	claims := fixtureClaims()

	res := v.Apply(claims, Query{Filters: map[string]string{"status": "pending_manager"}})
	if got := ids(res.Items); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Errorf("status filter = %v, want [1 3]", got)
	}

	res = v.Apply(claims, Query{Filters: map[string]string{
		"department": "R&D",
		"type":       "travel",
	}})
	if got := ids(res.Items); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("combined filters = %v, want [1]", got)
	}

	// Empty values and undeclared names do not constrain.
	res = v.Apply(claims, Query{Filters: map[string]string{"status": "", "nonsense": "x"}})
	if res.TotalItems != 4 {
		t.Errorf("ignorable filters reduced to %d items, want 4", res.TotalItems)
	}
}

func TestView_SearchAndFiltersCombine(t *testing.T) {
	v := claimView(10)
	res := v.Apply(fixtureClaims(), Query{
		Search:  "berlin",
		Filters: map[string]string{"type": "accommodation"},
	})
	if got := ids(res.Items); !reflect.DeepEqual(got, []string{"3"}) {
		t.Errorf("search+filter = %v, want [3]", got)
	}
}

func TestView_SortNewestFirstTiesKeepOrder(t *testing.T) {
	v := claimView(10)
	res := v.Apply(fixtureClaims(), Query{})

	// Claims 2 and 4 share day 5; claim 2 comes first in the input and
	// must stay first.
	want := []string{"2", "4", "1", "3"}
	if got := ids(res.Items); !reflect.DeepEqual(got, want) {
		t.Errorf("sorted order = %v, want %v", got, want)
	}
}

func TestView_DoesNotMutateInput(t *testing.T) {
	v := claimView(10)
	claims := fixtureClaims()
	before := ids(claims)

	v.Apply(claims, Query{})

	if got := ids(claims); !reflect.DeepEqual(got, before) {
		t.Errorf("input reordered to %v, want untouched %v", got, before)
	}
}

func TestView_Idempotent(t *testing.T) {
	v := claimView(2)
	claims := fixtureClaims()
	q := Query{Search: "e", Filters: map[string]string{"department": "R&D"}, Page: 1}

	first := v.Apply(claims, q)
	second := v.Apply(claims, q)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same query diverged:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestView_Pagination(t *testing.T) {
	const pageSize = 10

	build := func(n int) []domain.Claim {
		claims := make([]domain.Claim, n)
		for i := range claims {
			claims[i] = domain.Claim{ID: fmt.Sprintf("c%d", i), SubmittedAt: day(1).Add(time.Duration(i) * time.Minute)}
		}
		return claims
	}

	tests := []struct {
		name      string
		n         int
		page      int
		wantLen   int
		wantPages int
	}{
		{"remainder last page", 25, 3, 5, 3},
		{"divisible last page", 20, 2, 10, 2},
		{"single short page", 7, 1, 7, 1},
		{"out of range", 25, 4, 0, 3},
		{"page zero means first", 25, 0, 10, 3},
		{"empty collection", 0, 1, 0, 0},
	}

	v := claimView(pageSize)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Apply(build(tt.n), Query{Page: tt.page})
			if len(res.Items) != tt.wantLen {
				t.Errorf("page length = %d, want %d", len(res.Items), tt.wantLen)
			}
			if res.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", res.TotalPages, tt.wantPages)
			}
			if res.TotalItems != tt.n {
				t.Errorf("TotalItems = %d, want %d", res.TotalItems, tt.n)
			}
		})
	}
}

func TestView_LastPageArithmetic(t *testing.T) {
	// With N items and page size P, the final page holds N mod P items,
	// or P itself when P divides N.
	v := claimView(10)
	for _, n := range []int{1, 9, 10, 11, 25, 30, 99, 100} {
		claims := make([]domain.Claim, n)
		for i := range claims {
			claims[i] = domain.Claim{ID: fmt.Sprintf("c%d", i)}
		}
		res := v.Apply(claims, Query{})
		last := v.Apply(claims, Query{Page: res.TotalPages})

		want := n % 10
		if want == 0 {
			want = 10
		}
		if len(last.Items) != want {
			t.Errorf("n=%d: last page holds %d, want %d", n, len(last.Items), want)
		}
	}
}

func TestSelection_IndependentOfFiltering(t *testing.T) {
	v := claimView(10)
	claims := fixtureClaims()
	sel := NewSelection()

	// Tick two rows on the unfiltered view.
	sel.Toggle("1")
	sel.Toggle("4")

	// Filter down to a view that hides claim 4 entirely.
	res := v.Apply(claims, Query{Filters: map[string]string{"status": "pending_manager"}})
	if got := ids(res.Items); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Fatalf("filtered view = %v", got)
	}

	// The hidden row stays selected.
	if !sel.Selected("4") {
		t.Error("re-filtering must not clear selection of hidden rows")
	}
	if got := sel.IDs(); !reflect.DeepEqual(got, []string{"1", "4"}) {
		t.Errorf("IDs() = %v, want [1 4]", got)
	}
}

func TestSelection_ToggleSetClear(t *testing.T) {
	sel := NewSelection()

	if !sel.Toggle("a") {
		t.Error("first Toggle should select")
	}
	if sel.Toggle("a") {
		t.Error("second Toggle should deselect")
	}

	sel.Set("b", true)
	sel.Set("c", true)
	sel.Set("b", false)
	if sel.Count() != 1 || !sel.Selected("c") {
		t.Errorf("after Set dance: count %d, c selected %v", sel.Count(), sel.Selected("c"))
	}

	sel.Clear()
	if sel.Count() != 0 {
		t.Errorf("Count() after Clear() = %d, want 0", sel.Count())
	}
}
