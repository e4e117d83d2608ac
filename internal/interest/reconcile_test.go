package interest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/matchme/internal/domain"
)

func names(n int, prefix string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func items(n int, prefix string) []domain.InterestItem {
	out := make([]domain.InterestItem, n)
	for i := range out {
		out[i] = domain.InterestItem{ID: fmt.Sprintf("id-%s%d", prefix, i), Name: fmt.Sprintf("%s%d", prefix, i)}
	}
	return out
}

func TestReconcile_ValidSessionsProduceNoErrors(t *testing.T) {
	for _, c := range domain.Categories() {
		for retained := 0; retained <= domain.MaxItemsPerCategory; retained++ {
			added := domain.MaxItemsPerCategory - retained
			sess := domain.EditSession{Retained: items(retained, "r"), Added: names(added, "a")}

			if _, err := Reconcile(nil, map[domain.Category]domain.EditSession{c: sess}); err != nil {
				t.Errorf("%s retained=%d added=%d: error = %v", c, retained, added, err)
			}
		}
	}
}

func TestReconcile_Duplicates(t *testing.T) {
	tests := []struct {
		name string
		sess domain.EditSession
		want ValidationErrors
	}{
		{
			name: "added collides with retained rename",
			sess: domain.EditSession{
				Retained: []domain.InterestItem{{ID: "h1", Name: "Chess"}},
				Added:    []string{"Chess"},
			},
			want: ValidationErrors{{Category: domain.CategoryHobbies, Field: FieldNewItems, Index: 0, Name: "Chess", Reason: ReasonDuplicate}},
		},
		{
			name: "two retained share a name",
			sess: domain.EditSession{
				Retained: []domain.InterestItem{{ID: "h1", Name: "Chess"}, {ID: "h2", Name: "Go"}, {ID: "h3", Name: "Chess"}},
			},
			want: ValidationErrors{{Category: domain.CategoryHobbies, Field: FieldItems, Index: 2, Name: "Chess", Reason: ReasonDuplicate}},
		},
		{
			name: "two added share a name",
			sess: domain.EditSession{Added: []string{"Go", "Chess", "Go"}},
			want: ValidationErrors{{Category: domain.CategoryHobbies, Field: FieldNewItems, Index: 2, Name: "Go", Reason: ReasonDuplicate}},
		},
		{
			name: "names differing in case are distinct",
			sess: domain.EditSession{Added: []string{"chess", "Chess"}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reconcile(nil, map[domain.Category]domain.EditSession{domain.CategoryHobbies: tt.sess})
			if tt.want == nil {
				if err != nil {
					t.Fatalf("error = %v, want nil", err)
				}
				return
			}
			var got ValidationErrors
			if !errors.As(err, &got) {
				t.Fatalf("error = %v, want ValidationErrors", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconcile_Cardinality(t *testing.T) {
	sess := domain.EditSession{Retained: items(6, "r"), Added: names(5, "a")}
	_, err := Reconcile(nil, map[domain.Category]domain.EditSession{domain.CategorySports: sess})

	var got ValidationErrors
	if !errors.As(err, &got) {
		t.Fatalf("error = %v, want ValidationErrors", err)
	}
	want := ValidationErrors{{Category: domain.CategorySports, Index: -1, Reason: ReasonTooMany}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Error("ValidationErrors should match domain.ErrInvalidInput")
	}
}

func TestReconcile_DuplicatesDoNotCountTowardsLimit(t *testing.T) {
	sess := domain.EditSession{Added: append(names(10, "a"), "a0")}
	_, err := Reconcile(nil, map[domain.Category]domain.EditSession{domain.CategoryTravels: sess})

	var got ValidationErrors
	if !errors.As(err, &got) {
		t.Fatalf("error = %v, want ValidationErrors", err)
	}
	if len(got) != 1 || got[0].Reason != ReasonDuplicate || got[0].Index != 10 {
		t.Errorf("errors = %v, want one duplicate at index 10", got)
	}
}

func TestReconcile_ErrorsAcrossCategories(t *testing.T) {
	sessions := map[domain.Category]domain.EditSession{
		domain.CategoryHobbies:     {Added: []string{"x", "x"}},
		domain.CategoryMovieSeries: {Added: []string{"Dark"}},
		domain.CategoryTravels:     {Added: names(11, "t")},
	}
	plan, err := Reconcile(nil, sessions)

	var got ValidationErrors
	if !errors.As(err, &got) {
		t.Fatalf("error = %v, want ValidationErrors", err)
	}
	if len(got.For(domain.CategoryHobbies)) != 1 || len(got.For(domain.CategoryTravels)) != 1 {
		t.Errorf("errors = %v", got)
	}
	if len(got.For(domain.CategoryMovieSeries)) != 0 {
		t.Errorf("valid category should have no errors")
	}
	if !plan.IsEmpty() {
		t.Error("no partial plan should be returned")
	}
}

func TestReconcile_Conflict(t *testing.T) {
	sess := domain.EditSession{
		Retained:   []domain.InterestItem{{ID: "h1", Name: "Chess"}},
		RemovedIDs: []string{"h1"},
	}
	_, err := Reconcile(nil, map[domain.Category]domain.EditSession{domain.CategoryHobbies: sess})

	var got ValidationErrors
	if !errors.As(err, &got) || got[0].Reason != ReasonConflict {
		t.Fatalf("error = %v, want conflict", err)
	}
}

func TestReconcile_Noop(t *testing.T) {
	plan, err := Reconcile(nil, map[domain.Category]domain.EditSession{
		domain.CategoryHobbies: {Retained: []domain.InterestItem{}, Added: []string{}, RemovedIDs: []string{}},
	})
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if !plan.IsEmpty() {
		t.Errorf("plan = %+v, want empty", plan)
	}
	if len(plan.Summary()) != 0 {
		t.Errorf("Summary() = %v, want empty", plan.Summary())
	}
}

func TestReconcile_Buckets(t *testing.T) {
	original := &domain.UserProfile{
		Hobbies: []domain.InterestItem{{ID: "h1", Name: "Reading"}, {ID: "h2", Name: "Chess"}},
	}
	sessions := map[domain.Category]domain.EditSession{
		domain.CategoryHobbies: {
			Retained:   []domain.InterestItem{{ID: "h2", Name: "Go"}},
			Added:      []string{"Reading"},
			RemovedIDs: []string{"h1"},
		},
		domain.CategorySports: {Added: []string{"Tennis"}},
	}

	plan, err := Reconcile(original, sessions)
	if err != nil {
		t.Fatalf("error = %v", err)
	}

	want := Plan{
		Create: map[domain.Category][]string{
			domain.CategoryHobbies: {"Reading"},
			domain.CategorySports:  {"Tennis"},
		},
		Update: map[domain.Category][]domain.InterestItem{
			domain.CategoryHobbies: {{ID: "h2", Name: "Go"}},
		},
		Delete: map[domain.Category][]string{
			domain.CategoryHobbies: {"h1"},
		},
		Renamed: map[domain.Category]int{domain.CategoryHobbies: 1},
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}
