package domain

import (
	"errors"
	"testing"
)

func TestPagination_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"zero value", Pagination{}, Pagination{Page: 1, Limit: 10}},
		{"explicit", Pagination{Page: 3, Limit: 25}, Pagination{Page: 3, Limit: 25}},
		{"negative", Pagination{Page: -1, Limit: -5}, Pagination{Page: 1, Limit: 10}},
		{"page only", Pagination{Page: 2}, Pagination{Page: 2, Limit: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPagination_Validate(t *testing.T) {
	if err := (Pagination{Page: 1, Limit: 10}).Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	err := Pagination{Page: -2}.Validate()
	if !errors.Is(err, ErrInvalidPagination) {
		t.Errorf("Validate() error = %v, want ErrInvalidPagination", err)
	}
}

func TestPagination_Query(t *testing.T) {
	q := Pagination{Page: 2}.Query()
	if q["page"] != "2" || q["limit"] != "10" {
		t.Errorf("Query() = %v", q)
	}
}

func TestPage_Sparse(t *testing.T) {
	a, b := "a", "b"
	page := Page[string]{Data: []*string{nil, &a, nil, &b}}

	if got := page.First(); got == nil || *got != "a" {
		t.Errorf("First() = %v, want a", got)
	}
	if got := len(page.Items()); got != 2 {
		t.Errorf("Items() length = %d, want 2", got)
	}
	if page.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}

	onlyHoles := Page[string]{Data: []*string{nil, nil}}
	if !onlyHoles.IsEmpty() {
		t.Error("page of absent entries should be empty")
	}
}

func TestCursor(t *testing.T) {
	next := "/matchs?page=2"
	c := Cursor{Next: &next}
	if !c.HasNext() {
		t.Error("HasNext() = false, want true")
	}
	if c.HasPrev() {
		t.Error("HasPrev() = true, want false")
	}
}
