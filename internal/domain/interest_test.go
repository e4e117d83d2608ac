package domain

import (
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %q, %v", c, got, err)
		}
	}

	if _, err := ParseCategory("music"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseCategory(music) error = %v, want ErrInvalidInput", err)
	}
}

func TestCategory_DeleteKey(t *testing.T) {
	tests := map[Category]string{
		CategoryHobbies:     "hobbie_ids",
		CategoryMovieSeries: "movie_serie_ids",
		CategorySports:      "sport_ids",
		CategoryTravels:     "travel_ids",
	}
	for c, want := range tests {
		if got := c.DeleteKey(); got != want {
			t.Errorf("%s.DeleteKey() = %q, want %q", c, got, want)
		}
	}
}

func TestEditSession_IsNoop(t *testing.T) {
	if !(EditSession{}).IsNoop() {
		t.Error("empty session should be a no-op")
	}
	if (EditSession{Added: []string{"Chess"}}).IsNoop() {
		t.Error("session with added names is not a no-op")
	}
}
