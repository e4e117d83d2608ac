package domain

import "fmt"

// MaxItemsPerCategory bounds the number of interest items in one category
const MaxItemsPerCategory = 10

// Category names one interest collection
type Category string

const (
	CategoryHobbies     Category = "hobbies"
	CategoryMovieSeries Category = "movie_series"
	CategorySports      Category = "sports"
	CategoryTravels     Category = "travels"
)

// Categories returns every interest category in display order
func Categories() []Category {
	return []Category{CategoryHobbies, CategoryMovieSeries, CategorySports, CategoryTravels}
}

// ParseCategory validates a category name
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown interest category %q", ErrInvalidInput, s)
}

// DeleteKey is the delete-payload key holding ids for the category
func (c Category) DeleteKey() string {
	switch c {
	case CategoryHobbies:
		return "hobbie_ids"
	case CategoryMovieSeries:
		return "movie_serie_ids"
	case CategorySports:
		return "sport_ids"
	case CategoryTravels:
		return "travel_ids"
	}
	return string(c) + "_ids"
}

// InterestItem is one entry of an interest collection. ID is assigned by the
// server and is empty for items that have not been created yet.
type InterestItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EditSession is the client-held state of one category between opening the
// edit form and submitting it.
type EditSession struct {
	Retained   []InterestItem
	Added      []string
	RemovedIDs []string
}

// IsNoop reports whether the session changes nothing
func (s EditSession) IsNoop() bool {
	return len(s.Retained) == 0 && len(s.Added) == 0 && len(s.RemovedIDs) == 0
}
