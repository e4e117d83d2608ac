// Package form converts submitted form fields into the inputs of the match,
// interest and profile services.
//
// Interest forms carry, per category cat:
//
//	cat[].id, cat[].name   retained items, zipped by position
//	new_cat[]              newly typed names
//	deleted_cat[]          ids of removed items
package form

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/user"
)

// Field names of an interest category
func retainedIDKey(c domain.Category) string   { return string(c) + "[].id" }
func retainedNameKey(c domain.Category) string { return string(c) + "[].name" }
func addedKey(c domain.Category) string        { return "new_" + string(c) + "[]" }
func deletedKey(c domain.Category) string      { return "deleted_" + string(c) + "[]" }

// ParseInterests builds one edit session per category present in the form.
// Blank new names are skipped, as empty inputs are submitted with the form.
func ParseInterests(values url.Values) (map[domain.Category]domain.EditSession, error) {
	sessions := make(map[domain.Category]domain.EditSession)

	for _, c := range domain.Categories() {
		ids, hasIDs := values[retainedIDKey(c)]
		names, hasNames := values[retainedNameKey(c)]
		added, hasAdded := values[addedKey(c)]
		deleted, hasDeleted := values[deletedKey(c)]
		if !hasIDs && !hasNames && !hasAdded && !hasDeleted {
			continue
		}

		if len(ids) != len(names) {
			return nil, fmt.Errorf("%w: %s has %d ids for %d names", domain.ErrInvalidInput, c, len(ids), len(names))
		}

		var sess domain.EditSession
		for i := range ids {
			if ids[i] == "" {
				return nil, fmt.Errorf("%w: %s item %d has no id", domain.ErrInvalidInput, c, i)
			}
			sess.Retained = append(sess.Retained, domain.InterestItem{ID: ids[i], Name: names[i]})
		}
		for _, name := range added {
			if strings.TrimSpace(name) == "" {
				continue
			}
			sess.Added = append(sess.Added, name)
		}
		seen := make(map[string]struct{}, len(deleted))
		for _, id := range deleted {
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			sess.RemovedIDs = append(sess.RemovedIDs, id)
		}
		sessions[c] = sess
	}
	return sessions, nil
}

// InterestValues renders a profile's interests as a form, the inverse of
// ParseInterests for an unedited session
func InterestValues(p *domain.UserProfile) url.Values {
	return NewInterestForm(p).Values()
}

// InterestForm edits interest form fields the way the edit page does: a
// removed row disappears and its id is listed as deleted.
type InterestForm struct {
	values url.Values
}

// NewInterestForm starts from the profile's items in the given categories,
// or in every category when none is given
func NewInterestForm(p *domain.UserProfile, categories ...domain.Category) *InterestForm {
	if len(categories) == 0 {
		categories = domain.Categories()
	}
	f := &InterestForm{values: url.Values{}}
	for _, c := range categories {
		if p == nil {
			break
		}
		for _, it := range p.Interests(c) {
			f.values.Add(retainedIDKey(c), it.ID)
			f.values.Add(retainedNameKey(c), it.Name)
		}
	}
	return f
}

// Add types new names into the category
func (f *InterestForm) Add(c domain.Category, names ...string) {
	for _, n := range names {
		f.values.Add(addedKey(c), n)
	}
}

// Remove drops the row holding id and marks it deleted
func (f *InterestForm) Remove(c domain.Category, id string) error {
	i, err := f.row(c, id)
	if err != nil {
		return err
	}
	ids, names := f.values[retainedIDKey(c)], f.values[retainedNameKey(c)]
	f.values[retainedIDKey(c)] = append(ids[:i:i], ids[i+1:]...)
	f.values[retainedNameKey(c)] = append(names[:i:i], names[i+1:]...)
	f.values.Add(deletedKey(c), id)
	return nil
}

// Rename changes the name in the row holding id
func (f *InterestForm) Rename(c domain.Category, id, name string) error {
	i, err := f.row(c, id)
	if err != nil {
		return err
	}
	f.values[retainedNameKey(c)][i] = name
	return nil
}

// Values returns the form fields
func (f *InterestForm) Values() url.Values {
	return f.values
}

func (f *InterestForm) row(c domain.Category, id string) (int, error) {
	for i, v := range f.values[retainedIDKey(c)] {
		if v == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no %s item with id %q", domain.ErrInvalidInput, c, id)
}

// Swipe is a submitted swipe
type Swipe struct {
	MatchID  string
	Decision domain.Decision
}

// ParseSwipe reads match_id and swipe
func ParseSwipe(values url.Values) (Swipe, error) {
	id := strings.TrimSpace(values.Get("match_id"))
	if id == "" {
		return Swipe{}, domain.ErrInvalidMatchID
	}
	d, err := domain.ParseDecision(strings.ToLower(strings.TrimSpace(values.Get("swipe"))))
	if err != nil {
		return Swipe{}, err
	}
	return Swipe{MatchID: id, Decision: d}, nil
}

// ParsePagination reads page and limit. Missing values are left zero for
// the services to default.
func ParsePagination(values url.Values) (domain.Pagination, error) {
	var p domain.Pagination
	var err error
	if p.Page, err = optionalInt(values, "page"); err != nil {
		return p, err
	}
	if p.Limit, err = optionalInt(values, "limit"); err != nil {
		return p, err
	}
	return p, p.Validate()
}

// ParseFilter reads the stream the pagination applies to
func ParseFilter(values url.Values) (domain.MatchStatus, error) {
	f := strings.TrimSpace(values.Get("filter"))
	if f == "" {
		return "", nil
	}
	return domain.ParseMatchStatus(f)
}

func optionalInt(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", domain.ErrInvalidPagination, key, raw)
	}
	return n, nil
}

// ParseDetail reads a profile form. Genders, education and habit levels
// may be given as display labels.
func ParseDetail(values url.Values) (user.DetailInput, error) {
	in := user.DetailInput{
		Alias:                  strings.TrimSpace(values.Get("alias")),
		Bio:                    values.Get("bio"),
		RelationshipPreference: domain.RelationshipPreference(values.Get("relationship_preferences")),
		EducationLevel:         domain.ParseEducationLevel(values.Get("education_level")),
		Drinking:               domain.ParseHabitLevel(values.Get("drinking")),
		Smoking:                domain.ParseHabitLevel(values.Get("smoking")),
		Zodiac:                 domain.Zodiac(values.Get("zodiac")),
		Work:                   strings.TrimSpace(values.Get("work")),
		FromLocation:           strings.TrimSpace(values.Get("from_location")),
	}
	if g := values.Get("gender"); g != "" {
		in.Gender = domain.ParseGender(g)
	}
	if g := values.Get("looking_for"); g != "" {
		in.LookingFor = domain.ParseGender(g)
	}

	var err error
	if in.Height, err = optionalFloat(values, "height"); err != nil {
		return in, err
	}
	if in.Kids, err = optionalFloat(values, "kids"); err != nil {
		return in, err
	}

	lat, err := optionalFloat(values, "lat")
	if err != nil {
		return in, err
	}
	lng, err := optionalFloat(values, "lng")
	if err != nil {
		return in, err
	}
	switch {
	case lat != nil && lng != nil:
		in.Geo = &domain.Geo{Lat: *lat, Lng: *lng}
	case lat != nil || lng != nil:
		return in, fmt.Errorf("%w: lat and lng must be given together", domain.ErrInvalidInput)
	}

	return in, in.Validate()
}

func optionalFloat(values url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not a number", domain.ErrInvalidInput, key, raw)
	}
	return &f, nil
}
