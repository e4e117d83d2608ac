// Package interest turns interest edit sessions into the create, update and
// delete calls of the profile API.
package interest

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/matchme/internal/domain"
)

// Reason classifies a validation error
type Reason string

const (
	ReasonDuplicate Reason = "duplicate"
	ReasonTooMany   Reason = "too_many"
	ReasonConflict  Reason = "conflict"
)

// Fields of an edit session a validation error can point at
const (
	FieldItems    = "items"
	FieldNewItems = "new_items"
)

// ValidationError points at the item of a category that broke an invariant.
// Index is -1 for errors about the category as a whole.
type ValidationError struct {
	Category domain.Category
	Field    string
	Index    int
	Name     string
	Reason   Reason
}

func (e ValidationError) Error() string {
	switch e.Reason {
	case ReasonDuplicate:
		return fmt.Sprintf("%s.%s[%d]: duplicate name %q", e.Category, e.Field, e.Index, e.Name)
	case ReasonTooMany:
		return fmt.Sprintf("%s: more than %d items", e.Category, domain.MaxItemsPerCategory)
	case ReasonConflict:
		return fmt.Sprintf("%s.%s[%d]: item %q is both kept and removed", e.Category, e.Field, e.Index, e.Name)
	}
	return fmt.Sprintf("%s.%s[%d]: %s", e.Category, e.Field, e.Index, e.Reason)
}

// ValidationErrors is every invariant violation found in one reconciliation
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return "invalid interests: " + strings.Join(msgs, "; ")
}

// Is lets callers match any validation failure with domain.ErrInvalidInput
func (errs ValidationErrors) Is(target error) bool {
	return target == domain.ErrInvalidInput
}

// For returns the errors of one category
func (errs ValidationErrors) For(c domain.Category) ValidationErrors {
	var out ValidationErrors
	for _, e := range errs {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Plan is the outcome of a reconciliation. A category appears in a bucket
// only when it has something to send there.
type Plan struct {
	Create map[domain.Category][]string
	Update map[domain.Category][]domain.InterestItem
	Delete map[domain.Category][]string

	// Renamed counts retained items whose name differs from the original
	Renamed map[domain.Category]int
}

// IsEmpty reports whether the plan issues no call
func (p Plan) IsEmpty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

// Summary returns bucket sizes per category for logs and events
func (p Plan) Summary() map[string]any {
	out := make(map[string]any)
	for _, c := range domain.Categories() {
		entry := map[string]int{}
		if n := len(p.Create[c]); n > 0 {
			entry["create"] = n
		}
		if n := len(p.Update[c]); n > 0 {
			entry["update"] = n
		}
		if n := len(p.Delete[c]); n > 0 {
			entry["delete"] = n
		}
		if n := p.Renamed[c]; n > 0 {
			entry["renamed"] = n
		}
		if len(entry) > 0 {
			out[string(c)] = entry
		}
	}
	return out
}

// Reconcile validates every category session and builds the plan. Any
// validation error fails the whole reconciliation; no partial plan is
// returned. original may be nil.
//
// Per category, retained names are checked first, then added names, against
// one set of seen names. Names are compared as typed.
func Reconcile(original *domain.UserProfile, sessions map[domain.Category]domain.EditSession) (Plan, error) {
	plan := Plan{
		Create:  make(map[domain.Category][]string),
		Update:  make(map[domain.Category][]domain.InterestItem),
		Delete:  make(map[domain.Category][]string),
		Renamed: make(map[domain.Category]int),
	}
	var errs ValidationErrors

	for _, c := range domain.Categories() {
		sess, ok := sessions[c]
		if !ok {
			continue
		}
		errs = append(errs, check(c, sess)...)

		if len(sess.Added) > 0 {
			plan.Create[c] = append([]string(nil), sess.Added...)
		}
		if len(sess.Retained) > 0 {
			plan.Update[c] = append([]domain.InterestItem(nil), sess.Retained...)
		}
		if len(sess.RemovedIDs) > 0 {
			plan.Delete[c] = append([]string(nil), sess.RemovedIDs...)
		}
		if original != nil {
			if n := renamed(original.Interests(c), sess.Retained); n > 0 {
				plan.Renamed[c] = n
			}
		}
	}

	if len(errs) > 0 {
		return Plan{}, errs
	}
	return plan, nil
}

func check(c domain.Category, sess domain.EditSession) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]struct{}, len(sess.Retained)+len(sess.Added))

	removed := make(map[string]struct{}, len(sess.RemovedIDs))
	for _, id := range sess.RemovedIDs {
		removed[id] = struct{}{}
	}

	for i, it := range sess.Retained {
		if _, gone := removed[it.ID]; gone && it.ID != "" {
			errs = append(errs, ValidationError{Category: c, Field: FieldItems, Index: i, Name: it.Name, Reason: ReasonConflict})
		}
		if _, dup := seen[it.Name]; dup {
			errs = append(errs, ValidationError{Category: c, Field: FieldItems, Index: i, Name: it.Name, Reason: ReasonDuplicate})
			continue
		}
		seen[it.Name] = struct{}{}
	}

	for i, name := range sess.Added {
		if _, dup := seen[name]; dup {
			errs = append(errs, ValidationError{Category: c, Field: FieldNewItems, Index: i, Name: name, Reason: ReasonDuplicate})
			continue
		}
		seen[name] = struct{}{}
	}

	if len(seen) > domain.MaxItemsPerCategory {
		errs = append(errs, ValidationError{Category: c, Index: -1, Reason: ReasonTooMany})
	}
	return errs
}

func renamed(original, retained []domain.InterestItem) int {
	names := make(map[string]string, len(original))
	for _, it := range original {
		names[it.ID] = it.Name
	}
	n := 0
	for _, it := range retained {
		if prev, ok := names[it.ID]; ok && prev != it.Name {
			n++
		}
	}
	return n
}
