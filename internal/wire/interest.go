package wire

import "github.com/felixgeelhaar/matchme/internal/domain"

// InterestItemOut is an item sent in an update body
type InterestItemOut struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateInterestBody builds the body creating names in one category
func CreateInterestBody(c domain.Category, names []string) map[string][]string {
	return map[string][]string{string(c): append([]string(nil), names...)}
}

// UpdateInterestBody builds the body updating items of one category
func UpdateInterestBody(c domain.Category, items []domain.InterestItem) map[string][]InterestItemOut {
	out := make([]InterestItemOut, 0, len(items))
	for _, it := range items {
		out = append(out, InterestItemOut{ID: it.ID, Name: it.Name})
	}
	return map[string][]InterestItemOut{string(c): out}
}

// DeleteInterestBody builds the single delete body. Categories without ids
// are left out rather than sent as empty lists.
func DeleteInterestBody(ids map[domain.Category][]string) map[string][]string {
	body := make(map[string][]string)
	for c, list := range ids {
		if len(list) == 0 {
			continue
		}
		body[c.DeleteKey()] = append([]string(nil), list...)
	}
	return body
}
