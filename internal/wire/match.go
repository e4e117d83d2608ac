package wire

import (
	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/remote"
)

// Metadata carries the cursor of a page
type Metadata struct {
	Prev *string `json:"prev"`
	Next *string `json:"next"`
}

// Cursor converts the metadata to a domain cursor
func (m *Metadata) Cursor() domain.Cursor {
	if m == nil {
		return domain.Cursor{}
	}
	return domain.Cursor{Prev: m.Prev, Next: m.Next}
}

// Match is one match entry: a profile plus the match record fields
type Match struct {
	Profile
	ID       *string        `json:"id" validate:"required"`
	Distance *remote.Number `json:"distance" validate:"required"`
	Status   *string        `json:"status" validate:"omitempty,oneof=candidate likes accepted"`
}

// MatchPage is the body of GET /matchs. Entries may be null.
type MatchPage struct {
	Metadata *Metadata `json:"metadata" validate:"required"`
	Data     []*Match  `json:"data" validate:"required,dive"`
}

// MatchEnvelope is the body of GET /matchs/{id}
type MatchEnvelope struct {
	Data *Match `json:"data" validate:"required"`
}

// SwipeBody is the body of PUT /matchs/{id}/request-transition
type SwipeBody struct {
	Swipe bool `json:"swipe"`
}

// ToDomain converts a validated match entry. fallback is used when the
// entry does not carry its own status.
func (m *Match) ToDomain(fallback domain.MatchStatus) *domain.MatchCandidate {
	status := fallback
	if m.Status != nil && *m.Status != "" {
		status = domain.MatchStatus(*m.Status)
	}
	var distance float64
	if m.Distance != nil {
		distance = m.Distance.Float()
	}
	return &domain.MatchCandidate{
		UserProfile: m.Profile.ToDomain(),
		MatchID:     deref(m.ID),
		Distance:    distance,
		Status:      status,
	}
}

// ToDomain converts a page, keeping absent entries as nil
func (p *MatchPage) ToDomain(status domain.MatchStatus) domain.Page[domain.MatchCandidate] {
	data := make([]*domain.MatchCandidate, len(p.Data))
	for i, m := range p.Data {
		if m != nil {
			data[i] = m.ToDomain(status)
		}
	}
	return domain.Page[domain.MatchCandidate]{
		Cursor: p.Metadata.Cursor(),
		Data:   data,
	}
}
