package match

import (
	"context"

	"github.com/felixgeelhaar/matchme/internal/auth"
	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/settle"
)

// Overview is the concurrent fetch of the three streams. Each stream settles
// on its own: a failed stream carries its error and leaves the others intact.
type Overview struct {
	Candidates settle.Result[domain.Page[domain.MatchCandidate]]
	Likes      settle.Result[domain.Page[domain.MatchCandidate]]
	Accepted   settle.Result[domain.Page[domain.MatchCandidate]]
}

// Current is the candidate to present, at most one
func (o Overview) Current() *domain.MatchCandidate {
	if !o.Candidates.OK() {
		return nil
	}
	return o.Candidates.Value.First()
}

// Stream returns the result of one stream
func (o Overview) Stream(status domain.MatchStatus) settle.Result[domain.Page[domain.MatchCandidate]] {
	switch status {
	case domain.MatchStatusLikes:
		return o.Likes
	case domain.MatchStatusAccepted:
		return o.Accepted
	}
	return o.Candidates
}

// Overview fetches candidates, likes and accepted matches concurrently. The
// pagination applies to the stream named by filter; the other streams get
// their first page. An empty filter pages the candidate stream.
func (s *Service) Overview(ctx context.Context, sess auth.Session, filter domain.MatchStatus, p domain.Pagination) (Overview, error) {
	if err := sess.Validate(); err != nil {
		return Overview{}, err
	}
	if filter == "" {
		filter = domain.MatchStatusCandidate
	}
	if _, err := domain.ParseMatchStatus(string(filter)); err != nil {
		return Overview{}, err
	}
	if err := p.Validate(); err != nil {
		return Overview{}, err
	}

	pageFor := func(status domain.MatchStatus) domain.Pagination {
		if status == filter {
			return p
		}
		return domain.DefaultPagination()
	}

	results := settle.All(ctx,
		func(ctx context.Context) (domain.Page[domain.MatchCandidate], error) {
			return s.EnsureCandidate(ctx, sess, pageFor(domain.MatchStatusCandidate))
		},
		func(ctx context.Context) (domain.Page[domain.MatchCandidate], error) {
			return s.ListByStatus(ctx, sess, domain.MatchStatusLikes, pageFor(domain.MatchStatusLikes))
		},
		func(ctx context.Context) (domain.Page[domain.MatchCandidate], error) {
			return s.ListByStatus(ctx, sess, domain.MatchStatusAccepted, pageFor(domain.MatchStatusAccepted))
		},
	)

	o := Overview{Candidates: results[0], Likes: results[1], Accepted: results[2]}
	for _, st := range []domain.MatchStatus{domain.MatchStatusCandidate, domain.MatchStatusLikes, domain.MatchStatusAccepted} {
		if r := o.Stream(st); !r.OK() {
			s.logger.Debug("match stream failed", "stream", st, "error", r.Err)
		}
	}
	return o, nil
}
