package domain

import "fmt"

// MatchStatus is the viewer's relation to a match record
type MatchStatus string

const (
	// MatchStatusCandidate has not been decided by the viewer
	MatchStatusCandidate MatchStatus = "candidate"
	// MatchStatusLikes means the other party is interested and awaits the viewer
	MatchStatusLikes MatchStatus = "likes"
	// MatchStatusAccepted means mutual interest; chat is allowed
	MatchStatusAccepted MatchStatus = "accepted"
)

// ParseMatchStatus validates a status name
func ParseMatchStatus(s string) (MatchStatus, error) {
	switch MatchStatus(s) {
	case MatchStatusCandidate, MatchStatusLikes, MatchStatusAccepted:
		return MatchStatus(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMatchStatus, s)
}

// MatchCandidate is a profile presented to the viewer together with the
// match record it belongs to.
type MatchCandidate struct {
	UserProfile
	MatchID  string
	Distance float64
	Status   MatchStatus
}

// Decision is the outcome of a swipe
type Decision bool

const (
	Accept Decision = true
	Reject Decision = false
)

func (d Decision) String() string {
	if d {
		return "accept"
	}
	return "reject"
}

// ParseDecision accepts accept/reject and the usual boolean spellings
func ParseDecision(s string) (Decision, error) {
	switch s {
	case "accept", "like", "yes", "true", "1", "on", "right":
		return Accept, nil
	case "reject", "pass", "no", "false", "0", "off", "left":
		return Reject, nil
	}
	return Reject, fmt.Errorf("%w: swipe decision %q", ErrInvalidInput, s)
}
