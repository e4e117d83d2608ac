package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/matchme/internal/domain"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// matchView is the printed form of a match
type matchView struct {
	MatchID  string   `json:"match_id"`
	UserID   string   `json:"user_id"`
	Alias    string   `json:"alias"`
	Status   string   `json:"status"`
	Distance float64  `json:"distance_km"`
	Bio      string   `json:"bio,omitempty"`
	Work     string   `json:"work,omitempty"`
	Hobbies  []string `json:"hobbies,omitempty"`
}

func toMatchView(c *domain.MatchCandidate) matchView {
	v := matchView{
		MatchID:  c.MatchID,
		UserID:   c.UserID,
		Alias:    c.Alias,
		Status:   string(c.Status),
		Distance: c.Distance,
		Bio:      c.Bio,
		Work:     c.Work,
	}
	for _, h := range c.Hobbies {
		v.Hobbies = append(v.Hobbies, h.Name)
	}
	return v
}

func printMatch(w io.Writer, c *domain.MatchCandidate) {
	fmt.Fprintf(w, "%-10s %s\n", "Match:", c.MatchID)
	fmt.Fprintf(w, "%-10s %s (%s)\n", "Alias:", c.Alias, c.Gender.Human())
	fmt.Fprintf(w, "%-10s %.1f km\n", "Distance:", c.Distance)
	fmt.Fprintf(w, "%-10s %s\n", "Status:", c.Status)
	if c.Bio != "" {
		fmt.Fprintf(w, "%-10s %s\n", "Bio:", c.Bio)
	}
	if c.Work != "" {
		fmt.Fprintf(w, "%-10s %s\n", "Work:", c.Work)
	}
	if len(c.Hobbies) > 0 {
		fmt.Fprintf(w, "%-10s %s\n", "Hobbies:", joinNames(c.Hobbies))
	}
}

func printMatchTable(w io.Writer, page domain.Page[domain.MatchCandidate]) {
	items := page.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "No matches.")
		return
	}
	fmt.Fprintf(w, "%-24s %-20s %-10s %s\n", "MATCH", "ALIAS", "STATUS", "DISTANCE")
	for _, c := range items {
		fmt.Fprintf(w, "%-24s %-20s %-10s %.1f km\n", c.MatchID, c.Alias, c.Status, c.Distance)
	}
	printCursor(w, page.Cursor)
}

func printCursor(w io.Writer, c domain.Cursor) {
	var more []string
	if c.HasPrev() {
		more = append(more, "previous")
	}
	if c.HasNext() {
		more = append(more, "next")
	}
	if len(more) > 0 {
		fmt.Fprintf(w, "(%s page available)\n", strings.Join(more, " and "))
	}
}

func joinNames(items []domain.InterestItem) string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return strings.Join(names, ", ")
}
