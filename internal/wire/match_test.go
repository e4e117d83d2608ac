package wire

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/remote"
)

func matchJSON(id, status string) string {
	entry := strings.TrimSuffix(strings.TrimSpace(profileJSON), "}")
	entry += `, "id": "` + id + `", "distance": 3.2`
	if status != "" {
		entry += `, "status": "` + status + `"`
	}
	return entry + "}"
}

func TestMatchPage_ToDomain_Sparse(t *testing.T) {
	body := `{"metadata":{"prev":null,"next":"/matchs?page=2&limit=10"},"data":[null,` + matchJSON("m1", "") + `]}`

	var page MatchPage
	if err := json.Unmarshal([]byte(body), &page); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	if err := remote.Validate("GET", "matchs", &page); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	got := page.ToDomain(domain.MatchStatusCandidate)
	if len(got.Data) != 2 || got.Data[0] != nil {
		t.Fatalf("Data = %v, want [nil, m1]", got.Data)
	}
	first := got.First()
	if first.MatchID != "m1" || first.Distance != 3.2 {
		t.Errorf("First() = %+v", first)
	}
	if first.Status != domain.MatchStatusCandidate {
		t.Errorf("Status = %q, want fallback candidate", first.Status)
	}
	if first.Alias != "Ana" {
		t.Errorf("Alias = %q, profile fields not carried", first.Alias)
	}
	if !got.Cursor.HasNext() || got.Cursor.HasPrev() {
		t.Errorf("Cursor = %+v", got.Cursor)
	}
}

func TestMatchEnvelope_Status(t *testing.T) {
	var env MatchEnvelope
	if err := json.Unmarshal([]byte(`{"data":`+matchJSON("m2", "likes")+`}`), &env); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	if err := remote.Validate("GET", "matchs/m2", &env); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := env.Data.ToDomain(domain.MatchStatusCandidate).Status; got != domain.MatchStatusLikes {
		t.Errorf("Status = %q, want likes", got)
	}
}

func TestMatchEnvelope_InvalidStatus(t *testing.T) {
	var env MatchEnvelope
	if err := json.Unmarshal([]byte(`{"data":`+matchJSON("m3", "blocked")+`}`), &env); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	err := remote.Validate("GET", "matchs/m3", &env)
	var sv *remote.SchemaViolation
	if !errors.As(err, &sv) {
		t.Fatalf("error = %v, want *SchemaViolation", err)
	}
	if sv.Rule != "oneof" {
		t.Errorf("Rule = %q, want oneof", sv.Rule)
	}
}

func TestMatchPage_MissingMetadata(t *testing.T) {
	var page MatchPage
	if err := json.Unmarshal([]byte(`{"data":[]}`), &page); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	if err := remote.Validate("GET", "matchs", &page); err == nil {
		t.Error("page without metadata should violate the schema")
	}
}
