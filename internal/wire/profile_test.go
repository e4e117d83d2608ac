package wire

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/remote"
)

func decodeDetail(t *testing.T, body string) (*DetailEnvelope, error) {
	t.Helper()
	var env DetailEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return nil, err
	}
	return &env, remote.Validate("GET", "users/u1/detail", &env)
}

func TestProfile_ToDomain(t *testing.T) {
	env, err := decodeDetail(t, `{"data":`+profileJSON+`}`)
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}

	got := env.Data.ToDomain()
	height, kids := 165.0, 0.0
	want := domain.UserProfile{
		UserID:                 "u1",
		Alias:                  "Ana",
		Geo:                    domain.Geo{Lat: -6.2, Lng: 106.8},
		Gender:                 domain.GenderFemale,
		LookingFor:             domain.GenderMale,
		RelationshipPreference: domain.RelationshipSerious,
		EducationLevel:         domain.EducationBachelor,
		Drinking:               domain.HabitNever,
		Smoking:                domain.HabitNever,
		Zodiac:                 "Leo",
		Height:                 &height,
		Kids:                   &kids,
		Work:                   "Engineer",
		ProfilePictureURLs:     []string{"https://cdn/ana.jpg"},
		Hobbies:                []domain.InterestItem{{ID: "h1", Name: "Reading"}},
		MovieSeries:            []domain.InterestItem{},
		Sports:                 []domain.InterestItem{{ID: "s1", Name: "Tennis"}},
		Travels:                []domain.InterestItem{},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToDomain() mismatch (-want +got):\n%s", diff)
	}
}

func TestProfile_SchemaViolations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(string) string
		wantField string
	}{
		{
			name:      "missing alias",
			mutate:    func(s string) string { return strings.Replace(s, `"alias": "Ana",`, "", 1) },
			wantField: "data.alias",
		},
		{
			name:      "missing hobbies",
			mutate:    func(s string) string { return strings.Replace(s, `"hobbies": [{"id": "h1", "name": "Reading"}],`, "", 1) },
			wantField: "data.hobbies",
		},
		{
			name:      "interest item without id",
			mutate:    func(s string) string { return strings.Replace(s, `{"id": "h1", "name": "Reading"}`, `{"name": "Reading"}`, 1) },
			wantField: "data.hobbies[0].id",
		},
		{
			name:      "missing geo",
			mutate:    func(s string) string { return strings.Replace(s, `"geo": {"lat": "-6.2", "lng": "106.8"},`, "", 1) },
			wantField: "data.geo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeDetail(t, `{"data":`+tt.mutate(profileJSON)+`}`)
			var sv *remote.SchemaViolation
			if !errors.As(err, &sv) {
				t.Fatalf("error = %v, want *SchemaViolation", err)
			}
			if sv.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", sv.Field, tt.wantField)
			}
		})
	}
}

func TestProfile_OptionalNumbers(t *testing.T) {
	body := strings.Replace(profileJSON, `"height": 165,`, "", 1)
	env, err := decodeDetail(t, `{"data":`+body+`}`)
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if env.Data.ToDomain().Height != nil {
		t.Error("absent height should stay nil")
	}
}

func TestNewGeoOut(t *testing.T) {
	got := NewGeoOut(domain.Geo{Lat: 52.52, Lng: 13.405})
	if got.Lat != "52.52" || got.Lng != "13.405" {
		t.Errorf("NewGeoOut() = %+v", got)
	}
}
