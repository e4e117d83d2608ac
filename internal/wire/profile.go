// Package wire is the anti-corruption layer between the API payloads and the
// domain model. Response shapes carry `validate` tags: pointer fields tagged
// required must be present in the body, untagged pointers are optional.
package wire

import (
	"strconv"

	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/remote"
)

// -----------------------------------------------------------------------------
// Profile detail
// -----------------------------------------------------------------------------

// InterestItem is one interest entry as the API returns it
type InterestItem struct {
	ID   *string `json:"id" validate:"required"`
	Name *string `json:"name" validate:"required"`
}

// Geo is a point whose coordinates may arrive as numbers or numeric strings
type Geo struct {
	Lat *remote.Number `json:"lat" validate:"required"`
	Lng *remote.Number `json:"lng" validate:"required"`
}

// Profile is the profile detail shape, also embedded in match entries
type Profile struct {
	UserID                  *string        `json:"user_id" validate:"required"`
	Alias                   *string        `json:"alias" validate:"required"`
	Geo                     *Geo           `json:"geo" validate:"required"`
	Bio                     *string        `json:"bio" validate:"required"`
	Gender                  *string        `json:"gender" validate:"required"`
	LookingFor              *string        `json:"looking_for" validate:"required"`
	RelationshipPreferences *string        `json:"relationship_preferences" validate:"required"`
	EducationLevel          *string        `json:"education_level" validate:"required"`
	Drinking                *string        `json:"drinking" validate:"required"`
	Smoking                 *string        `json:"smoking" validate:"required"`
	Zodiac                  *string        `json:"zodiac" validate:"required"`
	Height                  *remote.Number `json:"height"`
	Kids                    *remote.Number `json:"kids"`
	Work                    *string        `json:"work" validate:"required"`
	FromLocation            *string        `json:"from_location"`
	ProfilePictureURLs      []string       `json:"profile_picture_urls" validate:"required"`
	Hobbies                 []InterestItem `json:"hobbies" validate:"required,dive"`
	MovieSeries             []InterestItem `json:"movie_series" validate:"required,dive"`
	Sports                  []InterestItem `json:"sports" validate:"required,dive"`
	Travels                 []InterestItem `json:"travels" validate:"required,dive"`
}

// DetailEnvelope is the body of GET /users/{id}/detail
type DetailEnvelope struct {
	Data *Profile `json:"data" validate:"required"`
}

// ToDomain converts a validated profile into the domain projection
func (p *Profile) ToDomain() domain.UserProfile {
	return domain.UserProfile{
		UserID:                 deref(p.UserID),
		Alias:                  deref(p.Alias),
		Geo:                    p.Geo.toDomain(),
		Bio:                    deref(p.Bio),
		Gender:                 domain.Gender(deref(p.Gender)),
		LookingFor:             domain.Gender(deref(p.LookingFor)),
		RelationshipPreference: domain.RelationshipPreference(deref(p.RelationshipPreferences)),
		EducationLevel:         domain.EducationLevel(deref(p.EducationLevel)),
		Drinking:               domain.HabitLevel(deref(p.Drinking)),
		Smoking:                domain.HabitLevel(deref(p.Smoking)),
		Zodiac:                 domain.Zodiac(deref(p.Zodiac)),
		Height:                 remote.FloatPtr(p.Height),
		Kids:                   remote.FloatPtr(p.Kids),
		Work:                   deref(p.Work),
		FromLocation:           deref(p.FromLocation),
		ProfilePictureURLs:     append([]string(nil), p.ProfilePictureURLs...),
		Hobbies:                itemsToDomain(p.Hobbies),
		MovieSeries:            itemsToDomain(p.MovieSeries),
		Sports:                 itemsToDomain(p.Sports),
		Travels:                itemsToDomain(p.Travels),
	}
}

func (g *Geo) toDomain() domain.Geo {
	if g == nil {
		return domain.Geo{}
	}
	var out domain.Geo
	if g.Lat != nil {
		out.Lat = g.Lat.Float()
	}
	if g.Lng != nil {
		out.Lng = g.Lng.Float()
	}
	return out
}

func itemsToDomain(items []InterestItem) []domain.InterestItem {
	out := make([]domain.InterestItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.InterestItem{ID: deref(it.ID), Name: deref(it.Name)})
	}
	return out
}

// -----------------------------------------------------------------------------
// Profile upsert
// -----------------------------------------------------------------------------

// GeoOut is the outbound point; the API stores coordinates as strings
type GeoOut struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// DetailUpdate is the body of PATCH/POST /users/{id}/detail. Empty fields
// are omitted so PATCH leaves them untouched.
type DetailUpdate struct {
	Alias                   string   `json:"alias,omitempty"`
	Geo                     *GeoOut  `json:"geo,omitempty"`
	Bio                     string   `json:"bio,omitempty"`
	Gender                  string   `json:"gender,omitempty"`
	LookingFor              string   `json:"looking_for,omitempty"`
	RelationshipPreferences string   `json:"relationship_preferences,omitempty"`
	EducationLevel          string   `json:"education_level,omitempty"`
	Drinking                string   `json:"drinking,omitempty"`
	Smoking                 string   `json:"smoking,omitempty"`
	Zodiac                  string   `json:"zodiac,omitempty"`
	Height                  *float64 `json:"height,omitempty"`
	Kids                    *float64 `json:"kids,omitempty"`
	Work                    string   `json:"work,omitempty"`
	FromLocation            string   `json:"from_location,omitempty"`
}

// NewGeoOut formats a point for the API
func NewGeoOut(g domain.Geo) *GeoOut {
	return &GeoOut{
		Lat: strconv.FormatFloat(g.Lat, 'f', -1, 64),
		Lng: strconv.FormatFloat(g.Lng, 'f', -1, 64),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
