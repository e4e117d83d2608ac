package domain

import (
	"fmt"
	"slices"
)

// Geo is a geographic point
type Geo struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UserProfile is the client-side projection of a user's profile detail.
// The remote API owns it; a value lives only for the duration of a request.
type UserProfile struct {
	UserID                 string
	Alias                  string
	Geo                    Geo
	Bio                    string
	Gender                 Gender
	LookingFor             Gender
	RelationshipPreference RelationshipPreference
	EducationLevel         EducationLevel
	Drinking               HabitLevel
	Smoking                HabitLevel
	Zodiac                 Zodiac
	Height                 *float64
	Kids                   *float64
	Work                   string
	FromLocation           string
	ProfilePictureURLs     []string

	Hobbies     []InterestItem
	MovieSeries []InterestItem
	Sports      []InterestItem
	Travels     []InterestItem
}

// Interests returns the items held for one category
func (p *UserProfile) Interests(c Category) []InterestItem {
	switch c {
	case CategoryHobbies:
		return p.Hobbies
	case CategoryMovieSeries:
		return p.MovieSeries
	case CategorySports:
		return p.Sports
	case CategoryTravels:
		return p.Travels
	}
	return nil
}

// Avatar returns the first profile picture, or "" when none is set
func (p *UserProfile) Avatar() string {
	if len(p.ProfilePictureURLs) == 0 {
		return ""
	}
	return p.ProfilePictureURLs[0]
}

// -----------------------------------------------------------------------------
// Enumerations
// -----------------------------------------------------------------------------

// Gender values accepted by the API
type Gender string

const (
	GenderFemale Gender = "FEMALE"
	GenderMale   Gender = "MALE"
	GenderOther  Gender = "Other"
)

// Genders returns every accepted gender
func Genders() []Gender {
	return []Gender{GenderFemale, GenderMale, GenderOther}
}

// Human returns the display label for a gender
func (g Gender) Human() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return string(g)
	}
}

// ParseGender maps a display label back to the enumeration. Anything that
// is not Male or Female is Other.
func ParseGender(label string) Gender {
	switch label {
	case "Male", string(GenderMale):
		return GenderMale
	case "Female", string(GenderFemale):
		return GenderFemale
	default:
		return GenderOther
	}
}

// EducationLevel values accepted by the API. The degree values carry the
// API's own spelling; Human gives the display form.
type EducationLevel string

const (
	EducationBelowHighSchool EducationLevel = "Less than high school diploma"
	EducationHighSchool      EducationLevel = "High school"
	EducationSomeCollege     EducationLevel = "Some college, no degree"
	EducationAssociate       EducationLevel = "Assosiate''s Degree"
	EducationBachelor        EducationLevel = "Bachelor''s Degree"
	EducationMaster          EducationLevel = "Master''s Degree"
	EducationProfessional    EducationLevel = "Professional Degree"
	EducationDoctorate       EducationLevel = "Doctorate Degree"
)

var educationLabels = map[EducationLevel]string{
	EducationAssociate: "Associate's Degree",
	EducationBachelor:  "Bachelor's Degree",
	EducationMaster:    "Master's Degree",
}

// Human returns the display label of the level
func (e EducationLevel) Human() string {
	if label, ok := educationLabels[e]; ok {
		return label
	}
	return string(e)
}

// ParseEducationLevel maps a display label to the API value. Anything else
// is returned unchanged for validation to judge.
func ParseEducationLevel(s string) EducationLevel {
	for level, label := range educationLabels {
		if s == label {
			return level
		}
	}
	return EducationLevel(s)
}

// EducationLevels returns every accepted education level, lowest first
func EducationLevels() []EducationLevel {
	return []EducationLevel{
		EducationBelowHighSchool,
		EducationHighSchool,
		EducationSomeCollege,
		EducationAssociate,
		EducationBachelor,
		EducationMaster,
		EducationProfessional,
		EducationDoctorate,
	}
}

// HabitLevel is the frequency scale shared by drinking and smoking
type HabitLevel string

const (
	HabitNever        HabitLevel = "Never"
	HabitOccasionally HabitLevel = "Ocassionally"
	HabitWeekly       HabitLevel = "Once a week"
	HabitOften        HabitLevel = "More than 2/3 times a week"
	HabitDaily        HabitLevel = "Every day"
)

// Human returns the display label of the level
func (h HabitLevel) Human() string {
	if h == HabitOccasionally {
		return "Occasionally"
	}
	return string(h)
}

// ParseHabitLevel maps a display label to the API value
func ParseHabitLevel(s string) HabitLevel {
	if s == "Occasionally" {
		return HabitOccasionally
	}
	return HabitLevel(s)
}

// HabitLevels returns every accepted habit level
func HabitLevels() []HabitLevel {
	return []HabitLevel{HabitNever, HabitOccasionally, HabitWeekly, HabitOften, HabitDaily}
}

// RelationshipPreference values accepted by the API
type RelationshipPreference string

const (
	RelationshipOneNight RelationshipPreference = "One night Stand"
	RelationshipCasual   RelationshipPreference = "Casual"
	RelationshipSerious  RelationshipPreference = "Serious"
)

// RelationshipPreferences returns every accepted relationship preference
func RelationshipPreferences() []RelationshipPreference {
	return []RelationshipPreference{RelationshipOneNight, RelationshipCasual, RelationshipSerious}
}

// Zodiac signs
type Zodiac string

// Zodiacs returns the twelve signs in calendar order
func Zodiacs() []Zodiac {
	return []Zodiac{
		"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
		"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
	}
}

// CheckEnum returns ErrInvalidEnumValue when v is non-empty and not in allowed.
// Empty values are treated as unset.
func CheckEnum[T ~string](field string, v T, allowed []T) error {
	if v == "" || slices.Contains(allowed, v) {
		return nil
	}
	return fmt.Errorf("%w: %s=%q", ErrInvalidEnumValue, field, string(v))
}
