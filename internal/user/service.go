// Package user reads and writes the viewer's profile detail.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/felixgeelhaar/matchme/internal/apierr"
	"github.com/felixgeelhaar/matchme/internal/auth"
	"github.com/felixgeelhaar/matchme/internal/domain"
	"github.com/felixgeelhaar/matchme/internal/remote"
	"github.com/felixgeelhaar/matchme/internal/wire"
)

// DefaultProfileTimeout bounds the profile fetch
const DefaultProfileTimeout = 800 * time.Millisecond

// ErrProfileTimeout is returned when the profile fetch exceeds its budget.
// Callers may treat the profile as absent.
var ErrProfileTimeout = errors.New("profile fetch timed out")

// Doer issues API calls
type Doer interface {
	Do(ctx context.Context, req remote.Request, out any) error
}

// Geocoder names the place at a point, "" when unknown
type Geocoder interface {
	ReverseGeocode(ctx context.Context, g domain.Geo) string
}

// Service wraps /users/{id}/detail
type Service struct {
	api            Doer
	geocoder       Geocoder
	profileTimeout time.Duration
	logger         *slog.Logger
}

// NewService creates a user service. geocoder may be nil.
func NewService(api Doer, geocoder Geocoder, profileTimeout time.Duration, logger *slog.Logger) *Service {
	if profileTimeout <= 0 {
		profileTimeout = DefaultProfileTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, geocoder: geocoder, profileTimeout: profileTimeout, logger: logger}
}

// GetDetail fetches the viewer's profile. A missing profile fails with an
// error matching apierr.ErrUserNotFound; a slow one with ErrProfileTimeout.
func (s *Service) GetDetail(ctx context.Context, sess auth.Session) (*domain.UserProfile, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	var body wire.DetailEnvelope
	err := s.api.Do(ctx, remote.Request{
		Method:  http.MethodGet,
		Path:    detailPath(sess.UserID),
		Token:   sess.Token,
		Timeout: s.profileTimeout,
	}, &body)
	if err != nil {
		return nil, s.detailError(ctx, err)
	}

	p := body.Data.ToDomain()
	return &p, nil
}

func (s *Service) detailError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		s.logger.Warn("profile fetch timed out", "timeout", s.profileTimeout)
		return fmt.Errorf("%w after %s", ErrProfileTimeout, s.profileTimeout)
	}
	err = apierr.Classify(err)
	if _, ok := apierr.As(err); !ok && remote.StatusOf(err) == http.StatusNotFound {
		return apierr.New(apierr.CodeUserNotFound, http.StatusNotFound, "profile does not exist")
	}
	return err
}

// DetailInput is a profile write. Empty fields are left untouched by an
// update.
type DetailInput struct {
	Alias                  string
	Geo                    *domain.Geo
	Bio                    string
	Gender                 domain.Gender
	LookingFor             domain.Gender
	RelationshipPreference domain.RelationshipPreference
	EducationLevel         domain.EducationLevel
	Drinking               domain.HabitLevel
	Smoking                domain.HabitLevel
	Zodiac                 domain.Zodiac
	Height                 *float64
	Kids                   *float64
	Work                   string
	FromLocation           string
}

// Validate checks enumerations and numeric ranges
func (in DetailInput) Validate() error {
	var errs []error
	errs = append(errs,
		domain.CheckEnum("gender", in.Gender, domain.Genders()),
		domain.CheckEnum("looking_for", in.LookingFor, domain.Genders()),
		domain.CheckEnum("relationship_preferences", in.RelationshipPreference, domain.RelationshipPreferences()),
		domain.CheckEnum("education_level", in.EducationLevel, domain.EducationLevels()),
		domain.CheckEnum("drinking", in.Drinking, domain.HabitLevels()),
		domain.CheckEnum("smoking", in.Smoking, domain.HabitLevels()),
		domain.CheckEnum("zodiac", in.Zodiac, domain.Zodiacs()),
	)
	if in.Height != nil && *in.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: height must be positive", domain.ErrInvalidInput))
	}
	if in.Kids != nil && *in.Kids < 0 {
		errs = append(errs, fmt.Errorf("%w: kids must not be negative", domain.ErrInvalidInput))
	}
	return errors.Join(errs...)
}

func (in DetailInput) toWire() wire.DetailUpdate {
	out := wire.DetailUpdate{
		Alias:                   in.Alias,
		Bio:                     in.Bio,
		Gender:                  string(in.Gender),
		LookingFor:              string(in.LookingFor),
		RelationshipPreferences: string(in.RelationshipPreference),
		EducationLevel:          string(in.EducationLevel),
		Drinking:                string(in.Drinking),
		Smoking:                 string(in.Smoking),
		Zodiac:                  string(in.Zodiac),
		Height:                  in.Height,
		Kids:                    in.Kids,
		Work:                    in.Work,
		FromLocation:            in.FromLocation,
	}
	if in.Geo != nil {
		out.Geo = wire.NewGeoOut(*in.Geo)
	}
	return out
}

// UpsertDetail writes the profile: PATCH first, POST only when the profile
// does not exist yet. When a point is given without a place name, the name
// is looked up.
func (s *Service) UpsertDetail(ctx context.Context, sess auth.Session, in DetailInput) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	if in.Geo != nil && in.FromLocation == "" && s.geocoder != nil {
		in.FromLocation = s.geocoder.ReverseGeocode(ctx, *in.Geo)
	}

	body := in.toWire()
	err := s.api.Do(ctx, remote.Request{
		Method: http.MethodPatch,
		Path:   detailPath(sess.UserID),
		Token:  sess.Token,
		Body:   body,
	}, nil)
	if err == nil {
		s.logger.Info("profile updated", "user_id", sess.UserID)
		return nil
	}

	classified := apierr.Classify(err)
	if !errors.Is(classified, apierr.ErrUserNotFound) && remote.StatusOf(err) != http.StatusNotFound {
		return classified
	}

	err = s.api.Do(ctx, remote.Request{
		Method: http.MethodPost,
		Path:   detailPath(sess.UserID),
		Token:  sess.Token,
		Body:   body,
	}, nil)
	if err != nil {
		return apierr.Classify(err)
	}
	s.logger.Info("profile created", "user_id", sess.UserID)
	return nil
}

func detailPath(userID string) string {
	return "users/" + url.PathEscape(userID) + "/detail"
}
