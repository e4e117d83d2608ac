// Package auth carries the caller's identity to the API services. Sessions
// are issued elsewhere; this package only holds, derives and passes them on.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/felixgeelhaar/matchme/internal/domain"
)

var (
	ErrNoSubject    = errors.New("token carries no subject")
	ErrMalformedJWT = errors.New("token is not a JWT")
)

// Session is the authenticated caller: user id plus bearer token
type Session struct {
	UserID string
	Token  string
}

// Validate reports domain.ErrNotAuthenticated when either part is missing
func (s Session) Validate() error {
	if strings.TrimSpace(s.UserID) == "" || strings.TrimSpace(s.Token) == "" {
		return domain.ErrNotAuthenticated
	}
	return nil
}

// NewSession builds a session from a token. When userID is empty it is
// taken from the token's subject claim.
func NewSession(token, userID string) (Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Session{}, domain.ErrNotAuthenticated
	}
	if userID == "" {
		sub, err := SubjectOf(token)
		if err != nil {
			return Session{}, fmt.Errorf("derive user id: %w", err)
		}
		userID = sub
	}
	return Session{UserID: userID, Token: token}, nil
}

// SubjectOf reads the user id from an unverified JWT. The API verifies the
// signature on every call; the client only needs the claim.
func SubjectOf(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedJWT, err)
	}
	sub, err := claims.GetSubject()
	if err == nil && sub != "" {
		return sub, nil
	}
	if id, ok := claims["user_id"].(string); ok && id != "" {
		return id, nil
	}
	return "", ErrNoSubject
}

type ctxKey struct{}

// WithSession stores s in ctx
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
