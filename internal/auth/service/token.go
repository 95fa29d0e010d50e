package service

import (
	"fmt"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/pkg/jwtx"
)

// TokenService issues session tokens.
type TokenService struct {
	Signer   jwtx.Signer
	Issuer   string
	Audience []string
	TTL      time.Duration

	// DefaultProfilePicture is reported for users without a picture.
	DefaultProfilePicture string
}

func (s *TokenService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return jwtx.DefaultSessionTTL
}

// Issue signs a session token for u holding exactly roles. It has no side
// effects.
func (s *TokenService) Issue(u domain.User, roles []string, now time.Time) (string, time.Time, error) {
	claims := jwtx.NewSessionClaims(jwtx.Identity{
		UserID:   u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Roles:    roles,
	}, s.Issuer, s.Audience, s.ttl(), now)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, claims.ExpiresAt.Time, nil
}

// Grant issues a token and assembles the successful login result.
func (s *TokenService) Grant(u domain.User, roles []string, now time.Time) (*domain.SessionGranted, error) {
	token, exp, err := s.Issue(u, roles, now)
	if err != nil {
		return nil, err
	}
	return &domain.SessionGranted{
		Token:             token,
		ExpiresAt:         exp,
		UserID:            u.ID,
		Username:          u.Username,
		Email:             u.Email,
		FullName:          u.FullName,
		Roles:             roles,
		ProfilePictureURL: u.ProfilePicture(s.DefaultProfilePicture),
	}, nil
}
