package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/cache"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/utils"
)

// DefaultTokenTTL is the validity window of every issued token. Revocation
// markers never outlive it.
const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	// ErrTokenRevoked marks a well-formed token that was logged out.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrInvalidRole marks a token whose role claim is not a known role.
	ErrInvalidRole = errors.New("invalid role in token")
)

// RevocationList is the server-side set of tokens that must no longer
// verify. Entries expire with the token they mark.
type RevocationList struct {
	cache cache.Cache
	keys  cache.Keys
}

func NewRevocationList(c cache.Cache, keys cache.Keys) *RevocationList {
	return &RevocationList{cache: c, keys: keys}
}

// Add marks token as revoked for ttl.
func (l *RevocationList) Add(ctx context.Context, token string, ttl time.Duration) error {
	return l.cache.Set(ctx, l.keys.Revoked(token), "1", ttl)
}

// Contains reports whether token has been revoked.
func (l *RevocationList) Contains(ctx context.Context, token string) (bool, error) {
	_, err := l.cache.Get(ctx, l.keys.Revoked(token))
	if errors.Is(err, cache.ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IssuedToken is a freshly signed bearer token.
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenService issues, verifies and revokes bearer tokens.
type TokenService struct {
	secret  string
	ttl     time.Duration
	revoked *RevocationList
	now     func() time.Time
}

// NewTokenService builds a TokenService signing with secret. A non-positive
// ttl selects DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration, revoked *RevocationList) *TokenService {
	if ttl <= 0 || ttl > DefaultTokenTTL {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl, revoked: revoked, now: time.Now}
}

// WithClock replaces the clock used for issuing and expiry checks.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs a token for the principal. It does not touch the revocation
// list.
func (s *TokenService) Issue(principalID uint64, role model.Role) (IssuedToken, error) {
	at, err := utils.NewAccessToken(s.secret, principalID, string(role), s.now(), s.ttl)
	if err != nil {
		return IssuedToken{}, apperr.Wrap(apperr.Internal, err, "issue token")
	}
	return IssuedToken{Token: at.Token, ExpiresAt: at.Exp}, nil
}

// Verify decodes token into a Principal. Bad signature or expiry, a
// revoked token and an unknown role are all Unauthorized; the latter two
// wrap ErrTokenRevoked and ErrInvalidRole.
func (s *TokenService) Verify(ctx context.Context, token string) (model.Principal, error) {
	_, p, err := s.verify(ctx, token)
	return p, err
}

func (s *TokenService) verify(ctx context.Context, token string) (*utils.AccessClaims, model.Principal, error) {
	if token == "" {
		return nil, model.Principal{}, apperr.New(apperr.Unauthorized, "Access token required.")
	}
	claims, err := utils.ParseAccessToken(s.secret, token, s.now())
	if err != nil {
		return nil, model.Principal{}, apperr.Wrap(apperr.Unauthorized, err, "Invalid or expired token.")
	}
	revoked, err := s.revoked.Contains(ctx, token)
	if err != nil {
		return nil, model.Principal{}, apperr.Wrap(apperr.Internal, err, "check token revocation")
	}
	if revoked {
		return nil, model.Principal{}, apperr.Wrap(apperr.Unauthorized, ErrTokenRevoked, "Token is invalid. Please log in again.")
	}
	role := model.Role(claims.Role)
	if !role.Valid() {
		return nil, model.Principal{}, apperr.Wrap(apperr.Unauthorized, ErrInvalidRole, "Invalid role in token.")
	}
	return claims, model.Principal{ID: claims.UserID, Role: role}, nil
}

// Revoke verifies token and adds it to the revocation list until it would
// have expired. A token that does not verify is rejected with the same
// error Verify returns.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	claims, _, err := s.verify(ctx, token)
	if err != nil {
		return err
	}
	ttl := s.ttl
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Time.Sub(s.now()); remaining > 0 && remaining < ttl {
			ttl = remaining
		}
	}
	if err := s.revoked.Add(ctx, token, ttl); err != nil {
		return apperr.Wrap(apperr.Internal, err, "revoke token")
	}
	return nil
}
