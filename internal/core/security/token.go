package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of a session token.
const DefaultTokenTTL = 900 * time.Second

var (
	ErrMissingSecret        = errors.New("token signing secret is required")
	ErrUnsupportedAlgorithm = errors.New("unsupported token signing algorithm")
	ErrInvalidSubject       = errors.New("token subject must be a positive id")
)

// TokenConfig configures a TokenService. Secret and Algorithm are required.
type TokenConfig struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
}

// sessionClaims is the whole claim set: a subject id and an absolute expiry.
type sessionClaims struct {
	UserID  int64            `json:"user_id"`
	Expires *jwt.NumericDate `json:"expires"`
}

func (c sessionClaims) GetExpirationTime() (*jwt.NumericDate, error) { return c.Expires, nil }
func (c sessionClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return nil, nil }
func (c sessionClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c sessionClaims) GetIssuer() (string, error)                   { return "", nil }
func (c sessionClaims) GetSubject() (string, error)                  { return "", nil }
func (c sessionClaims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

// TokenService issues and verifies signed, self-contained session tokens.
// It keeps no per-token state.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the wall clock used for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenService validates cfg and builds a TokenService. Only the HMAC
// family (HS256, HS384, HS512) is accepted since the secret is symmetric.
func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, cfg.Algorithm)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	s := &TokenService{
		secret: []byte(cfg.Secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

// TTL returns the lifetime given to issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a claim set binding subjectID until now+TTL. Non-positive ids
// are refused since Verify would never accept them.
func (s *TokenService) Issue(subjectID int64) (string, error) {
	if subjectID <= 0 {
		return "", ErrInvalidSubject
	}
	claims := sessionClaims{
		UserID:  subjectID,
		Expires: jwt.NewNumericDate(s.now().Add(s.ttl)),
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify returns the token's subject id and true only when the signature is
// valid under the configured algorithm and the expiry lies strictly in the
// future. Every other outcome, including garbage input, is (0, false); the
// reason is deliberately not exposed.
func (s *TokenService) Verify(token string) (int64, bool) {
	claims, ok := s.decode(token)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// ExpiresAt reports the expiry of a token that passes Verify.
func (s *TokenService) ExpiresAt(token string) (time.Time, bool) {
	claims, ok := s.decode(token)
	if !ok {
		return time.Time{}, false
	}
	return claims.Expires.Time, true
}

func (s *TokenService) decode(token string) (*sessionClaims, bool) {
	claims := &sessionClaims{}
	parsed, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.UserID <= 0 {
		return nil, false
	}
	return claims, true
}
