// internal/app/system/auth/tokens.go
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const issuer = "hostelhub"

// Principal spaces. Users (students, wardens, admins) and staff are two
// parallel credential spaces sharing one token protocol; the space claim
// keeps a token minted for one space from resolving in the other.
const (
	SpaceUser  = "user"
	SpaceStaff = "staff"
)

// ErrInvalidToken indicates a token failed verification. All underlying
// causes (expired, malformed, bad signature, wrong space) collapse into
// this one error so callers cannot distinguish them.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims carried by both token classes. Subject holds
// the principal's ObjectID hex.
type Claims struct {
	Space string `json:"space"`
	jwt.RegisteredClaims
}

// PrincipalID returns the subject as an ObjectID.
func (c *Claims) PrincipalID() (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Subject)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidToken
	}
	return id, nil
}

// TokenConfig holds signing material and lifetimes for the two token
// classes. Secrets must differ so an access token can never pass refresh
// verification or vice versa.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenService issues and verifies access and refresh tokens.
type TokenService struct {
	cfg TokenConfig
}

// NewTokenService validates the config and returns a service.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("auth: token secrets are not configured")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 10 * 24 * time.Hour
	}
	return &TokenService{cfg: cfg}, nil
}

// IssuePair mints a fresh access + refresh token pair for the principal.
// The refresh token carries a unique jti so that two rotations within the
// same second still produce distinct token values.
func (s *TokenService) IssuePair(principalID primitive.ObjectID, space string) (access, refresh string, err error) {
	access, err = s.sign(principalID, space, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.sign(principalID, space, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// VerifyAccess verifies an access token for the given space.
func (s *TokenService) VerifyAccess(token, space string) (*Claims, error) {
	return s.verify(token, space, s.cfg.AccessSecret)
}

// VerifyRefresh verifies a refresh token for the given space.
func (s *TokenService) VerifyRefresh(token, space string) (*Claims, error) {
	return s.verify(token, space, s.cfg.RefreshSecret)
}

func (s *TokenService) sign(principalID primitive.ObjectID, space string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Space: space,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   principalID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *TokenService) verify(token, space string, secret []byte) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != issuer || claims.Space != space || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
