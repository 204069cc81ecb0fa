package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"todolist-api/internal/models"
)

// TokenConfig is supplied by configuration; nothing here is compiled in.
type TokenConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Claims carried by an access token. Subject is the decimal user id.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, c.Subject)
	}
	return id, nil
}

type TokenIssuer interface {
	// Issue returns a signed token for user and its expiry.
	Issue(user *models.User) (string, time.Time, error)
}

type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// JWTManager issues and verifies HS256 tokens.
type JWTManager struct {
	cfg TokenConfig
	now func() time.Time
}

func NewJWTManager(cfg TokenConfig) *JWTManager {
	return &JWTManager{cfg: cfg, now: time.Now}
}

func (m *JWTManager) Issue(user *models.User) (string, time.Time, error) {
	// NumericDate has second precision; truncate so the reported expiry
	// equals the exp claim.
	issuedAt := m.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(m.cfg.TTL)

	claims := Claims{
		Email: user.Email,
		Name:  user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    m.cfg.Issuer,
			Audience:  jwt.ClaimStrings{m.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the algorithm, signature, issuer, audience, expiry and
// not-before. Every failure wraps ErrInvalidToken.
func (m *JWTManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.cfg.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	now := m.now()
	switch {
	case !claims.VerifyExpiresAt(now, true):
		return nil, fmt.Errorf("%w: expired or missing exp", ErrInvalidToken)
	case !claims.VerifyNotBefore(now, false):
		return nil, fmt.Errorf("%w: not valid yet", ErrInvalidToken)
	case !claims.VerifyIssuer(m.cfg.Issuer, true):
		return nil, fmt.Errorf("%w: wrong issuer", ErrInvalidToken)
	case !claims.VerifyAudience(m.cfg.Audience, true):
		return nil, fmt.Errorf("%w: wrong audience", ErrInvalidToken)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

var (
	_ TokenIssuer   = (*JWTManager)(nil)
	_ TokenVerifier = (*JWTManager)(nil)
)
