package token

import (
	"time"

	"github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/users"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims are the verified contents of an access token.
type Claims struct {
	UserID string
	Email  string
	Role   users.Role
	Expiry time.Time
}

// Manager creates and verifies HMAC-signed JWT access tokens.
type Manager struct {
	signingKey        []byte
	issuer            string
	accessTokenExpiry time.Duration
	nowFunc           func() time.Time
}

type ManagerOption func(*Manager)

func WithAccessTokenExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func New(signingKey, issuer string, options ...ManagerOption) *Manager {
	m := &Manager{
		signingKey:        []byte(signingKey),
		issuer:            issuer,
		accessTokenExpiry: 15 * time.Minute,
		nowFunc:           func() time.Time { return NowTimeFunc() },
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// CreateAccessToken creates a signed access token for the user.
func (m *Manager) CreateAccessToken(user *users.User) (string, error) {
	now := m.nowFunc()
	claims := jwtlib.MapClaims{
		"iss":   m.issuer,                              // The issuer of the token
		"sub":   user.ID,                               // The user's unique ID
		"email": user.Email,                            // Denormalized for request logging
		"role":  string(user.Role),                     // Single role governing permissions
		"iat":   now.Unix(),                            // Issued At
		"exp":   now.Add(m.accessTokenExpiry).Unix(),   // Expiry
		"jti":   uuid.New().String(),                   // Unique token ID
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return "", errors.Wrapf(err, "failed to sign access token")
	}
	return signed, nil
}

// VerifyAccessToken parses and validates a bearer token, returning its claims.
func (m *Manager) VerifyAccessToken(tokenStr string) (*Claims, error) {
	parsed, err := jwtlib.Parse(tokenStr, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.ErrInvalidToken
		}
		return m.signingKey, nil
	},
		jwtlib.WithIssuer(m.issuer),
		jwtlib.WithTimeFunc(m.nowFunc),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.Wrapf(errors.ErrInvalidToken, "%v", err)
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.ErrInvalidToken
	}

	role, err := users.ParseRole(stringClaim(mapClaims, "role"))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "role claim")
	}

	claims := &Claims{
		UserID: stringClaim(mapClaims, "sub"),
		Email:  stringClaim(mapClaims, "email"),
		Role:   role,
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.Expiry = exp.Time
	}
	if claims.UserID == "" {
		return nil, errors.ErrInvalidToken
	}
	return claims, nil
}

func stringClaim(claims jwtlib.MapClaims, key string) string {
	v, ok := claims[key].(string)
	if !ok {
		return ""
	}
	return v
}
