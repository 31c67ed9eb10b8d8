package config

import "time"

// AuthConfig contains token issuance and password configuration for the
// storefront backend.
type AuthConfig struct {
	// Issuer is stamped into the iss claim of every access token.
	Issuer string `env:"AUTH_ISSUER" envDefault:"ebikepoint"`

	// SigningKey is the HMAC secret used to sign access tokens. Required
	// outside development.
	SigningKey string `env:"AUTH_SIGNING_KEY" envDefault:"dev-signing-key"`

	// AccessTokenExpiry is the lifetime of an access token.
	AccessTokenExpiry time.Duration `env:"AUTH_ACCESS_TOKEN_EXPIRY" envDefault:"15m"`

	// RefreshTokenExpiry is the lifetime of a refresh token.
	RefreshTokenExpiry time.Duration `env:"AUTH_REFRESH_TOKEN_EXPIRY" envDefault:"168h"`

	// RefreshTokenLength is the number of random bytes in a refresh token.
	RefreshTokenLength int `env:"AUTH_REFRESH_TOKEN_LENGTH" envDefault:"32"`

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.AccessTokenExpiry <= 0 {
		a.AccessTokenExpiry = 15 * time.Minute
	}
	if a.RefreshTokenExpiry <= 0 {
		a.RefreshTokenExpiry = 7 * 24 * time.Hour
	}
	if a.RefreshTokenLength < 16 {
		a.RefreshTokenLength = 32
	}
	if a.BcryptCost < 4 || a.BcryptCost > 14 {
		a.BcryptCost = 10
	}
}
