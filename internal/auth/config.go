package auth

import (
	"os"
	"time"
)

// Config holds auth configuration
type Config struct {
	Secret          string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

var (
	DefaultIssuer          = "clinicore-patient-management"
	DefaultAccessTokenTTL  = 60 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// LoadConfig reads config from env with sensible defaults.
// You can override with JWT_SECRET, AUTH_ISSUER, AUTH_ACCESS_TTL and AUTH_REFRESH_TTL.
func LoadConfig() Config {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "insecure-dev-secret"
	}
	issuer := os.Getenv("AUTH_ISSUER")
	if issuer == "" {
		issuer = DefaultIssuer
	}
	accessTTL := DefaultAccessTokenTTL
	if v := os.Getenv("AUTH_ACCESS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			accessTTL = d
		}
	}
	refreshTTL := DefaultRefreshTokenTTL
	if v := os.Getenv("AUTH_REFRESH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			refreshTTL = d
		}
	}
	return Config{
		Secret:          secret,
		Issuer:          issuer,
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: refreshTTL,
	}
}
