package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Token type claims distinguish access tokens from refresh tokens
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Principal holds identity extracted from a validated token.
type Principal struct {
	UserID   string
	Username string
	Roles    []string
	Claims   jwt.MapClaims
}

var (
	ErrNoToken       = errors.New("no token provided")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidIssuer = errors.New("invalid issuer")
	ErrMissingSub    = errors.New("missing sub claim")
	ErrWrongTokenUse = errors.New("wrong token type")
)

// TokenIssuer signs access and refresh tokens for local accounts.
type TokenIssuer struct {
	cfg Config
}

// NewTokenIssuer constructs a TokenIssuer with config.
func NewTokenIssuer(cfg Config) *TokenIssuer {
	return &TokenIssuer{cfg: cfg}
}

// IssueAccessToken signs a short-lived access token for the user.
func (i *TokenIssuer) IssueAccessToken(user *User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        user.ID,
		"username":   user.Username,
		"role":       user.Role,
		"iss":        i.cfg.Issuer,
		"iat":        now.Unix(),
		"exp":        now.Add(i.cfg.AccessTokenTTL).Unix(),
		"token_type": TokenTypeAccess,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(i.cfg.Secret))
}

// IssueRefreshToken signs a long-lived refresh token and returns it with its
// token ID, which the logout denylist is keyed on.
func (i *TokenIssuer) IssueRefreshToken(user *User) (string, string, error) {
	now := time.Now()
	jti := uuid.New().String()
	claims := jwt.MapClaims{
		"sub":        user.ID,
		"jti":        jti,
		"iss":        i.cfg.Issuer,
		"iat":        now.Unix(),
		"exp":        now.Add(i.cfg.RefreshTokenTTL).Unix(),
		"token_type": TokenTypeRefresh,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// Verifier validates tokens issued by this service.
type Verifier struct {
	cfg Config
}

// NewVerifier constructs a Verifier with config.
func NewVerifier(cfg Config) *Verifier {
	return &Verifier{cfg: cfg}
}

func (v *Verifier) parse(tokenString string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}
	tokenString = strings.TrimSpace(tokenString)
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// enforce HS256
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(v.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	// issuer
	if iss, _ := claims["iss"].(string); iss != v.cfg.Issuer {
		return nil, ErrInvalidIssuer
	}
	// exp
	if !claims.VerifyExpiresAt(jwt.TimeFunc().Unix(), true) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAndVerifyToken verifies an access token, validates issuer/exp and returns Principal.
func (v *Verifier) ParseAndVerifyToken(tokenString string) (*Principal, error) {
	claims, err := v.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if use, _ := claims["token_type"].(string); use != TokenTypeAccess {
		return nil, ErrWrongTokenUse
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrMissingSub
	}

	username, _ := claims["username"].(string)

	var roles []string
	if role, ok := claims["role"].(string); ok && role != "" {
		roles = append(roles, role)
	}

	return &Principal{
		UserID:   sub,
		Username: username,
		Roles:    roles,
		Claims:   claims,
	}, nil
}

// ParseRefreshToken verifies a refresh token and returns its claims.
func (v *Verifier) ParseRefreshToken(tokenString string) (jwt.MapClaims, error) {
	claims, err := v.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if use, _ := claims["token_type"].(string); use != TokenTypeRefresh {
		return nil, ErrWrongTokenUse
	}
	if sub, _ := claims["sub"].(string); sub == "" {
		return nil, ErrMissingSub
	}
	return claims, nil
}
