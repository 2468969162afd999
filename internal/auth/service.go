package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/patient-management-service/internal/cache"
)

const denylistKeyPrefix = "token_denylist:"

type Service struct {
	repo     RepositoryInterface
	issuer   *TokenIssuer
	verifier *Verifier
	cache    cache.Store
}

func NewService(repo RepositoryInterface, issuer *TokenIssuer, verifier *Verifier, cacheStore cache.Store) *Service {
	return &Service{
		repo:     repo,
		issuer:   issuer,
		verifier: verifier,
		cache:    cacheStore,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Username == "" {
		return nil, ErrMissingUsername
	}
	if req.Email == "" {
		return nil, ErrMissingEmail
	}
	if req.Password == "" {
		return nil, ErrMissingPassword
	}
	if len(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if req.Role == "" {
		req.Role = RoleFrontDesk
	}
	if !ValidRoles[req.Role] {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, req, string(hash))
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenPair, *User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err == ErrUserNotFound {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh validates a refresh token and issues a new access token.
// The refresh token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.verifier.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if jti, _ := claims["jti"].(string); jti != "" && s.cache != nil {
		revoked, err := s.cache.Exists(ctx, denylistKeyPrefix+jti)
		if err == nil && revoked {
			return nil, ErrTokenRevoked
		}
	}

	sub, _ := claims["sub"].(string)
	user, err := s.repo.GetByID(ctx, sub)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	accessToken, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.issuer.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

// Verify checks an access token and returns the principal it carries.
func (s *Service) Verify(ctx context.Context, token string) (*Principal, error) {
	return s.verifier.ParseAndVerifyToken(token)
}

// Logout revokes a refresh token by denylisting its token ID until expiry.
// Without a cache the token stays valid until it expires on its own.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.verifier.ParseRefreshToken(refreshToken)
	if err != nil {
		return err
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return ErrInvalidToken
	}
	if s.cache == nil {
		return nil
	}

	ttl := s.issuer.cfg.RefreshTokenTTL
	if exp, ok := claims["exp"].(float64); ok {
		remaining := time.Until(time.Unix(int64(exp), 0))
		if remaining > 0 {
			ttl = remaining
		}
	}

	return s.cache.Set(ctx, denylistKeyPrefix+jti, "revoked", ttl)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*User, error) {
	return s.repo.UpdateProfile(ctx, userID, req)
}

func (s *Service) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if req.NewPassword == "" {
		return ErrMissingPassword
	}
	if len(req.NewPassword) < 8 {
		return ErrPasswordTooShort
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

func (s *Service) issueTokenPair(user *User) (*TokenPair, error) {
	accessToken, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refreshToken, _, err := s.issuer.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.issuer.cfg.AccessTokenTTL.Seconds()),
	}, nil
}
