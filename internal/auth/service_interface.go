package auth

import "context"

// ServiceInterface defines the contract for account and token operations
type ServiceInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*TokenPair, *User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Verify(ctx context.Context, token string) (*Principal, error)
	Logout(ctx context.Context, refreshToken string) error
	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*User, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
