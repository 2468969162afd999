package auth

import "context"

// RepositoryInterface defines the contract for user account data access
type RepositoryInterface interface {
	CreateUser(ctx context.Context, req RegisterRequest, passwordHash string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
