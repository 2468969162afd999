package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/patient-management-service/internal/testutil"
)

// mockRepository is a test double for RepositoryInterface
type mockRepository struct {
	createUserFunc     func(ctx context.Context, req RegisterRequest, passwordHash string) (*User, error)
	getByUsernameFunc  func(ctx context.Context, username string) (*User, error)
	getByIDFunc        func(ctx context.Context, id string) (*User, error)
	updateProfileFunc  func(ctx context.Context, id string, req UpdateProfileRequest) (*User, error)
	updatePasswordFunc func(ctx context.Context, id string, passwordHash string) error
}

func (m *mockRepository) CreateUser(ctx context.Context, req RegisterRequest, passwordHash string) (*User, error) {
	if m.createUserFunc != nil {
		return m.createUserFunc(ctx, req, passwordHash)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	if m.getByUsernameFunc != nil {
		return m.getByUsernameFunc(ctx, username)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*User, error) {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, id, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, id, passwordHash)
	}
	return errors.New("not implemented")
}

func newTestService(repo RepositoryInterface) *Service {
	cfg := testConfig()
	return NewService(repo, NewTokenIssuer(cfg), NewVerifier(cfg), testutil.NewMockCache())
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return string(hash)
}

// TestRegister_Success tests successful account creation
func TestRegister_Success(t *testing.T) {
	mockRepo := &mockRepository{
		createUserFunc: func(ctx context.Context, req RegisterRequest, passwordHash string) (*User, error) {
			if passwordHash == req.Password {
				t.Error("Expected password to be hashed before storage")
			}
			return &User{
				ID:        "user-1",
				Username:  req.Username,
				Email:     req.Email,
				Role:      req.Role,
				IsActive:  true,
				CreatedAt: time.Now(),
			}, nil
		},
	}

	service := newTestService(mockRepo)

	user, err := service.Register(context.Background(), RegisterRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "s3cret-password",
		Role:     RoleClinician,
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if user.Username != "jdoe" {
		t.Errorf("Expected username 'jdoe', got '%s'", user.Username)
	}
	if user.Role != RoleClinician {
		t.Errorf("Expected role CLINICIAN, got '%s'", user.Role)
	}
}

// TestRegister_DefaultRole tests that a missing role defaults to FRONT_DESK
func TestRegister_DefaultRole(t *testing.T) {
	var capturedRole string
	mockRepo := &mockRepository{
		createUserFunc: func(ctx context.Context, req RegisterRequest, passwordHash string) (*User, error) {
			capturedRole = req.Role
			return &User{ID: "user-1", Username: req.Username, Role: req.Role, IsActive: true}, nil
		},
	}

	service := newTestService(mockRepo)

	_, err := service.Register(context.Background(), RegisterRequest{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "s3cret-password",
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if capturedRole != RoleFrontDesk {
		t.Errorf("Expected default role FRONT_DESK, got '%s'", capturedRole)
	}
}

// TestRegister_Validation tests register input validation
func TestRegister_Validation(t *testing.T) {
	service := newTestService(&mockRepository{})

	testCases := []struct {
		name     string
		req      RegisterRequest
		expected error
	}{
		{"Missing username", RegisterRequest{Email: "a@b.c", Password: "longenough"}, ErrMissingUsername},
		{"Missing email", RegisterRequest{Username: "jdoe", Password: "longenough"}, ErrMissingEmail},
		{"Missing password", RegisterRequest{Username: "jdoe", Email: "a@b.c"}, ErrMissingPassword},
		{"Short password", RegisterRequest{Username: "jdoe", Email: "a@b.c", Password: "short"}, ErrPasswordTooShort},
		{"Invalid role", RegisterRequest{Username: "jdoe", Email: "a@b.c", Password: "longenough", Role: "WIZARD"}, ErrInvalidRole},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), tc.req)
			if err != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, err)
			}
		})
	}
}

// TestLogin_Success tests successful login returns a usable token pair
func TestLogin_Success(t *testing.T) {
	hash := hashPassword(t, "s3cret-password")
	mockRepo := &mockRepository{
		getByUsernameFunc: func(ctx context.Context, username string) (*User, error) {
			return &User{
				ID:           "user-1",
				Username:     username,
				Role:         RoleAdmin,
				IsActive:     true,
				PasswordHash: hash,
			}, nil
		},
	}

	service := newTestService(mockRepo)

	pair, user, err := service.Login(context.Background(), LoginRequest{
		Username: "jdoe",
		Password: "s3cret-password",
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("Expected both tokens to be issued")
	}
	if pair.TokenType != "Bearer" {
		t.Errorf("Expected token type Bearer, got '%s'", pair.TokenType)
	}
	if user.ID != "user-1" {
		t.Errorf("Expected user-1, got '%s'", user.ID)
	}

	// Access token must verify with the service's verifier
	principal, err := service.Verify(context.Background(), pair.AccessToken)
	if err != nil {
		t.Fatalf("Expected access token to verify, got: %v", err)
	}
	if principal.UserID != "user-1" {
		t.Errorf("Expected principal user-1, got '%s'", principal.UserID)
	}
}

// TestLogin_WrongPassword tests rejected credentials
func TestLogin_WrongPassword(t *testing.T) {
	hash := hashPassword(t, "correct-password")
	mockRepo := &mockRepository{
		getByUsernameFunc: func(ctx context.Context, username string) (*User, error) {
			return &User{ID: "user-1", Username: username, IsActive: true, PasswordHash: hash}, nil
		},
	}

	service := newTestService(mockRepo)

	_, _, err := service.Login(context.Background(), LoginRequest{Username: "jdoe", Password: "wrong-password"})
	if err != ErrInvalidCredentials {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

// TestLogin_UnknownUser tests that missing users yield the same error as bad passwords
func TestLogin_UnknownUser(t *testing.T) {
	mockRepo := &mockRepository{
		getByUsernameFunc: func(ctx context.Context, username string) (*User, error) {
			return nil, ErrUserNotFound
		},
	}

	service := newTestService(mockRepo)

	_, _, err := service.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever1"})
	if err != ErrInvalidCredentials {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

// TestLogin_DisabledAccount tests login against an inactive account
func TestLogin_DisabledAccount(t *testing.T) {
	hash := hashPassword(t, "s3cret-password")
	mockRepo := &mockRepository{
		getByUsernameFunc: func(ctx context.Context, username string) (*User, error) {
			return &User{ID: "user-1", Username: username, IsActive: false, PasswordHash: hash}, nil
		},
	}

	service := newTestService(mockRepo)

	_, _, err := service.Login(context.Background(), LoginRequest{Username: "jdoe", Password: "s3cret-password"})
	if err != ErrAccountDisabled {
		t.Errorf("Expected ErrAccountDisabled, got %v", err)
	}
}

// TestRefresh_Success tests refreshing an access token
func TestRefresh_Success(t *testing.T) {
	user := testUser()
	mockRepo := &mockRepository{
		getByIDFunc: func(ctx context.Context, id string) (*User, error) {
			return user, nil
		},
	}

	service := newTestService(mockRepo)

	refreshToken, _, err := service.issuer.IssueRefreshToken(user)
	if err != nil {
		t.Fatalf("Failed to issue refresh token: %v", err)
	}

	pair, err := service.Refresh(context.Background(), refreshToken)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if pair.AccessToken == "" {
		t.Error("Expected a new access token")
	}
	if pair.RefreshToken != refreshToken {
		t.Error("Expected refresh token to be returned unrotated")
	}
}

// TestRefresh_AccessTokenRejected tests that access tokens can not be refreshed
func TestRefresh_AccessTokenRejected(t *testing.T) {
	service := newTestService(&mockRepository{})

	accessToken, err := service.issuer.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("Failed to issue access token: %v", err)
	}

	_, err = service.Refresh(context.Background(), accessToken)
	if err != ErrWrongTokenUse {
		t.Errorf("Expected ErrWrongTokenUse, got %v", err)
	}
}

// TestLogout_RevokesRefreshToken tests that logout denylists the refresh token
func TestLogout_RevokesRefreshToken(t *testing.T) {
	user := testUser()
	mockRepo := &mockRepository{
		getByIDFunc: func(ctx context.Context, id string) (*User, error) {
			return user, nil
		},
	}

	service := newTestService(mockRepo)

	refreshToken, _, err := service.issuer.IssueRefreshToken(user)
	if err != nil {
		t.Fatalf("Failed to issue refresh token: %v", err)
	}

	if err := service.Logout(context.Background(), refreshToken); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	_, err = service.Refresh(context.Background(), refreshToken)
	if err != ErrTokenRevoked {
		t.Errorf("Expected ErrTokenRevoked after logout, got %v", err)
	}
}

// TestRefreshAndLogout_WithoutCache tests that token operations survive a
// missing denylist cache
func TestRefreshAndLogout_WithoutCache(t *testing.T) {
	user := testUser()
	mockRepo := &mockRepository{
		getByIDFunc: func(ctx context.Context, id string) (*User, error) {
			return user, nil
		},
	}

	cfg := testConfig()
	service := NewService(mockRepo, NewTokenIssuer(cfg), NewVerifier(cfg), nil)

	refreshToken, _, err := service.issuer.IssueRefreshToken(user)
	if err != nil {
		t.Fatalf("Failed to issue refresh token: %v", err)
	}

	pair, err := service.Refresh(context.Background(), refreshToken)
	if err != nil {
		t.Fatalf("Expected refresh without a cache to succeed, got: %v", err)
	}
	if pair.AccessToken == "" {
		t.Error("Expected a new access token")
	}

	if err := service.Logout(context.Background(), refreshToken); err != nil {
		t.Fatalf("Expected logout without a cache to succeed, got: %v", err)
	}
}

// TestChangePassword_WrongCurrent tests rejection of a wrong current password
func TestChangePassword_WrongCurrent(t *testing.T) {
	hash := hashPassword(t, "old-password")
	mockRepo := &mockRepository{
		getByIDFunc: func(ctx context.Context, id string) (*User, error) {
			return &User{ID: id, IsActive: true, PasswordHash: hash}, nil
		},
	}

	service := newTestService(mockRepo)

	err := service.ChangePassword(context.Background(), "user-1", ChangePasswordRequest{
		CurrentPassword: "not-the-old-password",
		NewPassword:     "new-password-123",
	})
	if err != ErrWrongPassword {
		t.Errorf("Expected ErrWrongPassword, got %v", err)
	}
}

// TestChangePassword_Success tests a successful password change
func TestChangePassword_Success(t *testing.T) {
	hash := hashPassword(t, "old-password")
	updated := false
	mockRepo := &mockRepository{
		getByIDFunc: func(ctx context.Context, id string) (*User, error) {
			return &User{ID: id, IsActive: true, PasswordHash: hash}, nil
		},
		updatePasswordFunc: func(ctx context.Context, id string, passwordHash string) error {
			updated = true
			if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("new-password-123")); err != nil {
				t.Error("Expected stored hash to match the new password")
			}
			return nil
		},
	}

	service := newTestService(mockRepo)

	err := service.ChangePassword(context.Background(), "user-1", ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password-123",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !updated {
		t.Error("Expected password to be updated")
	}
}
