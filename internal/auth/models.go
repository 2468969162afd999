package auth

import "time"

// Staff roles understood by the service. permissions.yml maps each role to
// the permissions it carries.
const (
	RoleAdmin     = "ADMIN"
	RoleClinician = "CLINICIAN"
	RoleFrontDesk = "FRONT_DESK"
	RoleBilling   = "BILLING"
)

// ValidRoles is the set of roles a user account may hold
var ValidRoles = map[string]bool{
	RoleAdmin:     true,
	RoleClinician: true,
	RoleFrontDesk: true,
	RoleBilling:   true,
}

// User represents a local staff account
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	PasswordHash string     `json:"-"`
}

// RegisterRequest represents the request to create a new staff account
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// LoginRequest represents a credentials login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is returned on login and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// VerifyRequest carries a token to introspect
type VerifyRequest struct {
	Token string `json:"token"`
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// ChangePasswordRequest represents a password change for the current user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
