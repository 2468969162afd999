package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Secret:          "test-secret",
		Issuer:          "clinicore-test",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func testUser() *User {
	return &User{
		ID:       "user-123",
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Role:     RoleAdmin,
		IsActive: true,
	}
}

// TestMiddleware_ValidToken tests that a valid token allows the request to proceed
func TestMiddleware_ValidToken(t *testing.T) {
	cfg := testConfig()
	issuer := NewTokenIssuer(cfg)
	verifier := NewVerifier(cfg)

	tokenString, err := issuer.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	middleware := Middleware(verifier)

	called := false
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		principal, ok := FromContext(r.Context())
		if !ok {
			t.Error("Expected principal in context, got none")
			return
		}
		if principal.UserID != "user-123" {
			t.Errorf("Expected UserID 'user-123', got '%s'", principal.UserID)
		}
		if len(principal.Roles) != 1 || principal.Roles[0] != RoleAdmin {
			t.Errorf("Expected roles [ADMIN], got %v", principal.Roles)
		}
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware(testHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("Expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}

// TestMiddleware_MissingAuthorizationHeader tests that missing header returns 401
func TestMiddleware_MissingAuthorizationHeader(t *testing.T) {
	verifier := NewVerifier(testConfig())
	middleware := Middleware(verifier)

	called := false
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware(testHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	// No Authorization header set
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if called {
		t.Error("Expected handler NOT to be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
	expectedBody := "missing authorization\n"
	if rec.Body.String() != expectedBody {
		t.Errorf("Expected body '%s', got '%s'", expectedBody, rec.Body.String())
	}
}

// TestMiddleware_InvalidAuthorizationHeader tests malformed headers
func TestMiddleware_InvalidAuthorizationHeader(t *testing.T) {
	verifier := NewVerifier(testConfig())

	testCases := []struct {
		name   string
		header string
	}{
		{"No Bearer prefix", "some-token"},
		{"Wrong prefix", "Basic dXNlcjpwYXNz"},
		{"Only Bearer", "Bearer"},
		{"Empty after Bearer", "Bearer "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			middleware := Middleware(verifier)

			called := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			handler := middleware(testHandler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tc.header)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if called {
				t.Error("Expected handler NOT to be called")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("Expected status 401, got %d", rec.Code)
			}
		})
	}
}

// TestMiddleware_InvalidToken tests that invalid tokens are rejected
func TestMiddleware_InvalidToken(t *testing.T) {
	verifier := NewVerifier(testConfig())
	middleware := Middleware(verifier)

	called := false
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	handler := middleware(testHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if called {
		t.Error("Expected handler NOT to be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

// TestMiddleware_RefreshTokenRejected tests that refresh tokens can not be used as access tokens
func TestMiddleware_RefreshTokenRejected(t *testing.T) {
	cfg := testConfig()
	issuer := NewTokenIssuer(cfg)
	verifier := NewVerifier(cfg)

	refreshToken, _, err := issuer.IssueRefreshToken(testUser())
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	middleware := Middleware(verifier)

	called := false
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+refreshToken)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if called {
		t.Error("Expected handler NOT to be called")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

// TestFromContext tests extracting principal from context
func TestFromContext(t *testing.T) {
	t.Run("Principal exists in context", func(t *testing.T) {
		expected := &Principal{
			UserID: "test-user",
			Roles:  []string{"ADMIN"},
		}
		ctx := context.WithValue(context.Background(), principalKey, expected)

		principal, ok := FromContext(ctx)

		if !ok {
			t.Error("Expected principal to be found")
		}
		if principal.UserID != expected.UserID {
			t.Errorf("Expected UserID '%s', got '%s'", expected.UserID, principal.UserID)
		}
	})

	t.Run("No principal in context", func(t *testing.T) {
		ctx := context.Background()

		principal, ok := FromContext(ctx)

		if ok {
			t.Error("Expected no principal to be found")
		}
		if principal != nil {
			t.Error("Expected nil principal")
		}
	})
}

// TestHasPermission tests the permission checking logic
func TestHasPermission(t *testing.T) {
	perms := Permissions{
		"ADMIN":      {"patient:create", "patient:view", "report:delete"},
		"CLINICIAN":  {"patient:view", "appointment:create"},
		"FRONT_DESK": {"appointment:view"},
	}

	testCases := []struct {
		name       string
		principal  *Principal
		permission string
		expected   bool
	}{
		{
			name: "Single role with permission",
			principal: &Principal{
				Roles: []string{"ADMIN"},
			},
			permission: "patient:create",
			expected:   true,
		},
		{
			name: "Single role without permission",
			principal: &Principal{
				Roles: []string{"FRONT_DESK"},
			},
			permission: "patient:create",
			expected:   false,
		},
		{
			name: "Lowercase role claim matches uppercase mapping",
			principal: &Principal{
				Roles: []string{"clinician"},
			},
			permission: "appointment:create",
			expected:   true,
		},
		{
			name: "No roles",
			principal: &Principal{
				Roles: []string{},
			},
			permission: "patient:view",
			expected:   false,
		},
		{
			name: "Unknown role",
			principal: &Principal{
				Roles: []string{"UNKNOWN_ROLE"},
			},
			permission: "patient:view",
			expected:   false,
		},
		{
			name: "Permission exists in multiple roles",
			principal: &Principal{
				Roles: []string{"ADMIN", "CLINICIAN"},
			},
			permission: "patient:view",
			expected:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := HasPermission(tc.principal, tc.permission, perms)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

// TestRequirePermission tests the permission enforcement middleware
func TestRequirePermission(t *testing.T) {
	perms := Permissions{
		"ADMIN":      {"patient:create", "patient:delete"},
		"FRONT_DESK": {"patient:view"},
	}

	t.Run("User has required permission", func(t *testing.T) {
		principal := &Principal{
			UserID: "user-123",
			Roles:  []string{"ADMIN"},
		}

		middleware := RequirePermission("patient:create", perms)

		called := false
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		})

		handler := middleware(testHandler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		ctx := context.WithValue(req.Context(), principalKey, principal)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if !called {
			t.Error("Expected handler to be called")
		}
		if rec.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rec.Code)
		}
	})

	t.Run("User lacks required permission", func(t *testing.T) {
		principal := &Principal{
			UserID: "user-123",
			Roles:  []string{"FRONT_DESK"},
		}

		middleware := RequirePermission("patient:delete", perms)

		called := false
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		handler := middleware(testHandler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		ctx := context.WithValue(req.Context(), principalKey, principal)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if called {
			t.Error("Expected handler NOT to be called")
		}
		if rec.Code != http.StatusForbidden {
			t.Errorf("Expected status 403, got %d", rec.Code)
		}
	})

	t.Run("No principal in context", func(t *testing.T) {
		middleware := RequirePermission("patient:create", perms)

		called := false
		testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		handler := middleware(testHandler)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		// No principal in context
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if called {
			t.Error("Expected handler NOT to be called")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rec.Code)
		}
	})
}
