//go:build integration

package e2e

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clinicore/patient-management-service/internal/auth"
	httpserver "github.com/clinicore/patient-management-service/internal/http"
	"github.com/clinicore/patient-management-service/internal/testutil"
)

// TestServer represents a complete E2E test environment
type TestServer struct {
	Server        *httptest.Server
	DB            *sql.DB
	MockPublisher *testutil.MockPublisher
	MockCache     *testutil.MockCache
}

// SetupE2ETest creates a complete test environment:
// a real PostgreSQL database, the full HTTP router with all routes,
// and in-memory stand-ins for RabbitMQ and Redis.
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	db := testutil.SetupTestDB(t)

	mockPublisher := testutil.NewMockPublisher()
	mockCache := testutil.NewMockCache()

	perms, err := auth.LoadPermissions("../../permissions.yml")
	if err != nil {
		t.Fatalf("Failed to load permissions: %v", err)
	}

	authCfg := auth.Config{
		Secret:          "e2e-test-secret",
		Issuer:          auth.DefaultIssuer,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}

	router := httpserver.SetupRouter(httpserver.Deps{
		DB:        db,
		Cache:     mockCache,
		Publisher: mockPublisher,
		Verifier:  auth.NewVerifier(authCfg),
		Issuer:    auth.NewTokenIssuer(authCfg),
		Perms:     perms,
	})

	server := httptest.NewServer(router)

	return &TestServer{
		Server:        server,
		DB:            db,
		MockPublisher: mockPublisher,
		MockCache:     mockCache,
	}
}

// Cleanup tears down the test environment
func (ts *TestServer) Cleanup(t *testing.T) {
	t.Helper()
	ts.Server.Close()
	testutil.CleanupTestDB(t, ts.DB)
	ts.DB.Close()
}

// NewClient returns an HTTP client that sends the given bearer token
func (ts *TestServer) NewClient(token string) *testutil.HTTPTestClient {
	return testutil.NewHTTPTestClient(ts.Server.URL, token)
}

// RegisterAndLogin creates a staff account through the public auth endpoints
// and returns an access token for it.
func (ts *TestServer) RegisterAndLogin(t *testing.T, username, role string) string {
	t.Helper()

	anon := ts.NewClient("")

	registerResp := anon.POST(t, "/api/auth/register", map[string]interface{}{
		"username":   username,
		"email":      fmt.Sprintf("%s@clinic.test", username),
		"password":   "E2ePassword1!",
		"first_name": "Test",
		"last_name":  "User",
		"role":       role,
	})
	testutil.AssertStatusCode(t, registerResp, http.StatusCreated)
	registerResp.Body.Close()

	loginResp := anon.POST(t, "/api/auth/login", map[string]interface{}{
		"username": username,
		"password": "E2ePassword1!",
	})
	testutil.AssertStatusCode(t, loginResp, http.StatusOK)

	var result struct {
		Success bool `json:"success"`
		Tokens  struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	testutil.DecodeJSON(t, loginResp, &result)

	if result.Tokens.AccessToken == "" {
		t.Fatal("Expected login to return an access token")
	}
	return result.Tokens.AccessToken
}

// CreatePatient inserts a patient through the API and returns its ID
func (ts *TestServer) CreatePatient(t *testing.T, client *testutil.HTTPTestClient, family, given string) string {
	t.Helper()

	resp := client.POST(t, "/fhir/Patient", map[string]interface{}{
		"resourceType": "Patient",
		"active":       true,
		"name": []map[string]interface{}{
			{"use": "official", "family": family, "given": []string{given}},
		},
		"gender":    "female",
		"birthDate": "1985-04-12",
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var result struct {
		ID string `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &result)
	if result.ID == "" {
		t.Fatal("Expected created patient to have an ID")
	}
	return result.ID
}

// CreatePractitioner inserts a practitioner through the API and returns its ID
func (ts *TestServer) CreatePractitioner(t *testing.T, client *testutil.HTTPTestClient, family, npi string) string {
	t.Helper()

	resp := client.POST(t, "/fhir/Practitioner", map[string]interface{}{
		"resourceType": "Practitioner",
		"active":       true,
		"identifier": []map[string]interface{}{
			{"use": "official", "system": "http://hl7.org/fhir/sid/us-npi", "value": npi},
		},
		"name": []map[string]interface{}{
			{"use": "official", "family": family, "given": []string{"Dana"}},
		},
		"gender":         "female",
		"specialization": "cardiology",
		"license_number": "MD-44821",
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var result struct {
		ID string `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &result)
	if result.ID == "" {
		t.Fatal("Expected created practitioner to have an ID")
	}
	return result.ID
}
