//go:build integration

package e2e

import (
	"net/http"
	"testing"

	"github.com/clinicore/patient-management-service/internal/testutil"
)

// TestE2E_RegisterLoginRefresh exercises the full token lifecycle
func TestE2E_RegisterLoginRefresh(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	anon := ts.NewClient("")

	registerResp := anon.POST(t, "/api/auth/register", map[string]interface{}{
		"username":   "dr_house",
		"email":      "house@clinic.test",
		"password":   "Lupus12345!",
		"first_name": "Gregory",
		"last_name":  "House",
		"role":       "CLINICIAN",
	})
	testutil.AssertStatusCode(t, registerResp, http.StatusCreated)
	registerResp.Body.Close()

	// Same username again conflicts
	dupResp := anon.POST(t, "/api/auth/register", map[string]interface{}{
		"username":   "dr_house",
		"email":      "house2@clinic.test",
		"password":   "Lupus12345!",
		"first_name": "Gregory",
		"last_name":  "House",
		"role":       "CLINICIAN",
	})
	testutil.AssertStatusCode(t, dupResp, http.StatusConflict)
	dupResp.Body.Close()

	loginResp := anon.POST(t, "/api/auth/login", map[string]interface{}{
		"username": "dr_house",
		"password": "Lupus12345!",
	})
	testutil.AssertStatusCode(t, loginResp, http.StatusOK)

	var login struct {
		Success bool `json:"success"`
		Tokens  struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			TokenType    string `json:"token_type"`
		} `json:"tokens"`
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	testutil.DecodeJSON(t, loginResp, &login)

	if login.Tokens.AccessToken == "" || login.Tokens.RefreshToken == "" {
		t.Fatal("Expected login to return both tokens")
	}
	if login.User.Role != "CLINICIAN" {
		t.Errorf("Expected role CLINICIAN, got %q", login.User.Role)
	}

	refreshResp := anon.POST(t, "/api/auth/token/refresh", map[string]interface{}{
		"refresh_token": login.Tokens.RefreshToken,
	})
	testutil.AssertStatusCode(t, refreshResp, http.StatusOK)

	var refreshed struct {
		AccessToken string `json:"access_token"`
	}
	testutil.DecodeJSON(t, refreshResp, &refreshed)
	if refreshed.AccessToken == "" {
		t.Error("Expected refresh to return a new access token")
	}

	// Authenticated profile fetch with the fresh token
	profileResp := ts.NewClient(refreshed.AccessToken).GET(t, "/api/auth/profile")
	testutil.AssertStatusCode(t, profileResp, http.StatusOK)
	profileResp.Body.Close()
}

// TestE2E_Login_WrongPassword rejects bad credentials
func TestE2E_Login_WrongPassword(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	ts.RegisterAndLogin(t, "front_desk_1", "FRONT_DESK")

	resp := ts.NewClient("").POST(t, "/api/auth/login", map[string]interface{}{
		"username": "front_desk_1",
		"password": "not-the-password",
	})
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

// TestE2E_ProtectedRoutes_RequireToken blocks anonymous resource access
func TestE2E_ProtectedRoutes_RequireToken(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	resp := ts.NewClient("").GET(t, "/fhir/Patient")
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	resp.Body.Close()
}

// TestE2E_PermissionDenied_ByRole enforces role permissions on mutations
func TestE2E_PermissionDenied_ByRole(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	adminToken := ts.RegisterAndLogin(t, "admin_perm_check", "ADMIN")
	adminClient := ts.NewClient(adminToken)
	patientID := ts.CreatePatient(t, adminClient, "Okafor", "Chidi")

	frontDeskToken := ts.RegisterAndLogin(t, "front_desk_perm", "FRONT_DESK")
	frontDeskClient := ts.NewClient(frontDeskToken)

	// Front desk can read patients
	readResp := frontDeskClient.GET(t, "/fhir/Patient/"+patientID)
	testutil.AssertStatusCode(t, readResp, http.StatusOK)
	readResp.Body.Close()

	// But cannot delete them
	deleteResp := frontDeskClient.DELETE(t, "/fhir/Patient/" + patientID)
	testutil.AssertStatusCode(t, deleteResp, http.StatusForbidden)
	deleteResp.Body.Close()
}
