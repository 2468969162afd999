//go:build integration

package e2e

import (
	"net/http"
	"testing"

	"github.com/clinicore/patient-management-service/internal/testutil"
)

// TestE2E_CreatePatient_FullFlow creates a patient and checks the event trail
func TestE2E_CreatePatient_FullFlow(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	token := ts.RegisterAndLogin(t, "admin_patient_create", "ADMIN")
	client := ts.NewClient(token)

	eventsBefore := ts.MockPublisher.GetEventCountByKey("patient.created")

	resp := client.POST(t, "/fhir/Patient", map[string]interface{}{
		"resourceType": "Patient",
		"active":       true,
		"name": []map[string]interface{}{
			{"use": "official", "family": "Doe", "given": []string{"John"}},
		},
		"gender":    "male",
		"birthDate": "1980-01-15",
		"telecom": []map[string]interface{}{
			{"system": "phone", "value": "+15550100", "use": "home"},
		},
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var result struct {
		ResourceType string `json:"resourceType"`
		ID           string `json:"id"`
		Active       bool   `json:"active"`
		Name         []struct {
			Family string   `json:"family"`
			Given  []string `json:"given"`
		} `json:"name"`
		BirthDate string `json:"birthDate"`
	}
	testutil.DecodeJSON(t, resp, &result)

	if result.ResourceType != "Patient" {
		t.Errorf("Expected resourceType Patient, got %q", result.ResourceType)
	}
	if result.ID == "" {
		t.Error("Expected patient ID to be generated")
	}
	if len(result.Name) == 0 || result.Name[0].Family != "Doe" {
		t.Errorf("Expected family name Doe, got %+v", result.Name)
	}
	if result.BirthDate != "1980-01-15" {
		t.Errorf("Expected birthDate 1980-01-15, got %q", result.BirthDate)
	}
	if !result.Active {
		t.Error("Expected patient to be active")
	}

	ts.MockPublisher.AssertEventPublished(t, "patient.created")
	eventsAfter := ts.MockPublisher.GetEventCountByKey("patient.created")
	if eventsAfter != eventsBefore+1 {
		t.Errorf("Expected %d patient.created events, got %d", eventsBefore+1, eventsAfter)
	}
}

// TestE2E_ListPatients_WithPagination lists patients page by page
func TestE2E_ListPatients_WithPagination(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	token := ts.RegisterAndLogin(t, "admin_patient_list", "ADMIN")
	client := ts.NewClient(token)

	ts.CreatePatient(t, client, "Alpha", "Anna")
	ts.CreatePatient(t, client, "Beta", "Boris")
	ts.CreatePatient(t, client, "Gamma", "Grace")

	resp := client.GET(t, "/fhir/Patient?page=1&limit=2")
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var bundle struct {
		Patients []struct {
			ID string `json:"id"`
		} `json:"patients"`
		Pagination struct {
			CurrentPage  int  `json:"current_page"`
			PerPage      int  `json:"per_page"`
			TotalPages   int  `json:"total_pages"`
			TotalRecords int  `json:"total_records"`
			HasNext      bool `json:"has_next"`
		} `json:"pagination"`
	}
	testutil.DecodeJSON(t, resp, &bundle)

	if len(bundle.Patients) != 2 {
		t.Errorf("Expected 2 patients on page 1, got %d", len(bundle.Patients))
	}
	if bundle.Pagination.TotalRecords != 3 {
		t.Errorf("Expected 3 total patients, got %d", bundle.Pagination.TotalRecords)
	}
	if bundle.Pagination.TotalPages != 2 {
		t.Errorf("Expected 2 pages, got %d", bundle.Pagination.TotalPages)
	}
	if !bundle.Pagination.HasNext {
		t.Error("Expected has_next on page 1")
	}

	resp = client.GET(t, "/fhir/Patient?page=2&limit=2")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.DecodeJSON(t, resp, &bundle)

	if len(bundle.Patients) != 1 {
		t.Errorf("Expected 1 patient on page 2, got %d", len(bundle.Patients))
	}
}

// TestE2E_UpdateAndDeletePatient drives a patient through its full lifecycle
func TestE2E_UpdateAndDeletePatient(t *testing.T) {
	ts := SetupE2ETest(t)
	defer ts.Cleanup(t)

	token := ts.RegisterAndLogin(t, "admin_patient_lifecycle", "ADMIN")
	client := ts.NewClient(token)

	id := ts.CreatePatient(t, client, "Rivera", "Maria")

	resp := client.PUT(t, "/fhir/Patient/"+id, map[string]interface{}{
		"resourceType": "Patient",
		"active":       true,
		"name": []map[string]interface{}{
			{"use": "official", "family": "Rivera-Santos", "given": []string{"Maria"}},
		},
		"gender":    "female",
		"birthDate": "1985-04-12",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var updated struct {
		Name []struct {
			Family string `json:"family"`
		} `json:"name"`
	}
	testutil.DecodeJSON(t, resp, &updated)
	if len(updated.Name) == 0 || updated.Name[0].Family != "Rivera-Santos" {
		t.Errorf("Expected updated family name Rivera-Santos, got %+v", updated.Name)
	}
	ts.MockPublisher.AssertEventPublished(t, "patient.updated")

	resp = client.DELETE(t, "/fhir/Patient/"+id)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()
	ts.MockPublisher.AssertEventPublished(t, "patient.deleted")

	resp = client.GET(t, "/fhir/Patient/" + id)
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	resp.Body.Close()
}
