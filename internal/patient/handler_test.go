package patient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clinicore/patient-management-service/internal/fhir"
	"github.com/clinicore/patient-management-service/internal/pagination"
	"github.com/gorilla/mux"
)

type mockService struct {
	createFunc func(ctx context.Context, p *Patient) (*Patient, error)
	getFunc    func(ctx context.Context, id string) (*Patient, error)
	listFunc   func(ctx context.Context, f Filters, params pagination.Params) (*PaginatedPatients, error)
	updateFunc func(ctx context.Context, p *Patient) (*Patient, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockService) Create(ctx context.Context, p *Patient) (*Patient, error) {
	return m.createFunc(ctx, p)
}

func (m *mockService) Get(ctx context.Context, id string) (*Patient, error) {
	return m.getFunc(ctx, id)
}

func (m *mockService) List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedPatients, error) {
	return m.listFunc(ctx, f, params)
}

func (m *mockService) Update(ctx context.Context, p *Patient) (*Patient, error) {
	return m.updateFunc(ctx, p)
}

func (m *mockService) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func TestHandler_CreatePatient_Success(t *testing.T) {
	service := &mockService{
		createFunc: func(ctx context.Context, p *Patient) (*Patient, error) {
			p.ID = "patient-123"
			return p, nil
		},
	}
	handler := NewHandler(service)

	body, _ := json.Marshal(validResource())
	req := httptest.NewRequest(http.MethodPost, "/fhir/Patient", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler.CreatePatient(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var res fhir.Patient
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if res.ResourceType != fhir.TypePatient {
		t.Errorf("Expected resourceType Patient, got %s", res.ResourceType)
	}
	if res.ID != "patient-123" {
		t.Errorf("Expected ID patient-123, got %s", res.ID)
	}
}

func TestHandler_CreatePatient_ValidationError(t *testing.T) {
	handler := NewHandler(&mockService{})

	res := validResource()
	res.Gender = "invalid"
	body, _ := json.Marshal(res)

	req := httptest.NewRequest(http.MethodPost, "/fhir/Patient", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler.CreatePatient(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}

	var errResp map[string]interface{}
	json.NewDecoder(rr.Body).Decode(&errResp)
	if errResp["error"] != "validation_error" {
		t.Errorf("Expected validation_error, got %v", errResp["error"])
	}
}

func TestHandler_CreatePatient_InvalidJSON(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := httptest.NewRequest(http.MethodPost, "/fhir/Patient", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()

	handler.CreatePatient(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestHandler_ListPatients_Filters(t *testing.T) {
	var gotFilters Filters
	service := &mockService{
		listFunc: func(ctx context.Context, f Filters, params pagination.Params) (*PaginatedPatients, error) {
			gotFilters = f
			return &PaginatedPatients{
				Patients:   []Patient{*testPatient()},
				Pagination: params.CalculateMeta(1),
			}, nil
		},
	}
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/fhir/Patient?active=true&gender=female&name=riv", nil)
	rr := httptest.NewRecorder()

	handler.ListPatients(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if gotFilters.Active == nil || !*gotFilters.Active {
		t.Error("Expected active filter to be true")
	}
	if gotFilters.Gender != "female" || gotFilters.Name != "riv" {
		t.Errorf("Unexpected filters: %+v", gotFilters)
	}

	var bundle PatientBundle
	if err := json.NewDecoder(rr.Body).Decode(&bundle); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(bundle.Patients) != 1 {
		t.Errorf("Expected 1 patient, got %d", len(bundle.Patients))
	}
	if bundle.Pagination.TotalRecords != 1 {
		t.Errorf("Expected 1 total record, got %d", bundle.Pagination.TotalRecords)
	}
}

func TestHandler_GetPatient_NotFound(t *testing.T) {
	service := &mockService{
		getFunc: func(ctx context.Context, id string) (*Patient, error) {
			return nil, ErrPatientNotFound
		},
	}
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/fhir/Patient/missing", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "missing"})
	rr := httptest.NewRecorder()

	handler.GetPatient(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestHandler_UpdatePatient_UsesPathID(t *testing.T) {
	var gotID string
	service := &mockService{
		updateFunc: func(ctx context.Context, p *Patient) (*Patient, error) {
			gotID = p.ID
			return p, nil
		},
	}
	handler := NewHandler(service)

	res := validResource()
	res.ID = "body-id-ignored"
	body, _ := json.Marshal(res)

	req := httptest.NewRequest(http.MethodPut, "/fhir/Patient/patient-123", bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": "patient-123"})
	rr := httptest.NewRecorder()

	handler.UpdatePatient(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotID != "patient-123" {
		t.Errorf("Expected path ID to win, got %s", gotID)
	}
}

func TestHandler_DeletePatient_Success(t *testing.T) {
	service := &mockService{
		deleteFunc: func(ctx context.Context, id string) error {
			return nil
		},
	}
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodDelete, "/fhir/Patient/patient-123", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "patient-123"})
	rr := httptest.NewRecorder()

	handler.DeletePatient(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp map[string]interface{}
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp["success"] != true {
		t.Errorf("Expected success true, got %v", resp["success"])
	}
}
