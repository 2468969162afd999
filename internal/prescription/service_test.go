package prescription

import (
	"context"
	"testing"
	"time"

	"github.com/clinicore/patient-management-service/internal/messaging"
	"github.com/clinicore/patient-management-service/internal/pagination"
	"github.com/clinicore/patient-management-service/internal/testutil"
)

type mockRepository struct {
	createFunc func(ctx context.Context, p *Prescription) (*Prescription, error)
	getFunc    func(ctx context.Context, id string) (*Prescription, error)
	listFunc   func(ctx context.Context, f Filters, limit, offset int) ([]Prescription, int, error)
	updateFunc func(ctx context.Context, p *Prescription) (*Prescription, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockRepository) Create(ctx context.Context, p *Prescription) (*Prescription, error) {
	return m.createFunc(ctx, p)
}

func (m *mockRepository) Get(ctx context.Context, id string) (*Prescription, error) {
	return m.getFunc(ctx, id)
}

func (m *mockRepository) List(ctx context.Context, f Filters, limit, offset int) ([]Prescription, int, error) {
	return m.listFunc(ctx, f, limit, offset)
}

func (m *mockRepository) Update(ctx context.Context, p *Prescription) (*Prescription, error) {
	return m.updateFunc(ctx, p)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func TestService_Create_SetsAuthoredOnAndPublishes(t *testing.T) {
	publisher := testutil.NewMockPublisher()
	repo := &mockRepository{
		createFunc: func(ctx context.Context, p *Prescription) (*Prescription, error) {
			p.ID = "rx-1"
			return p, nil
		},
	}
	service := NewService(repo, publisher)
	service.now = func() time.Time { return clock }

	created, err := service.Create(context.Background(), &Prescription{
		Status:         StatusActive,
		Intent:         IntentOrder,
		Priority:       PriorityRoutine,
		MedicationName: "Lisinopril 10mg",
		DosageText:     "One tablet daily",
		PatientID:      "patient-1",
		PrescriberID:   "practitioner-1",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !created.AuthoredOn.Equal(clock) {
		t.Errorf("Expected authoredOn defaulted to now, got %v", created.AuthoredOn)
	}

	publisher.AssertEventCount(t, messaging.EventPrescriptionCreated, 1)
	event := publisher.GetLastEventByKey(messaging.EventPrescriptionCreated)
	data := event.EventData.(messaging.PrescriptionEvent).Data
	if data.MedicationName != "Lisinopril 10mg" {
		t.Errorf("Unexpected event medication: %s", data.MedicationName)
	}
}

func TestService_Create_KeepsProvidedAuthoredOn(t *testing.T) {
	repo := &mockRepository{
		createFunc: func(ctx context.Context, p *Prescription) (*Prescription, error) {
			return p, nil
		},
	}
	service := NewService(repo, nil)

	authoredOn := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	created, err := service.Create(context.Background(), &Prescription{
		MedicationName: "Metformin",
		DosageText:     "Twice daily",
		AuthoredOn:     authoredOn,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !created.AuthoredOn.Equal(authoredOn) {
		t.Errorf("Expected provided authoredOn to be kept, got %v", created.AuthoredOn)
	}
}

func TestService_List_PassesFilters(t *testing.T) {
	var gotFilters Filters
	repo := &mockRepository{
		listFunc: func(ctx context.Context, f Filters, limit, offset int) ([]Prescription, int, error) {
			gotFilters = f
			return nil, 0, nil
		},
	}
	service := NewService(repo, nil)

	f := Filters{Status: StatusActive, PatientID: "patient-1"}
	result, err := service.List(context.Background(), f, pagination.Params{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if gotFilters != f {
		t.Errorf("Expected filters to be forwarded, got %+v", gotFilters)
	}
	if result.Prescriptions == nil {
		t.Error("Expected empty slice, got nil")
	}
}
