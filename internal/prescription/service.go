package prescription

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/clinicore/patient-management-service/internal/messaging"
	"github.com/clinicore/patient-management-service/internal/pagination"
)

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	now       func() time.Time
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// PaginatedPrescriptions is the list payload returned by List
type PaginatedPrescriptions struct {
	Prescriptions []Prescription  `json:"prescriptions"`
	Pagination    pagination.Meta `json:"pagination"`
}

func (s *Service) Create(ctx context.Context, p *Prescription) (*Prescription, error) {
	if p.AuthoredOn.IsZero() {
		p.AuthoredOn = s.now()
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := messaging.PrescriptionEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventPrescriptionCreated),
			Data: messaging.PrescriptionEventData{
				PrescriptionID: created.ID,
				PatientID:      created.PatientID,
				PrescriberID:   created.PrescriberID,
				MedicationName: created.MedicationName,
				Status:         created.Status,
			},
		}
		if err := s.publisher.Publish(ctx, messaging.EventPrescriptionCreated, event); err != nil {
			log.Printf("Warning: failed to publish %s event: %v", messaging.EventPrescriptionCreated, err)
		}
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Prescription, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedPrescriptions, error) {
	params.Validate()

	prescriptions, total, err := s.repo.List(ctx, f, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	if prescriptions == nil {
		prescriptions = []Prescription{}
	}

	return &PaginatedPrescriptions{
		Prescriptions: prescriptions,
		Pagination:    params.CalculateMeta(total),
	}, nil
}

func (s *Service) Update(ctx context.Context, p *Prescription) (*Prescription, error) {
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
