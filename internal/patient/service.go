package patient

import (
	"context"
	"fmt"
	"log"

	"github.com/clinicore/patient-management-service/internal/messaging"
	"github.com/clinicore/patient-management-service/internal/pagination"
)

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
	}
}

// PaginatedPatients is the list payload returned by List
type PaginatedPatients struct {
	Patients   []Patient       `json:"patients"`
	Pagination pagination.Meta `json:"pagination"`
}

func (s *Service) Create(ctx context.Context, p *Patient) (*Patient, error) {
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.publishEvent(ctx, messaging.EventPatientCreated, created)

	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filters, params pagination.Params) (*PaginatedPatients, error) {
	params.Validate()

	patients, total, err := s.repo.List(ctx, f, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	if patients == nil {
		patients = []Patient{}
	}

	return &PaginatedPatients{
		Patients:   patients,
		Pagination: params.CalculateMeta(total),
	}, nil
}

func (s *Service) Update(ctx context.Context, p *Patient) (*Patient, error) {
	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, messaging.EventPatientUpdated, updated)

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(ctx, messaging.EventPatientDeleted, p)

	return nil
}

func (s *Service) publishEvent(ctx context.Context, routingKey string, p *Patient) {
	if s.publisher == nil {
		return
	}

	event := messaging.PatientEvent{
		BaseEvent: messaging.NewBaseEvent(routingKey),
		Data: messaging.PatientEventData{
			PatientID:  p.ID,
			FamilyName: p.FamilyName,
			GivenName:  p.GivenName,
			Email:      p.Email,
			Active:     p.Active,
		},
	}

	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
