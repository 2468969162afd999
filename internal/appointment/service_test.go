package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinicore/patient-management-service/internal/messaging"
	"github.com/clinicore/patient-management-service/internal/pagination"
	"github.com/clinicore/patient-management-service/internal/testutil"
)

type mockRepository struct {
	createFunc        func(ctx context.Context, a *Appointment) (*Appointment, error)
	getFunc           func(ctx context.Context, id string) (*Appointment, error)
	listFunc          func(ctx context.Context, f Filters, limit, offset int) ([]Appointment, int, error)
	updateFunc        func(ctx context.Context, a *Appointment) (*Appointment, error)
	updateStatusFunc  func(ctx context.Context, id string, upd StatusUpdate) (*Appointment, error)
	deleteFunc        func(ctx context.Context, id string) error
	findConflictsFunc func(ctx context.Context, practitionerID string, start, end time.Time, excludeID string) ([]string, error)
	countByStatusFunc func(ctx context.Context, from, to *time.Time) (map[string]int, error)
}

func (m *mockRepository) Create(ctx context.Context, a *Appointment) (*Appointment, error) {
	return m.createFunc(ctx, a)
}

func (m *mockRepository) Get(ctx context.Context, id string) (*Appointment, error) {
	return m.getFunc(ctx, id)
}

func (m *mockRepository) List(ctx context.Context, f Filters, limit, offset int) ([]Appointment, int, error) {
	return m.listFunc(ctx, f, limit, offset)
}

func (m *mockRepository) Update(ctx context.Context, a *Appointment) (*Appointment, error) {
	return m.updateFunc(ctx, a)
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id string, upd StatusUpdate) (*Appointment, error) {
	return m.updateStatusFunc(ctx, id, upd)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockRepository) FindConflicts(ctx context.Context, practitionerID string, start, end time.Time, excludeID string) ([]string, error) {
	if m.findConflictsFunc != nil {
		return m.findConflictsFunc(ctx, practitionerID, start, end, excludeID)
	}
	return nil, nil
}

func (m *mockRepository) CountByStatus(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	return m.countByStatusFunc(ctx, from, to)
}

var testNow = time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

func newTestService(repo *mockRepository, publisher messaging.PublisherInterface) *Service {
	service := NewService(repo, testutil.NewMockCache(), publisher, nil)
	service.now = func() time.Time { return testNow }
	return service
}

func testAppointment(status string) *Appointment {
	return &Appointment{
		ID:                   "appt-1",
		Status:               status,
		Priority:             5,
		Start:                testNow.Add(2 * time.Hour),
		End:                  testNow.Add(3 * time.Hour),
		MinutesDuration:      60,
		PatientID:            "patient-1",
		PatientStatus:        ParticipantNeedsAction,
		PractitionerID:       "practitioner-1",
		PractitionerStatus:   ParticipantNeedsAction,
		PractitionerRequired: RequiredDefault,
		CreatedAt:            testNow,
	}
}

func TestService_Create_Success(t *testing.T) {
	repo := &mockRepository{
		createFunc: func(ctx context.Context, a *Appointment) (*Appointment, error) {
			a.ID = "appt-1"
			return a, nil
		},
	}
	service := newTestService(repo, nil)

	a := testAppointment(StatusProposed)
	a.ID = ""

	created, err := service.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != "appt-1" {
		t.Errorf("Expected ID appt-1, got %s", created.ID)
	}
}

func TestService_Create_Validation(t *testing.T) {
	service := newTestService(&mockRepository{}, nil)

	tests := []struct {
		name    string
		mutate  func(a *Appointment)
		wantErr error
	}{
		{"end before start", func(a *Appointment) { a.End = a.Start.Add(-time.Hour) }, ErrEndBeforeStart},
		{"end equals start", func(a *Appointment) { a.End = a.Start }, ErrEndBeforeStart},
		{"start in past", func(a *Appointment) {
			a.Start = testNow.Add(-time.Hour)
			a.End = testNow.Add(time.Hour)
		}, ErrStartInPast},
		{"too long", func(a *Appointment) { a.End = a.Start.Add(25 * time.Hour) }, ErrDurationTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAppointment(StatusProposed)
			tt.mutate(a)

			_, err := service.Create(context.Background(), a)
			if err != tt.wantErr {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestService_Create_StartWithinGraceAllowed(t *testing.T) {
	repo := &mockRepository{
		createFunc: func(ctx context.Context, a *Appointment) (*Appointment, error) {
			return a, nil
		},
	}
	service := newTestService(repo, nil)

	a := testAppointment(StatusBooked)
	a.Start = testNow.Add(-2 * time.Minute)
	a.End = testNow.Add(time.Hour)

	if _, err := service.Create(context.Background(), a); err != nil {
		t.Errorf("Expected start within grace period to be accepted, got %v", err)
	}
}

func TestService_Create_Conflict(t *testing.T) {
	repo := &mockRepository{
		findConflictsFunc: func(ctx context.Context, practitionerID string, start, end time.Time, excludeID string) ([]string, error) {
			return []string{"other-appt"}, nil
		},
	}
	service := newTestService(repo, nil)

	_, err := service.Create(context.Background(), testAppointment(StatusProposed))
	if err != ErrTimeConflict {
		t.Errorf("Expected ErrTimeConflict, got %v", err)
	}
}

func TestService_Create_BookedPublishesEvent(t *testing.T) {
	publisher := testutil.NewMockPublisher()
	repo := &mockRepository{
		createFunc: func(ctx context.Context, a *Appointment) (*Appointment, error) {
			return a, nil
		},
	}
	service := newTestService(repo, publisher)

	if _, err := service.Create(context.Background(), testAppointment(StatusBooked)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	publisher.AssertEventCount(t, messaging.EventAppointmentBooked, 1)
}

func TestService_Update_InvalidTransition(t *testing.T) {
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*Appointment, error) {
			return testAppointment(StatusFulfilled), nil
		},
	}
	service := newTestService(repo, nil)

	a := testAppointment(StatusBooked)

	_, err := service.Update(context.Background(), a)
	if err != ErrInvalidTransition {
		t.Errorf("Expected ErrInvalidTransition, got %v", err)
	}
}

func TestService_Update_UnchangedStartSkipsPastCheck(t *testing.T) {
	existing := testAppointment(StatusBooked)
	existing.Start = testNow.Add(-2 * time.Hour)
	existing.End = testNow.Add(-time.Hour)

	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*Appointment, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, a *Appointment) (*Appointment, error) {
			return a, nil
		},
	}
	service := newTestService(repo, nil)

	a := *existing
	a.Comment = "updated notes"

	if _, err := service.Update(context.Background(), &a); err != nil {
		t.Errorf("Expected update keeping past start to succeed, got %v", err)
	}
}

func TestService_Book_FromProposed(t *testing.T) {
	var gotExcludeID string
	conflictChecks := 0
	publisher := testutil.NewMockPublisher()
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*Appointment, error) {
			return testAppointment(StatusProposed), nil
		},
		findConflictsFunc: func(ctx context.Context, practitionerID string, start, end time.Time, excludeID string) ([]string, error) {
			conflictChecks++
			gotExcludeID = excludeID
			return nil, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, upd StatusUpdate) (*Appointment, error) {
			a := testAppointment(upd.Status)
			a.PatientStatus = upd.PatientStatus
			a.PractitionerStatus = upd.PractitionerStatus
			return a, nil
		},
	}
	service := newTestService(repo, publisher)

	booked, err := service.Book(context.Background(), "appt-1")
	if err != nil {
		t.Fatalf("Book failed: %v", err)
	}
	if booked.Status != StatusBooked {
		t.Errorf("Expected status booked, got %s", booked.Status)
	}
	if booked.PatientStatus != ParticipantAccepted || booked.PractitionerStatus != ParticipantAccepted {
		t.Errorf("Expected both participants accepted, got %s/%s", booked.PatientStatus, booked.PractitionerStatus)
	}
	if conflictChecks != 1 {
		t.Errorf("Expected one conflict check at booking time, got %d", conflictChecks)
	}
	if gotExcludeID != "appt-1" {
		t.Errorf("Expected conflict check to exclude the appointment itself, got %q", gotExcludeID)
	}

	publisher.AssertEventPublished(t, messaging.EventAppointmentBooked)
}

func TestService_Book_SlotTaken(t *testing.T) {
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*Appointment, error) {
			return testAppointment(StatusPending), nil
		},
		findConflictsFunc: func(ctx context.Context, practitionerID string, start, end time.Time, excludeID string) ([]string, error) {
			return []string{"other-appt"}, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, upd StatusUpdate) (*Appointment, error) {
			t.Fatal("Expected no status write when the slot is taken")
			return nil, nil
		},
	}
	service := newTestService(repo, nil)

	_, err := service.Book(context.Background(), "appt-1")
	if err != ErrTimeConflict {
		t.Errorf("Expected ErrTimeConflict, got %v", err)
	}
}

func TestService_Book_FromWaitlistRejected(t *testing.T) {
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*Appointment, error) {
			return testAppointment(StatusWaitlist), nil
		},
	}
	service := newTestService(repo, nil)

	_, err := service.Book(context.Background(), "appt-1")
	if err != ErrBookFromStatus {
		t.Errorf("Expected ErrBookFromStatus, got %v", err)
	}
}

func TestService_Cancel_CarriesReason(t *testing.T) {
	var gotReason string
	publisher := testutil.NewMockPublisher()
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*Appointment, error) {
			return testAppointment(StatusBooked), nil
		},
		updateStatusFunc: func(ctx context.Context, id string, upd StatusUpdate) (*Appointment, error) {
			gotReason = upd.CancellationReason
			a := testAppointment(upd.Status)
			a.CancellationReason = upd.CancellationReason
			return a, nil
		},
	}
	service := newTestService(repo, publisher)

	if _, err := service.Cancel(context.Background(), "appt-1", "patient request"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if gotReason != "patient request" {
		t.Errorf("Expected reason to reach the repository, got %q", gotReason)
	}

	event := publisher.GetLastEventByKey(messaging.EventAppointmentCancelled)
	if event == nil {
		t.Fatal("Expected cancellation event")
	}
	if event.EventData.(messaging.AppointmentEvent).Data.Reason != "patient request" {
		t.Error("Expected reason in the published event")
	}
}

func TestService_Cancel_AfterVisitStartedRejected(t *testing.T) {
	for _, status := range []string{StatusArrived, StatusCheckedIn} {
		t.Run(status, func(t *testing.T) {
			repo := &mockRepository{
				getFunc: func(ctx context.Context, id string) (*Appointment, error) {
					return testAppointment(status), nil
				},
			}
			service := newTestService(repo, nil)

			_, err := service.Cancel(context.Background(), "appt-1", "changed my mind")
			if err != ErrCancelFromStatus {
				t.Errorf("Expected ErrCancelFromStatus, got %v", err)
			}
		})
	}
}

func TestService_CheckIn(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"within window", StatusBooked, testNow.Add(20 * time.Minute), testNow.Add(80 * time.Minute), nil},
		{"at window edge", StatusBooked, testNow.Add(CheckInWindow), testNow.Add(2 * time.Hour), nil},
		{"too early", StatusBooked, testNow.Add(45 * time.Minute), testNow.Add(2 * time.Hour), ErrCheckInOutsideWindow},
		{"already ended", StatusBooked, testNow.Add(-2 * time.Hour), testNow.Add(-time.Hour), ErrCheckInOutsideWindow},
		{"not booked", StatusProposed, testNow.Add(10 * time.Minute), testNow.Add(time.Hour), ErrCheckInNotBooked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAppointment(tt.status)
			a.Start = tt.start
			a.End = tt.end

			repo := &mockRepository{
				getFunc: func(ctx context.Context, id string) (*Appointment, error) {
					return a, nil
				},
				updateStatusFunc: func(ctx context.Context, id string, upd StatusUpdate) (*Appointment, error) {
					updated := *a
					updated.Status = upd.Status
					if upd.PatientStatus != "" {
						updated.PatientStatus = upd.PatientStatus
					}
					return &updated, nil
				},
			}
			service := newTestService(repo, nil)

			updated, err := service.CheckIn(context.Background(), "appt-1")
			if err != tt.wantErr {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil {
				if updated.Status != StatusCheckedIn {
					t.Errorf("Expected status checked-in, got %s", updated.Status)
				}
				if updated.PatientStatus != ParticipantAccepted {
					t.Errorf("Expected patient accepted on check-in, got %s", updated.PatientStatus)
				}
			}
		})
	}
}

func TestService_NoShow_BeforeEndRejected(t *testing.T) {
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*Appointment, error) {
			return testAppointment(StatusBooked), nil
		},
	}
	service := newTestService(repo, nil)

	_, err := service.NoShow(context.Background(), "appt-1")
	if err != ErrNoShowBeforeEnd {
		t.Errorf("Expected ErrNoShowBeforeEnd, got %v", err)
	}
}

func TestService_NoShow_AfterEnd(t *testing.T) {
	a := testAppointment(StatusBooked)
	a.Start = testNow.Add(-3 * time.Hour)
	a.End = testNow.Add(-2 * time.Hour)

	publisher := testutil.NewMockPublisher()
	repo := &mockRepository{
		getFunc: func(ctx context.Context, id string) (*Appointment, error) {
			return a, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, upd StatusUpdate) (*Appointment, error) {
			updated := *a
			updated.Status = upd.Status
			return &updated, nil
		},
	}
	service := newTestService(repo, publisher)

	updated, err := service.NoShow(context.Background(), "appt-1")
	if err != nil {
		t.Fatalf("NoShow failed: %v", err)
	}
	if updated.Status != StatusNoShow {
		t.Errorf("Expected status noshow, got %s", updated.Status)
	}

	publisher.AssertEventPublished(t, messaging.EventAppointmentNoShow)
}

func TestService_Delete(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *Appointment)
		wantErr error
	}{
		{"future booked", func(a *Appointment) {}, nil},
		{"fulfilled", func(a *Appointment) { a.Status = StatusFulfilled }, ErrDeleteFulfilled},
		{"past booked", func(a *Appointment) {
			a.Start = testNow.Add(-2 * time.Hour)
			a.End = testNow.Add(-time.Hour)
		}, ErrDeletePast},
		{"started booked", func(a *Appointment) {
			a.Start = testNow.Add(-30 * time.Minute)
			a.End = testNow.Add(30 * time.Minute)
		}, ErrDeletePast},
		{"past cancelled", func(a *Appointment) {
			a.Status = StatusCancelled
			a.Start = testNow.Add(-2 * time.Hour)
			a.End = testNow.Add(-time.Hour)
		}, nil},
		{"past noshow", func(a *Appointment) {
			a.Status = StatusNoShow
			a.Start = testNow.Add(-2 * time.Hour)
			a.End = testNow.Add(-time.Hour)
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAppointment(StatusBooked)
			tt.mutate(a)

			repo := &mockRepository{
				getFunc: func(ctx context.Context, id string) (*Appointment, error) {
					return a, nil
				},
				deleteFunc: func(ctx context.Context, id string) error {
					return nil
				},
			}
			service := newTestService(repo, nil)

			err := service.Delete(context.Background(), "appt-1")
			if err != tt.wantErr {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestService_Availability_CachesResult(t *testing.T) {
	calls := 0
	repo := &mockRepository{
		findConflictsFunc: func(ctx context.Context, practitionerID string, start, end time.Time, excludeID string) ([]string, error) {
			calls++
			return []string{"busy-appt"}, nil
		},
	}
	service := newTestService(repo, nil)

	start := testNow.Add(time.Hour)
	end := testNow.Add(2 * time.Hour)

	first, err := service.Availability(context.Background(), "practitioner-1", start, end, "")
	if err != nil {
		t.Fatalf("Availability failed: %v", err)
	}
	if first.Available {
		t.Error("Expected slot to be unavailable")
	}
	if len(first.ConflictIDs) != 1 || first.ConflictIDs[0] != "busy-appt" {
		t.Errorf("Unexpected conflicts: %v", first.ConflictIDs)
	}

	second, err := service.Availability(context.Background(), "practitioner-1", start, end, "")
	if err != nil {
		t.Fatalf("Availability failed: %v", err)
	}
	if second.Available {
		t.Error("Expected cached result to match")
	}
	if calls != 1 {
		t.Errorf("Expected one repository call, got %d", calls)
	}
}

func TestService_Availability_InvalidRange(t *testing.T) {
	service := newTestService(&mockRepository{}, nil)

	_, err := service.Availability(context.Background(), "", testNow, testNow.Add(time.Hour), "")
	if err != ErrInvalidAvailabilityRange {
		t.Errorf("Expected ErrInvalidAvailabilityRange, got %v", err)
	}

	_, err = service.Availability(context.Background(), "practitioner-1", testNow.Add(time.Hour), testNow, "")
	if err != ErrInvalidAvailabilityRange {
		t.Errorf("Expected ErrInvalidAvailabilityRange, got %v", err)
	}
}

func TestService_Upcoming_SetsWindowAndStatuses(t *testing.T) {
	var gotFilters Filters
	repo := &mockRepository{
		listFunc: func(ctx context.Context, f Filters, limit, offset int) ([]Appointment, int, error) {
			gotFilters = f
			return nil, 0, nil
		},
	}
	service := newTestService(repo, nil)

	if _, err := service.Upcoming(context.Background(), Filters{}, pagination.Params{}); err != nil {
		t.Fatalf("Upcoming failed: %v", err)
	}

	if gotFilters.From == nil || !gotFilters.From.Equal(testNow) {
		t.Errorf("Expected window start at now, got %v", gotFilters.From)
	}
	if gotFilters.To == nil || !gotFilters.To.Equal(testNow.Add(UpcomingHorizon)) {
		t.Errorf("Expected window end 30 days out, got %v", gotFilters.To)
	}
	if len(gotFilters.Statuses) != len(upcomingStatuses) {
		t.Errorf("Expected upcoming statuses, got %v", gotFilters.Statuses)
	}
}

func TestService_Today_SetsDayWindow(t *testing.T) {
	var gotFilters Filters
	repo := &mockRepository{
		listFunc: func(ctx context.Context, f Filters, limit, offset int) ([]Appointment, int, error) {
			gotFilters = f
			return nil, 0, nil
		},
	}
	service := newTestService(repo, nil)

	if _, err := service.Today(context.Background(), Filters{}, pagination.Params{}); err != nil {
		t.Fatalf("Today failed: %v", err)
	}

	wantStart := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	if gotFilters.From == nil || !gotFilters.From.Equal(wantStart) {
		t.Errorf("Expected window start at midnight, got %v", gotFilters.From)
	}
	if gotFilters.To == nil || !gotFilters.To.Equal(wantStart.Add(24*time.Hour)) {
		t.Errorf("Expected window end at next midnight, got %v", gotFilters.To)
	}
}

func TestStatistics_TotalsByStatus(t *testing.T) {
	var gotFrom, gotTo *time.Time
	repo := &mockRepository{
		countByStatusFunc: func(ctx context.Context, from, to *time.Time) (map[string]int, error) {
			gotFrom, gotTo = from, to
			return map[string]int{
				StatusBooked:    4,
				StatusFulfilled: 2,
				StatusCancelled: 1,
			}, nil
		},
	}
	service := newTestService(repo, nil)

	from := testNow.Add(-30 * 24 * time.Hour)
	to := testNow

	stats, err := service.Statistics(context.Background(), &from, &to)
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}

	if stats.Total != 7 {
		t.Errorf("Expected total 7, got %d", stats.Total)
	}
	if stats.ByStatus[StatusBooked] != 4 {
		t.Errorf("Expected 4 booked, got %d", stats.ByStatus[StatusBooked])
	}
	if gotFrom == nil || !gotFrom.Equal(from) || gotTo == nil || !gotTo.Equal(to) {
		t.Errorf("Expected range passed through, got %v..%v", gotFrom, gotTo)
	}
}

func TestStatistics_InvalidRange(t *testing.T) {
	repo := &mockRepository{}
	service := newTestService(repo, nil)

	from := testNow
	to := testNow.Add(-time.Hour)

	if _, err := service.Statistics(context.Background(), &from, &to); !errors.Is(err, ErrInvalidStatisticsRange) {
		t.Errorf("Expected ErrInvalidStatisticsRange, got %v", err)
	}
}
