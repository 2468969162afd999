package clinic

import (
	"context"
	"testing"
)

type mockRepository struct {
	getFunc  func(ctx context.Context) (*Settings, error)
	saveFunc func(ctx context.Context, s *Settings) (*Settings, error)
}

func (m *mockRepository) Get(ctx context.Context) (*Settings, error) {
	return m.getFunc(ctx)
}

func (m *mockRepository) Save(ctx context.Context, s *Settings) (*Settings, error) {
	return m.saveFunc(ctx, s)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func currentSettings() *Settings {
	return &Settings{
		ClinicName:     "Riverside Family Clinic",
		Address:        "12 Harbor Street",
		Phone:          "+1-555-0101",
		Email:          "front-desk@riverside.example",
		PrimaryColor:   "#1a5276",
		SecondaryColor: "#2e86c1",
		ReportFooter:   "Confidential",
		IncludeLogo:    false,
	}
}

func TestService_Update_PartialFields(t *testing.T) {
	var saved *Settings
	repo := &mockRepository{
		getFunc: func(ctx context.Context) (*Settings, error) {
			return currentSettings(), nil
		},
		saveFunc: func(ctx context.Context, s *Settings) (*Settings, error) {
			saved = s
			return s, nil
		},
	}
	service := NewService(repo)

	_, err := service.Update(context.Background(), UpdateRequest{
		ClinicName:  strPtr("Riverside Medical Group"),
		IncludeLogo: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if saved.ClinicName != "Riverside Medical Group" {
		t.Errorf("expected clinic name updated, got %q", saved.ClinicName)
	}
	if !saved.IncludeLogo {
		t.Error("expected include_logo set to true")
	}
	if saved.Address != "12 Harbor Street" {
		t.Errorf("expected address untouched, got %q", saved.Address)
	}
	if saved.PrimaryColor != "#1a5276" {
		t.Errorf("expected primary color untouched, got %q", saved.PrimaryColor)
	}
}

func TestService_Update_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     UpdateRequest
		wantErr error
	}{
		{
			name:    "bad primary color",
			req:     UpdateRequest{PrimaryColor: strPtr("blue")},
			wantErr: ErrInvalidColor,
		},
		{
			name:    "short hex",
			req:     UpdateRequest{SecondaryColor: strPtr("#fff")},
			wantErr: ErrInvalidColor,
		},
		{
			name:    "bad email",
			req:     UpdateRequest{Email: strPtr("front-desk")},
			wantErr: ErrInvalidEmail,
		},
	}

	repo := &mockRepository{
		getFunc: func(ctx context.Context) (*Settings, error) {
			return currentSettings(), nil
		},
	}
	service := NewService(repo)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Update(context.Background(), tt.req)
			if err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestService_Update_AllowsClearingEmail(t *testing.T) {
	repo := &mockRepository{
		getFunc: func(ctx context.Context) (*Settings, error) {
			return currentSettings(), nil
		},
		saveFunc: func(ctx context.Context, s *Settings) (*Settings, error) {
			return s, nil
		},
	}
	service := NewService(repo)

	updated, err := service.Update(context.Background(), UpdateRequest{Email: strPtr("")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Email != "" {
		t.Errorf("expected email cleared, got %q", updated.Email)
	}
}
