package clinic

import "time"

// Settings is the clinic-wide configuration row. Exactly one row exists,
// seeded by the schema migration.
type Settings struct {
	ClinicName     string     `json:"clinic_name"`
	Address        string     `json:"address"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	PrimaryColor   string     `json:"primary_color"`
	SecondaryColor string     `json:"secondary_color"`
	ReportFooter   string     `json:"report_footer"`
	IncludeLogo    bool       `json:"include_logo"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// UpdateRequest carries a partial settings update. Nil fields are left
// untouched.
type UpdateRequest struct {
	ClinicName     *string `json:"clinic_name,omitempty"`
	Address        *string `json:"address,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	PrimaryColor   *string `json:"primary_color,omitempty"`
	SecondaryColor *string `json:"secondary_color,omitempty"`
	ReportFooter   *string `json:"report_footer,omitempty"`
	IncludeLogo    *bool   `json:"include_logo,omitempty"`
}

// Apply overlays the non-nil request fields onto the settings
func (r *UpdateRequest) Apply(s *Settings) {
	if r.ClinicName != nil {
		s.ClinicName = *r.ClinicName
	}
	if r.Address != nil {
		s.Address = *r.Address
	}
	if r.Phone != nil {
		s.Phone = *r.Phone
	}
	if r.Email != nil {
		s.Email = *r.Email
	}
	if r.PrimaryColor != nil {
		s.PrimaryColor = *r.PrimaryColor
	}
	if r.SecondaryColor != nil {
		s.SecondaryColor = *r.SecondaryColor
	}
	if r.ReportFooter != nil {
		s.ReportFooter = *r.ReportFooter
	}
	if r.IncludeLogo != nil {
		s.IncludeLogo = *r.IncludeLogo
	}
}
