package http

import (
	"database/sql"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/clinicore/patient-management-service/internal/appointment"
	"github.com/clinicore/patient-management-service/internal/assistant"
	"github.com/clinicore/patient-management-service/internal/auth"
	"github.com/clinicore/patient-management-service/internal/billing"
	"github.com/clinicore/patient-management-service/internal/cache"
	"github.com/clinicore/patient-management-service/internal/clinic"
	"github.com/clinicore/patient-management-service/internal/clinicalrecord"
	"github.com/clinicore/patient-management-service/internal/messaging"
	"github.com/clinicore/patient-management-service/internal/patient"
	"github.com/clinicore/patient-management-service/internal/practitioner"
	"github.com/clinicore/patient-management-service/internal/prescription"
	"github.com/clinicore/patient-management-service/internal/report"
	"github.com/clinicore/patient-management-service/internal/telemetry"
)

// Deps holds the shared infrastructure the router wires into every handler
type Deps struct {
	DB         *sql.DB
	Cache      cache.Store
	Publisher  messaging.PublisherInterface
	Verifier   *auth.Verifier
	Issuer     *auth.TokenIssuer
	Perms      auth.Permissions
	Metrics    *telemetry.Metrics
	ChatClient assistant.ChatClient
}

// SetupRouter initializes all routes for the application
func SetupRouter(deps Deps) *mux.Router {
	var (
		apptMetrics   appointment.MetricsRecorder
		reportMetrics report.MetricsRecorder
		chatMetrics   assistant.MetricsRecorder
		authMetrics   auth.MetricsRecorder
		permMetrics   auth.PermissionMetricsRecorder
		httpMetrics   MetricsRecorder
	)
	if deps.Metrics != nil {
		apptMetrics = deps.Metrics
		reportMetrics = deps.Metrics
		chatMetrics = deps.Metrics
		authMetrics = deps.Metrics
		permMetrics = deps.Metrics
		httpMetrics = deps.Metrics
	}

	authService := auth.NewService(auth.NewRepository(deps.DB), deps.Issuer, deps.Verifier, deps.Cache)
	authHandler := auth.NewHandler(authService)

	patientHandler := patient.NewHandler(
		patient.NewService(patient.NewRepository(deps.DB), deps.Publisher))
	practitionerHandler := practitioner.NewHandler(
		practitioner.NewService(practitioner.NewRepository(deps.DB)))
	appointmentHandler := appointment.NewHandler(
		appointment.NewService(appointment.NewRepository(deps.DB), deps.Cache, deps.Publisher, apptMetrics))
	prescriptionHandler := prescription.NewHandler(
		prescription.NewService(prescription.NewRepository(deps.DB), deps.Publisher))
	recordHandler := clinicalrecord.NewHandler(
		clinicalrecord.NewService(clinicalrecord.NewRepository(deps.DB)))
	invoiceHandler := billing.NewHandler(
		billing.NewService(billing.NewRepository(deps.DB), deps.Publisher))

	clinicService := clinic.NewService(clinic.NewRepository(deps.DB))
	clinicHandler := clinic.NewHandler(clinicService)

	reportHandler := report.NewHandler(report.NewService(
		report.NewRepository(deps.DB), report.NewDataProvider(deps.DB), clinicService, reportMetrics))

	assistantHandler := assistant.NewHandler(assistant.NewService(
		deps.Cache, assistant.NewStatsProvider(deps.DB), deps.ChatClient, chatMetrics))

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("patient-management-service"))
	r.Use(MetricsMiddleware(httpMetrics))

	// protect authenticates the request and enforces a permission
	protect := func(perm string, h http.HandlerFunc) http.Handler {
		return auth.MiddlewareWithMetrics(deps.Verifier, authMetrics)(
			auth.RequirePermissionWithMetrics(perm, deps.Perms, permMetrics)(h))
	}
	// authenticated requires a valid token without a specific permission
	authenticated := func(h http.HandlerFunc) http.Handler {
		return auth.MiddlewareWithMetrics(deps.Verifier, authMetrics)(h)
	}

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"patient-management-service"}`))
	}).Methods("GET")

	// Auth routes
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/token/refresh", authHandler.Refresh).Methods("POST")
	r.HandleFunc("/api/auth/token/verify", authHandler.VerifyToken).Methods("POST")
	r.Handle("/api/auth/logout", authenticated(authHandler.Logout)).Methods("POST")
	r.Handle("/api/auth/change-password", authenticated(authHandler.ChangePassword)).Methods("POST")
	r.Handle("/api/auth/profile", authenticated(authHandler.GetProfile)).Methods("GET")
	r.Handle("/api/auth/profile", authenticated(authHandler.UpdateProfile)).Methods("PUT")

	// Patient routes
	r.Handle("/fhir/Patient", protect("patient:create", patientHandler.CreatePatient)).Methods("POST")
	r.Handle("/fhir/Patient", protect("patient:view", patientHandler.ListPatients)).Methods("GET")
	r.Handle("/fhir/Patient/{id}", protect("patient:view", patientHandler.GetPatient)).Methods("GET")
	r.Handle("/fhir/Patient/{id}", protect("patient:update", patientHandler.UpdatePatient)).Methods("PUT")
	r.Handle("/fhir/Patient/{id}", protect("patient:delete", patientHandler.DeletePatient)).Methods("DELETE")

	// Practitioner routes
	r.Handle("/fhir/Practitioner", protect("practitioner:create", practitionerHandler.CreatePractitioner)).Methods("POST")
	r.Handle("/fhir/Practitioner", protect("practitioner:view", practitionerHandler.ListPractitioners)).Methods("GET")
	r.Handle("/fhir/Practitioner/search", protect("practitioner:view", practitionerHandler.SearchPractitioners)).Methods("GET")
	r.Handle("/fhir/Practitioner/{id}", protect("practitioner:view", practitionerHandler.GetPractitioner)).Methods("GET")
	r.Handle("/fhir/Practitioner/{id}", protect("practitioner:update", practitionerHandler.UpdatePractitioner)).Methods("PUT")
	r.Handle("/fhir/Practitioner/{id}", protect("practitioner:delete", practitionerHandler.DeletePractitioner)).Methods("DELETE")

	// Appointment routes. The collection subresources are registered before
	// the {id} routes so mux matches them first.
	r.Handle("/fhir/Appointment", protect("appointment:create", appointmentHandler.CreateAppointment)).Methods("POST")
	r.Handle("/fhir/Appointment", protect("appointment:view", appointmentHandler.ListAppointments)).Methods("GET")
	r.Handle("/fhir/Appointment/availability", protect("appointment:view", appointmentHandler.GetAvailability)).Methods("GET")
	r.Handle("/fhir/Appointment/upcoming", protect("appointment:view", appointmentHandler.ListUpcomingAppointments)).Methods("GET")
	r.Handle("/fhir/Appointment/today", protect("appointment:view", appointmentHandler.ListTodayAppointments)).Methods("GET")
	r.Handle("/fhir/Appointment/statistics", protect("appointment:view", appointmentHandler.GetStatistics)).Methods("GET")
	r.Handle("/fhir/Appointment/{id}", protect("appointment:view", appointmentHandler.GetAppointment)).Methods("GET")
	r.Handle("/fhir/Appointment/{id}", protect("appointment:update", appointmentHandler.UpdateAppointment)).Methods("PUT")
	r.Handle("/fhir/Appointment/{id}", protect("appointment:delete", appointmentHandler.DeleteAppointment)).Methods("DELETE")
	r.Handle("/fhir/Appointment/{id}/book", protect("appointment:update", appointmentHandler.BookAppointment)).Methods("POST")
	r.Handle("/fhir/Appointment/{id}/cancel", protect("appointment:update", appointmentHandler.CancelAppointment)).Methods("POST")
	r.Handle("/fhir/Appointment/{id}/check-in", protect("appointment:update", appointmentHandler.CheckInAppointment)).Methods("POST")
	r.Handle("/fhir/Appointment/{id}/arrive", protect("appointment:update", appointmentHandler.ArriveAppointment)).Methods("POST")
	r.Handle("/fhir/Appointment/{id}/fulfill", protect("appointment:update", appointmentHandler.FulfillAppointment)).Methods("POST")
	r.Handle("/fhir/Appointment/{id}/no-show", protect("appointment:update", appointmentHandler.NoShowAppointment)).Methods("POST")

	// Prescription routes
	r.Handle("/fhir/MedicationRequest", protect("prescription:create", prescriptionHandler.CreatePrescription)).Methods("POST")
	r.Handle("/fhir/MedicationRequest", protect("prescription:view", prescriptionHandler.ListPrescriptions)).Methods("GET")
	r.Handle("/fhir/MedicationRequest/{id}", protect("prescription:view", prescriptionHandler.GetPrescription)).Methods("GET")
	r.Handle("/fhir/MedicationRequest/{id}", protect("prescription:update", prescriptionHandler.UpdatePrescription)).Methods("PUT")
	r.Handle("/fhir/MedicationRequest/{id}", protect("prescription:delete", prescriptionHandler.DeletePrescription)).Methods("DELETE")

	// Clinical record routes
	r.Handle("/fhir/ClinicalRecord", protect("record:create", recordHandler.CreateRecord)).Methods("POST")
	r.Handle("/fhir/ClinicalRecord", protect("record:view", recordHandler.ListRecords)).Methods("GET")
	r.Handle("/fhir/ClinicalRecord/{id}", protect("record:view", recordHandler.GetRecord)).Methods("GET")
	r.Handle("/fhir/ClinicalRecord/{id}", protect("record:update", recordHandler.UpdateRecord)).Methods("PUT")
	r.Handle("/fhir/ClinicalRecord/{id}", protect("record:delete", recordHandler.DeleteRecord)).Methods("DELETE")

	// Invoice routes
	r.Handle("/fhir/Invoice", protect("invoice:create", invoiceHandler.CreateInvoice)).Methods("POST")
	r.Handle("/fhir/Invoice", protect("invoice:view", invoiceHandler.ListInvoices)).Methods("GET")
	r.Handle("/fhir/Invoice/{id}", protect("invoice:view", invoiceHandler.GetInvoice)).Methods("GET")
	r.Handle("/fhir/Invoice/{id}", protect("invoice:update", invoiceHandler.UpdateInvoice)).Methods("PUT")
	r.Handle("/fhir/Invoice/{id}", protect("invoice:delete", invoiceHandler.DeleteInvoice)).Methods("DELETE")
	r.Handle("/fhir/Invoice/{id}/payments", protect("invoice:update", invoiceHandler.RecordPayment)).Methods("POST")

	// Report routes
	r.Handle("/api/reports", protect("report:create", reportHandler.CreateReport)).Methods("POST")
	r.Handle("/api/reports", protect("report:view", reportHandler.ListReports)).Methods("GET")
	r.Handle("/api/reports/options", protect("report:view", reportHandler.GetOptions)).Methods("GET")
	r.Handle("/api/reports/{id}", protect("report:view", reportHandler.GetReport)).Methods("GET")
	r.Handle("/api/reports/{id}", protect("report:delete", reportHandler.DeleteReport)).Methods("DELETE")
	r.Handle("/api/reports/{id}/download", protect("report:view", reportHandler.DownloadReport)).Methods("GET")

	// Assistant route
	r.Handle("/api/ai-chat", protect("assistant:use", assistantHandler.Chat)).Methods("POST")

	// Clinic settings routes
	r.Handle("/api/settings", authenticated(clinicHandler.GetSettings)).Methods("GET")
	r.Handle("/api/settings", protect("settings:update", clinicHandler.UpdateSettings)).Methods("PUT")

	return r
}
