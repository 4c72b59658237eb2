package http

import (
	"net/http"

	"go-hospital-directory/internal/delivery/http/handler"
	"go-hospital-directory/internal/delivery/http/middleware"
	"go-hospital-directory/pkg/metrics"

	"github.com/gorilla/mux"
)

// uuidPattern keeps /hospitals/top and friends from matching {id}
const uuidPattern = "{id:[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}}"

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	providerHandler     *handler.ProviderHandler
	registrationHandler *handler.RegistrationHandler
	specialtyHandler    *handler.SpecialtyHandler
	appointmentHandler  *handler.AppointmentHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
	metrics             *metrics.Metrics
}

func NewRouter(
	authHandler *handler.AuthHandler,
	providerHandler *handler.ProviderHandler,
	registrationHandler *handler.RegistrationHandler,
	specialtyHandler *handler.SpecialtyHandler,
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	m *metrics.Metrics,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		providerHandler:     providerHandler,
		registrationHandler: registrationHandler,
		specialtyHandler:    specialtyHandler,
		appointmentHandler:  appointmentHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		loggingMiddleware:   loggingMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
		metrics:             m,
	}
}

func (r *Router) admin(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(middleware.RequireAdmin(h))
}

func (r *Router) patient(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(middleware.RequirePatient(h))
}

func (r *Router) Setup() http.Handler {
	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.rateLimitMiddleware.Handle)

	r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Directory
	api.HandleFunc("/hospitals", r.providerHandler.ListProviders).Methods(http.MethodGet)
	api.HandleFunc("/hospitals/top", r.providerHandler.TopHospitals).Methods(http.MethodGet)
	api.HandleFunc("/hospitals/doctors", r.providerHandler.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/hospitals/register", r.registrationHandler.Register).Methods(http.MethodPost)
	api.Handle("/hospitals/register/bulk", r.admin(r.registrationHandler.RegisterBulk)).Methods(http.MethodPost)
	api.Handle("/hospitals/location", r.admin(r.providerHandler.UpdateLocation)).Methods(http.MethodPost)
	api.HandleFunc("/hospitals/"+uuidPattern, r.providerHandler.GetProvider).Methods(http.MethodGet)
	api.Handle("/hospitals/"+uuidPattern, r.admin(r.registrationHandler.DeleteProvider)).Methods(http.MethodDelete)
	api.HandleFunc("/hospitals/"+uuidPattern+"/timings", r.providerHandler.GetTimings).Methods(http.MethodGet)
	api.Handle("/hospitals/"+uuidPattern+"/timings", r.admin(r.providerHandler.UpdateTimings)).Methods(http.MethodPut)
	api.Handle("/hospitals/"+uuidPattern+"/approval", r.admin(r.providerHandler.SetApproval)).Methods(http.MethodPatch)
	api.Handle("/hospitals/"+uuidPattern+"/ratings", r.patient(r.providerHandler.AddRating)).Methods(http.MethodPost)

	// Specialties
	api.HandleFunc("/speciality", r.specialtyHandler.ListSpecialties).Methods(http.MethodGet)
	api.Handle("/speciality", r.admin(r.specialtyHandler.CreateSpecialty)).Methods(http.MethodPost)
	api.HandleFunc("/speciality/top", r.specialtyHandler.TopSpecialties).Methods(http.MethodGet)

	// Appointments (protected)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Handle("", middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.Book))).Methods(http.MethodPost)
	appointments.Handle("/me", middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.ListMine))).Methods(http.MethodGet)
	appointments.Handle("/"+uuidPattern+"/cancel", middleware.RequirePatient(http.HandlerFunc(r.appointmentHandler.Cancel))).Methods(http.MethodPost)
	appointments.Handle("/"+uuidPattern+"/status", middleware.RequireAdmin(http.HandlerFunc(r.appointmentHandler.UpdateStatus))).Methods(http.MethodPatch)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/reconcile", r.registrationHandler.ReconcileCounts).Methods(http.MethodPost)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// CORS wraps the router so preflight requests never reach route matching
	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
