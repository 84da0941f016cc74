package http

import (
	"net/http"

	"github.com/khallude/healthify-booking/internal/delivery/http/handler"
	"github.com/khallude/healthify-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	appointmentHandler *handler.AppointmentHandler
	reminderHandler    *handler.ReminderHandler
	doctorHandler      *handler.DoctorHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	appointmentHandler *handler.AppointmentHandler,
	reminderHandler *handler.ReminderHandler,
	doctorHandler *handler.DoctorHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		appointmentHandler: appointmentHandler,
		reminderHandler:    reminderHandler,
		doctorHandler:      doctorHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Doctor directory (any authenticated user)
	doctors := api.PathPrefix("/doctors").Subrouter()
	doctors.Use(r.authMiddleware.Authenticate)
	doctors.HandleFunc("", r.doctorHandler.GetDoctors).Methods(http.MethodGet)
	doctors.HandleFunc("/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	doctors.HandleFunc("/{doctorId}/slots", r.appointmentHandler.GetAvailableSlots).Methods(http.MethodGet)

	// Appointment booking (patients)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.Use(middleware.RequirePatient)
	appointments.HandleFunc("", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)
	appointments.HandleFunc("", r.appointmentHandler.GetMyAppointments).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.EditAppointment).Methods(http.MethodPut)
	appointments.HandleFunc("/{id}", r.appointmentHandler.DeleteAppointment).Methods(http.MethodDelete)

	// Appointment review (doctors)
	review := api.PathPrefix("/appointments").Subrouter()
	review.Use(r.authMiddleware.Authenticate)
	review.Use(middleware.RequireDoctor)
	review.HandleFunc("/{id}/status", r.appointmentHandler.UpdateAppointmentStatus).Methods(http.MethodPatch)

	// Schedule configuration (doctors)
	schedule := api.PathPrefix("/schedule").Subrouter()
	schedule.Use(r.authMiddleware.Authenticate)
	schedule.Use(middleware.RequireDoctor)
	schedule.HandleFunc("", r.doctorHandler.UpdateMySchedule).Methods(http.MethodPut)

	// Reminders (patients)
	reminders := api.PathPrefix("/reminders").Subrouter()
	reminders.Use(r.authMiddleware.Authenticate)
	reminders.Use(middleware.RequirePatient)
	reminders.HandleFunc("", r.reminderHandler.CreateReminder).Methods(http.MethodPost)
	reminders.HandleFunc("", r.reminderHandler.GetMyReminders).Methods(http.MethodGet)
	reminders.HandleFunc("/{id}", r.reminderHandler.DeleteReminder).Methods(http.MethodDelete)

	// Doctor account review (admin)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/doctors/{id}/status", r.doctorHandler.UpdateDoctorStatus).Methods(http.MethodPatch)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
