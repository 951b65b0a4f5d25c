package get_health_records

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HMS-AppointmentService/internal/service/healthrecords"
)

const (
	msgInvalidPatientID     = "некорректный ID пациента"
	msgInvalidAppointmentID = "некорректный ID приёма"
	msgMissingActor         = "отсутствует ID пользователя"
	msgAppointmentNotFound  = "приём не найден"
	msgForbidden            = "доступ запрещен"
)

type Handler struct {
	service HealthRecordService
	logger  Logger
}

func NewHandler(service HealthRecordService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleByPatient GET /api/v1/patients/{patientId}/health-records
func (h *Handler) HandleByPatient(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientID, err := strconv.ParseInt(vars["patientId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /patients/{id}/health-records - Invalid patient ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPatientID)
		return
	}

	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		h.logger.Warn("GET /patients/{id}/health-records - Missing actor ID")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}
	actorRole, _ := middleware.GetActorRole(r.Context())

	result, err := h.service.GetByPatient(r.Context(), patientID, actorID, actorRole)
	if err != nil {
		switch {
		case errors.Is(err, healthrecords.ErrAccessDenied):
			h.logger.Warn("GET /patients/{id}/health-records - Access denied: patient_id=%d, actor_id=%d",
				patientID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, healthrecords.ErrInvalidInput):
			h.logger.Warn("GET /patients/{id}/health-records - Invalid input: patient_id=%d, error=%v",
				patientID, err)
			handlers.RespondBadRequest(w, msgInvalidPatientID)

		default:
			h.logger.Error("GET /patients/{id}/health-records - Failed to get records: patient_id=%d, error=%v",
				patientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /patients/{id}/health-records - Retrieved %d records: patient_id=%d",
		len(result.Records), patientID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleByAppointment GET /api/v1/appointments/{appointmentId}/health-records
func (h *Handler) HandleByAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/{id}/health-records - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/{id}/health-records - Missing actor ID")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}
	actorRole, _ := middleware.GetActorRole(r.Context())

	result, err := h.service.GetByAppointment(r.Context(), appointmentID, actorID, actorRole)
	if err != nil {
		switch {
		case errors.Is(err, healthrecords.ErrAppointmentNotFound):
			h.logger.Warn("GET /appointments/{id}/health-records - Appointment not found: appointment_id=%d",
				appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, healthrecords.ErrAccessDenied):
			h.logger.Warn("GET /appointments/{id}/health-records - Access denied: appointment_id=%d, actor_id=%d",
				appointmentID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, healthrecords.ErrInvalidInput):
			h.logger.Warn("GET /appointments/{id}/health-records - Invalid input: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidAppointmentID)

		default:
			h.logger.Error("GET /appointments/{id}/health-records - Failed to get records: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/{id}/health-records - Retrieved %d records: appointment_id=%d",
		len(result.Records), appointmentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
