package doctor_dashboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgMissingActor    = "отсутствует ID пользователя"
	msgForbidden       = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/dashboard
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/dashboard - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		h.logger.Warn("GET /doctors/{id}/dashboard - Missing actor ID")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}
	actorRole, _ := middleware.GetActorRole(r.Context())

	result, err := h.service.GetDoctorDashboard(r.Context(), doctorID, actorID, actorRole)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /doctors/{id}/dashboard - Access denied: doctor_id=%d, actor_id=%d",
				doctorID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /doctors/{id}/dashboard - Invalid input: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondBadRequest(w, msgInvalidDoctorID)

		default:
			h.logger.Error("GET /doctors/{id}/dashboard - Failed to build dashboard: doctor_id=%d, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{id}/dashboard - Dashboard built: doctor_id=%d, appointments=%d",
		doctorID, result.TotalAppointments)
	handlers.RespondJSON(w, http.StatusOK, result)
}
