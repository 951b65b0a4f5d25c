package complete_appointment

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
	msgInvalidAppointmentID = "некорректный ID записи"
	msgMissingActor         = "отсутствует ID пользователя"
	msgNotFound             = "запись не найдена"
	msgCannotComplete       = "приём нельзя завершить"
	msgForbidden            = "доступ запрещен"
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

// Handle PATCH /api/v1/appointments/{appointmentId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/complete - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/complete - Missing actor ID")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}
	actorRole, _ := middleware.GetActorRole(r.Context())

	result, err := h.service.Complete(r.Context(), appointmentID, actorID, actorRole)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/complete - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrCannotComplete):
			h.logger.Warn("PATCH /appointments/{id}/complete - Cannot complete: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgCannotComplete)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/complete - Access denied: appointment_id=%d, actor_id=%d",
				appointmentID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PATCH /appointments/{id}/complete - Failed to complete: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/complete - Appointment completed: appointment_id=%d, actor_id=%d",
		appointmentID, actorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
