package add_health_record

import (
	"errors"
	"net/http"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HMS-AppointmentService/internal/service/healthrecords"
	"github.com/m04kA/HMS-AppointmentService/internal/service/healthrecords/models"
)

const (
	msgInvalidRequestBody      = "некорректное тело запроса"
	msgMissingActor            = "отсутствует ID пользователя"
	msgAppointmentNotFound     = "приём не найден"
	msgAppointmentNotCompleted = "приём ещё не завершён"
	msgForbidden               = "доступ запрещен"
	msgInvalidInput            = "некорректные данные запроса"
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

// Handle POST /api/v1/health-records
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AddHealthRecordRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /health-records - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		h.logger.Warn("POST /health-records - Missing actor ID")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}
	actorRole, _ := middleware.GetActorRole(r.Context())

	result, err := h.service.Add(r.Context(), &models.AddRecordRequest{
		ActorID:       actorID,
		ActorRole:     actorRole,
		AppointmentID: req.AppointmentID,
		Diagnosis:     req.Diagnosis,
		Prescription:  req.Prescription,
		Notes:         req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, healthrecords.ErrAppointmentNotFound):
			h.logger.Warn("POST /health-records - Appointment not found: appointment_id=%d", req.AppointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, healthrecords.ErrAppointmentNotCompleted):
			h.logger.Warn("POST /health-records - Appointment not completed: appointment_id=%d", req.AppointmentID)
			handlers.RespondError(w, http.StatusConflict, msgAppointmentNotCompleted)

		case errors.Is(err, healthrecords.ErrAccessDenied):
			h.logger.Warn("POST /health-records - Access denied: appointment_id=%d, actor_id=%d",
				req.AppointmentID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, healthrecords.ErrInvalidInput):
			h.logger.Warn("POST /health-records - Invalid input: appointment_id=%d, error=%v",
				req.AppointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /health-records - Failed to add record: appointment_id=%d, error=%v",
				req.AppointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /health-records - Record created: record_id=%d, appointment_id=%d",
		result.ID, req.AppointmentID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
