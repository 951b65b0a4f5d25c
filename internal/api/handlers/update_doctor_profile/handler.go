package update_doctor_profile

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HMS-AppointmentService/internal/service/doctors"
	"github.com/m04kA/HMS-AppointmentService/internal/service/doctors/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDoctorID    = "некорректный ID врача"
	msgMissingActor       = "отсутствует ID пользователя"
	msgDoctorNotFound     = "врач не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	service DoctorService
	logger  Logger
}

func NewHandler(service DoctorService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/doctors/{doctorId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /doctors/{id} - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	var req UpdateDoctorProfileRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /doctors/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /doctors/{id} - Missing actor ID")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}
	actorRole, _ := middleware.GetActorRole(r.Context())

	result, err := h.service.UpdateProfile(r.Context(), doctorID, &models.UpdateProfileRequest{
		ActorID:   actorID,
		ActorRole: actorRole,
		Fees:      req.Fees,
		About:     req.About,
		Available: req.Available,
	})
	if err != nil {
		switch {
		case errors.Is(err, doctors.ErrDoctorNotFound):
			h.logger.Warn("PATCH /doctors/{id} - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, doctors.ErrAccessDenied):
			h.logger.Warn("PATCH /doctors/{id} - Access denied: doctor_id=%d, actor_id=%d", doctorID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, doctors.ErrInvalidInput):
			h.logger.Warn("PATCH /doctors/{id} - Invalid input: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /doctors/{id} - Failed to update profile: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /doctors/{id} - Profile updated: doctor_id=%d", doctorID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
