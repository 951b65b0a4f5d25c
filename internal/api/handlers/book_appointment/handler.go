package book_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	bookAppointment "github.com/m04kA/HMS-AppointmentService/internal/usecase/book_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingActor       = "отсутствует ID пользователя"
	msgOnlyPatients       = "запись на приём доступна только пациентам"
	msgDoctorNotFound     = "врач не найден"
	msgDoctorUnavailable  = "врач временно не принимает записи"
	msgPatientNotFound    = "пациент не найден"
	msgSlotConflict       = "выбранный слот уже занят"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgSlotInPast         = "выбранный слот уже прошёл"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req BookAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Актор берётся из токена, роль должна быть patient
	actorID, ok := middleware.GetActorID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing actor ID")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	role, _ := middleware.GetActorRole(r.Context())
	if role != domain.RolePatient {
		h.logger.Warn("POST /appointments - Actor role=%s cannot book", role)
		handlers.RespondForbidden(w, msgOnlyPatients)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actorID))
	if err != nil {
		switch {
		case errors.Is(err, bookAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: patient_id=%d, doctor_id=%d", actorID, req.DoctorID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, bookAppointment.ErrDoctorNotFound):
			h.logger.Warn("POST /appointments - Doctor not found: doctor_id=%d", req.DoctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, bookAppointment.ErrDoctorUnavailable):
			h.logger.Warn("POST /appointments - Doctor unavailable: doctor_id=%d", req.DoctorID)
			handlers.RespondError(w, http.StatusConflict, msgDoctorUnavailable)

		case errors.Is(err, bookAppointment.ErrPatientNotFound):
			h.logger.Warn("POST /appointments - Patient not found: patient_id=%d", actorID)
			handlers.RespondNotFound(w, msgPatientNotFound)

		case errors.Is(err, bookAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: patient_id=%d, slot=%s %s",
				actorID, req.SlotDate, req.SlotTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, bookAppointment.ErrSlotInPast):
			h.logger.Warn("POST /appointments - Slot in past: patient_id=%d, slot=%s %s",
				actorID, req.SlotDate, req.SlotTime)
			handlers.RespondBadRequest(w, msgSlotInPast)

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: patient_id=%d, error=%v", actorID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to book: patient_id=%d, doctor_id=%d, error=%v",
				actorID, req.DoctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, patient_id=%d, doctor_id=%d",
		result.ID, actorID, req.DoctorID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
