package confirm_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnknownEvent       = "неизвестный тип события"
	msgNotFound           = "запись не найдена"
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

// Handle POST /api/v1/payments/webhook
// Повторная доставка события paid - идемпотентный no-op
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PaymentWebhookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/webhook - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.AppointmentID <= 0 {
		h.logger.Warn("POST /payments/webhook - Invalid appointment ID: %d", req.AppointmentID)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	switch req.Event {
	case eventPaid:
		if err := h.service.ConfirmPayment(r.Context(), req.AppointmentID); err != nil {
			switch {
			case errors.Is(err, appointments.ErrAppointmentNotFound):
				h.logger.Warn("POST /payments/webhook - Appointment not found: appointment_id=%d", req.AppointmentID)
				handlers.RespondNotFound(w, msgNotFound)

			default:
				h.logger.Error("POST /payments/webhook - Failed to confirm payment: appointment_id=%d, error=%v",
					req.AppointmentID, err)
				handlers.RespondInternalError(w)
			}
			return
		}

		h.logger.Info("POST /payments/webhook - Payment confirmed: appointment_id=%d", req.AppointmentID)
		handlers.RespondJSON(w, http.StatusOK, PaymentWebhookResponse{Status: "confirmed"})

	case eventFailed:
		// Неуспешный платёж не меняет состояние записи
		h.logger.Info("POST /payments/webhook - Payment failed event: appointment_id=%d", req.AppointmentID)
		handlers.RespondJSON(w, http.StatusOK, PaymentWebhookResponse{Status: "ignored"})

	default:
		h.logger.Warn("POST /payments/webhook - Unknown event=%s: appointment_id=%d", req.Event, req.AppointmentID)
		handlers.RespondBadRequest(w, msgUnknownEvent)
	}
}
