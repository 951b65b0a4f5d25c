package list_doctors

import (
	"net/http"

	"github.com/m04kA/HMS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/HMS-AppointmentService/internal/service/doctors/models"
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

// Handle GET /api/v1/doctors
// Query params: onlyAvailable
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req := &models.ListDoctorsRequest{
		OnlyAvailable: r.URL.Query().Get("onlyAvailable") == "true",
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /doctors - Failed to list doctors: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /doctors - Retrieved %d doctors", len(result.Doctors))
	handlers.RespondJSON(w, http.StatusOK, result)
}
