package change_availability

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/service/doctors/models"
)

type DoctorService interface {
	SetAvailability(ctx context.Context, doctorID int64, req *models.SetAvailabilityRequest) (*models.DoctorResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
