package update_doctor_profile

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/service/doctors/models"
)

type DoctorService interface {
	UpdateProfile(ctx context.Context, doctorID int64, req *models.UpdateProfileRequest) (*models.DoctorResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
