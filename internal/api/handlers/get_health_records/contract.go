package get_health_records

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/service/healthrecords/models"
)

type HealthRecordService interface {
	GetByPatient(ctx context.Context, patientID int64, actorID int64, actorRole string) (*models.RecordListResponse, error)
	GetByAppointment(ctx context.Context, appointmentID int64, actorID int64, actorRole string) (*models.RecordListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
