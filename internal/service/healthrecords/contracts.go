package healthrecords

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// HealthRecordRepository интерфейс репозитория медкарт
type HealthRecordRepository interface {
	Create(ctx context.Context, rec *domain.HealthRecord) (*domain.HealthRecord, error)
	GetByPatientID(ctx context.Context, patientID int64) ([]*domain.HealthRecord, error)
	GetByAppointmentID(ctx context.Context, appointmentID int64) ([]*domain.HealthRecord, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
