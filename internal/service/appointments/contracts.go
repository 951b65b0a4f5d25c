package appointments

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByPatientID(ctx context.Context, patientID int64) ([]*domain.Appointment, error)
	GetByDoctorWithFilter(ctx context.Context, filter domain.DoctorAppointmentsFilter) ([]*domain.Appointment, error)
	MarkCompleted(ctx context.Context, id int64) error
	MarkPaid(ctx context.Context, id int64) error
	GetDoctorStats(ctx context.Context, doctorID int64) (*domain.DoctorStats, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
