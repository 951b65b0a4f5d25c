package doctors

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// DoctorRepository интерфейс репозитория врачей
type DoctorRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	List(ctx context.Context, onlyAvailable bool) ([]*domain.Doctor, error)
	SetAvailability(ctx context.Context, id int64, available bool) error
	UpdateProfile(ctx context.Context, id int64, fees *float64, about *string, available *bool) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
