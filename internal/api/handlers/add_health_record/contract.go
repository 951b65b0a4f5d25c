package add_health_record

import (
	"context"

	"github.com/m04kA/HMS-AppointmentService/internal/service/healthrecords/models"
)

type HealthRecordService interface {
	Add(ctx context.Context, req *models.AddRecordRequest) (*models.RecordResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
