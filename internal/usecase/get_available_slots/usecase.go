package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	doctorRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/doctor"
)

// UseCase use case для получения доступных слотов врача на 7 дней вперёд
type UseCase struct {
	doctorRepo   DoctorRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(doctorRepo DoctorRepository, logger Logger) *UseCase {
	return &UseCase{
		doctorRepo:   doctorRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: doctor=%d", req.DoctorID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем врача с картой занятых слотов
	doc, err := uc.doctorRepo.GetByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, doctorRepo.ErrDoctorNotFound) {
			uc.logger.Warn("GetAvailableSlots: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// 4. Строим недельный горизонт, исключая занятые слоты.
	// Флаг available здесь не участвует: он блокирует только создание
	// новых бронирований, расписание остаётся видимым.
	days := buildWeeklySlots(doc.SlotsBooked, now)

	total := 0
	for _, day := range days {
		total += len(day.Slots)
	}
	uc.logger.Info("GetAvailableSlots: generated %d slots over %d days for doctor=%d",
		total, len(days), req.DoctorID)

	return &Response{
		DoctorID: req.DoctorID,
		Days:     days,
	}, nil
}
