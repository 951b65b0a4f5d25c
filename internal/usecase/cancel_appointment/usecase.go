package cancel_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
)

// UseCase use case отмены записи.
// Отмена и освобождение слота выполняются в одной сериализуемой
// транзакции: либо запись отменена и слот снова доступен, либо ни то,
// ни другое.
type UseCase struct {
	appointmentRepo AppointmentRepository
	doctorRepo      DoctorRepository
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	doctorRepo DoctorRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case отмены записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelAppointment: appointment=%d, actor=%d, role=%s",
		req.AppointmentID, req.ActorID, req.ActorRole)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelAppointment: validation failed: %v", err)
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем запись
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("CancelAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("CancelAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2.2. Проверяем права актора на отмену
		if err := checkActorAccess(appt, req.ActorID, req.ActorRole); err != nil {
			uc.logger.Warn("CancelAppointment: access denied for actor=%d role=%s on appointment=%d",
				req.ActorID, req.ActorRole, req.AppointmentID)
			return err
		}

		// 2.3. Повторная отмена - явная ошибка, слот не трогаем
		if !appt.CanBeCancelled() {
			uc.logger.Warn("CancelAppointment: appointment id=%d already cancelled", req.AppointmentID)
			return ErrAlreadyCancelled
		}

		// 2.4. Помечаем запись отменённой
		if err := uc.appointmentRepo.Cancel(txCtx, req.AppointmentID, req.ActorRole); err != nil {
			if errors.Is(err, apptRepo.ErrAlreadyCancelled) {
				return ErrAlreadyCancelled
			}
			uc.logger.Error("CancelAppointment: failed to cancel appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to cancel appointment: %v", ErrInternal, err)
		}

		// 2.5. Освобождаем слот у врача (ровно один раз)
		if err := uc.doctorRepo.ReleaseSlot(txCtx, appt.DoctorID, appt.SlotDate, appt.SlotTime); err != nil {
			uc.logger.Error("CancelAppointment: failed to release slot for doctor=%d: %v", appt.DoctorID, err)
			return fmt.Errorf("%w: failed to release slot: %v", ErrInternal, err)
		}

		// 2.6. Перечитываем запись с проставленными полями отмены
		updated, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			uc.logger.Error("CancelAppointment: failed to reload appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to reload appointment: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelAppointment: successfully cancelled appointment id=%d by %s", result.ID, req.ActorRole)

	resp := &Response{
		ID:        result.ID,
		PatientID: result.PatientID,
		DoctorID:  result.DoctorID,
		SlotDate:  result.SlotDate,
		SlotTime:  result.SlotTime,
		Cancelled: result.Cancelled,
		UpdatedAt: result.UpdatedAt,
	}
	if result.CancelledBy != nil {
		resp.CancelledBy = *result.CancelledBy
	}
	if result.CancelledAt != nil {
		resp.CancelledAt = *result.CancelledAt
	}

	return resp, nil
}

// checkActorAccess проверяет, что актор вправе отменить запись.
// Пациент отменяет только свои записи, врач - только свои приёмы,
// staff - любые.
func checkActorAccess(appt *domain.Appointment, actorID int64, role string) error {
	switch role {
	case domain.RolePatient:
		if appt.PatientID != actorID {
			return ErrForbidden
		}
	case domain.RoleDoctor:
		if appt.DoctorID != actorID {
			return ErrForbidden
		}
	case domain.RoleStaff:
		// staff отменяет любые записи
	default:
		return ErrForbidden
	}
	return nil
}
