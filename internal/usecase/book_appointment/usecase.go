package book_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	doctorRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/doctor"
	userClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/userservice"
)

// UseCase use case бронирования слота у врача.
// Проверка занятости и резервирование выполняются одним условным UPDATE
// внутри сериализуемой транзакции вместе с созданием записи: из двух
// конкурентных запросов на один слот успешным будет ровно один.
type UseCase struct {
	doctorRepo      DoctorRepository
	appointmentRepo AppointmentRepository
	userClient      UserServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	doctorRepo DoctorRepository,
	appointmentRepo AppointmentRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		userClient:      userClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: patient=%d, doctor=%d, date=%s, time=%s",
		req.PatientID, req.DoctorID, req.SlotDate, req.SlotTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем слот против расписания клиники
	if err := validateSlotSchedule(req.SlotDate, req.SlotTime, now); err != nil {
		uc.logger.Warn("BookAppointment: slot schedule validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем профиль пациента для снапшота (внешний вызов - до транзакции)
	patient, err := uc.userClient.GetPatient(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, userClient.ErrPatientNotFound) {
			uc.logger.Warn("BookAppointment: patient id=%d not found", req.PatientID)
			return nil, ErrPatientNotFound
		}
		uc.logger.Error("BookAppointment: failed to get patient id=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 5. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Получаем врача с блокировкой строки (FOR UPDATE)
		doc, err := uc.doctorRepo.GetByID(txCtx, req.DoctorID)
		if err != nil {
			if errors.Is(err, doctorRepo.ErrDoctorNotFound) {
				uc.logger.Warn("BookAppointment: doctor id=%d not found", req.DoctorID)
				return ErrDoctorNotFound
			}
			uc.logger.Error("BookAppointment: failed to get doctor id=%d: %v", req.DoctorID, err)
			return fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
		}

		// 5.2. Глобальный переключатель врача блокирует любые новые записи
		if !doc.AcceptsBookings() {
			uc.logger.Warn("BookAppointment: doctor id=%d is not accepting bookings", req.DoctorID)
			return ErrDoctorUnavailable
		}

		// 5.3. Резервируем слот условным UPDATE: проверка занятости и
		// запись - один атомарный оператор
		if err := uc.doctorRepo.ReserveSlot(txCtx, req.DoctorID, req.SlotDate, req.SlotTime); err != nil {
			if errors.Is(err, doctorRepo.ErrSlotTaken) {
				uc.logger.Warn("BookAppointment: slot %s %s already taken for doctor=%d",
					req.SlotDate, req.SlotTime, req.DoctorID)
				return ErrSlotConflict
			}
			uc.logger.Error("BookAppointment: failed to reserve slot: %v", err)
			return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}

		// 5.4. Создаем запись с денормализацией данных.
		// Amount копируется из текущего fees врача и дальше живёт своей
		// жизнью - смена тарифа не переписывает историю.
		appt := &domain.Appointment{
			PatientID: req.PatientID,
			DoctorID:  req.DoctorID,
			SlotDate:  req.SlotDate,
			SlotTime:  req.SlotTime,
			Amount:    doc.Fees,
			// Снапшот данных врача
			DoctorName:       doc.Name,
			DoctorSpeciality: doc.Speciality,
			DoctorDegree:     doc.Degree,
			DoctorFees:       doc.Fees,
			// Снапшот данных пациента
			PatientName:  patient.Name,
			PatientEmail: patient.Email,
			PatientPhone: patient.Phone,
			PatientDOB:   patient.DOB,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookAppointment: successfully created appointment id=%d", result.ID)

	return &Response{
		ID:               result.ID,
		PatientID:        result.PatientID,
		DoctorID:         result.DoctorID,
		SlotDate:         result.SlotDate,
		SlotTime:         result.SlotTime,
		Amount:           result.Amount,
		Cancelled:        result.Cancelled,
		Payment:          result.Payment,
		IsCompleted:      result.IsCompleted,
		DoctorName:       result.DoctorName,
		DoctorSpeciality: result.DoctorSpeciality,
		PatientName:      result.PatientName,
		CreatedAt:        result.CreatedAt,
		UpdatedAt:        result.UpdatedAt,
	}, nil
}
