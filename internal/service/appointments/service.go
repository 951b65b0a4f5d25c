package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/HMS-AppointmentService/internal/service/appointments/models"
)

// latestAppointmentsLimit количество последних записей на дашборде врача
const latestAppointmentsLimit = 5

// Service сервис для работы с записями на приём
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа - пациент видит только свои записи,
// врач - только свои приёмы, staff - любые
func (s *Service) GetByID(ctx context.Context, id int64, actorID int64, actorRole string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for actor=%d role=%s", id, actorID, actorRole)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := checkActorAccess(appt, actorID, actorRole); err != nil {
		s.logger.Warn("GetByID: access denied for actor=%d to appointment id=%d", actorID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt), nil
}

// GetPatientAppointments получает историю записей пациента
// Пациент видит только свою историю, staff - любую
func (s *Service) GetPatientAppointments(ctx context.Context, patientID int64, actorID int64, actorRole string) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetPatientAppointments: fetching appointments for patient=%d, actor=%d role=%s",
		patientID, actorID, actorRole)

	if patientID <= 0 {
		return nil, fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if actorRole != domain.RoleStaff && actorID != patientID {
		s.logger.Warn("GetPatientAppointments: access denied for actor=%d to patient=%d history", actorID, patientID)
		return nil, ErrAccessDenied
	}

	appts, err := s.appointmentRepo.GetByPatientID(ctx, patientID)
	if err != nil {
		s.logger.Error("GetPatientAppointments: repository error for patient=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: GetPatientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPatientAppointments: successfully fetched %d appointments for patient=%d", len(appts), patientID)
	return models.FromDomainAppointmentList(appts), nil
}

// GetDoctorAppointments получает записи врача с гибкой фильтрацией
// Поддерживает фильтрацию по дню, только завершённые, включение отменённых
// Врач видит только свой календарь, staff - любой
func (s *Service) GetDoctorAppointments(ctx context.Context, req *models.GetDoctorAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetDoctorAppointments: fetching appointments for doctor=%d, actor=%d role=%s",
		req.DoctorID, req.ActorID, req.ActorRole)

	if req.DoctorID <= 0 {
		return nil, fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if err := checkDoctorAccess(req.DoctorID, req.ActorID, req.ActorRole); err != nil {
		s.logger.Warn("GetDoctorAppointments: access denied for actor=%d to doctor=%d calendar",
			req.ActorID, req.DoctorID)
		return nil, err
	}

	if req.SlotDate != nil {
		if err := req.SlotDate.Validate(); err != nil {
			s.logger.Warn("GetDoctorAppointments: invalid slotDate=%s for doctor=%d", *req.SlotDate, req.DoctorID)
			return nil, fmt.Errorf("%w: invalid slotDate", ErrInvalidInput)
		}
	}

	appts, err := s.appointmentRepo.GetByDoctorWithFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("GetDoctorAppointments: repository error for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetDoctorAppointments: successfully fetched %d appointments for doctor=%d", len(appts), req.DoctorID)
	return models.FromDomainAppointmentList(appts), nil
}

// Complete помечает приём состоявшимся
// Доступно врачу записи и staff; отменённый или уже завершённый приём
// завершить нельзя
func (s *Service) Complete(ctx context.Context, id int64, actorID int64, actorRole string) (*models.AppointmentResponse, error) {
	s.logger.Info("Complete: completing appointment id=%d by actor=%d role=%s", id, actorID, actorRole)

	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Complete: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Complete: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	// Завершить приём может только врач записи или staff
	if err := checkDoctorAccess(appt.DoctorID, actorID, actorRole); err != nil {
		s.logger.Warn("Complete: access denied for actor=%d to appointment id=%d", actorID, id)
		return nil, err
	}

	if !appt.CanBeCompleted() {
		s.logger.Warn("Complete: appointment id=%d cannot be completed (cancelled=%v, completed=%v)",
			id, appt.Cancelled, appt.IsCompleted)
		return nil, ErrCannotComplete
	}

	if err := s.appointmentRepo.MarkCompleted(ctx, id); err != nil {
		if errors.Is(err, apptRepo.ErrAlreadyCompleted) {
			return nil, ErrCannotComplete
		}
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Complete: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	updated, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Complete: failed to reload appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Complete: successfully completed appointment id=%d", id)
	return models.FromDomainAppointment(updated), nil
}

// ConfirmPayment помечает запись оплаченной
// Вызывается из webhook платёжного провайдера; повторное подтверждение -
// идемпотентный no-op
func (s *Service) ConfirmPayment(ctx context.Context, id int64) error {
	s.logger.Info("ConfirmPayment: confirming payment for appointment id=%d", id)

	if err := s.appointmentRepo.MarkPaid(ctx, id); err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("ConfirmPayment: appointment id=%d not found", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("ConfirmPayment: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ConfirmPayment: payment confirmed for appointment id=%d", id)
	return nil
}

// GetDoctorDashboard собирает агрегаты для дашборда врача:
// заработок по завершённым приёмам, общее число записей, число
// уникальных пациентов и несколько последних записей
func (s *Service) GetDoctorDashboard(ctx context.Context, doctorID int64, actorID int64, actorRole string) (*models.DashboardResponse, error) {
	s.logger.Info("GetDoctorDashboard: building dashboard for doctor=%d, actor=%d role=%s",
		doctorID, actorID, actorRole)

	if doctorID <= 0 {
		return nil, fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if err := checkDoctorAccess(doctorID, actorID, actorRole); err != nil {
		s.logger.Warn("GetDoctorDashboard: access denied for actor=%d to doctor=%d dashboard", actorID, doctorID)
		return nil, err
	}

	stats, err := s.appointmentRepo.GetDoctorStats(ctx, doctorID)
	if err != nil {
		s.logger.Error("GetDoctorDashboard: stats error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorDashboard - repository error: %v", ErrInternal, err)
	}

	// Последние записи, включая отменённые - врачу важно видеть полную картину
	appts, err := s.appointmentRepo.GetByDoctorWithFilter(ctx, domain.DoctorAppointmentsFilter{
		DoctorID:        doctorID,
		IncludeInactive: true,
	})
	if err != nil {
		s.logger.Error("GetDoctorDashboard: appointments error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetDoctorDashboard - repository error: %v", ErrInternal, err)
	}

	if len(appts) > latestAppointmentsLimit {
		appts = appts[:latestAppointmentsLimit]
	}

	s.logger.Info("GetDoctorDashboard: doctor=%d earnings=%.2f appointments=%d patients=%d",
		doctorID, stats.Earnings, stats.TotalAppointments, stats.UniquePatients)

	return &models.DashboardResponse{
		Earnings:           stats.Earnings,
		TotalAppointments:  stats.TotalAppointments,
		UniquePatients:     stats.UniquePatients,
		LatestAppointments: models.FromDomainAppointmentList(appts).Appointments,
	}, nil
}

// Вспомогательные методы

// checkActorAccess проверяет доступ актора к конкретной записи
func checkActorAccess(appt *domain.Appointment, actorID int64, actorRole string) error {
	switch actorRole {
	case domain.RolePatient:
		if appt.PatientID != actorID {
			return ErrAccessDenied
		}
	case domain.RoleDoctor:
		if appt.DoctorID != actorID {
			return ErrAccessDenied
		}
	case domain.RoleStaff:
		// staff видит любые записи
	default:
		return ErrAccessDenied
	}
	return nil
}

// checkDoctorAccess проверяет, что актор - этот врач или staff
func checkDoctorAccess(doctorID int64, actorID int64, actorRole string) error {
	if actorRole == domain.RoleStaff {
		return nil
	}
	if actorRole == domain.RoleDoctor && actorID == doctorID {
		return nil
	}
	return ErrAccessDenied
}
