package healthrecords

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/HMS-AppointmentService/internal/service/healthrecords/models"
)

// Service сервис электронных медкарт
type Service struct {
	recordRepo      HealthRecordRepository
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса медкарт
func NewService(
	recordRepo HealthRecordRepository,
	appointmentRepo AppointmentRepository,
	logger Logger,
) *Service {
	return &Service{
		recordRepo:      recordRepo,
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// Add добавляет запись в медкарту по завершённому приёму
// Доступно только врачу этого приёма и staff
func (s *Service) Add(ctx context.Context, req *models.AddRecordRequest) (*models.RecordResponse, error) {
	s.logger.Info("Add: adding health record for appointment=%d by actor=%d role=%s",
		req.AppointmentID, req.ActorID, req.ActorRole)

	if err := validateAddRequest(req); err != nil {
		s.logger.Warn("Add: validation failed: %v", err)
		return nil, err
	}

	appt, err := s.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Add: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Add: repository error for appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Add - repository error: %v", ErrInternal, err)
	}

	// Запись в медкарту делает врач приёма (или staff от его имени)
	if req.ActorRole != domain.RoleStaff &&
		!(req.ActorRole == domain.RoleDoctor && req.ActorID == appt.DoctorID) {
		s.logger.Warn("Add: access denied for actor=%d to appointment id=%d", req.ActorID, req.AppointmentID)
		return nil, ErrAccessDenied
	}

	// Медкарта пополняется только по факту состоявшегося приёма
	if !appt.IsCompleted {
		s.logger.Warn("Add: appointment id=%d is not completed", req.AppointmentID)
		return nil, ErrAppointmentNotCompleted
	}

	rec := &domain.HealthRecord{
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		AppointmentID: appt.ID,
		Diagnosis:     req.Diagnosis,
		Prescription:  req.Prescription,
		Notes:         req.Notes,
	}

	created, err := s.recordRepo.Create(ctx, rec)
	if err != nil {
		s.logger.Error("Add: failed to create health record for appointment=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Add - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Add: successfully created health record id=%d for appointment=%d", created.ID, appt.ID)
	return models.FromDomainRecord(created), nil
}

// GetByPatient возвращает медкарту пациента
// Пациент видит только свою медкарту, staff - любую; врачам полная
// медкарта чужих пациентов недоступна
func (s *Service) GetByPatient(ctx context.Context, patientID int64, actorID int64, actorRole string) (*models.RecordListResponse, error) {
	s.logger.Info("GetByPatient: fetching health records for patient=%d, actor=%d role=%s",
		patientID, actorID, actorRole)

	if patientID <= 0 {
		return nil, fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if actorRole != domain.RoleStaff &&
		!(actorRole == domain.RolePatient && actorID == patientID) {
		s.logger.Warn("GetByPatient: access denied for actor=%d to patient=%d records", actorID, patientID)
		return nil, ErrAccessDenied
	}

	records, err := s.recordRepo.GetByPatientID(ctx, patientID)
	if err != nil {
		s.logger.Error("GetByPatient: repository error for patient=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: GetByPatient - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByPatient: successfully fetched %d records for patient=%d", len(records), patientID)
	return models.FromDomainRecordList(records), nil
}

// GetByAppointment возвращает записи медкарты по конкретному приёму
// Доступно пациенту записи, врачу приёма и staff
func (s *Service) GetByAppointment(ctx context.Context, appointmentID int64, actorID int64, actorRole string) (*models.RecordListResponse, error) {
	s.logger.Info("GetByAppointment: fetching health records for appointment=%d, actor=%d role=%s",
		appointmentID, actorID, actorRole)

	if appointmentID <= 0 {
		return nil, fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, apptRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByAppointment: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByAppointment: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: GetByAppointment - repository error: %v", ErrInternal, err)
	}

	allowed := actorRole == domain.RoleStaff ||
		(actorRole == domain.RolePatient && actorID == appt.PatientID) ||
		(actorRole == domain.RoleDoctor && actorID == appt.DoctorID)
	if !allowed {
		s.logger.Warn("GetByAppointment: access denied for actor=%d to appointment=%d", actorID, appointmentID)
		return nil, ErrAccessDenied
	}

	records, err := s.recordRepo.GetByAppointmentID(ctx, appointmentID)
	if err != nil {
		s.logger.Error("GetByAppointment: repository error for appointment=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: GetByAppointment - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByAppointment: successfully fetched %d records for appointment=%d", len(records), appointmentID)
	return models.FromDomainRecordList(records), nil
}

// validateAddRequest валидирует запрос на добавление записи медкарты
func validateAddRequest(req *models.AddRecordRequest) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.Diagnosis == "" {
		return fmt.Errorf("%w: diagnosis is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(req.Diagnosis) > domain.MaxDiagnosisLength {
		return fmt.Errorf("%w: diagnosis exceeds %d characters", ErrInvalidInput, domain.MaxDiagnosisLength)
	}

	if req.Prescription == "" {
		return fmt.Errorf("%w: prescription is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(req.Prescription) > domain.MaxPrescriptionLength {
		return fmt.Errorf("%w: prescription exceeds %d characters", ErrInvalidInput, domain.MaxPrescriptionLength)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
