package doctors

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	doctorRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/doctor"
	"github.com/m04kA/HMS-AppointmentService/internal/service/doctors/models"
)

// Service сервис справочника врачей
type Service struct {
	doctorRepo DoctorRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса врачей
func NewService(doctorRepo DoctorRepository, logger Logger) *Service {
	return &Service{
		doctorRepo: doctorRepo,
		logger:     logger,
	}
}

// List возвращает справочник врачей
// Публичный эндпоинт, авторизация не требуется
func (s *Service) List(ctx context.Context, req *models.ListDoctorsRequest) (*models.DoctorListResponse, error) {
	s.logger.Info("List: fetching doctors, onlyAvailable=%v", req.OnlyAvailable)

	doctors, err := s.doctorRepo.List(ctx, req.OnlyAvailable)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d doctors", len(doctors))
	return models.FromDomainDoctorList(doctors), nil
}

// GetByID возвращает карточку врача
func (s *Service) GetByID(ctx context.Context, id int64) (*models.DoctorResponse, error) {
	s.logger.Info("GetByID: fetching doctor id=%d", id)

	doc, err := s.doctorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, doctorRepo.ErrDoctorNotFound) {
			s.logger.Warn("GetByID: doctor id=%d not found", id)
			return nil, ErrDoctorNotFound
		}
		s.logger.Error("GetByID: repository error for doctor id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched doctor id=%d", id)
	return models.FromDomainDoctor(doc), nil
}

// SetAvailability переключает глобальную доступность врача
// Врач переключает только себя, staff - любого врача
func (s *Service) SetAvailability(ctx context.Context, doctorID int64, req *models.SetAvailabilityRequest) (*models.DoctorResponse, error) {
	s.logger.Info("SetAvailability: doctor=%d available=%v by actor=%d role=%s",
		doctorID, req.Available, req.ActorID, req.ActorRole)

	if doctorID <= 0 {
		return nil, fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if err := checkDoctorAccess(doctorID, req.ActorID, req.ActorRole); err != nil {
		s.logger.Warn("SetAvailability: access denied for actor=%d to doctor=%d", req.ActorID, doctorID)
		return nil, err
	}

	if err := s.doctorRepo.SetAvailability(ctx, doctorID, req.Available); err != nil {
		if errors.Is(err, doctorRepo.ErrDoctorNotFound) {
			s.logger.Warn("SetAvailability: doctor id=%d not found", doctorID)
			return nil, ErrDoctorNotFound
		}
		s.logger.Error("SetAvailability: repository error for doctor id=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: SetAvailability - repository error: %v", ErrInternal, err)
	}

	doc, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		s.logger.Error("SetAvailability: failed to reload doctor id=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: SetAvailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetAvailability: doctor id=%d available=%v", doctorID, doc.Available)
	return models.FromDomainDoctor(doc), nil
}

// UpdateProfile обновляет поля профиля врача (частичное обновление)
// Врач редактирует только свой профиль, staff - любой
func (s *Service) UpdateProfile(ctx context.Context, doctorID int64, req *models.UpdateProfileRequest) (*models.DoctorResponse, error) {
	s.logger.Info("UpdateProfile: doctor=%d by actor=%d role=%s", doctorID, req.ActorID, req.ActorRole)

	if doctorID <= 0 {
		return nil, fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if req.Fees == nil && req.About == nil && req.Available == nil {
		return nil, fmt.Errorf("%w: at least one field must be provided", ErrInvalidInput)
	}

	if req.Fees != nil && *req.Fees < 0 {
		return nil, fmt.Errorf("%w: fees must be non-negative", ErrInvalidInput)
	}

	if err := checkDoctorAccess(doctorID, req.ActorID, req.ActorRole); err != nil {
		s.logger.Warn("UpdateProfile: access denied for actor=%d to doctor=%d", req.ActorID, doctorID)
		return nil, err
	}

	if err := s.doctorRepo.UpdateProfile(ctx, doctorID, req.Fees, req.About, req.Available); err != nil {
		if errors.Is(err, doctorRepo.ErrDoctorNotFound) {
			s.logger.Warn("UpdateProfile: doctor id=%d not found", doctorID)
			return nil, ErrDoctorNotFound
		}
		s.logger.Error("UpdateProfile: repository error for doctor id=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: UpdateProfile - repository error: %v", ErrInternal, err)
	}

	doc, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		s.logger.Error("UpdateProfile: failed to reload doctor id=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: UpdateProfile - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateProfile: successfully updated doctor id=%d", doctorID)
	return models.FromDomainDoctor(doc), nil
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
