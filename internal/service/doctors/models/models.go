package models

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// Request модели

// ListDoctorsRequest запрос на получение справочника врачей
type ListDoctorsRequest struct {
	OnlyAvailable bool `json:"onlyAvailable,omitempty"` // Только принимающие записи
}

// SetAvailabilityRequest запрос на переключение доступности врача
type SetAvailabilityRequest struct {
	ActorID   int64  `json:"actorId"`
	ActorRole string `json:"actorRole"`
	Available bool   `json:"available"`
}

// UpdateProfileRequest запрос на обновление профиля врача
// Обновляются только переданные поля
type UpdateProfileRequest struct {
	ActorID   int64    `json:"actorId"`
	ActorRole string   `json:"actorRole"`
	Fees      *float64 `json:"fees,omitempty"`
	About     *string  `json:"about,omitempty"`
	Available *bool    `json:"available,omitempty"`
}

// Response модели

// DoctorResponse публичная карточка врача.
// Занятые слоты наружу не отдаются - клиенты запрашивают доступность
// отдельным эндпоинтом.
type DoctorResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Speciality string  `json:"speciality"`
	Degree     string  `json:"degree"`
	Experience string  `json:"experience"`
	About      string  `json:"about"`
	Fees       float64 `json:"fees"`
	Available  bool    `json:"available"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DoctorListResponse ответ со списком врачей
type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
}

// Методы конвертации

// FromDomainDoctor конвертирует domain модель в DTO
func FromDomainDoctor(d *domain.Doctor) *DoctorResponse {
	if d == nil {
		return nil
	}

	return &DoctorResponse{
		ID:         d.ID,
		Name:       d.Name,
		Speciality: d.Speciality,
		Degree:     d.Degree,
		Experience: d.Experience,
		About:      d.About,
		Fees:       d.Fees,
		Available:  d.Available,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// FromDomainDoctorList конвертирует список domain моделей в DTO
func FromDomainDoctorList(doctors []*domain.Doctor) *DoctorListResponse {
	if doctors == nil {
		return &DoctorListResponse{
			Doctors: []DoctorResponse{},
		}
	}

	resp := &DoctorListResponse{
		Doctors: make([]DoctorResponse, len(doctors)),
	}

	for i, doc := range doctors {
		if docResp := FromDomainDoctor(doc); docResp != nil {
			resp.Doctors[i] = *docResp
		}
	}

	return resp
}
