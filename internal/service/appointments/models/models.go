package models

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// Request модели

// GetDoctorAppointmentsRequest запрос на получение записей врача
type GetDoctorAppointmentsRequest struct {
	DoctorID        int64         `json:"doctorId"`
	ActorID         int64         `json:"actorId"`
	ActorRole       string        `json:"actorRole"`
	SlotDate        *types.DayKey `json:"slotDate,omitempty"`        // Фильтр по дню (опционально)
	OnlyCompleted   bool          `json:"onlyCompleted,omitempty"`   // Только завершённые приёмы
	IncludeInactive bool          `json:"includeInactive,omitempty"` // Включить отменённые записи
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetDoctorAppointmentsRequest) ToDomainFilter() domain.DoctorAppointmentsFilter {
	return domain.DoctorAppointmentsFilter{
		DoctorID:        r.DoctorID,
		SlotDate:        r.SlotDate,
		OnlyCompleted:   r.OnlyCompleted,
		IncludeInactive: r.IncludeInactive,
	}
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID        int64  `json:"id"`
	PatientID int64  `json:"patientId"`
	DoctorID  int64  `json:"doctorId"`
	SlotDate  string `json:"slotDate"` // "15_6_2024"
	SlotTime  string `json:"slotTime"` // "10:30 AM"

	Amount      float64 `json:"amount"`
	Cancelled   bool    `json:"cancelled"`
	CancelledBy *string `json:"cancelledBy,omitempty"`
	CancelledAt *string `json:"cancelledAt,omitempty"` // ISO 8601 format
	Payment     bool    `json:"payment"`
	IsCompleted bool    `json:"isCompleted"`

	// Денормализованные данные
	DoctorName       string  `json:"doctorName"`
	DoctorSpeciality string  `json:"doctorSpeciality"`
	DoctorDegree     string  `json:"doctorDegree"`
	DoctorFees       float64 `json:"doctorFees"`
	PatientName      string  `json:"patientName"`
	PatientEmail     string  `json:"patientEmail"`
	PatientPhone     *string `json:"patientPhone,omitempty"`
	PatientDOB       *string `json:"patientDob,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// DashboardResponse ответ с агрегатами для дашборда врача
type DashboardResponse struct {
	Earnings           float64               `json:"earnings"`
	TotalAppointments  int                   `json:"totalAppointments"`
	UniquePatients     int                   `json:"uniquePatients"`
	LatestAppointments []AppointmentResponse `json:"latestAppointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:               a.ID,
		PatientID:        a.PatientID,
		DoctorID:         a.DoctorID,
		SlotDate:         a.SlotDate.String(),
		SlotTime:         a.SlotTime.String(),
		Amount:           a.Amount,
		Cancelled:        a.Cancelled,
		CancelledBy:      a.CancelledBy,
		Payment:          a.Payment,
		IsCompleted:      a.IsCompleted,
		DoctorName:       a.DoctorName,
		DoctorSpeciality: a.DoctorSpeciality,
		DoctorDegree:     a.DoctorDegree,
		DoctorFees:       a.DoctorFees,
		PatientName:      a.PatientName,
		PatientEmail:     a.PatientEmail,
		PatientPhone:     a.PatientPhone,
		PatientDOB:       a.PatientDOB,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	if appointments == nil {
		return &AppointmentListResponse{
			Appointments: []AppointmentResponse{},
		}
	}

	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, len(appointments)),
	}

	for i, appt := range appointments {
		if apptResp := FromDomainAppointment(appt); apptResp != nil {
			resp.Appointments[i] = *apptResp
		}
	}

	return resp
}
