package models

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// Request модели

// AddRecordRequest запрос на добавление записи в медкарту
type AddRecordRequest struct {
	ActorID       int64   `json:"actorId"`
	ActorRole     string  `json:"actorRole"`
	AppointmentID int64   `json:"appointmentId"`
	Diagnosis     string  `json:"diagnosis"`
	Prescription  string  `json:"prescription"`
	Notes         *string `json:"notes,omitempty"`
}

// Response модели

// RecordResponse ответ с записью медкарты
type RecordResponse struct {
	ID            int64   `json:"id"`
	PatientID     int64   `json:"patientId"`
	DoctorID      int64   `json:"doctorId"`
	AppointmentID int64   `json:"appointmentId"`
	Diagnosis     string  `json:"diagnosis"`
	Prescription  string  `json:"prescription"`
	Notes         *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecordListResponse ответ со списком записей медкарты
type RecordListResponse struct {
	Records []RecordResponse `json:"records"`
}

// Методы конвертации

// FromDomainRecord конвертирует domain модель в DTO
func FromDomainRecord(r *domain.HealthRecord) *RecordResponse {
	if r == nil {
		return nil
	}

	return &RecordResponse{
		ID:            r.ID,
		PatientID:     r.PatientID,
		DoctorID:      r.DoctorID,
		AppointmentID: r.AppointmentID,
		Diagnosis:     r.Diagnosis,
		Prescription:  r.Prescription,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FromDomainRecordList конвертирует список domain моделей в DTO
func FromDomainRecordList(records []*domain.HealthRecord) *RecordListResponse {
	if records == nil {
		return &RecordListResponse{
			Records: []RecordResponse{},
		}
	}

	resp := &RecordListResponse{
		Records: make([]RecordResponse, len(records)),
	}

	for i, rec := range records {
		if recResp := FromDomainRecord(rec); recResp != nil {
			resp.Records[i] = *recResp
		}
	}

	return resp
}
