package healthrecords

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/HMS-AppointmentService/internal/service/healthrecords/models"
)

type fakeRecordRepo struct {
	nextID  int64
	records []*domain.HealthRecord
}

func (f *fakeRecordRepo) Create(_ context.Context, rec *domain.HealthRecord) (*domain.HealthRecord, error) {
	f.nextID++
	copied := *rec
	copied.ID = f.nextID
	f.records = append(f.records, &copied)
	return &copied, nil
}

func (f *fakeRecordRepo) GetByPatientID(_ context.Context, patientID int64) ([]*domain.HealthRecord, error) {
	var out []*domain.HealthRecord
	for _, r := range f.records {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) GetByAppointmentID(_ context.Context, appointmentID int64) ([]*domain.HealthRecord, error) {
	var out []*domain.HealthRecord
	for _, r := range f.records {
		if r.AppointmentID == appointmentID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeAppointmentRepo struct {
	appt *domain.Appointment
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.appt == nil || f.appt.ID != id {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	copied := *f.appt
	return &copied, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func completedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:          11,
		PatientID:   3,
		DoctorID:    7,
		SlotDate:    "16_6_2024",
		SlotTime:    "10:30 AM",
		IsCompleted: true,
	}
}

func addRequest() *models.AddRecordRequest {
	return &models.AddRecordRequest{
		ActorID:       7,
		ActorRole:     domain.RoleDoctor,
		AppointmentID: 11,
		Diagnosis:     "ОРВИ",
		Prescription:  "Постельный режим, обильное питьё",
	}
}

func TestAdd_Success(t *testing.T) {
	records := &fakeRecordRepo{}
	svc := NewService(records, &fakeAppointmentRepo{appt: completedAppointment()}, nopLogger{})

	resp, err := svc.Add(context.Background(), addRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	// Пациент и врач берутся из приёма, а не из запроса
	assert.Equal(t, int64(3), resp.PatientID)
	assert.Equal(t, int64(7), resp.DoctorID)
	assert.Equal(t, int64(11), resp.AppointmentID)
	assert.Equal(t, "ОРВИ", resp.Diagnosis)
}

func TestAdd_RequiresCompletedAppointment(t *testing.T) {
	appt := completedAppointment()
	appt.IsCompleted = false
	records := &fakeRecordRepo{}
	svc := NewService(records, &fakeAppointmentRepo{appt: appt}, nopLogger{})

	_, err := svc.Add(context.Background(), addRequest())
	assert.ErrorIs(t, err, ErrAppointmentNotCompleted)
	assert.Empty(t, records.records)
}

func TestAdd_Access(t *testing.T) {
	tests := []struct {
		name    string
		actorID int64
		role    string
		wantErr error
	}{
		{"врач приёма", 7, domain.RoleDoctor, nil},
		{"staff", 999, domain.RoleStaff, nil},
		{"чужой врач", 8, domain.RoleDoctor, ErrAccessDenied},
		{"пациент", 3, domain.RolePatient, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeRecordRepo{}, &fakeAppointmentRepo{appt: completedAppointment()}, nopLogger{})

			req := addRequest()
			req.ActorID = tt.actorID
			req.ActorRole = tt.role

			_, err := svc.Add(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAdd_Validation(t *testing.T) {
	svc := NewService(&fakeRecordRepo{}, &fakeAppointmentRepo{appt: completedAppointment()}, nopLogger{})
	longText := strings.Repeat("а", domain.MaxDiagnosisLength+1)

	tests := []struct {
		name   string
		mutate func(*models.AddRecordRequest)
	}{
		{"нулевой appointmentID", func(r *models.AddRecordRequest) { r.AppointmentID = 0 }},
		{"пустой диагноз", func(r *models.AddRecordRequest) { r.Diagnosis = "" }},
		{"слишком длинный диагноз", func(r *models.AddRecordRequest) { r.Diagnosis = longText }},
		{"пустое назначение", func(r *models.AddRecordRequest) { r.Prescription = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := addRequest()
			tt.mutate(req)
			_, err := svc.Add(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGetByPatient_Access(t *testing.T) {
	records := &fakeRecordRepo{}
	_, err := records.Create(context.Background(), &domain.HealthRecord{PatientID: 3, DoctorID: 7, AppointmentID: 11})
	require.NoError(t, err)

	svc := NewService(records, &fakeAppointmentRepo{}, nopLogger{})
	ctx := context.Background()

	resp, err := svc.GetByPatient(ctx, 3, 3, domain.RolePatient)
	require.NoError(t, err)
	assert.Len(t, resp.Records, 1)

	// Врачу полная медкарта чужого пациента недоступна
	_, err = svc.GetByPatient(ctx, 3, 7, domain.RoleDoctor)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByPatient(ctx, 3, 4, domain.RolePatient)
	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err = svc.GetByPatient(ctx, 3, 999, domain.RoleStaff)
	require.NoError(t, err)
	assert.Len(t, resp.Records, 1)
}

func TestGetByAppointment_Access(t *testing.T) {
	records := &fakeRecordRepo{}
	_, err := records.Create(context.Background(), &domain.HealthRecord{PatientID: 3, DoctorID: 7, AppointmentID: 11})
	require.NoError(t, err)

	svc := NewService(records, &fakeAppointmentRepo{appt: completedAppointment()}, nopLogger{})
	ctx := context.Background()

	for _, actor := range []struct {
		id   int64
		role string
	}{
		{3, domain.RolePatient},
		{7, domain.RoleDoctor},
		{999, domain.RoleStaff},
	} {
		resp, err := svc.GetByAppointment(ctx, 11, actor.id, actor.role)
		require.NoError(t, err)
		assert.Len(t, resp.Records, 1)
	}

	_, err = svc.GetByAppointment(ctx, 11, 4, domain.RolePatient)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByAppointment(ctx, 404, 3, domain.RolePatient)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
