package cancel_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

type fakeAppointmentRepo struct {
	appt       *domain.Appointment
	getErr     error
	cancelErr  error
	cancelled  int
	cancelRole string
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, _ int64) (*domain.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.appt
	return &copied, nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, _ int64, cancelledBy string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled++
	f.cancelRole = cancelledBy
	now := time.Now()
	f.appt.Cancelled = true
	f.appt.CancelledBy = &cancelledBy
	f.appt.CancelledAt = &now
	f.appt.UpdatedAt = now
	return nil
}

type releaseCall struct {
	doctorID int64
	day      types.DayKey
	label    types.TimeLabel
}

type fakeDoctorRepo struct {
	releases []releaseCall
}

func (f *fakeDoctorRepo) ReleaseSlot(_ context.Context, doctorID int64, day types.DayKey, label types.TimeLabel) error {
	f.releases = append(f.releases, releaseCall{doctorID: doctorID, day: day, label: label})
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:        11,
		PatientID: 3,
		DoctorID:  7,
		SlotDate:  "16_6_2024",
		SlotTime:  "10:30 AM",
		Amount:    50,
	}
}

func newTestUseCase(appts *fakeAppointmentRepo, docs *fakeDoctorRepo) *UseCase {
	return NewUseCase(appts, docs, fakeTxManager{}, nopLogger{})
}

func TestExecute_PatientCancelsOwn(t *testing.T) {
	appts := &fakeAppointmentRepo{appt: testAppointment()}
	docs := &fakeDoctorRepo{}
	uc := newTestUseCase(appts, docs)

	resp, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 11,
		ActorID:       3,
		ActorRole:     domain.RolePatient,
	})
	require.NoError(t, err)

	assert.True(t, resp.Cancelled)
	assert.Equal(t, domain.RolePatient, resp.CancelledBy)
	assert.False(t, resp.CancelledAt.IsZero())

	assert.Equal(t, 1, appts.cancelled)
	assert.Equal(t, domain.RolePatient, appts.cancelRole)

	// Слот освобождён ровно один раз и с данными записи
	require.Len(t, docs.releases, 1)
	assert.Equal(t, releaseCall{doctorID: 7, day: "16_6_2024", label: "10:30 AM"}, docs.releases[0])
}

func TestExecute_DoctorCancelsOwn(t *testing.T) {
	appts := &fakeAppointmentRepo{appt: testAppointment()}
	docs := &fakeDoctorRepo{}
	uc := newTestUseCase(appts, docs)

	resp, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 11,
		ActorID:       7,
		ActorRole:     domain.RoleDoctor,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, resp.CancelledBy)
}

func TestExecute_StaffCancelsAny(t *testing.T) {
	appts := &fakeAppointmentRepo{appt: testAppointment()}
	docs := &fakeDoctorRepo{}
	uc := newTestUseCase(appts, docs)

	resp, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 11,
		ActorID:       999,
		ActorRole:     domain.RoleStaff,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, resp.CancelledBy)
}

func TestExecute_Forbidden(t *testing.T) {
	tests := []struct {
		name    string
		actorID int64
		role    string
	}{
		{"чужой пациент", 4, domain.RolePatient},
		{"чужой врач", 8, domain.RoleDoctor},
		{"неизвестная роль", 3, "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appts := &fakeAppointmentRepo{appt: testAppointment()}
			docs := &fakeDoctorRepo{}
			uc := newTestUseCase(appts, docs)

			_, err := uc.Execute(context.Background(), &Request{
				AppointmentID: 11,
				ActorID:       tt.actorID,
				ActorRole:     tt.role,
			})
			assert.ErrorIs(t, err, ErrForbidden)
			assert.Zero(t, appts.cancelled)
			assert.Empty(t, docs.releases)
		})
	}
}

func TestExecute_AlreadyCancelled(t *testing.T) {
	appt := testAppointment()
	appt.Cancelled = true
	by := domain.RolePatient
	appt.CancelledBy = &by

	appts := &fakeAppointmentRepo{appt: appt}
	docs := &fakeDoctorRepo{}
	uc := newTestUseCase(appts, docs)

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 11,
		ActorID:       3,
		ActorRole:     domain.RolePatient,
	})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	// Повторная отмена не трогает слот врача
	assert.Empty(t, docs.releases)
	assert.Zero(t, appts.cancelled)
}

func TestExecute_NotFound(t *testing.T) {
	appts := &fakeAppointmentRepo{getErr: apptRepo.ErrAppointmentNotFound}
	uc := newTestUseCase(appts, &fakeDoctorRepo{})

	_, err := uc.Execute(context.Background(), &Request{
		AppointmentID: 404,
		ActorID:       3,
		ActorRole:     domain.RolePatient,
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{appt: testAppointment()}, &fakeDoctorRepo{})

	tests := []struct {
		name string
		req  *Request
	}{
		{"нулевой appointmentID", &Request{AppointmentID: 0, ActorID: 3, ActorRole: domain.RolePatient}},
		{"отрицательный appointmentID", &Request{AppointmentID: -1, ActorID: 3, ActorRole: domain.RolePatient}},
		{"нулевой actorID", &Request{AppointmentID: 11, ActorID: 0, ActorRole: domain.RolePatient}},
		{"пустая роль", &Request{AppointmentID: 11, ActorID: 3, ActorRole: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
