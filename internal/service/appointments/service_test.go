package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	apptRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/appointment"
)

type fakeAppointmentRepo struct {
	appts     map[int64]*domain.Appointment
	byDoctor  []*domain.Appointment
	stats     *domain.DoctorStats
	completed []int64
	paid      []int64
	markErr   error

	// запоминаем последний фильтр для проверок
	lastFilter domain.DoctorAppointmentsFilter
}

func newFakeAppointmentRepo(appts ...*domain.Appointment) *fakeAppointmentRepo {
	f := &fakeAppointmentRepo{appts: make(map[int64]*domain.Appointment)}
	for _, a := range appts {
		f.appts[a.ID] = a
	}
	return f
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := f.appts[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (f *fakeAppointmentRepo) GetByPatientID(_ context.Context, patientID int64) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, a := range f.appts {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) GetByDoctorWithFilter(_ context.Context, filter domain.DoctorAppointmentsFilter) ([]*domain.Appointment, error) {
	f.lastFilter = filter
	return f.byDoctor, nil
}

func (f *fakeAppointmentRepo) MarkCompleted(_ context.Context, id int64) error {
	if f.markErr != nil {
		return f.markErr
	}
	appt, ok := f.appts[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	appt.IsCompleted = true
	appt.UpdatedAt = time.Now()
	f.completed = append(f.completed, id)
	return nil
}

func (f *fakeAppointmentRepo) MarkPaid(_ context.Context, id int64) error {
	appt, ok := f.appts[id]
	if !ok {
		return apptRepo.ErrAppointmentNotFound
	}
	appt.Payment = true
	f.paid = append(f.paid, id)
	return nil
}

func (f *fakeAppointmentRepo) GetDoctorStats(_ context.Context, _ int64) (*domain.DoctorStats, error) {
	return f.stats, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testAppointment(id int64) *domain.Appointment {
	return &domain.Appointment{
		ID:        id,
		PatientID: 3,
		DoctorID:  7,
		SlotDate:  "16_6_2024",
		SlotTime:  "10:30 AM",
		Amount:    50,
	}
}

func TestGetByID_Access(t *testing.T) {
	repo := newFakeAppointmentRepo(testAppointment(11))
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	tests := []struct {
		name    string
		actorID int64
		role    string
		wantErr error
	}{
		{"пациент видит свою запись", 3, domain.RolePatient, nil},
		{"чужой пациент не видит", 4, domain.RolePatient, ErrAccessDenied},
		{"врач видит свой приём", 7, domain.RoleDoctor, nil},
		{"чужой врач не видит", 8, domain.RoleDoctor, ErrAccessDenied},
		{"staff видит любую", 999, domain.RoleStaff, nil},
		{"неизвестная роль", 3, "admin", ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetByID(ctx, 11, tt.actorID, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(11), resp.ID)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(newFakeAppointmentRepo(), nopLogger{})

	_, err := svc.GetByID(context.Background(), 404, 1, domain.RoleStaff)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetPatientAppointments_Access(t *testing.T) {
	repo := newFakeAppointmentRepo(testAppointment(11))
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	// Пациент видит свою историю
	resp, err := svc.GetPatientAppointments(ctx, 3, 3, domain.RolePatient)
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)

	// Чужую историю пациент не видит
	_, err = svc.GetPatientAppointments(ctx, 3, 4, domain.RolePatient)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// staff видит любую
	resp, err = svc.GetPatientAppointments(ctx, 3, 999, domain.RoleStaff)
	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
}

func TestComplete_Success(t *testing.T) {
	repo := newFakeAppointmentRepo(testAppointment(11))
	svc := NewService(repo, nopLogger{})

	resp, err := svc.Complete(context.Background(), 11, 7, domain.RoleDoctor)
	require.NoError(t, err)

	assert.True(t, resp.IsCompleted)
	assert.Equal(t, []int64{11}, repo.completed)
}

func TestComplete_AccessDenied(t *testing.T) {
	repo := newFakeAppointmentRepo(testAppointment(11))
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	// Пациент не может завершить приём, даже свой
	_, err := svc.Complete(ctx, 11, 3, domain.RolePatient)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Чужой врач тоже
	_, err = svc.Complete(ctx, 11, 8, domain.RoleDoctor)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.completed)
}

func TestComplete_Lifecycle(t *testing.T) {
	t.Run("отменённый приём не завершить", func(t *testing.T) {
		appt := testAppointment(11)
		appt.Cancelled = true
		svc := NewService(newFakeAppointmentRepo(appt), nopLogger{})

		_, err := svc.Complete(context.Background(), 11, 7, domain.RoleDoctor)
		assert.ErrorIs(t, err, ErrCannotComplete)
	})

	t.Run("повторное завершение", func(t *testing.T) {
		appt := testAppointment(11)
		appt.IsCompleted = true
		svc := NewService(newFakeAppointmentRepo(appt), nopLogger{})

		_, err := svc.Complete(context.Background(), 11, 7, domain.RoleDoctor)
		assert.ErrorIs(t, err, ErrCannotComplete)
	})
}

func TestConfirmPayment(t *testing.T) {
	repo := newFakeAppointmentRepo(testAppointment(11))
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	require.NoError(t, svc.ConfirmPayment(ctx, 11))
	assert.True(t, repo.appts[11].Payment)

	// Повторное подтверждение - идемпотентный no-op
	require.NoError(t, svc.ConfirmPayment(ctx, 11))

	assert.ErrorIs(t, svc.ConfirmPayment(ctx, 404), ErrAppointmentNotFound)
}

func TestGetDoctorDashboard(t *testing.T) {
	repo := newFakeAppointmentRepo()
	repo.stats = &domain.DoctorStats{
		Earnings:          350,
		TotalAppointments: 9,
		UniquePatients:    4,
	}
	// Больше лимита дашборда
	for i := int64(1); i <= 8; i++ {
		repo.byDoctor = append(repo.byDoctor, testAppointment(i))
	}

	svc := NewService(repo, nopLogger{})

	resp, err := svc.GetDoctorDashboard(context.Background(), 7, 7, domain.RoleDoctor)
	require.NoError(t, err)

	assert.Equal(t, float64(350), resp.Earnings)
	assert.Equal(t, 9, resp.TotalAppointments)
	assert.Equal(t, 4, resp.UniquePatients)
	assert.Len(t, resp.LatestAppointments, latestAppointmentsLimit)

	// Дашборд включает отменённые записи
	assert.True(t, repo.lastFilter.IncludeInactive)
}

func TestGetDoctorDashboard_AccessDenied(t *testing.T) {
	svc := NewService(newFakeAppointmentRepo(), nopLogger{})

	_, err := svc.GetDoctorDashboard(context.Background(), 7, 3, domain.RolePatient)
	assert.ErrorIs(t, err, ErrAccessDenied)
}
