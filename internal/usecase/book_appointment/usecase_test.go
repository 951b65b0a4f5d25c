package book_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	doctorRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/doctor"
	userClient "github.com/m04kA/HMS-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/HMS-AppointmentService/pkg/ptr"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// fakeDoctorRepo потокобезопасная in-memory замена репозитория врачей.
// ReserveSlot воспроизводит семантику условного UPDATE: проверка и
// запись под одним мьютексом.
type fakeDoctorRepo struct {
	mu     sync.Mutex
	doctor *domain.Doctor
	getErr error
}

func (f *fakeDoctorRepo) GetByID(_ context.Context, _ int64) (*domain.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.doctor
	return &copied, nil
}

func (f *fakeDoctorRepo) ReserveSlot(_ context.Context, _ int64, day types.DayKey, label types.TimeLabel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.doctor.SlotsBooked.IsBooked(day, label) {
		return doctorRepo.ErrSlotTaken
	}
	f.doctor.SlotsBooked.Reserve(day, label)
	return nil
}

type fakeAppointmentRepo struct {
	mu      sync.Mutex
	nextID  int64
	created []*domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	copied := *appt
	copied.ID = f.nextID
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	f.created = append(f.created, &copied)
	return &copied, nil
}

type fakeUserClient struct {
	patient *userClient.Patient
	err     error
}

func (f *fakeUserClient) GetPatient(_ context.Context, _ int64) (*userClient.Patient, error) {
	return f.patient, f.err
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testDoctor() *domain.Doctor {
	return &domain.Doctor{
		ID:          7,
		Name:        "Dr. Richard James",
		Speciality:  "General physician",
		Degree:      "MBBS",
		Fees:        50,
		Available:   true,
		SlotsBooked: domain.SlotsBooked{},
	}
}

func testPatient() *userClient.Patient {
	return &userClient.Patient{
		ID:    3,
		Name:  "Ivan Petrov",
		Email: "ivan@example.com",
		Phone: ptr.Ptr("+70000000000"),
	}
}

func newTestUseCase(docs *fakeDoctorRepo, appts *fakeAppointmentRepo, users *fakeUserClient, now time.Time) *UseCase {
	uc := NewUseCase(docs, appts, users, fakeTxManager{}, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}
	return uc
}

func validRequest() *Request {
	return &Request{
		PatientID: 3,
		DoctorID:  7,
		SlotDate:  "16_6_2024",
		SlotTime:  "10:30 AM",
	}
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestExecute_Success(t *testing.T) {
	docs := &fakeDoctorRepo{doctor: testDoctor()}
	appts := &fakeAppointmentRepo{}
	uc := newTestUseCase(docs, appts, &fakeUserClient{patient: testPatient()}, testNow)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, int64(3), resp.PatientID)
	assert.Equal(t, int64(7), resp.DoctorID)
	assert.Equal(t, types.DayKey("16_6_2024"), resp.SlotDate)
	assert.Equal(t, types.TimeLabel("10:30 AM"), resp.SlotTime)
	assert.False(t, resp.Cancelled)
	assert.False(t, resp.Payment)
	assert.False(t, resp.IsCompleted)

	// Слот помечен занятым у врача
	assert.True(t, docs.doctor.SlotsBooked.IsBooked("16_6_2024", "10:30 AM"))

	// Денормализованный снапшот
	require.Len(t, appts.created, 1)
	created := appts.created[0]
	assert.Equal(t, "Dr. Richard James", created.DoctorName)
	assert.Equal(t, "General physician", created.DoctorSpeciality)
	assert.Equal(t, "Ivan Petrov", created.PatientName)
	assert.Equal(t, "ivan@example.com", created.PatientEmail)
}

func TestExecute_AmountSnapshotsFees(t *testing.T) {
	// Amount фиксируется в момент бронирования и не зависит от
	// последующих изменений тарифа врача
	docs := &fakeDoctorRepo{doctor: testDoctor()}
	appts := &fakeAppointmentRepo{}
	uc := newTestUseCase(docs, appts, &fakeUserClient{patient: testPatient()}, testNow)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, float64(50), resp.Amount)

	docs.mu.Lock()
	docs.doctor.Fees = 200
	docs.mu.Unlock()

	req2 := validRequest()
	req2.SlotTime = "11:00 AM"
	resp2, err := uc.Execute(context.Background(), req2)
	require.NoError(t, err)
	assert.Equal(t, float64(200), resp2.Amount)

	// Первая запись сохранила старую цену
	assert.Equal(t, float64(50), appts.created[0].Amount)
}

func TestExecute_SlotConflict(t *testing.T) {
	docs := &fakeDoctorRepo{doctor: testDoctor()}
	docs.doctor.SlotsBooked.Reserve("16_6_2024", "10:30 AM")

	uc := newTestUseCase(docs, &fakeAppointmentRepo{}, &fakeUserClient{patient: testPatient()}, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestExecute_DoctorUnavailable(t *testing.T) {
	doc := testDoctor()
	doc.Available = false
	docs := &fakeDoctorRepo{doctor: doc}
	appts := &fakeAppointmentRepo{}

	uc := newTestUseCase(docs, appts, &fakeUserClient{patient: testPatient()}, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDoctorUnavailable)
	assert.Empty(t, appts.created)
	assert.False(t, docs.doctor.SlotsBooked.IsBooked("16_6_2024", "10:30 AM"))
}

func TestExecute_DoctorNotFound(t *testing.T) {
	docs := &fakeDoctorRepo{doctor: testDoctor(), getErr: doctorRepo.ErrDoctorNotFound}
	uc := newTestUseCase(docs, &fakeAppointmentRepo{}, &fakeUserClient{patient: testPatient()}, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestExecute_PatientNotFound(t *testing.T) {
	docs := &fakeDoctorRepo{doctor: testDoctor()}
	uc := newTestUseCase(docs, &fakeAppointmentRepo{}, &fakeUserClient{err: userClient.ErrPatientNotFound}, testNow)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestExecute_Validation(t *testing.T) {
	uc := newTestUseCase(&fakeDoctorRepo{doctor: testDoctor()}, &fakeAppointmentRepo{},
		&fakeUserClient{patient: testPatient()}, testNow)

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"нулевой patientID", func(r *Request) { r.PatientID = 0 }, ErrInvalidInput},
		{"нулевой doctorID", func(r *Request) { r.DoctorID = 0 }, ErrInvalidInput},
		{"пустой ключ дня", func(r *Request) { r.SlotDate = "" }, ErrInvalidInput},
		{"мусорный ключ дня", func(r *Request) { r.SlotDate = "2024-06-16" }, ErrInvalidInput},
		{"пустая метка времени", func(r *Request) { r.SlotTime = "" }, ErrInvalidInput},
		{"мусорная метка времени", func(r *Request) { r.SlotTime = "25:99" }, ErrInvalidInput},
		{"слот вне сетки", func(r *Request) { r.SlotTime = "10:15 AM" }, ErrInvalidTimeSlot},
		{"слот до открытия", func(r *Request) { r.SlotTime = "09:30 AM" }, ErrInvalidTimeSlot},
		{"слот в момент закрытия", func(r *Request) { r.SlotTime = "09:00 PM" }, ErrInvalidTimeSlot},
		{"слот в прошлом", func(r *Request) { r.SlotDate = "14_6_2024" }, ErrSlotInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_SlotEarlierSameDayRejected(t *testing.T) {
	// now = 12:00, слот 10:30 того же дня уже прошёл
	docs := &fakeDoctorRepo{doctor: testDoctor()}
	uc := newTestUseCase(docs, &fakeAppointmentRepo{}, &fakeUserClient{patient: testPatient()}, testNow)

	req := validRequest()
	req.SlotDate = "15_6_2024"
	req.SlotTime = "10:30 AM"

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotInPast)
}

func TestExecute_ConcurrentSameSlot(t *testing.T) {
	// Из N конкурентных запросов на один слот успешен ровно один
	const workers = 16

	docs := &fakeDoctorRepo{doctor: testDoctor()}
	appts := &fakeAppointmentRepo{}
	uc := newTestUseCase(docs, appts, &fakeUserClient{patient: testPatient()}, testNow)

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), validRequest())
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Len(t, appts.created, 1)
}
