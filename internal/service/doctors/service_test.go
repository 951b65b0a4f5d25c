package doctors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	doctorRepo "github.com/m04kA/HMS-AppointmentService/internal/infra/storage/doctor"
	"github.com/m04kA/HMS-AppointmentService/internal/service/doctors/models"
	"github.com/m04kA/HMS-AppointmentService/pkg/ptr"
)

type fakeDoctorRepo struct {
	doctors map[int64]*domain.Doctor
}

func newFakeDoctorRepo(doctors ...*domain.Doctor) *fakeDoctorRepo {
	f := &fakeDoctorRepo{doctors: make(map[int64]*domain.Doctor)}
	for _, d := range doctors {
		f.doctors[d.ID] = d
	}
	return f
}

func (f *fakeDoctorRepo) GetByID(_ context.Context, id int64) (*domain.Doctor, error) {
	doc, ok := f.doctors[id]
	if !ok {
		return nil, doctorRepo.ErrDoctorNotFound
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeDoctorRepo) List(_ context.Context, onlyAvailable bool) ([]*domain.Doctor, error) {
	var out []*domain.Doctor
	for _, d := range f.doctors {
		if onlyAvailable && !d.Available {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDoctorRepo) SetAvailability(_ context.Context, id int64, available bool) error {
	doc, ok := f.doctors[id]
	if !ok {
		return doctorRepo.ErrDoctorNotFound
	}
	doc.Available = available
	return nil
}

func (f *fakeDoctorRepo) UpdateProfile(_ context.Context, id int64, fees *float64, about *string, available *bool) error {
	doc, ok := f.doctors[id]
	if !ok {
		return doctorRepo.ErrDoctorNotFound
	}
	if fees != nil {
		doc.Fees = *fees
	}
	if about != nil {
		doc.About = *about
	}
	if available != nil {
		doc.Available = *available
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testDoctor(id int64, available bool) *domain.Doctor {
	return &domain.Doctor{
		ID:         id,
		Name:       "Dr. Richard James",
		Speciality: "General physician",
		Fees:       50,
		Available:  available,
	}
}

func TestList(t *testing.T) {
	repo := newFakeDoctorRepo(testDoctor(1, true), testDoctor(2, false))
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	resp, err := svc.List(ctx, &models.ListDoctorsRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Doctors, 2)

	resp, err = svc.List(ctx, &models.ListDoctorsRequest{OnlyAvailable: true})
	require.NoError(t, err)
	require.Len(t, resp.Doctors, 1)
	assert.Equal(t, int64(1), resp.Doctors[0].ID)
}

func TestGetByID(t *testing.T) {
	svc := NewService(newFakeDoctorRepo(testDoctor(7, true)), nopLogger{})
	ctx := context.Background()

	resp, err := svc.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Richard James", resp.Name)

	_, err = svc.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestSetAvailability(t *testing.T) {
	repo := newFakeDoctorRepo(testDoctor(7, true))
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	resp, err := svc.SetAvailability(ctx, 7, &models.SetAvailabilityRequest{
		ActorID:   7,
		ActorRole: domain.RoleDoctor,
		Available: false,
	})
	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.False(t, repo.doctors[7].Available)

	// Чужой врач не переключает
	_, err = svc.SetAvailability(ctx, 7, &models.SetAvailabilityRequest{
		ActorID:   8,
		ActorRole: domain.RoleDoctor,
		Available: true,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// staff переключает любого
	resp, err = svc.SetAvailability(ctx, 7, &models.SetAvailabilityRequest{
		ActorID:   999,
		ActorRole: domain.RoleStaff,
		Available: true,
	})
	require.NoError(t, err)
	assert.True(t, resp.Available)
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeDoctorRepo(testDoctor(7, true))
	svc := NewService(repo, nopLogger{})
	ctx := context.Background()

	resp, err := svc.UpdateProfile(ctx, 7, &models.UpdateProfileRequest{
		ActorID:   7,
		ActorRole: domain.RoleDoctor,
		Fees:      ptr.Ptr(80.0),
		About:     ptr.Ptr("20 лет практики"),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(80), resp.Fees)
	assert.Equal(t, "20 лет практики", resp.About)
	// Непереданные поля не трогаем
	assert.True(t, resp.Available)
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc := NewService(newFakeDoctorRepo(testDoctor(7, true)), nopLogger{})
	ctx := context.Background()

	// Пустое обновление
	_, err := svc.UpdateProfile(ctx, 7, &models.UpdateProfileRequest{
		ActorID:   7,
		ActorRole: domain.RoleDoctor,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Отрицательный тариф
	_, err = svc.UpdateProfile(ctx, 7, &models.UpdateProfileRequest{
		ActorID:   7,
		ActorRole: domain.RoleDoctor,
		Fees:      ptr.Ptr(-10.0),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProfile_AccessDenied(t *testing.T) {
	svc := NewService(newFakeDoctorRepo(testDoctor(7, true)), nopLogger{})

	_, err := svc.UpdateProfile(context.Background(), 7, &models.UpdateProfileRequest{
		ActorID:   3,
		ActorRole: domain.RolePatient,
		Fees:      ptr.Ptr(80.0),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
