package healthrecord

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HMS-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий записей медкарты
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория медкарты
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

var recordColumns = []string{
	"id",
	"patient_id",
	"doctor_id",
	"appointment_id",
	"diagnosis",
	"prescription",
	"notes",
	"created_at",
	"updated_at",
}

// Create создает запись медкарты
func (r *Repository) Create(ctx context.Context, rec *domain.HealthRecord) (*domain.HealthRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("health_records").
		Columns(
			"patient_id",
			"doctor_id",
			"appointment_id",
			"diagnosis",
			"prescription",
			"notes",
		).
		Values(
			rec.PatientID,
			rec.DoctorID,
			rec.AppointmentID,
			rec.Diagnosis,
			rec.Prescription,
			rec.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rec.CreatedAt = createdAt.Time
	rec.UpdatedAt = updatedAt.Time

	return rec, nil
}

// GetByPatientID получает записи медкарты пациента (свежие первыми)
func (r *Repository) GetByPatientID(ctx context.Context, patientID int64) ([]*domain.HealthRecord, error) {
	return r.getByField(ctx, "patient_id", patientID, "GetByPatientID")
}

// GetByAppointmentID получает записи медкарты по приёму
func (r *Repository) GetByAppointmentID(ctx context.Context, appointmentID int64) ([]*domain.HealthRecord, error) {
	return r.getByField(ctx, "appointment_id", appointmentID, "GetByAppointmentID")
}

func (r *Repository) getByField(ctx context.Context, field string, id int64, op string) ([]*domain.HealthRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(recordColumns...).
		From("health_records").
		Where(squirrel.Eq{field: id}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	records := make([]*domain.HealthRecord, 0)
	for rows.Next() {
		var rec domain.HealthRecord
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rec.ID,
			&rec.PatientID,
			&rec.DoctorID,
			&rec.AppointmentID,
			&rec.Diagnosis,
			&rec.Prescription,
			&rec.Notes,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}

		rec.CreatedAt = createdAt.Time
		rec.UpdatedAt = updatedAt.Time

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return records, nil
}
