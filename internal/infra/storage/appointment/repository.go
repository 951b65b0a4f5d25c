package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HMS-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий записей на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var appointmentColumns = []string{
	"id",
	"patient_id",
	"doctor_id",
	"slot_date",
	"slot_time",
	"amount",
	"cancelled",
	"cancelled_by",
	"cancelled_at",
	"payment",
	"is_completed",
	"doctor_name",
	"doctor_speciality",
	"doctor_degree",
	"doctor_fees",
	"patient_name",
	"patient_email",
	"patient_phone",
	"patient_dob",
	"created_at",
	"updated_at",
}

// Create создает запись на приём.
// Вызывается внутри той же транзакции, что и резервирование слота -
// либо фиксируются оба изменения, либо ни одного.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"patient_id",
			"doctor_id",
			"slot_date",
			"slot_time",
			"amount",
			"cancelled",
			"payment",
			"is_completed",
			"doctor_name",
			"doctor_speciality",
			"doctor_degree",
			"doctor_fees",
			"patient_name",
			"patient_email",
			"patient_phone",
			"patient_dob",
		).
		Values(
			appt.PatientID,
			appt.DoctorID,
			appt.SlotDate,
			appt.SlotTime,
			appt.Amount,
			appt.Cancelled,
			appt.Payment,
			appt.IsCompleted,
			appt.DoctorName,
			appt.DoctorSpeciality,
			appt.DoctorDegree,
			appt.DoctorFees,
			appt.PatientName,
			appt.PatientEmail,
			appt.PatientPhone,
			appt.PatientDOB,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	appt, err := scanAppointment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// GetByPatientID получает историю записей пациента (свежие первыми)
func (r *Repository) GetByPatientID(ctx context.Context, patientID int64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"patient_id": patientID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByPatientID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPatientID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetByDoctorWithFilter получает записи врача с фильтрацией.
// По умолчанию отменённые записи исключаются.
func (r *Repository) GetByDoctorWithFilter(ctx context.Context, filter domain.DoctorAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"doctor_id": filter.DoctorID})

	if filter.SlotDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_date": *filter.SlotDate})
	}

	if filter.OnlyCompleted {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_completed": true})
	}

	if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"cancelled": false})
	}

	if filter.SlotDate != nil {
		// Для конкретного дня сортируем по времени начала
		selectBuilder = selectBuilder.OrderBy("slot_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("created_at DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctorWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// Cancel помечает запись отменённой.
// Условие cancelled = FALSE делает операцию безопасной под гонкой:
// повторная отмена не проходит и отчитывается как ErrAlreadyCancelled.
// Запись никогда не удаляется физически.
func (r *Repository) Cancel(ctx context.Context, id int64, cancelledBy string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("cancelled", true).
		Set("cancelled_by", cancelledBy).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "cancelled": false}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо записи нет, либо она уже отменена - различаем отдельным чтением
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrAlreadyCancelled
	}

	return nil
}

// MarkCompleted помечает приём проведённым
func (r *Repository) MarkCompleted(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("is_completed", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "cancelled": false, "is_completed": false}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkCompleted - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkCompleted - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkCompleted - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		appt, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		if appt.IsCompleted {
			return ErrAlreadyCompleted
		}
		return ErrAlreadyCancelled
	}

	return nil
}

// MarkPaid фиксирует подтверждение оплаты от платёжного провайдера.
// Повторное подтверждение - no-op: провайдеры присылают колбэки
// с at-least-once семантикой.
func (r *Repository) MarkPaid(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("payment", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// GetDoctorStats считает агрегаты для дашборда врача.
// В заработок входят оплаченные или завершённые неотменённые приёмы.
func (r *Repository) GetDoctorStats(ctx context.Context, doctorID int64) (*domain.DoctorStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COALESCE(SUM(amount) FILTER (WHERE NOT cancelled AND (payment OR is_completed)), 0)",
		"COUNT(*)",
		"COUNT(DISTINCT patient_id)",
	).
		From("appointments").
		Where(squirrel.Eq{"doctor_id": doctorID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctorStats - build select query: %v", ErrBuildQuery, err)
	}

	var stats domain.DoctorStats
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.Earnings,
		&stats.TotalAppointments,
		&stats.UniquePatients,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctorStats - scan stats: %v", ErrScanRow, err)
	}

	return &stats, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// scanAppointment сканирует строку записи общим набором колонок
func scanAppointment(scan func(dest ...interface{}) error) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&appt.ID,
		&appt.PatientID,
		&appt.DoctorID,
		&appt.SlotDate,
		&appt.SlotTime,
		&appt.Amount,
		&appt.Cancelled,
		&appt.CancelledBy,
		&appt.CancelledAt,
		&appt.Payment,
		&appt.IsCompleted,
		&appt.DoctorName,
		&appt.DoctorSpeciality,
		&appt.DoctorDegree,
		&appt.DoctorFees,
		&appt.PatientName,
		&appt.PatientEmail,
		&appt.PatientPhone,
		&appt.PatientDOB,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}
