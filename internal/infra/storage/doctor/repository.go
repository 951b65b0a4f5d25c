package doctor

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HMS-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// Repository репозиторий врачей. Владеет колонкой slots_booked -
// единственным источником правды о занятости слотов. Внешний код мутирует
// её только через ReserveSlot/ReleaseSlot.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория врачей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var doctorColumns = []string{
	"id",
	"name",
	"speciality",
	"degree",
	"experience",
	"about",
	"fees",
	"available",
	"slots_booked",
	"created_at",
	"updated_at",
}

// GetByID получает врача по ID.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы проверка
// доступности и резервирование слота видели согласованное состояние.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(doctorColumns...).
		From("doctors").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	doc, err := scanDoctor(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan doctor: %v", ErrScanRow, err)
	}

	return doc, nil
}

// List получает список врачей.
// При onlyAvailable=true возвращаются только принимающие записи врачи.
func (r *Repository) List(ctx context.Context, onlyAvailable bool) ([]*domain.Doctor, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(doctorColumns...).
		From("doctors").
		OrderBy("speciality ASC, name ASC")

	if onlyAvailable {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"available": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	doctors := make([]*domain.Doctor, 0)
	for rows.Next() {
		doc, err := scanDoctor(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		doctors = append(doctors, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return doctors, nil
}

// ReserveSlot атомарно помечает слот занятым.
// Проверка "слот свободен" и запись выполняются одним условным UPDATE:
// обновление проходит только если метки ещё нет в массиве этого дня.
// Ноль затронутых строк означает, что гонку выиграл другой запрос.
func (r *Repository) ReserveSlot(ctx context.Context, doctorID int64, day types.DayKey, label types.TimeLabel) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("doctors").
		Set("slots_booked", squirrel.Expr(
			"jsonb_set(slots_booked, ARRAY[?::text], COALESCE(slots_booked->?::text, '[]'::jsonb) || to_jsonb(?::text))",
			day.String(), day.String(), label.String(),
		)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": doctorID}).
		Where(squirrel.Expr(
			"NOT (COALESCE(slots_booked->?::text, '[]'::jsonb) @> to_jsonb(?::text))",
			day.String(), label.String(),
		)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReserveSlot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReserveSlot - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ReserveSlot - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotTaken
	}

	return nil
}

// ReleaseSlot освобождает слот, удаляя метку из массива дня.
// Отсутствующий день или метка - no-op, не ошибка.
func (r *Repository) ReleaseSlot(ctx context.Context, doctorID int64, day types.DayKey, label types.TimeLabel) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("doctors").
		Set("slots_booked", squirrel.Expr(
			"jsonb_set(slots_booked, ARRAY[?::text], (slots_booked->?::text) - ?::text)",
			day.String(), day.String(), label.String(),
		)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": doctorID}).
		Where(squirrel.Expr("slots_booked->?::text IS NOT NULL", day.String())).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseSlot - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReleaseSlot - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// SetAvailability переключает глобальный флаг приёма новых записей
func (r *Repository) SetAvailability(ctx context.Context, id int64, available bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("doctors").
		Set("available", available).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetAvailability - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetAvailability - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrDoctorNotFound
	}

	return nil
}

// UpdateProfile обновляет редактируемые поля профиля врача.
// Nil-поля не изменяются.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, fees *float64, about *string, available *bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("doctors").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if fees != nil {
		updateBuilder = updateBuilder.Set("fees", *fees)
	}
	if about != nil {
		updateBuilder = updateBuilder.Set("about", *about)
	}
	if available != nil {
		updateBuilder = updateBuilder.Set("available", *available)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateProfile - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateProfile - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateProfile - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrDoctorNotFound
	}

	return nil
}

// scanDoctor сканирует строку врача общим набором колонок
func scanDoctor(scan func(dest ...interface{}) error) (*domain.Doctor, error) {
	var doc domain.Doctor
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&doc.ID,
		&doc.Name,
		&doc.Speciality,
		&doc.Degree,
		&doc.Experience,
		&doc.About,
		&doc.Fees,
		&doc.Available,
		&doc.SlotsBooked,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.CreatedAt = createdAt.Time
	doc.UpdatedAt = updatedAt.Time

	return &doc, nil
}
