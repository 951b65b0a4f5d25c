package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// ErrInvalidSlotsBooked возвращается при некорректном содержимом колонки slots_booked
var ErrInvalidSlotsBooked = errors.New("invalid slots_booked value")

// SlotsBooked карта занятых слотов врача: ключ дня -> метки времени.
// Отсутствие ключа означает, что на этот день нет ни одной записи.
// Единственный источник правды о занятости слотов; мутируется только
// при бронировании (Reserve) и отмене (Release).
type SlotsBooked map[types.DayKey][]types.TimeLabel

// IsBooked проверяет, занят ли слот
func (s SlotsBooked) IsBooked(day types.DayKey, label types.TimeLabel) bool {
	for _, booked := range s[day] {
		if booked == label {
			return true
		}
	}
	return false
}

// Reserve помечает слот занятым. Вызывающий обязан проверить IsBooked
// непосредственно перед вызовом внутри той же атомарной границы -
// сам по себе метод повторную запись не отклоняет.
func (s SlotsBooked) Reserve(day types.DayKey, label types.TimeLabel) {
	s[day] = append(s[day], label)
}

// Release освобождает слот. Отсутствующая запись - no-op, не ошибка.
func (s SlotsBooked) Release(day types.DayKey, label types.TimeLabel) {
	labels, ok := s[day]
	if !ok {
		return
	}

	filtered := labels[:0]
	for _, booked := range labels {
		if booked != label {
			filtered = append(filtered, booked)
		}
	}

	if len(filtered) == 0 {
		delete(s, day)
		return
	}
	s[day] = filtered
}

// Value реализует driver.Valuer для записи в JSONB колонку
func (s SlotsBooked) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal: %v", ErrInvalidSlotsBooked, err)
	}
	return data, nil
}

// Scan реализует sql.Scanner для чтения из JSONB колонки
func (s *SlotsBooked) Scan(src interface{}) error {
	if src == nil {
		*s = SlotsBooked{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidSlotsBooked, src)
	}

	out := SlotsBooked{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("%w: unmarshal: %v", ErrInvalidSlotsBooked, err)
	}

	*s = out
	return nil
}

// Doctor represents a practitioner available for booking
type Doctor struct {
	ID         int64
	Name       string
	Speciality string
	Degree     string
	Experience string
	About      string
	Fees       float64

	// Available глобальный переключатель: false блокирует любые новые
	// бронирования независимо от состояния слотов
	Available bool

	SlotsBooked SlotsBooked

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AcceptsBookings проверяет, принимает ли врач новые записи
func (d *Doctor) AcceptsBookings() bool {
	return d.Available
}
