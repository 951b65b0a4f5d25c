package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidDayKey возвращается при некорректном формате ключа дня
	ErrInvalidDayKey = errors.New("invalid day key format, expected D_M_YYYY")
)

// DayKey канонический строковый ключ календарного дня вида "15_6_2024"
// (день_месяц_год, без ведущих нулей). Используется как ключ карты
// бронирований врача и как значение колонки slot_date, поэтому формат
// обязан совпадать на всех сторонах.
type DayKey string

// NewDayKey создает ключ дня из времени
func NewDayKey(t time.Time) DayKey {
	return DayKey(fmt.Sprintf("%d_%d_%d", t.Day(), int(t.Month()), t.Year()))
}

// ParseDayKey парсит и валидирует строковое представление ключа дня
func ParseDayKey(s string) (DayKey, error) {
	k := DayKey(s)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// Validate проверяет, что ключ представляет существующую календарную дату
func (k DayKey) Validate() error {
	day, month, year, err := k.parts()
	if err != nil {
		return err
	}

	// Откат даты средствами time.Date нормализует некорректные значения
	// (например 31_2_2024 превратится в март) - сверяем с исходными частями
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return fmt.Errorf("%w: %q is not a calendar date", ErrInvalidDayKey, string(k))
	}

	return nil
}

// Time возвращает полночь соответствующего дня в указанной локации
func (k DayKey) Time(loc *time.Location) (time.Time, error) {
	day, month, year, err := k.parts()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), nil
}

// IsZero проверяет, что ключ не задан
func (k DayKey) IsZero() bool {
	return k == ""
}

// String возвращает строковое представление
func (k DayKey) String() string {
	return string(k)
}

func (k DayKey) parts() (day, month, year int, err error) {
	fields := strings.Split(string(k), "_")
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDayKey, string(k))
	}

	nums := make([]int, 3)
	for i, f := range fields {
		n, convErr := strconv.Atoi(f)
		if convErr != nil || strconv.Itoa(n) != f {
			// Запрещаем ведущие нули и нечисловые части
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDayKey, string(k))
		}
		nums[i] = n
	}

	day, month, year = nums[0], nums[1], nums[2]
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1970 || year > 9999 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDayKey, string(k))
	}

	return day, month, year, nil
}

// Value реализует driver.Valuer для записи в БД
func (k DayKey) Value() (driver.Value, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return string(k), nil
}

// Scan реализует sql.Scanner для чтения из БД
func (k *DayKey) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*k = DayKey(v)
	case []byte:
		*k = DayKey(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidDayKey, src)
	}
	return k.Validate()
}
