package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// timeLabelLayout 12-часовой формат метки слота: "10:30 AM", "01:00 PM".
// Совпадает с форматом, в котором метки хранятся в карте бронирований врача.
const timeLabelLayout = "03:04 PM"

var (
	// ErrInvalidTimeLabel возвращается при некорректном формате метки времени
	ErrInvalidTimeLabel = errors.New("invalid time label format, expected hh:mm AM/PM")
)

// TimeLabel каноническая строковая метка начала слота внутри дня
type TimeLabel string

// NewTimeLabel создает метку из времени (дата отбрасывается)
func NewTimeLabel(t time.Time) TimeLabel {
	return TimeLabel(t.Format(timeLabelLayout))
}

// ParseTimeLabel парсит и валидирует строковое представление метки
func ParseTimeLabel(s string) (TimeLabel, error) {
	l := TimeLabel(s)
	if err := l.Validate(); err != nil {
		return "", err
	}
	return l, nil
}

// Validate проверяет формат метки
func (l TimeLabel) Validate() error {
	t, err := time.Parse(timeLabelLayout, string(l))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeLabel, string(l))
	}
	// time.Parse принимает незначащие отклонения, требуем канонический вид
	if t.Format(timeLabelLayout) != string(l) {
		return fmt.Errorf("%w: %q is not canonical", ErrInvalidTimeLabel, string(l))
	}
	return nil
}

// Minutes возвращает число минут от полуночи до начала слота
func (l TimeLabel) Minutes() (int, error) {
	t, err := time.Parse(timeLabelLayout, string(l))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeLabel, string(l))
	}
	return t.Hour()*60 + t.Minute(), nil
}

// IsBefore проверяет, что метка строго раньше другой.
// Некорректные метки считаются несравнимыми и возвращают false.
func (l TimeLabel) IsBefore(other TimeLabel) bool {
	a, err := l.Minutes()
	if err != nil {
		return false
	}
	b, err := other.Minutes()
	if err != nil {
		return false
	}
	return a < b
}

// IsZero проверяет, что метка не задана
func (l TimeLabel) IsZero() bool {
	return l == ""
}

// String возвращает строковое представление
func (l TimeLabel) String() string {
	return string(l)
}

// Value реализует driver.Valuer для записи в БД
func (l TimeLabel) Value() (driver.Value, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return string(l), nil
}

// Scan реализует sql.Scanner для чтения из БД
func (l *TimeLabel) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*l = TimeLabel(v)
	case []byte:
		*l = TimeLabel(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeLabel, src)
	}
	return l.Validate()
}
