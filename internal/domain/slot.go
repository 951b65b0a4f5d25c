package domain

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// SlotDescriptor represents one bookable half-hour slot
type SlotDescriptor struct {
	Time   time.Time // Полное время начала слота
	DayKey types.DayKey
	Label  types.TimeLabel
}

// DaySlots слоты одного дня недельного горизонта.
// Пустой Slots - день без свободного времени; позиция дня в горизонте
// при этом сохраняется, чтобы клиент мог показать "нет слотов".
type DaySlots struct {
	DayKey types.DayKey
	Date   time.Time // Полночь соответствующего дня
	Slots  []SlotDescriptor
}

// HasSlots returns true if the day has at least one bookable slot
func (d *DaySlots) HasSlots() bool {
	return len(d.Slots) > 0
}
