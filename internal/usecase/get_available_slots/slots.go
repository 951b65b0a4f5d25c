package get_available_slots

import (
	"time"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

// buildWeeklySlots строит недельный горизонт доступных слотов.
// Чистая функция от карты занятых слотов и текущего времени; каждый вызов
// пересчитывает горизонт с нуля.
func buildWeeklySlots(booked domain.SlotsBooked, now time.Time) []domain.DaySlots {
	days := make([]domain.DaySlots, 0, domain.ScheduleHorizonDays)

	for i := 0; i < domain.ScheduleHorizonDays; i++ {
		dayDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, i)

		days = append(days, domain.DaySlots{
			DayKey: types.NewDayKey(dayDate),
			Date:   dayDate,
			Slots:  buildDaySlots(dayDate, now, i == 0, booked),
		})
	}

	return days
}

// buildDaySlots перечисляет свободные слоты одного дня.
// Слоты идут с шагом 30 минут от начала дня до закрытия (исключительно):
// слот ровно в момент закрытия или позже не выдаётся никогда.
func buildDaySlots(dayDate time.Time, now time.Time, isToday bool, booked domain.SlotsBooked) []domain.SlotDescriptor {
	start, ok := dayStartTime(dayDate, now, isToday)
	if !ok {
		return []domain.SlotDescriptor{}
	}

	end := time.Date(dayDate.Year(), dayDate.Month(), dayDate.Day(),
		domain.ClosingHour, 0, 0, 0, dayDate.Location())

	dayKey := types.NewDayKey(dayDate)

	slots := make([]domain.SlotDescriptor, 0)
	for cursor := start; cursor.Before(end); cursor = cursor.Add(domain.SlotStepMinutes * time.Minute) {
		label := types.NewTimeLabel(cursor)
		if booked.IsBooked(dayKey, label) {
			continue
		}

		slots = append(slots, domain.SlotDescriptor{
			Time:   cursor,
			DayKey: dayKey,
			Label:  label,
		})
	}

	return slots
}

// dayStartTime вычисляет время первого кандидатного слота дня.
// Будущие дни начинаются с открытия клиники. Сегодняшний день - со
// следующей получасовой границы после текущего времени: при минутах > 30
// округляем вверх до следующего часа, иначе до границы :30. Раннее утро
// прижимается к открытию; после часа закрытия слотов нет.
func dayStartTime(dayDate time.Time, now time.Time, isToday bool) (time.Time, bool) {
	if !isToday {
		return time.Date(dayDate.Year(), dayDate.Month(), dayDate.Day(),
			domain.OpeningHour, 0, 0, 0, dayDate.Location()), true
	}

	if now.Hour() >= domain.ClosingHour {
		return time.Time{}, false
	}

	hour, minute := now.Hour(), now.Minute()
	if minute > 30 {
		hour, minute = hour+1, 0
	} else {
		minute = 30
	}

	if hour < domain.OpeningHour {
		hour, minute = domain.OpeningHour, 0
	}

	return time.Date(dayDate.Year(), dayDate.Month(), dayDate.Day(),
		hour, minute, 0, 0, dayDate.Location()), true
}
