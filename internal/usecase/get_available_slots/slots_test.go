package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/types"
)

func labels(slots []domain.SlotDescriptor) []types.TimeLabel {
	out := make([]types.TimeLabel, len(slots))
	for i, s := range slots {
		out[i] = s.Label
	}
	return out
}

func TestBuildWeeklySlots_HorizonShape(t *testing.T) {
	// Раннее утро: все 7 дней имеют полную сетку
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

	days := buildWeeklySlots(domain.SlotsBooked{}, now)
	require.Len(t, days, 7)

	assert.Equal(t, types.DayKey("15_6_2024"), days[0].DayKey)
	assert.Equal(t, types.DayKey("21_6_2024"), days[6].DayKey)

	// 10:00-21:00 с шагом 30 минут = 22 слота
	for i, day := range days {
		assert.Len(t, day.Slots, 22, "day %d", i)
	}

	// Последовательные календарные дни
	for i := 1; i < len(days); i++ {
		assert.Equal(t, days[i-1].Date.AddDate(0, 0, 1), days[i].Date)
	}
}

func TestBuildWeeklySlots_FirstAndLastLabels(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	days := buildWeeklySlots(domain.SlotsBooked{}, now)

	slots := days[1].Slots
	require.NotEmpty(t, slots)
	assert.Equal(t, types.TimeLabel("10:00 AM"), slots[0].Label)
	// Слот ровно в закрытие (09:00 PM) не выдаётся
	assert.Equal(t, types.TimeLabel("08:30 PM"), slots[len(slots)-1].Label)
}

func TestBuildWeeklySlots_TodayRounding(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		wantFirst types.TimeLabel
		wantCount int
	}{
		{
			name:      "минуты ровно 30 остаются на границе :30",
			now:       time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC),
			wantFirst: "02:30 PM",
			wantCount: 13, // 14:30..20:30
		},
		{
			name:      "минуты меньше 30 округляются до :30",
			now:       time.Date(2024, 6, 15, 14, 10, 0, 0, time.UTC),
			wantFirst: "02:30 PM",
			wantCount: 13,
		},
		{
			name:      "минуты больше 30 округляются до следующего часа",
			now:       time.Date(2024, 6, 15, 14, 45, 0, 0, time.UTC),
			wantFirst: "03:00 PM",
			wantCount: 12, // 15:00..20:30
		},
		{
			name:      "раннее утро прижимается к открытию",
			now:       time.Date(2024, 6, 15, 7, 50, 0, 0, time.UTC),
			wantFirst: "10:00 AM",
			wantCount: 22,
		},
		{
			name:      "перед самым закрытием остаётся один слот",
			now:       time.Date(2024, 6, 15, 20, 10, 0, 0, time.UTC),
			wantFirst: "08:30 PM",
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := buildWeeklySlots(domain.SlotsBooked{}, tt.now)
			today := days[0].Slots
			require.Len(t, today, tt.wantCount)
			assert.Equal(t, tt.wantFirst, today[0].Label)
		})
	}
}

func TestBuildWeeklySlots_TodayAfterClosing(t *testing.T) {
	// После часа закрытия сегодняшний день пуст, но позиция сохраняется
	now := time.Date(2024, 6, 15, 21, 0, 0, 0, time.UTC)

	days := buildWeeklySlots(domain.SlotsBooked{}, now)
	require.Len(t, days, 7)

	assert.Empty(t, days[0].Slots)
	assert.False(t, days[0].HasSlots())
	assert.Equal(t, types.DayKey("15_6_2024"), days[0].DayKey)

	// Завтра сетка полная
	assert.Len(t, days[1].Slots, 22)
}

func TestBuildWeeklySlots_ExcludesBooked(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	booked := domain.SlotsBooked{
		"16_6_2024": {"10:00 AM", "02:30 PM"},
	}

	days := buildWeeklySlots(booked, now)
	tomorrow := days[1].Slots

	assert.Len(t, tomorrow, 20)
	assert.NotContains(t, labels(tomorrow), types.TimeLabel("10:00 AM"))
	assert.NotContains(t, labels(tomorrow), types.TimeLabel("02:30 PM"))
	assert.Contains(t, labels(tomorrow), types.TimeLabel("10:30 AM"))

	// Бронирования другого дня не влияют
	assert.Len(t, days[2].Slots, 22)
}

func TestBuildWeeklySlots_FullyBookedDay(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

	allLabels := make([]types.TimeLabel, 0, 22)
	for cursor := time.Date(2024, 6, 16, 10, 0, 0, 0, time.UTC); cursor.Hour() < 21; cursor = cursor.Add(30 * time.Minute) {
		allLabels = append(allLabels, types.NewTimeLabel(cursor))
	}

	days := buildWeeklySlots(domain.SlotsBooked{"16_6_2024": allLabels}, now)
	assert.Empty(t, days[1].Slots)
	assert.False(t, days[1].HasSlots())
}

func TestBuildWeeklySlots_SlotTimesMatchLabels(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	days := buildWeeklySlots(domain.SlotsBooked{}, now)

	for _, day := range days {
		for _, slot := range day.Slots {
			assert.Equal(t, types.NewTimeLabel(slot.Time), slot.Label)
			assert.Equal(t, types.NewDayKey(slot.Time), slot.DayKey)
		}
	}
}
