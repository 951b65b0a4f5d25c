package domain

// Политика расписания клиники. Единая для всех врачей:
// приём с 10:00 до 21:00, слоты по 30 минут, горизонт бронирования 7 дней.
const (
	OpeningHour = 10
	ClosingHour = 21

	SlotStepMinutes = 30

	ScheduleHorizonDays = 7
)

// Business validation constants
const (
	MaxDiagnosisLength    = 2000
	MaxPrescriptionLength = 2000
	MaxNotesLength        = 1000
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD (query-параметры фильтров)
)

// Роли акторов из JWT-токена
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleStaff   = "staff"
)

// Кто отменил запись (колонка cancelled_by, совпадает с ролью актора)
const (
	CancelledByPatient = RolePatient
	CancelledByDoctor  = RoleDoctor
	CancelledByStaff   = RoleStaff
)
