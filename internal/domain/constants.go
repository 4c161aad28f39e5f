package domain

// Sentinel values for non-null columns.
// Absence is represented by a fixed placeholder, never by an empty string.
const (
	PriceNotFound        = "Цена не найдена"
	ProviderNotSpecified = "Не указан"
)

// Default values for normalized records
const (
	DefaultDurationMinutes = 60
	DefaultReviewCount     = 0
)

// Time-of-day bucket boundaries (hour component, half-open ranges)
const (
	MorningStartHour = 6
	DayStartHour     = 12
	EveningStartHour = 18
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TimeCategoryForHour возвращает временную категорию для часа суток
func TimeCategoryForHour(hour int) TimeCategory {
	switch {
	case hour >= MorningStartHour && hour < DayStartHour:
		return TimeCategoryMorning
	case hour >= DayStartHour && hour < EveningStartHour:
		return TimeCategoryDay
	default:
		return TimeCategoryEvening
	}
}
