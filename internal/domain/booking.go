package domain

import "time"

// CourtType represents the kind of court a scraped slot belongs to.
// Inferred from the service name when the scraper does not report it explicitly.
type CourtType string

const (
	CourtTypePadel      CourtType = "PADEL"
	CourtTypeTennis     CourtType = "TENNIS"
	CourtTypeBasketball CourtType = "BASKETBALL"
	CourtTypeGeneral    CourtType = "GENERAL"
)

// TimeCategory represents the time-of-day bucket of a slot
type TimeCategory string

const (
	TimeCategoryMorning TimeCategory = "MORNING"
	TimeCategoryDay     TimeCategory = "DAY"
	TimeCategoryEvening TimeCategory = "EVENING"
)

// RawRecord сырая запись скрапера: произвольные ключи, любое поле может
// отсутствовать, иметь неверный тип или содержать чужое значение
// (например, час вместо цены)
type RawRecord map[string]any

// BookingRecord represents a normalized scraped availability slot.
// Optional fields are pointers: nil means the column is omitted on insert,
// not written as an empty value.
type BookingRecord struct {
	ID                 int64
	URLID              int64
	Date               *string
	Time               *string
	Price              string
	Provider           string
	SeatNumber         *string
	LocationName       *string
	CourtType          *CourtType
	TimeCategory       *TimeCategory
	Duration           int
	ReviewCount        *int
	PrepaymentRequired *bool
	ExtraData          *string
	CreatedAt          string
	UpdatedAt          time.Time
}

// Row converts the record into a column map for insertion.
// Nil optional fields are left out entirely so the store applies its defaults.
func (b *BookingRecord) Row() map[string]any {
	row := map[string]any{
		"url_id":     b.URLID,
		"price":      b.Price,
		"provider":   b.Provider,
		"duration":   b.Duration,
		"created_at": b.CreatedAt,
	}

	if b.Date != nil {
		row["date"] = *b.Date
	}
	if b.Time != nil {
		row["time"] = *b.Time
	}
	if b.SeatNumber != nil {
		row["seat_number"] = *b.SeatNumber
	}
	if b.LocationName != nil {
		row["location_name"] = *b.LocationName
	}
	if b.CourtType != nil {
		row["court_type"] = string(*b.CourtType)
	}
	if b.TimeCategory != nil {
		row["time_category"] = string(*b.TimeCategory)
	}
	if b.ReviewCount != nil {
		row["review_count"] = *b.ReviewCount
	}
	if b.PrepaymentRequired != nil {
		row["prepayment_required"] = *b.PrepaymentRequired
	}
	if b.ExtraData != nil {
		row["extra_data"] = *b.ExtraData
	}

	return row
}
