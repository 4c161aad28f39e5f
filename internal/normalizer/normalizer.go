// Package normalizer приводит сырые записи скрапера к канонической схеме.
// Normalize тотальна: для каждой ветки есть запасное значение или сентинел,
// любая по форме запись дает валидный результат.
package normalizer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-ParserStorageService/internal/domain"
)

// courtTypeKeywords таблица подстрок для вывода типа корта из названия услуги
var courtTypeKeywords = []struct {
	substr    string
	courtType domain.CourtType
}{
	{"падел", domain.CourtTypePadel},
	{"padel", domain.CourtTypePadel},
	{"тенис", domain.CourtTypeTennis},
	{"tennis", domain.CourtTypeTennis},
	{"баскет", domain.CourtTypeBasketball},
	{"basketball", domain.CourtTypeBasketball},
}

// Normalize преобразует сырую запись в каноническую.
// URLID не заполняется: его назначает шлюз хранения после разрешения URL.
func Normalize(raw domain.RawRecord) *domain.BookingRecord {
	rec := &domain.BookingRecord{
		Date:     passthroughString(raw, "date"),
		Time:     passthroughString(raw, "time"),
		Price:    normalizePrice(raw),
		Provider: normalizeProvider(raw),
		Duration: normalizeDuration(raw),
	}

	if v, ok := raw["seat_number"]; ok && v != nil {
		s := stringify(v)
		rec.SeatNumber = &s
	}

	if location := firstNonEmpty(raw, "location_name", "venue_name"); location != "" {
		rec.LocationName = &location
	}

	if courtType := normalizeCourtType(raw); courtType != nil {
		rec.CourtType = courtType
	}

	if category := normalizeTimeCategory(raw, rec.Time); category != nil {
		rec.TimeCategory = category
	}

	if v, ok := raw["review_count"]; ok {
		count := domain.DefaultReviewCount
		if n, ok := toInt(v); ok {
			count = n
		}
		rec.ReviewCount = &count
	}

	if v, ok := raw["prepayment_required"]; ok {
		b := truthy(v)
		rec.PrepaymentRequired = &b
	}

	if extra := normalizeExtraData(raw); extra != nil {
		rec.ExtraData = extra
	}

	rec.CreatedAt = time.Now().Format(time.RFC3339)

	return rec
}

// passthroughString возвращает строковое представление значения ключа
// или nil, если значение отсутствует или пусто
func passthroughString(raw domain.RawRecord, key string) *string {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	s := stringify(v)
	if s == "" {
		return nil
	}
	return &s
}

// normalizePrice отбрасывает значения, похожие на время, заменяя их сентинелом
func normalizePrice(raw domain.RawRecord) string {
	v, ok := raw["price"]
	if !ok || v == nil {
		return domain.PriceNotFound
	}

	price := strings.TrimSpace(stringify(v))
	if price == "" {
		return domain.PriceNotFound
	}
	if LooksLikeTime(price) {
		return domain.PriceNotFound
	}
	return price
}

// normalizeProvider берет первое осмысленное значение из provider,
// court_name, service_name (в этом порядке)
func normalizeProvider(raw domain.RawRecord) string {
	for _, key := range []string{"provider", "court_name", "service_name"} {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		provider := strings.TrimSpace(stringify(v))
		if provider != "" && provider != domain.ProviderNotSpecified {
			return provider
		}
	}
	return domain.ProviderNotSpecified
}

func normalizeCourtType(raw domain.RawRecord) *domain.CourtType {
	if v, ok := raw["court_type"]; ok && v != nil {
		if s := strings.TrimSpace(stringify(v)); s != "" {
			ct := domain.CourtType(s)
			return &ct
		}
	}

	serviceName := strings.ToLower(stringify(raw["service_name"]))
	if serviceName == "" {
		return nil
	}
	for _, kw := range courtTypeKeywords {
		if strings.Contains(serviceName, kw.substr) {
			ct := kw.courtType
			return &ct
		}
	}
	return nil
}

// normalizeTimeCategory возвращает явную категорию из записи либо выводит ее
// из часа нормализованного времени; nil, если время отсутствует или не парсится
func normalizeTimeCategory(raw domain.RawRecord, timeValue *string) *domain.TimeCategory {
	if v, ok := raw["time_category"]; ok && v != nil {
		if s := strings.TrimSpace(stringify(v)); s != "" {
			tc := domain.TimeCategory(s)
			return &tc
		}
	}

	if timeValue == nil {
		return nil
	}
	hourPart, _, found := strings.Cut(*timeValue, ":")
	if !found {
		return nil
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return nil
	}

	tc := domain.TimeCategoryForHour(hour)
	return &tc
}

func normalizeDuration(raw domain.RawRecord) int {
	v, ok := raw["duration"]
	if !ok {
		return domain.DefaultDurationMinutes
	}
	if n, ok := toInt(v); ok && n != 0 {
		return n
	}
	return domain.DefaultDurationMinutes
}

func normalizeExtraData(raw domain.RawRecord) *string {
	v, ok := raw["extra_data"]
	if !ok || v == nil {
		return nil
	}

	switch extra := v.(type) {
	case string:
		return &extra
	case map[string]any:
		encoded, err := json.Marshal(extra)
		if err != nil {
			return nil
		}
		s := string(encoded)
		return &s
	default:
		return nil
	}
}

// firstNonEmpty возвращает первое непустое строковое значение среди ключей
func firstNonEmpty(raw domain.RawRecord, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			if s := strings.TrimSpace(stringify(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringify приводит значение произвольного типа к строке.
// Строки возвращаются как есть, числа без экспоненциальной записи.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		// JSON числа приходят как float64; целые печатаем без дробной части
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// toInt приводит значение к целому, где это возможно
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// truthy повторяет семантику "истинности" исходных данных скрапера:
// значение считается истинным, если оно не ноль, не пустая строка и не false
func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	case int:
		return b != 0
	case int64:
		return b != 0
	case float64:
		return b != 0
	default:
		return true
	}
}
