package normalizer

import (
	"regexp"
	"strconv"
	"strings"
)

// currencyHourPattern ловит число с хвостом из символа/аббревиатуры валюты:
// "22₽", "7 руб", "15$" и т.п.
var currencyHourPattern = regexp.MustCompile(`(?i)^(\d+)\s*[₽руб$€]`)

// LooksLikeTime определяет, похоже ли значение на время, а не на цену.
// Скраперы периодически кладут час слота в поле цены; такие значения
// отбрасываются при нормализации.
//
// Известный риск: голое число в диапазоне 0-23 ("7") классифицируется как час,
// поэтому настоящая цена до 23 единиц будет ошибочно отброшена. Поведение
// сохранено намеренно: ложный пропуск подменённого времени дороже.
func LooksLikeTime(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	// Формат HH:MM
	if strings.Contains(value, ":") {
		parts := strings.Split(value, ":")
		if len(parts) == 2 {
			hour, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
			minute, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
			if errH != nil || errM != nil {
				return false
			}
			return hour >= 0 && hour <= 23 && minute >= 0 && minute <= 59
		}
	}

	// Число с символом валюты, где число укладывается в диапазон часа:
	// вероятно час, к которому скрапер приклеил валюту
	if m := currencyHourPattern.FindStringSubmatch(value); m != nil {
		if num, err := strconv.Atoi(m[1]); err == nil && num >= 0 && num <= 23 {
			return true
		}
	}

	// Голое число от 0 до 23 после удаления известных валютных токенов
	stripped := strings.ReplaceAll(value, "₽", "")
	stripped = strings.ReplaceAll(stripped, "Р", "")
	stripped = strings.ReplaceAll(stripped, "руб", "")
	stripped = strings.TrimSpace(stripped)

	num, err := strconv.Atoi(stripped)
	if err != nil {
		return false
	}
	return num >= 0 && num <= 23
}
