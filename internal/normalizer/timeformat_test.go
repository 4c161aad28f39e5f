package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeTime(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "hh:mm time", value: "14:30", want: true},
		{name: "hh:mm midnight", value: "0:00", want: true},
		{name: "hh:mm with spaces", value: "  9:15 ", want: true},
		{name: "hour out of range", value: "24:00", want: false},
		{name: "minute out of range", value: "14:60", want: false},
		{name: "non-numeric parts", value: "ab:cd", want: false},
		{name: "hour with ruble sign", value: "22₽", want: true},
		{name: "hour with rub abbreviation", value: "7 руб", want: true},
		{name: "hour with dollar", value: "15$", want: true},
		{name: "real price with currency", value: "450₽", want: false},
		{name: "real price bare", value: "450", want: false},
		// Известный риск: голый час классифицируется как время,
		// настоящая цена 0-23 будет отброшена
		{name: "bare hour ambiguous", value: "7", want: true},
		{name: "bare zero", value: "0", want: true},
		{name: "uppercase R currency", value: "22Р", want: true},
		{name: "empty string", value: "", want: false},
		{name: "whitespace only", value: "   ", want: false},
		{name: "text value", value: "уточняйте", want: false},
		{name: "price with decimals", value: "450.50", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLikeTime(tt.value), "value=%q", tt.value)
		})
	}
}
