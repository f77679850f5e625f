package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"already canonical", "2025-12-30", strp("2025-12-30")},
		{"timestamp suffix", "2025-12-30 02:33:33", strp("2025-12-30")},
		{"rfc3339", "2025-12-30T02:33:33Z", strp("2025-12-30")},
		{"compact", "20250115", strp("2025-01-15")},
		{"us slash", "01/15/2025", strp("2025-01-15")},
		{"us slash short", "1/5/2025", strp("2025-01-05")},
		{"us slash with time", "1/5/2025 10:00 AM", strp("2025-01-05")},
		{"month abbreviation", "15-Jan-2025", strp("2025-01-15")},
		{"garbage", "not a date", nil},
		{"impossible day", "2025-02-31T00:00:00", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Date(tt.in))
		})
	}
}

func TestDateIsIdempotent(t *testing.T) {
	first := Date("2025-12-30 02:33:33")
	require.NotNil(t, first)
	second := Date(*first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
}

func TestX12Date(t *testing.T) {
	tests := []struct {
		in   string
		want *string
	}{
		{"", nil},
		{"20250115", strp("2025-01-15")},
		{"300101", strp("2030-01-01")},
		{"700101", strp("1970-01-01")},
		{"500101", strp("2050-01-01")},
		{"510101", strp("1951-01-01")},
		{"2025-01-15", strp("2025-01-15")},
		{"ASAP", strp("ASAP")},
		{"20251340", strp("20251340")},
		{"1234", strp("1234")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, X12Date(tt.in))
		})
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 12.5, Number("12.50"))
	assert.Equal(t, 1234.5, Number(" $1,234.50 "))
	assert.Equal(t, 0.0, Number("N/A"))
	assert.Equal(t, 0.0, Number(""))
	assert.Equal(t, 0.0, Number("NaN"))
	assert.Equal(t, -3.0, Number("-3"))
}

func TestInt(t *testing.T) {
	assert.Equal(t, 4, Int("4"))
	assert.Equal(t, 12, Int("12.0"))
	assert.Equal(t, 0, Int("four"))
	assert.Equal(t, 0, Int(""))
}

func TestNumberPtr(t *testing.T) {
	assert.Nil(t, NumberPtr(""))
	assert.Nil(t, NumberPtr("abc"))
	got := NumberPtr("19.99")
	require.NotNil(t, got)
	assert.Equal(t, 19.99, *got)
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("10"))
	assert.True(t, IsNumeric("10.25"))
	assert.False(t, IsNumeric("10x"))
	assert.False(t, IsNumeric("Inf"))
}

func strp(s string) *string { return &s }
