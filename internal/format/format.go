// Package format holds the pt-BR display formatting used across the client:
// currency values and calendar dates. All functions are total - bad input
// falls back to a zero-value display or passes through unchanged, never panics.
package format

import (
	"math"
	"strconv"
	"strings"
)

const zeroCurrency = "R$ 0,00"

// FormatCurrency renders a value as Brazilian currency, e.g. 1234.5 -> "R$ 1.234,50".
// NaN and infinities render as the zero value.
func FormatCurrency(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return zeroCurrency
	}

	negative := value < 0
	if negative {
		value = -value
	}

	// Round to cents before splitting, so 1234.999 -> 1.235,00.
	cents := int64(math.Round(value * 100))
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(d)
	}

	out := "R$ " + sb.String() + "," + pad2(frac)
	if negative {
		return "-" + out
	}
	return out
}

// FormatCurrencyPtr renders an optional value; nil renders as the zero value.
func FormatCurrencyPtr(value *float64) string {
	if value == nil {
		return zeroCurrency
	}
	return FormatCurrency(*value)
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// FormatDate renders an API date as DD/MM/YYYY.
//
// The API sends either a bare date ("2024-03-15") or an ISO datetime
// ("2024-03-15T00:00:00Z"). Only the date component is used, so the calendar
// day shown always matches the wire value regardless of the local timezone.
// Input that does not look like an ISO date passes through unchanged.
func FormatDate(date string) string {
	if date == "" {
		return ""
	}

	day := date
	if idx := strings.IndexByte(day, 'T'); idx >= 0 {
		day = day[:idx]
	}

	parts := strings.Split(day, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

// DateToISO converts DD/MM/YYYY to YYYY-MM-DD for the API and date inputs.
// Inverse of ISOToDate on well-formed input; identity when the separator is absent.
func DateToISO(dateStr string) string {
	if dateStr == "" {
		return ""
	}
	parts := strings.Split(dateStr, "/")
	if len(parts) != 3 {
		return dateStr
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// ParseDecimal parses a monetary amount typed the Brazilian way
// ("1.234,56") into a float. Plain "1234.56" also parses, so values pasted
// from elsewhere still work. The empty string parses to zero.
func ParseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return 0, nil
	}
	if strings.ContainsRune(s, ',') {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

// ISOToDate converts YYYY-MM-DD to DD/MM/YYYY for display.
func ISOToDate(isoDate string) string {
	if isoDate == "" {
		return ""
	}
	parts := strings.Split(isoDate, "-")
	if len(parts) != 3 {
		return isoDate
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
