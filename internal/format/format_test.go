package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"zero", 0, "R$ 0,00"},
		{"cents only", 0.5, "R$ 0,50"},
		{"thousands grouping", 1234.5, "R$ 1.234,50"},
		{"millions grouping", 1234567.89, "R$ 1.234.567,89"},
		{"rounds to cents", 10.999, "R$ 11,00"},
		{"negative", -42.1, "-R$ 42,10"},
		{"nan", math.NaN(), "R$ 0,00"},
		{"positive inf", math.Inf(1), "R$ 0,00"},
		{"negative inf", math.Inf(-1), "R$ 0,00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.value))
		})
	}
}

func TestFormatCurrencyPtr(t *testing.T) {
	assert.Equal(t, "R$ 0,00", FormatCurrencyPtr(nil))

	v := 99.9
	assert.Equal(t, "R$ 99,90", FormatCurrencyPtr(&v))

	// nil pointer and NaN agree on the zero display
	nan := math.NaN()
	assert.Equal(t, FormatCurrencyPtr(nil), FormatCurrencyPtr(&nan))
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"bare date", "2024-03-15", "15/03/2024"},
		{"iso datetime keeps wire day", "2024-03-15T00:00:00Z", "15/03/2024"},
		{"iso datetime with offset", "2024-12-31T23:00:00-03:00", "31/12/2024"},
		{"garbage passes through", "amanhã", "amanhã"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.in))
		})
	}
}

func TestDateConvertersAreInverses(t *testing.T) {
	isoDates := []string{"2024-01-02", "1999-12-31", "2025-06-15"}
	for _, iso := range isoDates {
		assert.Equal(t, iso, DateToISO(ISOToDate(iso)))
	}

	brDates := []string{"02/01/2024", "31/12/1999", "15/06/2025"}
	for _, br := range brDates {
		assert.Equal(t, br, ISOToDate(DateToISO(br)))
	}
}

func TestDateConvertersTotal(t *testing.T) {
	// No separator: identity, and stable under repeated application.
	assert.Equal(t, "20240102", DateToISO("20240102"))
	assert.Equal(t, "20240102", ISOToDate("20240102"))
	assert.Equal(t, "", DateToISO(""))
	assert.Equal(t, "", ISOToDate(""))

	// Converting twice lands back where it started.
	assert.Equal(t, "15/06/2025", ISOToDate(ISOToDate(DateToISO("15/06/2025"))))
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"brazilian grouping", "1.234,56", 1234.56, false},
		{"comma only", "1234,5", 1234.5, false},
		{"plain float", "1234.56", 1234.56, false},
		{"integer", "500", 500, false},
		{"currency prefix", "R$ 2.000,00", 2000, false},
		{"empty is zero", "", 0, false},
		{"garbage", "dez reais", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseDecimalRoundTripsFormatCurrency(t *testing.T) {
	for _, v := range []float64{0, 10.5, 1234.56, 1000000} {
		got, err := ParseDecimal(FormatCurrency(v))
		require.NoError(t, err)
		assert.InDelta(t, v, got, 1e-9)
	}
}
