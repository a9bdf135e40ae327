package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateOf(t *testing.T, text string) string {
	t.Helper()
	d := extractDate(Normalize(text).Collapsed)
	require.NotNil(t, d)
	return *d
}

func TestExtractDate_LabeledNumeric(t *testing.T) {
	assert.Equal(t, "2026-01-06", dateOf(t, "Order date: 01/06/2026"))
	assert.Equal(t, "2026-03-15", dateOf(t, "Transaction Date 3/15/2026"))
}

func TestExtractDate_LabeledTextual(t *testing.T) {
	assert.Equal(t, "2026-01-06", dateOf(t, "Placed on January 6, 2026"))
}

func TestExtractDate_BareISO(t *testing.T) {
	assert.Equal(t, "2026-01-06", dateOf(t, "shipped 2026-01-06 via ground"))
}

func TestExtractDate_BareFullMonth(t *testing.T) {
	assert.Equal(t, "2026-01-06", dateOf(t, "on January 6, 2026 you bought things"))
}

func TestExtractDate_BareAbbreviatedMonthWithDot(t *testing.T) {
	assert.Equal(t, "2026-01-06", dateOf(t, "Jan. 6, 2026"))
	assert.Equal(t, "2026-09-02", dateOf(t, "Sept 2 2026"))
}

func TestExtractDate_BareNumeric(t *testing.T) {
	assert.Equal(t, "2026-01-06", dateOf(t, "charged on 01/06/2026"))
}

func TestExtractDate_TwoDigitYearAdds2000(t *testing.T) {
	assert.Equal(t, "2026-01-06", dateOf(t, "date: 1/6/26"))
}

func TestExtractDate_LabeledBeatsBare(t *testing.T) {
	text := "shipped 2026-09-09 Order date: 01/06/2026"

	assert.Equal(t, "2026-01-06", dateOf(t, text))
}

func TestExtractDate_NoDateReturnsNil(t *testing.T) {
	assert.Nil(t, extractDate("no dates in this text"))
}

// ==================== normalizeDate Tests ====================

func TestNormalizeDate_IsTimezoneIndependentStringAssembly(t *testing.T) {
	iso, ok := normalizeDate("01/06/2026")
	require.True(t, ok)
	assert.Equal(t, "2026-01-06", iso)

	iso, ok = normalizeDate("January 6, 2026")
	require.True(t, ok)
	assert.Equal(t, "2026-01-06", iso)
}

func TestNormalizeDate_Idempotent(t *testing.T) {
	first, ok := normalizeDate("12/31/2026")
	require.True(t, ok)

	second, ok := normalizeDate(first)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestNormalizeDate_RejectsInvalid(t *testing.T) {
	cases := []string{
		"13/06/2026", // month > 12
		"01/32/2026", // day > 31
		"01/06/1999", // year < 2000
	}
	for _, c := range cases {
		_, ok := normalizeDate(c)
		assert.False(t, ok, "expected %q to be rejected", c)
	}
}
