package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(10000), MinorUnits(100))
	assert.Equal(t, int64(3001), MinorUnits(30.011))
	assert.Equal(t, int64(3002), MinorUnits(30.015))
	assert.Equal(t, int64(-4250), MinorUnits(-42.5))
	assert.Equal(t, int64(0), MinorUnits(0))
}

func TestMajorUnits(t *testing.T) {
	assert.Equal(t, 100.0, MajorUnits(10000))
	assert.Equal(t, 0.01, MajorUnits(1))
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("RUB"))
	assert.True(t, ValidCurrency("USD"))
	assert.False(t, ValidCurrency("rub"))
	assert.False(t, ValidCurrency("RUBL"))
	assert.False(t, ValidCurrency(""))
	assert.False(t, ValidCurrency("R1B"))
}

func TestParseOccurredAtKeepsExplicitZone(t *testing.T) {
	parsed, err := ParseOccurredAt("2024-03-01T12:30:00+03:00")
	assert.NoError(t, err)
	_, offset := parsed.Zone()
	assert.Equal(t, 3*3600, offset)
}

func TestParseOccurredAtNaiveUsesServerZone(t *testing.T) {
	parsed, err := ParseOccurredAt("2024-03-01T12:30:00")
	assert.NoError(t, err)
	// the wall clock the user typed must survive as-is
	assert.Equal(t, 12, parsed.Hour())
	assert.Equal(t, 30, parsed.Minute())
	assert.Equal(t, time.Local, parsed.Location())
}

func TestParseOccurredAtDateOnly(t *testing.T) {
	parsed, err := ParseOccurredAt("2024-03-01")
	assert.NoError(t, err)
	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 1, parsed.Day())
}

func TestParseOccurredAtGarbage(t *testing.T) {
	_, err := ParseOccurredAt("yesterday")
	assert.Error(t, err)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	b := time.Date(2024, 3, 1, 23, 59, 0, 0, time.Local)
	c := time.Date(2024, 3, 2, 0, 0, 1, 0, time.Local)
	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, c))
}
