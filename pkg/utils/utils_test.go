package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	id, err := GenerateID()
	require.NoError(t, err)
	assert.Len(t, id, idLength)

	other, err := GenerateID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2024-02-28", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), *date)

	date, err = ParseDate("", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, date)

	_, err = ParseDate("28/02/2024", time.UTC)
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "PKR 12.50", FormatMoney(decimal.RequireFromString("12.5")))
	assert.Equal(t, "PKR 0.00", FormatMoney(decimal.Zero))
	assert.Equal(t, "PKR 3.33", FormatMoney(decimal.RequireFromString("3.333")))
}
