package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "INR", cfg.BaseCurrency)
	assert.Equal(t, 3, cfg.ReminderWindowDays)
	assert.True(t, cfg.ReferenceIncome.Equal(decimal.NewFromInt(50000)))
	assert.True(t, cfg.TaxIncomeThreshold.Equal(decimal.NewFromInt(1000000)))
	assert.True(t, cfg.TaxMarginalRate.Equal(decimal.RequireFromString("0.3")))
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("BASE_CURRENCY", "USD")
	t.Setenv("REMINDER_WINDOW_DAYS", "7")
	t.Setenv("SCORE_REF_INCOME", "75000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "USD", cfg.BaseCurrency)
	assert.Equal(t, 7, cfg.ReminderWindowDays)
	assert.True(t, cfg.ReferenceIncome.Equal(decimal.NewFromInt(75000)))
}

func TestLoadConfigIgnoresGarbage(t *testing.T) {
	t.Setenv("REMINDER_WINDOW_DAYS", "soon")
	t.Setenv("TAX_RATE", "a third")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.ReminderWindowDays)
	assert.True(t, cfg.TaxMarginalRate.Equal(decimal.RequireFromString("0.3")))
}
