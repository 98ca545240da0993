package insight

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow-api/internal/model"
)

// история из пяти сумм по 100 и пяти по 120: среднее 110, отклонение 10
func mixedHistory() []decimal.Decimal {
	var out []decimal.Decimal
	for i := 0; i < 5; i++ {
		out = append(out, decimal.NewFromInt(100), decimal.NewFromInt(120))
	}
	return out
}

func sample(amount int64) TransactionSample {
	return TransactionSample{
		Amount:   decimal.NewFromInt(amount),
		Category: model.CategoryFood,
	}
}

func TestDetectAnomalyInsufficientHistory(t *testing.T) {
	e := NewEngine(DefaultConfig())

	history := []decimal.Decimal{}
	for i := 0; i < 9; i++ {
		history = append(history, decimal.NewFromInt(100))
	}

	result, err := e.DetectAnomaly(sample(10000), history)
	require.NoError(t, err)
	assert.False(t, result.IsAnomaly)
	assert.Zero(t, result.Score)
	assert.Equal(t, "Insufficient historical data", result.Explanation)
}

func TestDetectAnomalyZeroSpread(t *testing.T) {
	e := NewEngine(DefaultConfig())

	history := []decimal.Decimal{}
	for i := 0; i < 10; i++ {
		history = append(history, decimal.NewFromInt(100))
	}

	result, err := e.DetectAnomaly(sample(10000), history)
	require.NoError(t, err)
	assert.False(t, result.IsAnomaly)
	assert.Zero(t, result.Score)
	assert.Equal(t, "Normal spending pattern", result.Explanation)
}

func TestDetectAnomalyFlagsOutlier(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// z = |500-110|/10 = 39, далеко за порогом
	result, err := e.DetectAnomaly(sample(500), mixedHistory())
	require.NoError(t, err)
	assert.True(t, result.IsAnomaly)
	assert.Equal(t, 1.0, result.Score) // нормированная оценка упирается в 1
	assert.Contains(t, result.Explanation, "your usual food spending")
}

func TestDetectAnomalyThresholdIsStrict(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// z = |130-110|/10 = 2.0 - ровно на пороге, еще не аномалия
	result, err := e.DetectAnomaly(sample(130), mixedHistory())
	require.NoError(t, err)
	assert.False(t, result.IsAnomaly)
	assert.InDelta(t, 2.0/3, result.Score, 1e-9)
	assert.Equal(t, "Normal spending pattern", result.Explanation)

	// z = 2.1 - уже за порогом
	result, err = e.DetectAnomaly(sample(131), mixedHistory())
	require.NoError(t, err)
	assert.True(t, result.IsAnomaly)
	assert.InDelta(t, 0.7, result.Score, 1e-9)
}

func TestDetectAnomalyDeterministic(t *testing.T) {
	e := NewEngine(DefaultConfig())

	first, err := e.DetectAnomaly(sample(131), mixedHistory())
	require.NoError(t, err)
	again, err := e.DetectAnomaly(sample(131), mixedHistory())
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestDetectAnomalyInvalidInput(t *testing.T) {
	e := NewEngine(DefaultConfig())

	_, err := e.DetectAnomaly(TransactionSample{Amount: decimal.Zero, Category: model.CategoryFood}, mixedHistory())
	assert.Error(t, err)

	_, err = e.DetectAnomaly(TransactionSample{Amount: decimal.NewFromInt(100), Category: "spaceships"}, mixedHistory())
	assert.Error(t, err)
}
