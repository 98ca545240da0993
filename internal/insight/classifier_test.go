package insight

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow-api/internal/model"
)

func TestClassifyKeywordMatch(t *testing.T) {
	e := NewEngine(DefaultConfig())

	cases := []struct {
		description string
		category    model.ExpenseCategory
	}{
		{"Swiggy order", model.CategoryFood},
		{"Uber to airport", model.CategoryTransport},
		{"Amazon purchase", model.CategoryShopping},
		{"Netflix subscription", model.CategoryEntertainment},
		{"Electricity bill August", model.CategoryBills},
		{"Apollo pharmacy", model.CategoryHealth},
		{"DMart weekly run", model.CategoryGroceries},
		{"Udemy course on Go", model.CategoryEducation},
	}

	for _, tc := range cases {
		result, err := e.Classify(tc.description, decimal.NewFromInt(500))
		require.NoError(t, err, tc.description)
		assert.Equal(t, tc.category, result.Category, tc.description)
		assert.Equal(t, 0.85, result.Confidence, tc.description)
	}
}

func TestClassifyFallback(t *testing.T) {
	e := NewEngine(DefaultConfig())

	result, err := e.Classify("xyz123", decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOther, result.Category)
	assert.Equal(t, 0.3, result.Confidence)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	e := NewEngine(DefaultConfig())

	upper, err := e.Classify("ZOMATO DINNER", decimal.NewFromInt(300))
	require.NoError(t, err)
	lower, err := e.Classify("zomato dinner", decimal.NewFromInt(300))
	require.NoError(t, err)

	assert.Equal(t, lower, upper)
	assert.Equal(t, model.CategoryFood, upper.Category)
}

func TestClassifyFirstCategoryWins(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// Описание задевает transport (uber) и shopping (amazon);
	// transport объявлен раньше и должен победить
	result, err := e.Classify("uber eats via amazon pay", decimal.NewFromInt(400))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryTransport, result.Category)
}

func TestClassifyDeterministic(t *testing.T) {
	e := NewEngine(DefaultConfig())

	first, err := e.Classify("movie tickets", decimal.NewFromInt(250))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := e.Classify("movie tickets", decimal.NewFromInt(250))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestClassifyInvalidInput(t *testing.T) {
	e := NewEngine(DefaultConfig())

	_, err := e.Classify("", decimal.NewFromInt(100))
	assert.Error(t, err)

	_, err = e.Classify("lunch", decimal.NewFromInt(-5))
	assert.Error(t, err)
}
