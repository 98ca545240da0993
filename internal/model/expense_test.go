package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExpenseCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), string(c))
	}
	assert.False(t, ExpenseCategory("crypto").Valid())
	assert.False(t, ExpenseCategory("").Valid())
}

func TestCreateExpenseRequestValidate(t *testing.T) {
	valid := CreateExpenseRequest{
		Amount:      decimal.NewFromInt(250),
		Description: "Swiggy order",
		Date:        "2026-08-30",
	}
	assert.NoError(t, valid.Validate())

	// Категория необязательна, пустая дата означает сегодня
	noOptional := CreateExpenseRequest{Amount: decimal.NewFromInt(100), Description: "lunch"}
	assert.NoError(t, noOptional.Validate())

	cases := []struct {
		name string
		req  CreateExpenseRequest
	}{
		{"zero amount", CreateExpenseRequest{Amount: decimal.Zero, Description: "lunch"}},
		{"negative amount", CreateExpenseRequest{Amount: decimal.NewFromInt(-10), Description: "lunch"}},
		{"empty description", CreateExpenseRequest{Amount: decimal.NewFromInt(10)}},
		{"unknown category", CreateExpenseRequest{Amount: decimal.NewFromInt(10), Description: "x", Category: "crypto"}},
		{"bad date", CreateExpenseRequest{Amount: decimal.NewFromInt(10), Description: "x", Date: "30-08-2026"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.req.Validate())
		})
	}
}
