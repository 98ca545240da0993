package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ratesFixture = `<?xml version="1.0" encoding="windows-1251"?>
<ValCurs Date="28.08.2026" name="Foreign Currency Market">
	<Valute ID="R01235">
		<NumCode>840</NumCode>
		<CharCode>USD</CharCode>
		<Nominal>1</Nominal>
		<Name>Доллар США</Name>
		<Value>92,50</Value>
	</Valute>
	<Valute ID="R01270">
		<NumCode>356</NumCode>
		<CharCode>INR</CharCode>
		<Nominal>100</Nominal>
		<Name>Индийских рупий</Name>
		<Value>110,00</Value>
	</Valute>
</ValCurs>`

func TestParseRatesXML(t *testing.T) {
	rates, err := parseRatesXML([]byte(ratesFixture))
	require.NoError(t, err)

	// Номинал учитывается: 110 рублей за 100 рупий
	assert.True(t, rates["USD"].Equal(decimal.RequireFromString("92.5")))
	assert.True(t, rates["INR"].Equal(decimal.RequireFromString("1.1")))
	assert.True(t, rates["RUB"].Equal(decimal.NewFromInt(1)))
}

func TestParseRatesXMLEmpty(t *testing.T) {
	_, err := parseRatesXML([]byte(`<?xml version="1.0"?><ValCurs Date="28.08.2026"></ValCurs>`))
	assert.Error(t, err)
}

func TestParseRatesXMLMalformed(t *testing.T) {
	_, err := parseRatesXML([]byte(`not xml at all`))
	assert.Error(t, err)
}

func TestConvertUsesCrossRate(t *testing.T) {
	c := NewRatesClient(logrus.New())
	c.rates = map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("92.5"),
		"INR": decimal.RequireFromString("1.1"),
		"RUB": decimal.NewFromInt(1),
	}
	c.fetchedAt = time.Now()

	// 10 USD = 925 RUB = 925/1.1 INR
	got, err := c.Convert(decimal.NewFromInt(10), "USD", "INR")
	require.NoError(t, err)
	expected := decimal.RequireFromString("925").Div(decimal.RequireFromString("1.1"))
	assert.True(t, got.Equal(expected))
}

func TestConvertSameCurrency(t *testing.T) {
	c := NewRatesClient(logrus.New())

	// Конвертация в ту же валюту не требует курсов и не ходит в сеть
	got, err := c.Convert(decimal.NewFromInt(500), "INR", "inr")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(500)))
}

func TestConvertUnknownCurrency(t *testing.T) {
	c := NewRatesClient(logrus.New())
	c.rates = map[string]decimal.Decimal{"RUB": decimal.NewFromInt(1)}
	c.fetchedAt = time.Now()

	_, err := c.Convert(decimal.NewFromInt(10), "XYZ", "RUB")
	assert.Error(t, err)
}
