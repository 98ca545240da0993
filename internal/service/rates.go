package service

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const ratesURL = "https://www.cbr.ru/scripts/XML_daily.asp"

// ratesCacheTTL определяет, как долго курс валют считается актуальным
const ratesCacheTTL = time.Hour

// RatesClient получает официальные курсы валют ЦБ РФ и конвертирует суммы
// через рублёвый кросс-курс. Курсы кэшируются, чтобы не ходить во внешний
// сервис на каждый запрос.
type RatesClient struct {
	httpClient *http.Client
	logger     *logrus.Logger

	mu        sync.Mutex
	rates     map[string]decimal.Decimal // рублей за единицу валюты
	fetchedAt time.Time
}

// NewRatesClient создаёт новый экземпляр клиента для взаимодействия с веб-сервисом ЦБ РФ
func NewRatesClient(logger *logrus.Logger) *RatesClient {
	return &RatesClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// fetchRates загружает дневной справочник курсов
func (c *RatesClient) fetchRates() (map[string]decimal.Decimal, error) {
	c.logger.Info("Запрос курсов валют у ЦБ РФ...")

	resp, err := c.httpClient.Get(ratesURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status from rates service: %s", resp.Status)
	}

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates response: %w", err)
	}

	rates, err := parseRatesXML(rawBody)
	if err != nil {
		return nil, err
	}

	c.logger.WithField("currencies", len(rates)).Info("Курсы валют успешно получены")
	return rates, nil
}

// parseRatesXML парсит XML-ответ справочника и возвращает курс каждой валюты
// в рублях за единицу с учётом номинала
func parseRatesXML(rawBody []byte) (map[string]decimal.Decimal, error) {
	doc := etree.NewDocument()
	// Справочник отдается в windows-1251; нужные поля (код, номинал,
	// значение) - ASCII, поэтому байты читаются как есть
	doc.ReadSettings.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse rates XML: %w", err)
	}

	valutes := doc.FindElements("//ValCurs/Valute")
	if len(valutes) == 0 {
		return nil, fmt.Errorf("no currency entries in rates response")
	}

	rates := make(map[string]decimal.Decimal, len(valutes)+1)
	for _, v := range valutes {
		codeEl := v.FindElement("./CharCode")
		nominalEl := v.FindElement("./Nominal")
		valueEl := v.FindElement("./Value")
		if codeEl == nil || nominalEl == nil || valueEl == nil {
			continue
		}

		// ЦБ публикует значения с запятой в качестве разделителя
		valueStr := strings.ReplaceAll(valueEl.Text(), ",", ".")
		value, err := decimal.NewFromString(valueStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate value for %s: %w", codeEl.Text(), err)
		}

		nominal, err := decimal.NewFromString(nominalEl.Text())
		if err != nil || nominal.IsZero() {
			return nil, fmt.Errorf("invalid nominal for %s", codeEl.Text())
		}

		rates[strings.ToUpper(codeEl.Text())] = value.Div(nominal)
	}

	rates["RUB"] = decimal.NewFromInt(1)
	return rates, nil
}

// ratePerUnit возвращает рублёвый курс валюты, обновляя кэш при необходимости
func (c *RatesClient) ratePerUnit(currency string) (decimal.Decimal, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rates == nil || time.Since(c.fetchedAt) > ratesCacheTTL {
		rates, err := c.fetchRates()
		if err != nil {
			// При ошибке обновления продолжаем работать на устаревшем кэше
			if c.rates == nil {
				return decimal.Zero, err
			}
			c.logger.WithError(err).Warn("Не удалось обновить курсы валют, используется кэш")
		} else {
			c.rates = rates
			c.fetchedAt = time.Now()
		}
	}

	rate, ok := c.rates[strings.ToUpper(currency)]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown currency code: %s", currency)
	}
	return rate, nil
}

// Convert переводит сумму из одной валюты в другую через рублёвый кросс-курс
func (c *RatesClient) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return amount, nil
	}

	fromRate, err := c.ratePerUnit(from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := c.ratePerUnit(to)
	if err != nil {
		return decimal.Zero, err
	}
	if toRate.IsZero() {
		return decimal.Zero, fmt.Errorf("zero rate for currency %s", to)
	}

	return amount.Mul(fromRate).Div(toRate), nil
}
