package insight

import "github.com/shopspring/decimal"

// Config - настраиваемые константы движка.
// Налоговые параметры - иллюстративные эвристики, а не нормы налогового
// права, поэтому они вынесены в конфигурацию вместо жестких значений.
type Config struct {
	// ReferenceIncome - месячный доход, при котором подоценка дохода
	// достигает максимума (линейная шкала до этого значения)
	ReferenceIncome decimal.Decimal

	// TaxIncomeThreshold - годовой доход, с которого предлагается
	// налоговая оптимизация
	TaxIncomeThreshold decimal.Decimal

	// TaxDeductionLimit - максимальная сумма вычета (аналог 80C)
	TaxDeductionLimit decimal.Decimal

	// TaxMarginalRate - предельная ставка для оценки экономии
	TaxMarginalRate decimal.Decimal
}

// DefaultConfig возвращает параметры движка по умолчанию
func DefaultConfig() Config {
	return Config{
		ReferenceIncome:    decimal.NewFromInt(50000),
		TaxIncomeThreshold: decimal.NewFromInt(1000000),
		TaxDeductionLimit:  decimal.NewFromInt(150000),
		TaxMarginalRate:    decimal.NewFromFloat(0.3),
	}
}

// Engine - движок финансовых инсайтов: классификация расходов, поиск
// аномалий, расчет рейтинга здоровья и генерация рекомендаций.
// Движок не хранит изменяемого состояния и безопасен для
// конкурентного использования.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}
