package insight

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"cashflow-api/internal/model"
)

// minHistorySize - минимальный размер выборки для статистического теста.
// Вызывающая сторона передает до 50 последних сумм той же категории.
const minHistorySize = 10

// anomalyZThreshold - порог z-оценки, выше которого транзакция считается аномальной
const anomalyZThreshold = 2.0

// TransactionSample - проверяемая транзакция
type TransactionSample struct {
	Amount    decimal.Decimal
	Category  model.ExpenseCategory
	DayOfWeek int
	HourOfDay int
}

// AnomalyResult - результат проверки транзакции на аномальность
type AnomalyResult struct {
	IsAnomaly   bool    `json:"is_anomaly"`
	Score       float64 `json:"score"` // нормированная z-оценка, [0,1]
	Explanation string  `json:"explanation"`
}

// DetectAnomaly проверяет транзакцию по z-оценке относительно исторических
// сумм той же категории. Функция чистая: одинаковые входы дают одинаковый
// результат, скрытого состояния нет.
func (e *Engine) DetectAnomaly(tx TransactionSample, historical []decimal.Decimal) (AnomalyResult, error) {
	if tx.Amount.LessThanOrEqual(decimal.Zero) {
		return AnomalyResult{}, invalidInput("amount", "must be positive")
	}
	if tx.Category != "" && !tx.Category.Valid() {
		return AnomalyResult{}, invalidInput("category", fmt.Sprintf("unknown category %q", tx.Category))
	}

	// Недостаточно данных - определенный случай, а не ошибка
	if len(historical) < minHistorySize {
		return AnomalyResult{
			IsAnomaly:   false,
			Score:       0,
			Explanation: "Insufficient historical data",
		}, nil
	}

	var sum float64
	amounts := make([]float64, len(historical))
	for i, a := range historical {
		amounts[i] = a.InexactFloat64()
		sum += amounts[i]
	}
	mean := sum / float64(len(amounts))

	var varianceSum float64
	for _, a := range amounts {
		diff := a - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(amounts)))

	// При нулевом разбросе z-оценка не определена - считаем не аномалией
	if stdDev == 0 {
		return AnomalyResult{
			IsAnomaly:   false,
			Score:       0,
			Explanation: "Normal spending pattern",
		}, nil
	}

	zScore := math.Abs(tx.Amount.InexactFloat64()-mean) / stdDev
	isAnomaly := zScore > anomalyZThreshold

	explanation := "Normal spending pattern"
	if isAnomaly {
		explanation = fmt.Sprintf("This transaction is %.1fx higher than your usual %s spending", zScore, tx.Category)
	}

	return AnomalyResult{
		IsAnomaly:   isAnomaly,
		Score:       math.Min(zScore/3, 1),
		Explanation: explanation,
	}, nil
}
