package insight

import (
	"strings"

	"github.com/shopspring/decimal"

	"cashflow-api/internal/model"
)

// Classification - результат автоматического определения категории
type Classification struct {
	Category   model.ExpenseCategory `json:"category"`
	Confidence float64               `json:"confidence"`
}

const (
	matchConfidence    = 0.85
	fallbackConfidence = 0.3
)

// categoryKeywords - таблица ключевых слов в фиксированном порядке.
// При совпадении с несколькими категориями выигрывает первая по порядку
// объявления - простое и проверяемое правило разрешения конфликтов.
var categoryKeywords = []struct {
	category model.ExpenseCategory
	words    []string
}{
	{model.CategoryFood, []string{"restaurant", "cafe", "food", "meal", "lunch", "dinner", "breakfast", "swiggy", "zomato", "dominos", "pizza"}},
	{model.CategoryTransport, []string{"uber", "ola", "petrol", "fuel", "metro", "bus", "auto", "taxi", "rapido"}},
	{model.CategoryShopping, []string{"amazon", "flipkart", "myntra", "mall", "shop", "store", "clothing", "fashion"}},
	{model.CategoryEntertainment, []string{"movie", "cinema", "netflix", "spotify", "prime", "hotstar", "game"}},
	{model.CategoryBills, []string{"electricity", "water", "gas", "internet", "wifi", "broadband", "phone", "mobile"}},
	{model.CategoryHealth, []string{"hospital", "doctor", "medicine", "pharmacy", "medical", "clinic", "health"}},
	{model.CategoryGroceries, []string{"grocery", "supermarket", "dmart", "reliance", "fresh", "vegetables"}},
	{model.CategoryEducation, []string{"school", "college", "course", "udemy", "coursera", "book", "tuition"}},
}

// Classify определяет категорию расхода по текстовому описанию.
// Сумма в решении пока не участвует и зарезервирована для взвешивания.
func (e *Engine) Classify(description string, amount decimal.Decimal) (Classification, error) {
	if description == "" {
		return Classification{}, invalidInput("description", "must not be empty")
	}
	if amount.IsNegative() {
		return Classification{}, invalidInput("amount", "must not be negative")
	}

	lower := strings.ToLower(description)
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if strings.Contains(lower, word) {
				return Classification{Category: entry.category, Confidence: matchConfidence}, nil
			}
		}
	}

	return Classification{Category: model.CategoryOther, Confidence: fallbackConfidence}, nil
}
