package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/model"
	"cashflow-api/internal/service"
)

// ExpenseHandler обрабатывает запросы, связанные с расходами
type ExpenseHandler struct {
	expenseService *service.ExpenseService
	logger         *logrus.Logger
}

// NewExpenseHandler создает новый ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService, logger *logrus.Logger) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, logger: logger}
}

// RegisterRoutes регистрирует маршруты для работы с расходами
func (h *ExpenseHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.CreateExpense).Methods("POST")     // Маршрут для создания расхода
	router.HandleFunc("", h.GetMonthlyExpenses).Methods("GET") // Маршрут для расходов текущего месяца
	router.HandleFunc("/recent", h.GetRecent).Methods("GET")   // Маршрут для последних расходов
}

// CreateExpense обрабатывает запрос на создание расхода
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req model.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на создание расхода")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	expense, err := h.expenseService.Create(r.Context(), userID, req)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось создать расход")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(expense)
}

// GetMonthlyExpenses возвращает расходы текущего месяца
func (h *ExpenseHandler) GetMonthlyExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	expenses, err := h.expenseService.ListByMonth(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить расходы за месяц")
		http.Error(w, "failed to load expenses", http.StatusInternalServerError)
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(expenses)
}

// GetRecent возвращает последние расходы пользователя
func (h *ExpenseHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	expenses, err := h.expenseService.ListRecent(r.Context(), userID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить последние расходы")
		http.Error(w, "failed to load expenses", http.StatusInternalServerError)
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(expenses)
}
