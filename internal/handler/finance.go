package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/model"
	"cashflow-api/internal/service"
)

// FinanceHandler обрабатывает запросы доходов, бюджетов, счетов и кошельков
type FinanceHandler struct {
	financeService *service.FinanceService
	goalService    *service.GoalService
	logger         *logrus.Logger
}

// NewFinanceHandler создает новый FinanceHandler
func NewFinanceHandler(
	financeService *service.FinanceService,
	goalService *service.GoalService,
	logger *logrus.Logger,
) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
		goalService:    goalService,
		logger:         logger,
	}
}

// RegisterRoutes регистрирует маршруты финансовых сущностей
func (h *FinanceHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/income", h.CreateIncome).Methods("POST")
	router.HandleFunc("/income", h.GetMonthlyIncome).Methods("GET")
	router.HandleFunc("/budgets", h.CreateBudget).Methods("POST")
	router.HandleFunc("/budgets", h.GetBudgets).Methods("GET")
	router.HandleFunc("/bills", h.CreateBill).Methods("POST")
	router.HandleFunc("/bills", h.GetBills).Methods("GET")
	router.HandleFunc("/wallets", h.CreateWallet).Methods("POST")
	router.HandleFunc("/wallets", h.GetWallets).Methods("GET")
	router.HandleFunc("/goals", h.CreateGoal).Methods("POST")
	router.HandleFunc("/goals", h.GetGoals).Methods("GET")
	router.HandleFunc("/goals/{id}/progress", h.AddGoalProgress).Methods("POST")
}

// CreateIncome обрабатывает запрос на регистрацию дохода
func (h *FinanceHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var req model.CreateIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на создание дохода")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	income, err := h.financeService.CreateIncome(r.Context(), userID, req)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось создать доход")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondCreated(w, income)
}

// GetMonthlyIncome возвращает доходы текущего месяца
func (h *FinanceHandler) GetMonthlyIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	incomes, err := h.financeService.ListIncomeByMonth(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить доходы за месяц")
		http.Error(w, "failed to load income", http.StatusInternalServerError)
		return
	}
	if incomes == nil {
		incomes = []model.Income{}
	}

	respondOK(w, incomes)
}

// CreateBudget обрабатывает запрос на создание бюджета
func (h *FinanceHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на создание бюджета")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	budget, err := h.financeService.CreateBudget(r.Context(), userID, req)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось создать бюджет")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondCreated(w, budget)
}

// GetBudgets возвращает активные бюджеты пользователя
func (h *FinanceHandler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	budgets, err := h.financeService.ListBudgets(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить бюджеты")
		http.Error(w, "failed to load budgets", http.StatusInternalServerError)
		return
	}
	if budgets == nil {
		budgets = []model.Budget{}
	}

	respondOK(w, budgets)
}

// CreateBill обрабатывает запрос на создание счета
func (h *FinanceHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на создание счета")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	bill, err := h.financeService.CreateBill(r.Context(), userID, req)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось создать счет")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondCreated(w, bill)
}

// GetBills возвращает счета пользователя
func (h *FinanceHandler) GetBills(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	bills, err := h.financeService.ListBills(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить счета")
		http.Error(w, "failed to load bills", http.StatusInternalServerError)
		return
	}
	if bills == nil {
		bills = []model.Bill{}
	}

	respondOK(w, bills)
}

// CreateWallet обрабатывает запрос на создание кошелька
func (h *FinanceHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req model.CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на создание кошелька")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	wallet, err := h.financeService.CreateWallet(r.Context(), userID, req)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось создать кошелек")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondCreated(w, wallet)
}

// GetWallets возвращает кошельки пользователя
func (h *FinanceHandler) GetWallets(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	wallets, err := h.financeService.ListWallets(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить кошельки")
		http.Error(w, "failed to load wallets", http.StatusInternalServerError)
		return
	}
	if wallets == nil {
		wallets = []model.Wallet{}
	}

	respondOK(w, wallets)
}

// CreateGoal обрабатывает запрос на создание финансовой цели
func (h *FinanceHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req model.CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на создание цели")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	goal, err := h.goalService.Create(r.Context(), userID, req)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось создать цель")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondCreated(w, goal)
}

// GetGoals возвращает активные цели пользователя
func (h *FinanceHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	goals, err := h.goalService.List(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить цели")
		http.Error(w, "failed to load goals", http.StatusInternalServerError)
		return
	}
	if goals == nil {
		goals = []model.Goal{}
	}

	respondOK(w, goals)
}

// AddGoalProgress обрабатывает запрос на пополнение цели
func (h *FinanceHandler) AddGoalProgress(w http.ResponseWriter, r *http.Request) {
	goalID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid goal id", http.StatusBadRequest)
		return
	}

	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на пополнение цели")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	goal, err := h.goalService.AddProgress(r.Context(), userID, goalID, req.Amount)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось пополнить цель")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondOK(w, goal)
}

// respondOK отправляет успешный JSON-ответ
func respondOK(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}

// respondCreated отправляет JSON-ответ о созданной сущности
func respondCreated(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(payload)
}
