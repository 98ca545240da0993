package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/model"
	"cashflow-api/internal/service"
)

// InsightHandler обрабатывает запросы финансовой аналитики
type InsightHandler struct {
	insightService *service.InsightService
	agentService   *service.AgentService
	logger         *logrus.Logger
}

// NewInsightHandler создает новый InsightHandler
func NewInsightHandler(
	insightService *service.InsightService,
	agentService *service.AgentService,
	logger *logrus.Logger,
) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
		agentService:   agentService,
		logger:         logger,
	}
}

// RegisterRoutes регистрирует маршруты аналитики
func (h *InsightHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/score", h.GetHealthScore).Methods("GET")               // Рейтинг финансового здоровья
	router.HandleFunc("/score/history", h.GetScoreHistory).Methods("GET")      // История снимков рейтинга
	router.HandleFunc("/recommendations", h.GetRecommendations).Methods("GET") // Рекомендации агента
	router.HandleFunc("/classify", h.ClassifyExpense).Methods("POST")          // Классификация описания расхода
}

// GetHealthScore возвращает текущий рейтинг финансового здоровья
func (h *InsightHandler) GetHealthScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := h.insightService.ComputeHealthScore(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось рассчитать рейтинг")
		http.Error(w, "failed to compute health score", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// GetScoreHistory возвращает последние снимки рейтинга
func (h *InsightHandler) GetScoreHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	history, err := h.insightService.ScoreHistory(r.Context(), userID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить историю рейтинга")
		http.Error(w, "failed to load score history", http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []model.ScoreSnapshot{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(history)
}

// GetRecommendations возвращает рекомендации финансового агента
func (h *InsightHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	recommendations, err := h.agentService.GetRecommendations(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось сгенерировать рекомендации")
		http.Error(w, "failed to generate recommendations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(recommendations)
}

// classifyRequest - входные данные для классификации расхода
type classifyRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// ClassifyExpense подбирает категорию по описанию без создания расхода
func (h *InsightHandler) ClassifyExpense(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Error("Не удалось декодировать запрос на классификацию")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	classification, err := h.insightService.ClassifyExpense(req.Description, req.Amount)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(classification)
}
