package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/service"
)

// GamificationHandler обрабатывает запросы серий и баллов
type GamificationHandler struct {
	streakService *service.StreakService
	logger        *logrus.Logger
}

// NewGamificationHandler создает новый GamificationHandler
func NewGamificationHandler(streakService *service.StreakService, logger *logrus.Logger) *GamificationHandler {
	return &GamificationHandler{streakService: streakService, logger: logger}
}

// RegisterRoutes регистрирует маршруты геймификации
func (h *GamificationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.GetStreak).Methods("GET") // Текущее состояние серии
}

// GetStreak возвращает серию и накопленные баллы пользователя
func (h *GamificationHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	streak, err := h.streakService.Get(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Не удалось получить состояние серии")
		http.Error(w, "failed to load streak", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(streak)
}
