package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/config"
	"cashflow-api/internal/handler"
	"cashflow-api/internal/insight"
	"cashflow-api/internal/repository"
	"cashflow-api/internal/service"
)

func main() {
	logger := logrus.New()
	// Уровень логирования (Debug для разработки, Info для продакшена)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Загрузка конфигурации приложения
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Подключение к PostgreSQL
	db, err := sql.Open("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	))
	if err != nil {
		logger.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Проверка соединения с БД
	if err := db.Ping(); err != nil {
		logger.Fatalf("Ошибка проверки соединения с БД: %v", err)
	}

	// Инициализация репозиториев
	logger.Info("Инициализация репозиториев...")
	userRepo := repository.NewUserRepository(db, logger)
	expenseRepo := repository.NewExpenseRepository(db, logger)
	incomeRepo := repository.NewIncomeRepository(db, logger)
	budgetRepo := repository.NewBudgetRepository(db, logger)
	goalRepo := repository.NewGoalRepository(db, logger)
	billRepo := repository.NewBillRepository(db, logger)
	walletRepo := repository.NewWalletRepository(db, logger)
	streakRepo := repository.NewStreakRepository(db, logger)
	scoreRepo := repository.NewScoreRepository(db, logger)
	emailSender := service.NewEmailSender(logger)

	// Движок инсайтов: классификация, аномалии, рейтинг, рекомендации
	engine := insight.NewEngine(insight.Config{
		ReferenceIncome:    cfg.ReferenceIncome,
		TaxIncomeThreshold: cfg.TaxIncomeThreshold,
		TaxDeductionLimit:  cfg.TaxDeductionLimit,
		TaxMarginalRate:    cfg.TaxMarginalRate,
	})

	// Инициализация сервисов
	logger.Info("Инициализация сервисов...")
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenExpiry, logger)
	ratesClient := service.NewRatesClient(logger)
	insightService := service.NewInsightService(
		engine,
		expenseRepo,
		incomeRepo,
		billRepo,
		walletRepo,
		scoreRepo,
		userRepo,
		ratesClient,
		cfg.BaseCurrency,
		logger,
	)
	agentService := service.NewAgentService(
		engine,
		insightService,
		budgetRepo,
		goalRepo,
		expenseRepo,
		logger,
	)
	streakService := service.NewStreakService(streakRepo, logger)
	expenseService := service.NewExpenseService(
		expenseRepo,
		budgetRepo,
		userRepo,
		insightService,
		streakService,
		emailSender,
		logger,
	)
	goalService := service.NewGoalService(goalRepo, userRepo, streakService, emailSender, logger)
	financeService := service.NewFinanceService(
		incomeRepo,
		budgetRepo,
		billRepo,
		walletRepo,
		streakService,
		logger,
	)
	reminderService := service.NewReminderService(billRepo, userRepo, emailSender, cfg.ReminderWindowDays, logger)

	// Инициализация HTTP обработчиков
	logger.Info("Инициализация обработчиков API...")
	authHandler := handler.NewAuthHandler(authService, logger)
	expenseHandler := handler.NewExpenseHandler(expenseService, logger)
	insightHandler := handler.NewInsightHandler(insightService, agentService, logger)
	gamificationHandler := handler.NewGamificationHandler(streakService, logger)
	financeHandler := handler.NewFinanceHandler(financeService, goalService, logger)

	// Настройка маршрутизатора
	router := mux.NewRouter()

	// 1. Публичные маршруты для аутентификации
	publicRouter := router.PathPrefix("/auth").Subrouter()
	authHandler.RegisterRoutes(publicRouter) // Регистрация /signup и /signin

	// 2. Защищенные API маршруты (требуется JWT токен)
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(handler.AuthMiddleware(authService, logger))

	// Маршруты для работы с расходами
	expenseRouter := apiRouter.PathPrefix("/expenses").Subrouter()
	expenseHandler.RegisterRoutes(expenseRouter)

	// Маршруты аналитики и рекомендаций
	insightRouter := apiRouter.PathPrefix("/insights").Subrouter()
	insightHandler.RegisterRoutes(insightRouter)

	// Маршруты геймификации
	streakRouter := apiRouter.PathPrefix("/streak").Subrouter()
	gamificationHandler.RegisterRoutes(streakRouter)

	// Маршруты доходов, бюджетов, целей, счетов и кошельков
	financeHandler.RegisterRoutes(apiRouter)

	// Настройка планировщика фоновых задач
	logger.Info("Настройка планировщика фоновых задач...")
	c := cron.New()
	_, err = c.AddFunc("0 8 * * *", func() {
		reminderService.ProcessDueBills(context.Background())
	})
	if err != nil {
		logger.Fatalf("Ошибка настройки планировщика напоминаний: %v", err)
	}
	_, err = c.AddFunc("30 2 * * *", func() {
		insightService.SnapshotScores(context.Background())
	})
	if err != nil {
		logger.Fatalf("Ошибка настройки планировщика снимков рейтинга: %v", err)
	}
	c.Start()

	// Настройка и запуск HTTP сервера
	server := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	go func() {
		logger.Info("Запуск сервера на порту :8080")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание сигналов для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Завершение работы сервера...")
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Errorf("Ошибка при завершении работы сервера: %v", err)
	}
	logger.Info("Сервер успешно остановлен")
}
