package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Config содержит настройки приложения
type Config struct {
	DBHost      string        // Хост базы данных
	DBPort      string        // Порт базы данных
	DBUser      string        // Пользователь базы данных
	DBPassword  string        // Пароль базы данных
	DBName      string        // Имя базы данных
	JWTSecret   string        // Секрет для JWT
	TokenExpiry time.Duration // Время жизни токена

	BaseCurrency       string // Базовая валюта агрегатов
	ReminderWindowDays int    // Горизонт напоминаний об оплате счетов

	// Константы скоринга и налоговых рекомендаций
	ReferenceIncome    decimal.Decimal // Доход, дающий максимум баллов за доход
	TaxIncomeThreshold decimal.Decimal // Годовой доход, с которого уместна налоговая рекомендация
	TaxDeductionLimit  decimal.Decimal // Лимит вычета по инвестициям
	TaxMarginalRate    decimal.Decimal // Предельная налоговая ставка
}

// LoadConfig загружает конфигурацию из .env файла
func LoadConfig() (*Config, error) {
	// Загружаем переменные окружения из .env файла
	if err := godotenv.Load(); err != nil {
		logrus.Warn("Файл .env не найден")
	}

	// Парсим время жизни токена
	expiry, err := time.ParseDuration(os.Getenv("TOKEN_EXPIRY"))
	if err != nil {
		expiry = 24 * time.Hour // По умолчанию 24 часа
	}

	// Создаем объект конфигурации
	config := &Config{
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBName:      getEnv("DB_NAME", "cashflow"),
		JWTSecret:   getEnv("JWT_SECRET", "default-secret-key"),
		TokenExpiry: expiry,

		BaseCurrency:       getEnv("BASE_CURRENCY", "INR"),
		ReminderWindowDays: getEnvInt("REMINDER_WINDOW_DAYS", 3),

		ReferenceIncome:    getEnvDecimal("SCORE_REF_INCOME", "50000"),
		TaxIncomeThreshold: getEnvDecimal("TAX_INCOME_THRESHOLD", "1000000"),
		TaxDeductionLimit:  getEnvDecimal("TAX_DEDUCTION_LIMIT", "150000"),
		TaxMarginalRate:    getEnvDecimal("TAX_RATE", "0.3"),
	}

	return config, nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt получает целочисленную переменную окружения
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithField("key", key).Warn("Некорректное целое в переменной окружения, используется значение по умолчанию")
		return defaultValue
	}
	return parsed
}

// getEnvDecimal получает десятичную переменную окружения
func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		logrus.WithField("key", key).Warn("Некорректное число в переменной окружения, используется значение по умолчанию")
		parsed, _ = decimal.NewFromString(defaultValue)
	}
	return parsed
}
