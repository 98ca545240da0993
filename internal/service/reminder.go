package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/repository"
)

// ReminderService рассылает напоминания о приближающихся сроках оплаты.
// Запускается планировщиком раз в день.
type ReminderService struct {
	billRepo    *repository.BillRepository
	userRepo    *repository.UserRepository
	emailSender *EmailSender
	windowDays  int
	logger      *logrus.Logger
}

func NewReminderService(
	billRepo *repository.BillRepository,
	userRepo *repository.UserRepository,
	emailSender *EmailSender,
	windowDays int,
	logger *logrus.Logger,
) *ReminderService {
	return &ReminderService{
		billRepo:    billRepo,
		userRepo:    userRepo,
		emailSender: emailSender,
		windowDays:  windowDays,
		logger:      logger,
	}
}

// ProcessDueBills находит неоплаченные счета со сроком в ближайшие дни
// и отправляет напоминание каждому владельцу. Ошибка по одному счету
// не останавливает обход.
func (s *ReminderService) ProcessDueBills(ctx context.Context) {
	now := time.Now()
	to := now.AddDate(0, 0, s.windowDays)

	s.logger.WithFields(logrus.Fields{
		"from": now.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
	}).Info("Поиск счетов с приближающимся сроком оплаты")

	bills, err := s.billRepo.ListDueWithin(ctx, now, to)
	if err != nil {
		s.logger.WithError(err).Error("Не удалось получить счета для напоминаний")
		return
	}

	// Кэш адресов, чтобы не ходить в базу за каждым счетом одного пользователя
	emails := make(map[uuid.UUID]string)
	sent := 0
	for _, bill := range bills {
		email, ok := emails[bill.UserID]
		if !ok {
			user, err := s.userRepo.FindByID(ctx, bill.UserID)
			if err != nil {
				s.logger.WithError(err).WithField("user_id", bill.UserID).Error("Не удалось найти владельца счета")
				continue
			}
			email = user.Email
			emails[bill.UserID] = email
		}

		if err := s.emailSender.SendBillReminder(email, &bill); err != nil {
			s.logger.WithError(err).WithField("bill_id", bill.ID).Error("Не удалось отправить напоминание")
			continue
		}
		sent++
	}

	s.logger.WithFields(logrus.Fields{
		"bills": len(bills),
		"sent":  sent,
	}).Info("Рассылка напоминаний завершена")
}
