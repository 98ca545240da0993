package service

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	"github.com/go-mail/mail/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cashflow-api/internal/model"
)

type EmailSender struct {
	dialer  *mail.Dialer
	logger  *logrus.Logger
	enabled bool
}

func NewEmailSender(logger *logrus.Logger) *EmailSender {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	enabledStr := os.Getenv("EMAIL_SENDER_ENABLED")
	isInsecureSkipVerifyStr := os.Getenv("INSECURE_SKIP_VERIFY")

	enabled := enabledStr == "true"
	isInsecureSkipVerify := isInsecureSkipVerifyStr == "true"

	// Преобразуем smtpPort в int
	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		if enabled {
			logger.Fatalf("Ошибка преобразования SMTP_PORT: %v", err)
		}
		smtpPort = 587
	}

	d := mail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	d.TLSConfig = &tls.Config{
		ServerName:         smtpHost,
		InsecureSkipVerify: isInsecureSkipVerify,
	}
	return &EmailSender{
		dialer:  d,
		logger:  logger,
		enabled: enabled,
	}
}

// SendBillReminder отправляет напоминание о приближающемся сроке оплаты счёта
func (es *EmailSender) SendBillReminder(email string, bill *model.Bill) error {
	if !es.enabled {
		es.logger.Warn("Отправка уведомлений отключена")
		return nil
	}

	subject := fmt.Sprintf("Upcoming payment: %s", bill.Name)
	content := fmt.Sprintf(`
		<h1>Payment Reminder</h1>
		<p>Your bill <strong>%s</strong> is due on <strong>%s</strong>.</p>
		<p>Amount due: <strong>&#8377;%s</strong></p>
		<small>This is an automated notification, please do not reply</small>
	`, bill.Name, bill.DueDate.Format("02 Jan 2006"), bill.Amount.StringFixed(2))

	return es.sendEmail(email, subject, content)
}

// SendAnomalyAlert уведомляет о подозрительной транзакции
func (es *EmailSender) SendAnomalyAlert(email string, expense *model.Expense, explanation string) error {
	if !es.enabled {
		es.logger.Warn("Отправка уведомлений отключена")
		return nil
	}

	subject := "Unusual spending detected"
	content := fmt.Sprintf(`
		<h1>Unusual Spending Alert</h1>
		<p>We flagged a recent transaction on your account:</p>
		<p>Description: <strong>%s</strong></p>
		<p>Amount: <strong>&#8377;%s</strong></p>
		<p>Category: <strong>%s</strong></p>
		<p>%s</p>
		<small>This is an automated notification, please do not reply</small>
	`, expense.Description, expense.Amount.StringFixed(2), expense.Category, explanation)

	return es.sendEmail(email, subject, content)
}

// SendGoalAchieved поздравляет с достижением финансовой цели
func (es *EmailSender) SendGoalAchieved(email string, goalTitle string, targetAmount decimal.Decimal) error {
	if !es.enabled {
		es.logger.Warn("Отправка уведомлений отключена")
		return nil
	}

	subject := fmt.Sprintf("Goal achieved: %s", goalTitle)
	content := fmt.Sprintf(`
		<h1>Congratulations!</h1>
		<p>You have reached your goal <strong>%s</strong>.</p>
		<p>Target amount: <strong>&#8377;%s</strong></p>
		<small>This is an automated notification, please do not reply</small>
	`, goalTitle, targetAmount.StringFixed(2))

	return es.sendEmail(email, subject, content)
}

func (es *EmailSender) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := es.dialer.DialAndSend(m); err != nil {
		es.logger.WithError(err).Error("Ошибка отправки email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	es.logger.Infof("Email успешно отправлен на %s", to)
	return nil
}
