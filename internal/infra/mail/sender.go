package mail

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
	"github.com/xavierca1/rhydle-waitlist/internal/infra/metrics"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = user
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// Send entrega um único email via SMTP. Sem retry: falha volta pro chamador.
func (s *EmailSender) Send(ctx context.Context, email entity.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := s.message(email)
	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		metrics.RecordMailDelivery("failure")
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	metrics.RecordMailDelivery("success")
	return nil
}

func (s *EmailSender) message(email entity.Email) *gomail.Message {
	m := gomail.NewMessage()
	if email.Name != "" {
		m.SetAddressHeader("From", s.From, email.Name)
	} else {
		m.SetHeader("From", s.From)
	}
	m.SetHeader("To", email.To)
	if email.ReplyTo != "" {
		m.SetHeader("Reply-To", email.ReplyTo)
	}
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.HTMLBody)
	return m
}

// LogSender só registra o envio. Usado quando MAIL_HOST não está configurado.
type LogSender struct {
	Logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{Logger: logger}
}

func (s *LogSender) Send(ctx context.Context, email entity.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Logger.Info("📭 SMTP não configurado, email apenas logado",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("reply_to", email.ReplyTo),
		zap.Int("body_bytes", len(email.HTMLBody)),
	)
	metrics.RecordMailDelivery("logged")
	return nil
}
