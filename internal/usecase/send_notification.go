package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
)

type SendNotificationUseCase struct {
	Repo       entity.SignupRepositoryInterface
	Notifier   Notifier
	Renderer   TemplateRenderer
	ReplyTo    string
	SenderName string
	Logger     *zap.Logger
	Now        func() time.Time
}

func NewSendNotificationUseCase(
	repo entity.SignupRepositoryInterface,
	notifier Notifier,
	renderer TemplateRenderer,
	replyTo, senderName string,
	logger *zap.Logger,
) *SendNotificationUseCase {
	return &SendNotificationUseCase{
		Repo:       repo,
		Notifier:   notifier,
		Renderer:   renderer,
		ReplyTo:    replyTo,
		SenderName: senderName,
		Logger:     logger,
		Now:        time.Now,
	}
}

func (uc *SendNotificationUseCase) Execute(ctx context.Context, input SendNotificationInput) error {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		uc.Logger.Warn("❌ notificação ignorada: email vazio", zap.String("kind", string(input.Kind)))
		return nil
	}

	if !input.Kind.Valid() {
		return &DomainError{Code: "INVALID_KIND", Message: "unknown notification kind: " + string(input.Kind)}
	}

	log := uc.Logger.With(zap.String("kind", string(input.Kind)), zap.String("email", email))
	log.Info("📧 preparando envio")

	subject, body, err := uc.Renderer.Render(input.Kind)
	if err != nil {
		log.Error("erro ao renderizar template", zap.Error(err))
		return &TechnicalError{Code: "TEMPLATE_ERROR", Message: "failed to render email", Err: err}
	}

	err = uc.Notifier.Send(ctx, entity.Email{
		To:       email,
		Subject:  subject,
		HTMLBody: body,
		ReplyTo:  uc.ReplyTo,
		Name:     uc.SenderName,
	})
	if err != nil {
		log.Error("❌ falha no envio", zap.Error(err))
		return &TechnicalError{Code: "SEND_FAILED", Message: "failed to send " + strings.ToLower(string(input.Kind)) + " email", Err: err}
	}

	if input.SignupID != "" {
		note := entity.SentNote(uc.Now())
		if err := uc.Repo.MarkSent(ctx, input.SignupID, input.Kind, note); err != nil {
			log.Error("enviado, mas falha ao marcar no store", zap.String("signup_id", input.SignupID), zap.Error(err))
			return &TechnicalError{Code: "STORE_ERROR", Message: "email sent but record not updated", Err: err}
		}
	}

	log.Info("✅ email enviado")
	return nil
}
