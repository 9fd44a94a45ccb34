package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
)

type RegisterSignupUseCase struct {
	Repo     entity.SignupRepositoryInterface
	Notifier NotificationService
	Locker   Locker
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewRegisterSignupUseCase(
	repo entity.SignupRepositoryInterface,
	notifier NotificationService,
	locker Locker,
	logger *zap.Logger,
) *RegisterSignupUseCase {
	return &RegisterSignupUseCase{
		Repo:     repo,
		Notifier: notifier,
		Locker:   locker,
		Logger:   logger,
		Now:      time.Now,
	}
}

func (uc *RegisterSignupUseCase) Execute(ctx context.Context, input RegisterSignupInput) (*RegisterSignupOutput, error) {
	if errs := ValidateRegisterSignupInput(input); len(errs) > 0 {
		return nil, validationDomainError(errs)
	}

	signup, err := entity.NewSignup(input.Timestamp, input.Email, input.Projects, input.Page, uc.Now())
	if err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}

	key := entity.NormalizeEmail(signup.Email)

	// 1. Lock por email: fecha a janela entre o check de duplicidade e o append
	unlock, err := uc.Locker.Lock(ctx, "signup:"+key)
	if err != nil {
		return nil, &TechnicalError{Code: "LOCK_ERROR", Message: "failed to acquire signup lock", Err: err}
	}
	defer unlock()

	// 2. Header na primeira escrita
	if err := uc.Repo.EnsureHeader(ctx); err != nil {
		return nil, &TechnicalError{Code: "STORE_ERROR", Message: "failed to prepare signup store", Err: err}
	}

	// 3. Duplicidade
	emails, err := uc.Repo.ListEmails(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: "STORE_ERROR", Message: "failed to read registered emails", Err: err}
	}
	for _, existing := range emails {
		if entity.NormalizeEmail(existing) == key {
			uc.Logger.Info("inscrição duplicada", zap.String("email", signup.Email))
			return duplicateOutput(), nil
		}
	}

	// 4. Append
	if err := uc.Repo.Append(ctx, signup); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return duplicateOutput(), nil
		}
		return nil, &TechnicalError{Code: "STORE_ERROR", Message: "failed to save signup", Err: err}
	}
	uc.Logger.Info("✅ inscrição registrada", zap.String("signup_id", signup.ID), zap.String("email", signup.Email))

	// 5. Welcome síncrono. Se falhar, a linha fica com Welcome = No.
	err = uc.Notifier.Execute(ctx, SendNotificationInput{
		Kind:     entity.NotificationWelcome,
		Email:    signup.Email,
		SignupID: signup.ID,
	})
	if err != nil {
		return nil, err
	}

	return &RegisterSignupOutput{
		Status:  StatusSuccess,
		Message: "User added and welcome email sent",
	}, nil
}

func duplicateOutput() *RegisterSignupOutput {
	return &RegisterSignupOutput{
		Status:  StatusDuplicate,
		Message: "Email already registered",
	}
}
