package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
)

const DefaultSweepDelay = time.Second

// SweepBetaUseCase envia o email do APK para todo inscrito com Beta = No.
// Falhas individuais não abortam o sweep; a linha continua No e entra no próximo.
type SweepBetaUseCase struct {
	Repo     entity.SignupRepositoryInterface
	Notifier NotificationService
	Delay    time.Duration
	Logger   *zap.Logger

	running sync.Mutex
}

func NewSweepBetaUseCase(
	repo entity.SignupRepositoryInterface,
	notifier NotificationService,
	delay time.Duration,
	logger *zap.Logger,
) *SweepBetaUseCase {
	if delay < 0 {
		delay = DefaultSweepDelay
	}
	return &SweepBetaUseCase{
		Repo:     repo,
		Notifier: notifier,
		Delay:    delay,
		Logger:   logger,
	}
}

func (uc *SweepBetaUseCase) Execute(ctx context.Context) (*SweepResult, error) {
	if !uc.running.TryLock() {
		return nil, ErrSweepInProgress
	}
	defer uc.running.Unlock()

	signups, err := uc.Repo.ListAll(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: "STORE_ERROR", Message: "failed to read signups", Err: err}
	}

	result := &SweepResult{}
	if len(signups) == 0 {
		uc.Logger.Info("nenhum inscrito para o sweep beta")
		return result, nil
	}

	for _, s := range signups {
		if s.BetaSent || s.Email == "" {
			continue
		}

		if result.Attempted > 0 {
			if err := sleep(ctx, uc.Delay); err != nil {
				uc.Logger.Warn("⚠️ sweep beta interrompido", zap.Int("attempted", result.Attempted), zap.Error(err))
				return result, err
			}
		}

		result.Attempted++
		err := uc.Notifier.Execute(ctx, SendNotificationInput{
			Kind:     entity.NotificationBeta,
			Email:    s.Email,
			SignupID: s.ID,
		})
		if err != nil {
			result.Failed = append(result.Failed, SweepFailure{Email: s.Email, Error: err.Error()})
			continue
		}
		result.Sent++
	}

	uc.Logger.Info("🚀 sweep beta concluído",
		zap.Int("attempted", result.Attempted),
		zap.Int("sent", result.Sent),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
