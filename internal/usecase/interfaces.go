package usecase

import (
	"context"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
)

type Notifier interface {
	Send(ctx context.Context, email entity.Email) error
}

type TemplateRenderer interface {
	Render(kind entity.NotificationKind) (subject, htmlBody string, err error)
}

// Locker serializa o check-then-append por chave (email normalizado).
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type NotificationService interface {
	Execute(ctx context.Context, input SendNotificationInput) error
}

type SweepService interface {
	Execute(ctx context.Context) (*SweepResult, error)
}

// SweepRequester dispara um sweep de forma assíncrona (fila ou goroutine).
type SweepRequester interface {
	RequestSweep(ctx context.Context, origin string) error
}
