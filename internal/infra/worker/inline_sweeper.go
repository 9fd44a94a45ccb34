package worker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xavierca1/rhydle-waitlist/internal/infra/metrics"
	"github.com/xavierca1/rhydle-waitlist/internal/usecase"
)

// InlineSweeper roda o sweep numa goroutine do próprio processo.
// Usado quando não há RabbitMQ configurado.
type InlineSweeper struct {
	sweeper usecase.SweepService
	logger  *zap.Logger
	base    context.Context
}

func NewInlineSweeper(base context.Context, sweeper usecase.SweepService, logger *zap.Logger) *InlineSweeper {
	return &InlineSweeper{base: base, sweeper: sweeper, logger: logger}
}

func (s *InlineSweeper) RequestSweep(_ context.Context, origin string) error {
	go s.run(origin)
	return nil
}

func (s *InlineSweeper) run(origin string) {
	log := s.logger.With(zap.String("origin", origin))

	result, err := s.sweeper.Execute(s.base)
	switch {
	case errors.Is(err, usecase.ErrSweepInProgress):
		log.Info("sweep já em andamento, pedido descartado")
		metrics.RecordSweep("skipped", 0, 0)
	case err != nil:
		log.Error("❌ sweep falhou", zap.Error(err))
		metrics.RecordSweep("error", 0, 0)
	default:
		metrics.RecordSweep("completed", result.Sent, len(result.Failed))
	}
}
