package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/rhydle-waitlist/internal/usecase"
)

const OriginSchedule = "SCHEDULE"

// LaunchScheduler mantém no máximo um disparo agendado do sweep beta.
// Não persiste: se o processo reiniciar, o agendamento precisa ser reinstalado.
type LaunchScheduler struct {
	requester usecase.SweepRequester
	logger    *zap.Logger

	mu     sync.Mutex
	timer  *time.Timer
	fireAt time.Time
	gen    uint64
}

func NewLaunchScheduler(requester usecase.SweepRequester, logger *zap.Logger) *LaunchScheduler {
	return &LaunchScheduler{requester: requester, logger: logger}
}

// ScheduleOneTime remove qualquer agendamento anterior e instala um único
// disparo em fireAt. Um fireAt no passado dispara imediatamente.
func (s *LaunchScheduler) ScheduleOneTime(fireAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.gen++
	gen := s.gen
	s.fireAt = fireAt
	s.timer = time.AfterFunc(time.Until(fireAt), func() { s.fire(gen) })

	s.logger.Info("🕒 sweep beta agendado", zap.Time("fire_at", fireAt))
}

// Cancel remove o agendamento ativo; retorna false se não havia nenhum.
func (s *LaunchScheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil {
		return false
	}
	s.stopLocked()
	s.gen++
	s.logger.Info("agendamento do sweep beta removido")
	return true
}

func (s *LaunchScheduler) Next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return time.Time{}, false
	}
	return s.fireAt, true
}

func (s *LaunchScheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
		s.fireAt = time.Time{}
	}
}

func (s *LaunchScheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		// substituído ou cancelado enquanto o timer disparava
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.fireAt = time.Time{}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("⏰ disparando sweep beta agendado")
	if err := s.requester.RequestSweep(ctx, OriginSchedule); err != nil {
		s.logger.Error("❌ falha ao disparar sweep agendado", zap.Error(err))
	}
}
