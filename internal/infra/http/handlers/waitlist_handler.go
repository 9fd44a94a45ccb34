package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xavierca1/rhydle-waitlist/internal/infra/metrics"
	"github.com/xavierca1/rhydle-waitlist/internal/usecase"
)

type SignupRegistrar interface {
	Execute(ctx context.Context, input usecase.RegisterSignupInput) (*usecase.RegisterSignupOutput, error)
}

type WaitlistHandler struct {
	registrar   SignupRegistrar
	rateLimiter *RateLimiter
	logger      *zap.Logger
}

func NewWaitlistHandler(registrar SignupRegistrar, rateLimiter *RateLimiter, logger *zap.Logger) *WaitlistHandler {
	return &WaitlistHandler{
		registrar:   registrar,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// DefaultRateLimiter: 10 req/min por IP, com rajada de 10
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Rate:  rate.Every(time.Minute / 10),
		Burst: 10,
	})
}

func (h *WaitlistHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.rateLimiter != nil && !h.rateLimiter.Allow(clientIP(r)) {
		metrics.RecordSignup("rate_limited")
		writeStatus(w, http.StatusTooManyRequests, usecase.StatusError, "Too many requests. Please try again later.")
		return
	}

	var input usecase.RegisterSignupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		metrics.RecordSignup(usecase.StatusError)
		writeStatus(w, http.StatusBadRequest, usecase.StatusError, "Invalid JSON")
		return
	}

	output, err := h.registrar.Execute(r.Context(), input)
	if err != nil {
		metrics.RecordSignup(usecase.StatusError)
		if usecase.IsDomainError(err) {
			writeStatus(w, http.StatusBadRequest, usecase.StatusError, err.Error())
			return
		}
		h.logger.Error("❌ erro na inscrição", zap.String("email", input.Email), zap.Error(err))
		writeStatus(w, http.StatusInternalServerError, usecase.StatusError, err.Error())
		return
	}

	metrics.RecordSignup(output.Status)
	writeJSON(w, http.StatusOK, output)
}
