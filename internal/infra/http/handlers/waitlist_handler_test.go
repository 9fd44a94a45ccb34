package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xavierca1/rhydle-waitlist/internal/usecase"
)

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Execute(ctx context.Context, input usecase.RegisterSignupInput) (*usecase.RegisterSignupOutput, error) {
	args := m.Called(ctx, input)
	if out := args.Get(0); out != nil {
		return out.(*usecase.RegisterSignupOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func submit(h *WaitlistHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	return rec
}

func TestSubmitSuccess(t *testing.T) {
	reg := new(MockRegistrar)
	in := usecase.RegisterSignupInput{Timestamp: "t", Email: "a@x.com", Projects: "p", Page: "landing"}
	reg.On("Execute", mock.Anything, in).Return(&usecase.RegisterSignupOutput{
		Status: usecase.StatusSuccess, Message: "User added and welcome email sent",
	}, nil)

	rec := submit(NewWaitlistHandler(reg, nil, zap.NewNop()),
		`{"timestamp":"t","email":"a@x.com","projects":"p","page":"landing"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]string{"status": "success", "message": "User added and welcome email sent"}, decodeStatus(t, rec))
}

func TestSubmitDuplicateIsOK(t *testing.T) {
	reg := new(MockRegistrar)
	reg.On("Execute", mock.Anything, mock.Anything).Return(&usecase.RegisterSignupOutput{
		Status: usecase.StatusDuplicate, Message: "Email already registered",
	}, nil)

	rec := submit(NewWaitlistHandler(reg, nil, zap.NewNop()), `{"email":"a@x.com"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "duplicate", decodeStatus(t, rec)["status"])
}

func TestSubmitInvalidJSON(t *testing.T) {
	reg := new(MockRegistrar)

	rec := submit(NewWaitlistHandler(reg, nil, zap.NewNop()), `{"email":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decodeStatus(t, rec)["status"])
	reg.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestSubmitDomainError(t *testing.T) {
	reg := new(MockRegistrar)
	reg.On("Execute", mock.Anything, mock.Anything).Return(nil, &usecase.DomainError{Code: "VALIDATION_ERROR", Message: "validation failed: email (is required)"})

	rec := submit(NewWaitlistHandler(reg, nil, zap.NewNop()), `{"email":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation failed: email (is required)", decodeStatus(t, rec)["message"])
}

func TestSubmitSendFailureCarriesErrorText(t *testing.T) {
	reg := new(MockRegistrar)
	reg.On("Execute", mock.Anything, mock.Anything).Return(nil, &usecase.TechnicalError{
		Code: "SEND_FAILED", Message: "falha ao enviar email", Err: errors.New("smtp: 550 mailbox unavailable"),
	})

	rec := submit(NewWaitlistHandler(reg, nil, zap.NewNop()), `{"email":"a@x.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeStatus(t, rec)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "550 mailbox unavailable")
}

func newTestLimiter(t *testing.T, burst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(RateLimitConfig{Rate: rate.Every(time.Minute), Burst: burst})
	t.Cleanup(rl.Stop)
	return rl
}

func TestSubmitRateLimited(t *testing.T) {
	reg := new(MockRegistrar)
	reg.On("Execute", mock.Anything, mock.Anything).Return(&usecase.RegisterSignupOutput{Status: usecase.StatusSuccess}, nil)
	h := NewWaitlistHandler(reg, newTestLimiter(t, 2), zap.NewNop())

	assert.Equal(t, http.StatusOK, submit(h, `{"email":"a@x.com"}`).Code)
	assert.Equal(t, http.StatusOK, submit(h, `{"email":"b@x.com"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, submit(h, `{"email":"c@x.com"}`).Code)
	reg.AssertNumberOfCalls(t, "Execute", 2)
}

func TestSubmitRateLimitIgnoresForwardedHeaders(t *testing.T) {
	reg := new(MockRegistrar)
	reg.On("Execute", mock.Anything, mock.Anything).Return(&usecase.RegisterSignupOutput{Status: usecase.StatusSuccess}, nil)
	h := NewWaitlistHandler(reg, newTestLimiter(t, 2), zap.NewNop())

	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com"}`))
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("1.2.3.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("4.5.6.%d", i))
		rec := httptest.NewRecorder()
		h.Submit(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 18, limited)
}

func TestRateLimiterKeysArePerPeer(t *testing.T) {
	rl := newTestLimiter(t, 1)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiterEvictsIdleEntries(t *testing.T) {
	rl := newTestLimiter(t, 1)
	rl.Allow("10.0.0.1")

	rl.evict(time.Now().Add(10 * time.Minute))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.entries)
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Rate: 1, Burst: 1})
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.RemoteAddr = "192.0.2.9"
	assert.Equal(t, "192.0.2.9", clientIP(req))
}
