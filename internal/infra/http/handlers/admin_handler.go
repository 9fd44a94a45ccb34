package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/rhydle-waitlist/internal/entity"
	"github.com/xavierca1/rhydle-waitlist/internal/usecase"
)

const OriginManual = "MANUAL"

type Scheduler interface {
	ScheduleOneTime(fireAt time.Time)
	Cancel() bool
	Next() (time.Time, bool)
}

// AdminHandler expõe as rotinas manuais do operador.
type AdminHandler struct {
	Repo          entity.SignupRepositoryInterface
	Notifier      usecase.NotificationService
	Sweeper       usecase.SweepService
	Requester     usecase.SweepRequester
	Scheduler     Scheduler
	Columns       entity.ColumnMap
	DefaultFireAt time.Time
	Logger        *zap.Logger
}

type testEmailRequest struct {
	Email string `json:"email"`
}

type scheduleRequest struct {
	FireAt string `json:"fire_at,omitempty"`
}

type ScheduleResponse struct {
	Scheduled bool       `json:"scheduled"`
	FireAt    *time.Time `json:"fire_at,omitempty"`
}

type SignupsResponse struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

func (h *AdminHandler) Routes(r chi.Router) {
	r.Post("/setup", h.SetupHeaders)
	r.Post("/test/{kind}", h.SendTest)
	r.Post("/beta/send-now", h.SendBetaNow)
	r.Post("/beta/sweep", h.RunSweep)
	r.Get("/schedule", h.GetSchedule)
	r.Put("/schedule", h.PutSchedule)
	r.Delete("/schedule", h.DeleteSchedule)
	r.Get("/signups", h.ListSignups)
}

func (h *AdminHandler) SetupHeaders(w http.ResponseWriter, r *http.Request) {
	if err := h.Repo.EnsureHeader(r.Context()); err != nil {
		writeStatus(w, http.StatusInternalServerError, usecase.StatusError, err.Error())
		return
	}
	writeStatus(w, http.StatusOK, "ok", "signup store ready")
}

// SendTest envia um email avulso, sem tocar em nenhum registro.
func (h *AdminHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	kind := entity.NotificationKind(strings.ToUpper(chi.URLParam(r, "kind")))
	if !kind.Valid() {
		writeStatus(w, http.StatusNotFound, usecase.StatusError, "unknown email kind")
		return
	}

	var req testEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeStatus(w, http.StatusBadRequest, usecase.StatusError, "email is required")
		return
	}

	if err := h.Notifier.Execute(r.Context(), usecase.SendNotificationInput{Kind: kind, Email: req.Email}); err != nil {
		writeStatus(w, http.StatusBadGateway, usecase.StatusError, err.Error())
		return
	}
	writeStatus(w, http.StatusOK, usecase.StatusSuccess, "test email sent to "+req.Email)
}

func (h *AdminHandler) SendBetaNow(w http.ResponseWriter, r *http.Request) {
	if err := h.Requester.RequestSweep(r.Context(), OriginManual); err != nil {
		h.Logger.Error("falha ao enfileirar sweep", zap.Error(err))
		writeStatus(w, http.StatusInternalServerError, usecase.StatusError, err.Error())
		return
	}
	writeStatus(w, http.StatusAccepted, "queued", "beta sweep requested")
}

func (h *AdminHandler) RunSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.Sweeper.Execute(r.Context())
	if errors.Is(err, usecase.ErrSweepInProgress) {
		writeStatus(w, http.StatusConflict, usecase.StatusError, err.Error())
		return
	}
	if err != nil {
		writeStatus(w, http.StatusInternalServerError, usecase.StatusError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduleState())
}

// PutSchedule (re)instala o disparo único; sem fire_at usa BETA_LAUNCH_DATE.
func (h *AdminHandler) PutSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	// corpo vazio (inclusive chunked) = usar a data padrão
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeStatus(w, http.StatusBadRequest, usecase.StatusError, "Invalid JSON")
		return
	}

	fireAt := h.DefaultFireAt
	if req.FireAt != "" {
		t, err := time.Parse(time.RFC3339, req.FireAt)
		if err != nil {
			writeStatus(w, http.StatusBadRequest, usecase.StatusError, "fire_at must be RFC3339")
			return
		}
		fireAt = t
	}

	h.Scheduler.ScheduleOneTime(fireAt)
	writeJSON(w, http.StatusOK, h.scheduleState())
}

func (h *AdminHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	h.Scheduler.Cancel()
	writeJSON(w, http.StatusOK, h.scheduleState())
}

func (h *AdminHandler) ListSignups(w http.ResponseWriter, r *http.Request) {
	signups, err := h.Repo.ListAll(r.Context())
	if err != nil {
		writeStatus(w, http.StatusInternalServerError, usecase.StatusError, err.Error())
		return
	}

	resp := SignupsResponse{Header: h.Columns.Header(), Rows: make([][]string, 0, len(signups))}
	for _, s := range signups {
		resp.Rows = append(resp.Rows, s.Row(h.Columns))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) scheduleState() ScheduleResponse {
	at, ok := h.Scheduler.Next()
	if !ok {
		return ScheduleResponse{}
	}
	return ScheduleResponse{Scheduled: true, FireAt: &at}
}
