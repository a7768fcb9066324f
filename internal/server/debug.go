package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sentry-server/internal/domain"
	"sentry-server/internal/engine"
	"sentry-server/internal/sentry"
)

// DebugHandler предоставляет доступ к внутреннему состоянию вышек
type DebugHandler struct {
	Service *engine.SentryService
}

func NewDebugHandler(s *engine.SentryService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(r chi.Router) {
	r.Route("/debug", func(r chi.Router) {
		r.Get("/towers", h.handleListTowers)
		r.Get("/towers/{tower}", h.handleTower)
		r.Get("/telemetry", h.handleTelemetry)
	})
}

// /debug/towers - состояние всех вышек на последний тик
func (h *DebugHandler) handleListTowers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Statuses())
}

type towerDump struct {
	Status sentry.Status         `json:"status"`
	Config domain.BehaviorConfig `json:"config"`
}

// /debug/towers/{tower} - состояние и разобранный конфиг одной вышки (имя или id)
func (h *DebugHandler) handleTower(w http.ResponseWriter, r *http.Request) {
	status, cfg, err := h.Service.TowerStatus(chi.URLParam(r, "tower"))
	if errors.Is(err, engine.ErrUnknownTower) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, towerDump{Status: status, Config: cfg})
}

// /debug/telemetry - последняя разосланная телеметрия
func (h *DebugHandler) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Snapshot())
}
