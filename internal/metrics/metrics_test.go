package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"sentry-server/internal/core/types"
	"sentry-server/internal/core/types/enums"
	"sentry-server/internal/domain"
)

// value ищет значение счётчика или gauge по имени и набору label'ов.
func value(t *testing.T, c *Collector, name string, labels map[string]string) float64 {
	t.Helper()
	mfs, err := c.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestCollector_FlowEvents(t *testing.T) {
	c := New()
	tower := types.PackEntityID(enums.EntityKindTower, 0, 7)
	c.SetTowerName(tower, "north")

	c.OnFlowEvent(tower, domain.FlowEventShoot)
	c.OnFlowEvent(tower, domain.FlowEventShoot)
	c.OnFlowEvent(tower, domain.FlowEventBurst)

	if got := value(t, c, "sentry_flow_events_total", map[string]string{"tower": "north", "event": "Shoot"}); got != 2 {
		t.Errorf("expected 2 shots, got %v", got)
	}
	if got := value(t, c, "sentry_flow_events_total", map[string]string{"tower": "north", "event": "Burst"}); got != 1 {
		t.Errorf("expected 1 burst, got %v", got)
	}
}

func TestCollector_UnnamedTowerUsesID(t *testing.T) {
	c := New()
	tower := types.PackEntityID(enums.EntityKindTower, 0, 7)

	c.OnFlowEvent(tower, domain.FlowEventPreshoot)

	label := formatID(tower)
	if got := value(t, c, "sentry_flow_events_total", map[string]string{"tower": label}); got != 1 {
		t.Errorf("expected event labelled by id %s, got %v", label, got)
	}
}

func TestCollector_Transitions(t *testing.T) {
	c := New()

	c.OnStateChange(0, enums.SentryStateIdle, enums.SentryStateIdle)
	c.OnStateChange(0, enums.SentryStateIdle, enums.SentryStateEnemyInView)

	if got := value(t, c, "sentry_state_transitions_total", map[string]string{"from": "IDLE", "to": "IDLE"}); got != 0 {
		t.Errorf("self transition must not be counted, got %v", got)
	}
	if got := value(t, c, "sentry_state_transitions_total", map[string]string{"from": "IDLE", "to": "ENEMY_IN_VIEW"}); got != 1 {
		t.Errorf("expected 1 transition, got %v", got)
	}
}

func TestCollector_ObserveStates(t *testing.T) {
	c := New()

	c.ObserveStates(map[enums.SentryState]int{enums.SentryStateIdle: 3, enums.SentryStateEnemyLost: 1})
	c.ObserveStates(map[enums.SentryState]int{enums.SentryStateIdle: 2})

	if got := value(t, c, "sentry_towers", map[string]string{"state": "IDLE"}); got != 2 {
		t.Errorf("expected 2 idle towers, got %v", got)
	}
	if got := value(t, c, "sentry_towers", map[string]string{"state": "ENEMY_LOST"}); got != 0 {
		t.Errorf("missing state must be reset to 0, got %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.CommandResult(domain.ActionEnable, "ok")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `sentry_commands_total{action="ENABLE",result="ok"} 1`) {
		t.Errorf("expected command counter in output")
	}
}
